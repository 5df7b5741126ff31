package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-otp-auth/internal/domain"
)

var verNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newVerRepo(api *mockAPI) *VerificationRepo {
	r := NewVerificationRepo(api, "user_verifications")
	r.now = func() time.Time { return verNow }
	return r
}

func entryItem(t *testing.T, e domain.VerificationEntry) map[string]types.AttributeValue {
	item, err := attributevalue.MarshalMap(e)
	require.NoError(t, err)
	return item
}

func TestVerificationRepo_Set(t *testing.T) {
	api := &mockAPI{}
	api.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		var e domain.VerificationEntry
		if err := attributevalue.UnmarshalMap(in.Item, &e); err != nil {
			return false
		}
		return e.Key == "otp:email:a@x.com" && e.Value == "123456" &&
			e.ExpiresAt == verNow.Add(10*time.Minute).Unix()
	})).Return(&dynamodb.PutItemOutput{}, nil)

	err := newVerRepo(api).Set(context.Background(), domain.OTPKey("a@x.com"), "123456", 10*time.Minute)

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestVerificationRepo_GetLive(t *testing.T) {
	api := &mockAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{
		Item: entryItem(t, domain.VerificationEntry{Key: "k", Value: "v", ExpiresAt: verNow.Unix() + 1}),
	}, nil)

	v, err := newVerRepo(api).Get(context.Background(), "k")

	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestVerificationRepo_GetExpiredNotYetSwept(t *testing.T) {
	api := &mockAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{
		Item: entryItem(t, domain.VerificationEntry{Key: "k", Value: "v", ExpiresAt: verNow.Unix()}),
	}, nil)

	_, err := newVerRepo(api).Get(context.Background(), "k")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerificationRepo_GetMissing(t *testing.T) {
	api := &mockAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := newVerRepo(api).Get(context.Background(), "k")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerificationRepo_Delete(t *testing.T) {
	api := &mockAPI{}
	api.On("DeleteItem", mock.Anything, mock.Anything).Return(&dynamodb.DeleteItemOutput{}, nil)

	require.NoError(t, newVerRepo(api).Delete(context.Background(), "k"))
	api.AssertExpectations(t)
}

func TestExpiryUnix_RoundsUp(t *testing.T) {
	assert.Equal(t, verNow.Unix(), expiryUnix(verNow))
	assert.Equal(t, verNow.Unix()+1, expiryUnix(verNow.Add(time.Millisecond)))
}
