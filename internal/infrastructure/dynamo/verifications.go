package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/go-otp-auth/internal/domain"
)

// VerificationRepo is a table-backed ephemeral store for OTPs and cooldown markers.
// PK: key. DynamoDB TTL on expires_at removes items lazily, so reads also
// treat anything past its expiry as absent.
type VerificationRepo struct {
	client    ItemAPI
	tableName string
	now       func() time.Time
}

func NewVerificationRepo(client ItemAPI, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName, now: time.Now}
}

func (r *VerificationRepo) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("put verification %q: ttl must be positive", key)
	}
	item, err := attributevalue.MarshalMap(domain.VerificationEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: expiryUnix(r.now().Add(ttl)),
	})
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put verification %q: %w", key, err)
	}
	return nil
}

func (r *VerificationRepo) Get(ctx context.Context, key string) (string, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldKey, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get verification %q: %w", key, err)
	}
	if out.Item == nil {
		return "", fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.VerificationEntry
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return "", fmt.Errorf("unmarshal verification: %w", err)
	}
	if r.now().Unix() >= v.ExpiresAt {
		return "", fmt.Errorf("verification expired: %w", domain.ErrNotFound)
	}
	return v.Value, nil
}

func (r *VerificationRepo) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldKey, key),
	})
	if err != nil {
		return fmt.Errorf("delete verification %q: %w", key, err)
	}
	return nil
}

// expiryUnix rounds up so an entry never expires before its TTL.
func expiryUnix(t time.Time) int64 {
	s := t.Unix()
	if t.Nanosecond() > 0 {
		s++
	}
	return s
}
