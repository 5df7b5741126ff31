package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-otp-auth/internal/domain"
	jwtinfra "github.com/go-otp-auth/internal/infrastructure/jwt"
)

func newTestProvider() *jwtinfra.Provider {
	return jwtinfra.NewHS256([]byte("test-secret"))
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func decodeCode(t *testing.T, rr *httptest.ResponseRecorder) domain.Code {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.False(t, body.Success)
	return body.Code
}

func TestAuth_MissingHeader(t *testing.T) {
	p := newTestProvider()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(p)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, domain.CodeTokenMissing, decodeCode(t, rr))
}

func TestAuth_EmptyBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer ")
	rr := httptest.NewRecorder()
	Auth(newTestProvider())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_BadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	Auth(newTestProvider())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, domain.CodeTokenInvalid, decodeCode(t, rr))
}

func TestAuth_ForeignKey(t *testing.T) {
	signed, err := jwtinfra.NewHS256([]byte("other-secret")).Sign(domain.SessionClaims{SubjectID: "u1"}, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(newTestProvider())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAuth_ValidToken_InjectsClaims(t *testing.T) {
	p := newTestProvider()
	signed, err := p.Sign(domain.SessionClaims{
		SubjectID: "u1", Email: "a@x.com", Verified: true, Purpose: domain.PurposeAuth,
	}, time.Minute)
	require.NoError(t, err)

	var gotClaims *jwtinfra.Claims
	captureHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(p)(captureHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "u1", gotClaims.SubjectID)
	assert.Equal(t, "a@x.com", gotClaims.Email)
}

func withClaims(c *jwtinfra.Claims) *http.Request {
	ctx := context.WithValue(context.Background(), ClaimsKey, c)
	return httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
}

func TestRequireVerified_NoClaimsInContext(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireVerified(http.HandlerFunc(okHandler)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireVerified_Unverified(t *testing.T) {
	c := &jwtinfra.Claims{SessionClaims: domain.SessionClaims{Purpose: domain.PurposeAuth}}
	rr := httptest.NewRecorder()
	RequireVerified(http.HandlerFunc(okHandler)).ServeHTTP(rr, withClaims(c))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, domain.CodeEmailNotVerified, decodeCode(t, rr))
}

func TestRequireVerified_WrongPurpose(t *testing.T) {
	c := &jwtinfra.Claims{SessionClaims: domain.SessionClaims{Verified: true, Purpose: "reset"}}
	rr := httptest.NewRecorder()
	RequireVerified(http.HandlerFunc(okHandler)).ServeHTTP(rr, withClaims(c))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireVerified_OK(t *testing.T) {
	c := &jwtinfra.Claims{SessionClaims: domain.SessionClaims{Verified: true, Purpose: domain.PurposeAuth}}
	rr := httptest.NewRecorder()
	RequireVerified(http.HandlerFunc(okHandler)).ServeHTTP(rr, withClaims(c))
	assert.Equal(t, http.StatusOK, rr.Code)
}
