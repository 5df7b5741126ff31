package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	jwtinfra "github.com/go-otp-auth/internal/infrastructure/jwt"
	"github.com/go-otp-auth/internal/infrastructure/metrics"
)

type stubService struct{}

func (stubService) Register(context.Context, auth.RegisterInput) (*auth.RegisterResult, error) {
	return &auth.RegisterResult{Status: auth.StatusCreated, Email: "a@x.com"}, nil
}

func (stubService) Verify(context.Context, string, string) (*auth.VerifyResult, error) {
	return nil, domain.NewError(domain.ErrUnauthorized, domain.CodeOTPIncorrect, "The OTP you entered is incorrect.")
}

func (stubService) Resend(context.Context, string, auth.ResendOptions) (*auth.ResendResult, error) {
	return &auth.ResendResult{Code: domain.CodeOTPResentSuccess}, nil
}

func (stubService) Login(context.Context, string, string) (*auth.LoginResult, error) {
	return &auth.LoginResult{Status: auth.StatusLoggedIn, Token: "tok"}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *jwtinfra.Provider) {
	t.Helper()
	provider := jwtinfra.NewHS256([]byte("router-test-secret"))
	h, stop := NewRouter(&config.Config{AllowedOrigins: []string{"*"}}, &Deps{
		AuthService:   stubService{},
		TokenVerifier: provider,
		Metrics:       metrics.New(),
	})
	t.Cleanup(stop)
	return h, provider
}

func serve(h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := serve(h, http.MethodPost, "/api/auth/otp/resend", `{"email":"a@x.com"}`, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), string(domain.CodeOTPResentSuccess))

	rr = serve(h, http.MethodPost, "/api/auth/otp/verify", `{"email":"a@x.com","otp":"123456"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(h, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"Secret1!"}`, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_MeRequiresToken(t *testing.T) {
	h, provider := newTestRouter(t)

	rr := serve(h, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	tok, err := provider.Sign(domain.SessionClaims{
		SubjectID: "u1", Email: "a@x.com", Verified: true, Purpose: domain.PurposeAuth,
	}, time.Minute)
	require.NoError(t, err)

	rr = serve(h, http.MethodGet, "/api/auth/me", "", http.Header{"Authorization": {"Bearer " + tok}})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"userId":"u1"`)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := serve(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "otpauth_http_rate_limited_total")
}

func TestRouter_RateLimitsSensitiveRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	var limited bool
	for i := 0; i < 20; i++ {
		rr := serve(h, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"Secret1!"}`, nil)
		if rr.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}
