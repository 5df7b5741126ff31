package auth

import (
	"context"
	"errors"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

func invalidCredentials() error {
	return domain.NewError(domain.ErrUnauthorized, domain.CodeValidationEmailPasswordInvalid,
		"Invalid email or password.")
}

// Login checks credentials. Unknown email and wrong password fail identically.
// An unverified user gets a fresh OTP (no cooldown) and no token.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if !validate.Email(email) || password == "" {
		return nil, domain.NewError(domain.ErrBadRequest, domain.CodeValidationEmailPasswordRequired,
			"Email and password are required.")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// Burn the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.metrics.Login("invalid_credentials")
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, storeFailure(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.metrics.Login("invalid_credentials")
		return nil, invalidCredentials()
	}

	if !u.Verified {
		if _, err := s.Resend(ctx, email, ResendOptions{BypassCooldown: true}); err != nil {
			return nil, err
		}
		s.metrics.Login(string(StatusPendingVerification))
		return &LoginResult{Status: StatusPendingVerification, Email: email}, nil
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, err
	}
	s.metrics.Login(string(StatusLoggedIn))
	return &LoginResult{Status: StatusLoggedIn, Email: email, Token: token, Profile: u.Profile()}, nil
}

func (s *service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equaliser"), s.bcryptCost)
	})
	return s.dummyHash
}
