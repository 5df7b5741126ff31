package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/go-otp-auth/internal/domain"
)

// Verify checks code against the live OTP for email. On a match the OTP and any
// cooldown are removed, the user is marked verified and a session token issued.
// A mismatch keeps the OTP so the user can retry until it expires.
func (s *service) Verify(ctx context.Context, email, code string) (*VerifyResult, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return nil, domain.NewError(domain.ErrBadRequest, domain.CodeValidationEmailOTPRequired,
			"Email and OTP are required.")
	}

	stored, err := s.ephemeral.Get(ctx, domain.OTPKey(email))
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.Verification("expired")
		return nil, domain.NewError(domain.ErrUnauthorized, domain.CodeOTPExpiredOrInvalid,
			"The OTP has expired or is invalid. Please request a new one.")
	}
	if err != nil {
		return nil, storeFailure(err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		s.metrics.Verification("incorrect")
		return nil, domain.NewError(domain.ErrUnauthorized, domain.CodeOTPIncorrect,
			"The OTP you entered is incorrect.")
	}

	// Single use is best effort: a concurrent verify may already have read the code.
	if err := s.ephemeral.Delete(ctx, domain.OTPKey(email)); err != nil {
		slog.Warn("failed to delete otp", "email", email, "err", err)
	}
	if err := s.ephemeral.Delete(ctx, domain.CooldownKey(email)); err != nil {
		slog.Warn("failed to delete resend cooldown", "email", email, "err", err)
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Wrap(domain.ErrNotFound, domain.CodeUserNotFound,
			"User not found for this email.", err)
	}
	if err != nil {
		return nil, storeFailure(err)
	}
	if !u.Verified {
		if err := s.users.SetVerified(ctx, email); err != nil {
			return nil, storeFailure(err)
		}
		u.Verified = true
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, err
	}
	s.metrics.Verification("verified")
	slog.Info("email verified", "user_id", u.UserID)
	return &VerifyResult{Token: token, Profile: u.Profile()}, nil
}
