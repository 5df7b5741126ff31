package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/validate"
)

// Resend re-issues an OTP for an unverified user. Unless BypassCooldown is set,
// an active cooldown yields Blocked=true, and a successful resend starts a new window.
func (s *service) Resend(ctx context.Context, email string, opts ResendOptions) (*ResendResult, error) {
	email = normalizeEmail(email)
	if !validate.Email(email) {
		return nil, domain.NewError(domain.ErrBadRequest, domain.CodeValidationEmailInvalid,
			"Please provide a valid email address.")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Wrap(domain.ErrNotFound, domain.CodeUserNotFound,
			"User not found for this email.", err)
	}
	if err != nil {
		return nil, storeFailure(err)
	}
	if u.Verified {
		return nil, domain.NewError(domain.ErrConflict, domain.CodeEmailAlreadyVerified,
			"This email is already verified. Please log in.")
	}

	if !opts.BypassCooldown {
		blocked, until, err := s.checkCooldown(ctx, email)
		if err != nil {
			return nil, storeFailure(err)
		}
		if blocked {
			s.metrics.ResendBlocked()
			return &ResendResult{Blocked: true, CooldownUntil: &until, Code: domain.CodeOTPResendCooldown}, nil
		}
	}

	reason := reasonResend
	if opts.BypassCooldown {
		reason = reasonBypass
	}
	if err := s.issueOTP(ctx, email, reason); err != nil {
		return nil, err
	}

	res := &ResendResult{Code: domain.CodeOTPResentSuccess}
	if opts.BypassCooldown {
		return res, nil
	}
	until, err := s.setCooldown(ctx, email)
	if err != nil {
		// The code was delivered; reporting failure now would be wrong.
		slog.Warn("failed to write resend cooldown", "email", email, "err", err)
		return res, nil
	}
	res.CooldownUntil = &until
	return res, nil
}
