package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-otp-auth/internal/domain"
)

// Dispatch reasons, also used as metric labels.
const (
	reasonRegister = "register"
	reasonResend   = "resend"
	reasonBypass   = "bypass"
)

const (
	subjectInitial = "Your verification code"
	subjectResent  = "Your verification code (resent)"
)

// issueOTP generates a fresh code, overwrites the single live OTP for email and
// dispatches it. The caller is only told the code was sent once delivery succeeded.
func (s *service) issueOTP(ctx context.Context, email, reason string) error {
	code, err := s.codes.Generate()
	if err != nil {
		return domain.Wrap(domain.ErrInternal, domain.CodeOTPGenerationFailed,
			"Failed to generate verification code", err)
	}

	if err := s.ephemeral.Set(ctx, domain.OTPKey(email), code, s.otpTTL); err != nil {
		return domain.Wrap(domain.ErrInternal, domain.CodeOTPStorageFailed,
			"Failed to store verification code. Please try again later.", err)
	}

	subject, body := s.otpMessage(code, reason)
	if err := s.notifier.SendEmail(ctx, email, subject, body); err != nil {
		slog.Error("otp email delivery failed", "email", email, "reason", reason, "err", err)
		return domain.Wrap(domain.ErrInternal, domain.CodeEmailDeliveryFailed,
			"Failed to send verification email", err)
	}

	s.metrics.OTPDispatched(reason)
	slog.Info("otp dispatched", "email", email, "reason", reason)
	return nil
}

func (s *service) otpMessage(code, reason string) (subject, body string) {
	minutes := int(s.otpTTL.Minutes())
	if reason == reasonRegister {
		return subjectInitial, fmt.Sprintf(
			"Your verification code is: %s\nThis code will expire in %d minutes.", code, minutes)
	}
	return subjectResent, fmt.Sprintf(
		"Your new verification code is: %s\nThis code will expire in %d minutes.", code, minutes)
}
