package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an unverified user and sends the first OTP, or re-issues an
// OTP for an existing unverified user. A verified email is a conflict.
//
// The user record is written before the OTP is stored and sent. When either of
// those fails the record stays unverified with no usable code and the call fails;
// registering again (or logging in) re-issues a code.
func (s *service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	email := normalizeEmail(in.Email)
	if !validate.Email(email) {
		return nil, domain.NewError(domain.ErrBadRequest, domain.CodeValidationEmailInvalid,
			"Please provide a valid email address.")
	}
	if in.Password == "" {
		return nil, domain.NewError(domain.ErrBadRequest, domain.CodeValidationEmailPasswordRequired,
			"Email and password are required.")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return s.registerExisting(ctx, existing)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, storeFailure(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, domain.Wrap(domain.ErrInternal, domain.CodeInternal, "Failed to hash password", err)
	}

	now := s.now().UTC()
	u := &domain.User{
		UserID:       s.newID(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Division:     in.Division,
		District:     in.District,
		Upazila:      in.Upazila,
		Address:      in.Address,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, storeFailure(err)
		}
		// A concurrent registration for the same email won the insert.
		existing, ferr := s.users.FindByEmail(ctx, email)
		if ferr != nil {
			return nil, storeFailure(ferr)
		}
		return s.registerExisting(ctx, existing)
	}

	if err := s.issueOTP(ctx, email, reasonRegister); err != nil {
		s.metrics.Registration("otp_failed")
		slog.Warn("user created without a delivered otp", "user_id", u.UserID, "err", err)
		return nil, err
	}

	s.metrics.Registration(string(StatusCreated))
	return &RegisterResult{Status: StatusCreated, Email: email}, nil
}

func (s *service) registerExisting(ctx context.Context, u *domain.User) (*RegisterResult, error) {
	if u.Verified {
		s.metrics.Registration("conflict")
		return nil, domain.NewError(domain.ErrConflict, domain.CodeEmailAlreadyRegisteredVerified,
			"Email is already registered and verified.")
	}
	if _, err := s.Resend(ctx, u.Email, ResendOptions{BypassCooldown: true}); err != nil {
		return nil, err
	}
	s.metrics.Registration(string(StatusPendingVerification))
	return &RegisterResult{Status: StatusPendingVerification, Email: u.Email}, nil
}
