package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-otp-auth/internal/domain"
)

// checkCooldown reports whether a user-initiated resend for email is still throttled.
// The marker value is the cooldown deadline in epoch milliseconds.
func (s *service) checkCooldown(ctx context.Context, email string) (bool, time.Time, error) {
	raw, err := s.ephemeral.Get(ctx, domain.CooldownKey(email))
	if errors.Is(err, domain.ErrNotFound) {
		return false, time.Time{}, nil
	}
	if err != nil {
		return false, time.Time{}, err
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("ignoring malformed cooldown marker", "email", email, "value", raw)
		return false, time.Time{}, nil
	}
	until := time.UnixMilli(ms)
	if s.now().Before(until) {
		return true, until, nil
	}
	return false, time.Time{}, nil
}

// setCooldown writes a new marker expiring together with the window it describes.
func (s *service) setCooldown(ctx context.Context, email string) (time.Time, error) {
	until := s.now().Add(s.cooldown)
	value := strconv.FormatInt(until.UnixMilli(), 10)
	if err := s.ephemeral.Set(ctx, domain.CooldownKey(email), value, s.cooldown); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(until.UnixMilli()), nil
}
