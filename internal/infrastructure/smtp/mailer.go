package smtp

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
)

// dialer is the part of gomail.Dialer the mailer uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer delivers plain-text email over SMTP.
type Mailer struct {
	from   string
	dialer dialer
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		from:   cfg.SMTPFrom,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendEmail sends one message. Failures wrap domain.ErrDispatch.
func (m *Mailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send email: %w: %w", domain.ErrDispatch, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w: %w", domain.ErrDispatch, err)
	}
	return nil
}
