package mailer

import (
	"context"
	"fmt"

	"orbit-hr-backend/config"

	"gopkg.in/gomail.v2"
)

// Sender delivers candidate notifications.
type Sender interface {
	SendRejection(ctx context.Context, to, name string) error
}

type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// New returns an SMTP sender, or Nop when no host is configured.
func New(cfg config.SMTPConfig) Sender {
	if cfg.Host == "" {
		return Nop{}
	}
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTP) SendRejection(_ context.Context, to, name string) error {
	if err := s.dialer.DialAndSend(RejectionMessage(s.from, to, name)); err != nil {
		return fmt.Errorf("send rejection to %s: %w", to, err)
	}
	return nil
}

// RejectionMessage builds the plain-text notice sent when a candidate is rejected.
func RejectionMessage(from, to, name string) *gomail.Message {
	if name == "" {
		name = "Candidate"
	}
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Update on your application")
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nThank you for your interest and the time you spent in our selection process. "+
			"After careful consideration we will not be moving forward with your application at this time.\n\n"+
			"We wish you every success.\n\nOrbit HR Team\n", name))
	return m
}

type Nop struct{}

func (Nop) SendRejection(context.Context, string, string) error { return nil }
