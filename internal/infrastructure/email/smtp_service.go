package email

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
	"github.com/rs/zerolog/log"
)

// Sender delivers a rendered HTML email.
type Sender interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

// SMTPConfig is the dialer configuration for SMTPSender.
type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	From          string
	StartTLS      bool
	SkipTLSVerify bool
}

type smtpSender struct {
	cfg    SMTPConfig
	dialer *mail.Dialer
}

// NewSMTPSender returns a Sender that dials the SMTP server for every message.
// Without StartTLS it sends in the clear, which suits MailHog in development.
func NewSMTPSender(cfg SMTPConfig) Sender {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.StartTLS {
		d.StartTLSPolicy = mail.MandatoryStartTLS
		d.TLSConfig = &tls.Config{
			ServerName:         cfg.Host,
			InsecureSkipVerify: cfg.SkipTLSVerify,
		}
	} else {
		d.StartTLSPolicy = mail.NoStartTLS
	}

	return &smtpSender{cfg: cfg, dialer: d}
}

func (s *smtpSender) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if s.cfg.Host == "" || s.cfg.From == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Error().
			Err(err).
			Strs("to", to).
			Str("smtp_host", s.cfg.Host).
			Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
