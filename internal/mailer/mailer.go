// Package mailer sends transactional email through SMTP.
package mailer

import (
	"fmt"
	"log/slog"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/observability"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Sender delivers a message to one or more recipients.
type Sender interface {
	Send(subject, body string, to ...string) error
}

// Mailer is the SMTP-backed Sender used in production.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	domain string
}

// New builds a Mailer from configuration.
func New(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
		domain: cfg.SMTPHost,
	}
}

// Send delivers a plain-text message. Delivery failures are returned to the
// caller, which for share email runs fire-and-forget and only logs them.
func (m *Mailer) Send(subject, body string, to ...string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), m.domain))
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		observability.ShareEmailsTotal.WithLabelValues("error").Inc()
		middleware.Logger.Error("email delivery failed",
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return err
	}

	observability.ShareEmailsTotal.WithLabelValues("sent").Inc()
	return nil
}
