package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"contacts-crm/internal/models"
)

var ErrNoRecipient = errors.New("notification has no recipient")

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email delivers notifications over SMTP
type Email struct {
	dialer dialer
	from   string
	log    zerolog.Logger
}

// NewEmail creates an SMTP sender
func NewEmail(host string, port int, user, password, from string, log zerolog.Logger) *Email {
	return &Email{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		log:    log.With().Str("component", "Email").Logger(),
	}
}

// Send mails n to its email recipient
func (e *Email) Send(ctx context.Context, n models.Notification) error {
	if n.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/html", n.HTMLBody)
	if n.Text != "" {
		m.AddAlternative("text/plain", n.Text)
	}

	if err := e.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", n.To, err)
	}
	e.log.Info().Str("to", n.To).Str("subject", n.Subject).Msg("Email sent")
	return nil
}
