package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"contacts-crm/internal/models"
)

// Sender delivers a notification over one channel
type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

// Multi delivers a notification over every channel, succeeding if any one does
type Multi []Sender

// Send tries every channel and joins their errors when none succeeds
func (m Multi) Send(ctx context.Context, n models.Notification) error {
	if len(m) == 0 {
		return errors.New("no notification channel configured")
	}
	var errs []error
	delivered := false
	for _, s := range m {
		if err := s.Send(ctx, n); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered = true
	}
	if delivered {
		return nil
	}
	return errors.Join(errs...)
}

// Log only records notifications; used when no delivery channel is configured
type Log struct {
	log zerolog.Logger
}

// NewLog creates a Log sender
func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log.With().Str("component", "Notify").Logger()}
}

// Send logs the notification and never fails
func (l *Log) Send(_ context.Context, n models.Notification) error {
	l.log.Info().Str("to", n.To).Str("phone", n.Phone).Str("subject", n.Subject).Msg("Notification not delivered, no channel configured")
	return nil
}
