package notify

import (
	"context"
	"log/slog"
)

// Log is a dispatcher that records notifications instead of delivering
// them. It is the default when no SMTP relay is configured.
type Log struct{}

// NewLog creates a logging dispatcher
func NewLog() *Log {
	return &Log{}
}

// Send logs the notification and always succeeds
func (l *Log) Send(ctx context.Context, recipient, subject, body string) error {
	slog.Info("notification (dry run)",
		"recipient", recipient,
		"subject", subject,
		"body_len", len(body),
	)
	return nil
}
