package mailer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ConfirmationDetails is what a booking confirmation email carries.
type ConfirmationDetails struct {
	Title     string
	StartTime time.Time
	Amount    int64
	Currency  string
}

// Notifier delivers booking confirmations. Delivery is best-effort: callers
// dispatch after their transaction commits and only log failures.
type Notifier interface {
	SendConfirmation(ctx context.Context, email, name string, details ConfirmationDetails) error
}

// LogNotifier is the fallback Notifier when no email provider is
// configured. It records what would have been sent.
type LogNotifier struct {
	log *zap.SugaredLogger
}

func NewLogNotifier(log *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendConfirmation(ctx context.Context, email, name string, d ConfirmationDetails) error {
	n.log.Infow("confirmation email (not sent, no provider configured)",
		"to", email,
		"title", d.Title,
		"start_time", d.StartTime,
		"amount", d.Amount,
		"currency", d.Currency,
	)
	return nil
}
