package booking

import (
	"context"

	"yogastudio/internal/domain"
	"yogastudio/internal/mailer"
)

// ClassReader loads class instances for the advisory checks.
type ClassReader interface {
	GetByID(ctx context.Context, id int64) (*domain.ClassInstance, error)
}

// ReservationReader covers the reads performed outside the confirmation
// transaction. Writes happen inside the transaction only.
type ReservationReader interface {
	CountConfirmedForClass(ctx context.Context, classInstanceID int64) (int64, error)
	GetByUserAndClass(ctx context.Context, userID, classInstanceID int64) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error)
}

// PaymentRecordStore tracks the local mirror of external payment intents.
type PaymentRecordStore interface {
	Create(ctx context.Context, p *domain.PaymentRecord) error
	GetByIntentID(ctx context.Context, intentID string) (*domain.PaymentRecord, error)
	MarkFailed(ctx context.Context, intentID, reason string) error
}

// UserReader resolves the user for the confirmation email.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier delivers the post-commit confirmation email, best-effort.
type Notifier interface {
	SendConfirmation(ctx context.Context, email, name string, details mailer.ConfirmationDetails) error
}
