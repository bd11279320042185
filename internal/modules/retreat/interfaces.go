package retreat

import (
	"context"

	"yogastudio/internal/domain"
	"yogastudio/internal/mailer"
)

type RetreatReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Retreat, error)
}

// BookingStore covers the reads and the pending-row writes performed
// outside the confirmation transaction.
type BookingStore interface {
	CountHeldSpots(ctx context.Context, retreatID int64) (int64, error)
	GetByUserAndRetreat(ctx context.Context, userID, retreatID int64) (*domain.RetreatBooking, error)
	Create(ctx context.Context, b *domain.RetreatBooking) error
	Save(ctx context.Context, b *domain.RetreatBooking) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.RetreatBooking, error)
}

type PaymentRecordStore interface {
	Create(ctx context.Context, p *domain.PaymentRecord) error
	MarkFailed(ctx context.Context, intentID, reason string) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Notifier interface {
	SendConfirmation(ctx context.Context, email, name string, details mailer.ConfirmationDetails) error
}
