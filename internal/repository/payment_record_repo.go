package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"yogastudio/internal/domain"
)

type PaymentRecordRepository struct {
	db *gorm.DB
}

func NewPaymentRecordRepository(db *gorm.DB) *PaymentRecordRepository {
	return &PaymentRecordRepository{db: db}
}

func (r *PaymentRecordRepository) Create(ctx context.Context, p *domain.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByIntentID returns the record for the external intent, or nil when
// none was issued locally.
func (r *PaymentRecordRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	err := r.db.WithContext(ctx).Where("payment_intent_id = ?", intentID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// MarkFailed moves a pending record to failed. Records already in a
// terminal state are left alone.
func (r *PaymentRecordRepository) MarkFailed(ctx context.Context, intentID, reason string) error {
	return r.db.WithContext(ctx).Model(&domain.PaymentRecord{}).
		Where("payment_intent_id = ? AND status = ?", intentID, domain.PaymentRecordPending).
		Updates(map[string]any{
			"status":         domain.PaymentRecordFailed,
			"failure_reason": reason,
		}).Error
}
