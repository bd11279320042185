package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"yogastudio/internal/domain"
)

type RetreatRepository struct {
	db *gorm.DB
}

func NewRetreatRepository(db *gorm.DB) *RetreatRepository {
	return &RetreatRepository{db: db}
}

func (r *RetreatRepository) GetByID(ctx context.Context, id int64) (*domain.Retreat, error) {
	var ret domain.Retreat
	if err := r.db.WithContext(ctx).First(&ret, id).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *RetreatRepository) ListOpen(ctx context.Context, from time.Time) ([]domain.Retreat, error) {
	var out []domain.Retreat
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_date > ?", domain.RetreatOpen, from).
		Order("start_date asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

type RetreatBookingRepository struct {
	db *gorm.DB
}

func NewRetreatBookingRepository(db *gorm.DB) *RetreatBookingRepository {
	return &RetreatBookingRepository{db: db}
}

// CountHeldSpots counts bookings that occupy a spot, i.e. deposit_paid or
// paid_in_full. Pending bookings hold nothing.
func (r *RetreatBookingRepository) CountHeldSpots(ctx context.Context, retreatID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.RetreatBooking{}).
		Where("retreat_id = ? AND payment_status IN ?", retreatID,
			[]domain.RetreatPaymentStatus{domain.RetreatPaymentDepositPaid, domain.RetreatPaymentPaidInFull}).
		Count(&cnt).Error
	return cnt, err
}

// GetByUserAndRetreat returns the booking for the (user, retreat) pair, or
// nil when none exists.
func (r *RetreatBookingRepository) GetByUserAndRetreat(ctx context.Context, userID, retreatID int64) (*domain.RetreatBooking, error) {
	var b domain.RetreatBooking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND retreat_id = ?", userID, retreatID).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *RetreatBookingRepository) Create(ctx context.Context, b *domain.RetreatBooking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *RetreatBookingRepository) Save(ctx context.Context, b *domain.RetreatBooking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *RetreatBookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.RetreatBooking, error) {
	var out []domain.RetreatBooking
	err := r.db.WithContext(ctx).
		Preload("Retreat").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
