package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"yogastudio/internal/domain"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// CountConfirmedForClass derives the taken-seat count live. There is no
// stored counter to drift.
func (r *ReservationRepository) CountConfirmedForClass(ctx context.Context, classInstanceID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Reservation{}).
		Where("class_instance_id = ? AND status = ?", classInstanceID, domain.ReservationConfirmed).
		Count(&cnt).Error
	return cnt, err
}

// GetByUserAndClass returns the reservation for the (user, class) pair, or
// nil when none exists.
func (r *ReservationRepository) GetByUserAndClass(ctx context.Context, userID, classInstanceID int64) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND class_instance_id = ?", userID, classInstanceID).
		First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.db.WithContext(ctx).
		Preload("ClassInstance").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
