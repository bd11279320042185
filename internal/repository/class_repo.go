package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"yogastudio/internal/domain"
)

type ClassRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*domain.ClassInstance, error) {
	var c domain.ClassInstance
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClassRepository) ListUpcoming(ctx context.Context, from time.Time, limit, offset int) ([]domain.ClassInstance, error) {
	var out []domain.ClassInstance
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time > ?", domain.ClassOpen, from).
		Order("start_time asc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
