package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type RefundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

func (r *RefundRepository) ExistsForBooking(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db, tx).Model(&domain.Refund{}).Where("booking_id = ?", bookingID).Count(&count).Error
	return count > 0, err
}

func (r *RefundRepository) Create(ctx context.Context, tx *gorm.DB, refund *domain.Refund) error {
	return conn(ctx, r.db, tx).Create(refund).Error
}

func (r *RefundRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Refund, error) {
	var out domain.Refund
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&out).Error; err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// List returns all refund requests, newest first.
func (r *RefundRepository) List(ctx context.Context) ([]domain.Refund, error) {
	var out []domain.Refund
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
