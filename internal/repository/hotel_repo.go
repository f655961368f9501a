package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type HotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

func (r *HotelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Hotel, error) {
	var hotel domain.Hotel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&hotel).Error; err != nil {
		return nil, notFound(err)
	}
	return &hotel, nil
}

func (r *HotelRepository) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Hotel, error) {
	var hotels []domain.Hotel
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("created_at asc").Find(&hotels).Error; err != nil {
		return nil, err
	}
	return hotels, nil
}

func (r *HotelRepository) Create(ctx context.Context, hotel *domain.Hotel) error {
	return r.db.WithContext(ctx).Create(hotel).Error
}
