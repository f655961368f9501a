package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

// RoomRepository is the read side of the room catalog. Room CRUD is owned
// by the catalog service; Create exists for seeding.
type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error) {
	var rooms []domain.Room
	if err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("created_at asc").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}
