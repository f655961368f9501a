package vacancy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/money"
	"hotelbooking/internal/repository"
)

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type RoomCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
}

type HotelDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Hotel, error)
}

type AvailabilityStore interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, hotelID, roomID uuid.UUID, day time.Time, def repository.AvailabilityDefaults) (*domain.RoomAvailability, error)
	GetByRoomAndDate(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, day time.Time) (*domain.RoomAvailability, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]domain.RoomAvailability, error)
	OccupancyForHotel(ctx context.Context, hotelID uuid.UUID, day time.Time) ([]repository.NightOccupancy, error)
	SetBlocked(ctx context.Context, tx *gorm.DB, id uuid.UUID, blocked bool, reason string) error
	SetPrice(ctx context.Context, tx *gorm.DB, id uuid.UUID, price money.Amount) error
}

type BookingReader interface {
	ListOverlapping(ctx context.Context, hotelID uuid.UUID, from, to time.Time) ([]domain.Booking, error)
}
