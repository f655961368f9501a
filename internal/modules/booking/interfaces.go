package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/money"
	"hotelbooking/internal/repository"
)

// Transactor runs fn inside one all-or-nothing transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type RoomCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
}

type HotelDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Hotel, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]domain.Hotel, error)
}

// AvailabilityStore is the per-night inventory. Both calls must run on the
// transaction handle they are given.
type AvailabilityStore interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, hotelID, roomID uuid.UUID, day time.Time, def repository.AvailabilityDefaults) (*domain.RoomAvailability, error)
	Decrement(ctx context.Context, tx *gorm.DB, id uuid.UUID, units int) error
}

type BookingLedger interface {
	Create(ctx context.Context, tx *gorm.DB, b *domain.Booking) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Booking, error)
	ListByHotel(ctx context.Context, hotelID uuid.UUID, f repository.BookingFilter) ([]domain.Booking, error)
	CountByMonth(ctx context.Context, hotelID *uuid.UUID, year int) ([12]int, error)
	TotalAmount(ctx context.Context) (money.Amount, error)
	EarningsForHotels(ctx context.Context, hotelIDs []uuid.UUID) (repository.Earnings, error)
}

// EventPublisher receives committed bookings. Publish must not block.
type EventPublisher interface {
	Publish(hotelID uuid.UUID, eventType string, payload any)
}
