package refund

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type BookingLedger interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Booking, error)
	UpdateCancellation(ctx context.Context, tx *gorm.DB, id uuid.UUID, c domain.Cancellation) error
}

type RefundStore interface {
	ExistsForBooking(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, refund *domain.Refund) error
	List(ctx context.Context) ([]domain.Refund, error)
}
