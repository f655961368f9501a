package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotelbooking/internal/pkg/money"
)

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundApproved  RefundStatus = "approved"
	RefundRejected  RefundStatus = "rejected"
	RefundProcessed RefundStatus = "processed"
	RefundFailed    RefundStatus = "failed"
)

// RefundGuest is the guest contact copied from the booking at request time.
type RefundGuest struct {
	FirstName string `json:"firstName" gorm:"type:varchar(120);not null"`
	LastName  string `json:"lastName,omitempty" gorm:"type:varchar(120)"`
	Email     string `json:"email" gorm:"type:varchar(255);not null"`
	Phone     string `json:"phone" gorm:"type:varchar(40)"`
}

// Refund is a refund request. There is at most one per booking.
type Refund struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	BookingID       uuid.UUID    `json:"bookingId" gorm:"type:uuid;not null;uniqueIndex"`
	HotelID         uuid.UUID    `json:"hotelId" gorm:"type:uuid;not null;index"`
	RoomID          uuid.UUID    `json:"roomId" gorm:"type:uuid;not null"`
	Guest           RefundGuest  `json:"guest" gorm:"embedded;embeddedPrefix:guest_"`
	AmountRequested money.Amount `json:"amountRequested" gorm:"not null"`
	AmountActual    money.Amount `json:"amountActual" gorm:"not null"`
	Reason          string       `json:"reason" gorm:"type:text;not null"`
	RefundStatus    RefundStatus `json:"refundStatus" gorm:"type:varchar(16);not null;index"`
	CreatedAt       time.Time    `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func (Refund) TableName() string {
	return "refunds"
}

func (r *Refund) BeforeCreate(_ *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
