package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotelbooking/internal/pkg/money"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentPaid              PaymentStatus = "paid"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentPartiallyRefunded:
		return true
	}
	return false
}

type CancellationStatus string

const (
	CancellationPending   CancellationStatus = "pending"
	CancellationApproved  CancellationStatus = "approved"
	CancellationRejected  CancellationStatus = "rejected"
	CancellationProcessed CancellationStatus = "processed"
)

// GuestDetails is the contact of the person holding the booking. Guests
// do not need an account.
type GuestDetails struct {
	FirstName       string `json:"firstName" gorm:"type:varchar(120);not null"`
	LastName        string `json:"lastName,omitempty" gorm:"type:varchar(120)"`
	Email           string `json:"email" gorm:"type:varchar(255);not null;index"`
	Phone           string `json:"phone" gorm:"type:varchar(40);not null"`
	Address         string `json:"address,omitempty" gorm:"type:varchar(255)"`
	IDProof         string `json:"idProof,omitempty" gorm:"type:varchar(120)"`
	SpecialRequests string `json:"specialRequests,omitempty" gorm:"type:text"`
}

// GuestInfo describes an additional guest in the party.
type GuestInfo struct {
	Name string `json:"name"`
	Age  int    `json:"age,omitempty"`
}

// Pricing is fixed when the booking is committed.
type Pricing struct {
	BasePrice    money.Amount `json:"basePrice" gorm:"not null"`
	TaxAmount    money.Amount `json:"taxAmount" gorm:"not null"`
	ExtraCharges money.Amount `json:"extraCharges" gorm:"not null"`
	Discount     money.Amount `json:"discount" gorm:"not null"`
	TotalAmount  money.Amount `json:"totalAmount" gorm:"not null"`
}

type Cancellation struct {
	Requested    bool               `json:"requested" gorm:"not null"`
	RequestedAt  *time.Time         `json:"requestedAt,omitempty"`
	Reason       string             `json:"reason,omitempty" gorm:"type:text"`
	RefundAmount money.Amount       `json:"refundAmount" gorm:"not null"`
	Status       CancellationStatus `json:"status,omitempty" gorm:"type:varchar(16)"`
	ProcessedAt  *time.Time         `json:"processedAt,omitempty"`
}

type Booking struct {
	ID               uuid.UUID                      `json:"id" gorm:"type:uuid;primaryKey"`
	HotelID          uuid.UUID                      `json:"hotelId" gorm:"type:uuid;not null;index"`
	RoomID           uuid.UUID                      `json:"roomId" gorm:"type:uuid;not null;index"`
	CheckIn          time.Time                      `json:"checkIn" gorm:"not null;index"`
	CheckOut         time.Time                      `json:"checkOut" gorm:"not null"`
	Nights           int                            `json:"nights" gorm:"not null"`
	Adults           int                            `json:"adults" gorm:"not null"`
	Children         int                            `json:"children" gorm:"not null"`
	AdditionalGuests datatypes.JSONSlice[GuestInfo] `json:"additionalGuests,omitempty"`
	GuestDetails     GuestDetails                   `json:"guestDetails" gorm:"embedded;embeddedPrefix:guest_"`
	Pricing          Pricing                        `json:"pricing" gorm:"embedded;embeddedPrefix:pricing_"`
	Status           BookingStatus                  `json:"status" gorm:"type:varchar(16);not null;index"`
	PaymentStatus    PaymentStatus                  `json:"paymentStatus" gorm:"type:varchar(24);not null;index"`
	RoomsBooked      int                            `json:"roomsBooked" gorm:"not null;check:chk_bookings_rooms_booked,rooms_booked >= 1"`
	Cancellation     Cancellation                   `json:"cancellation" gorm:"embedded;embeddedPrefix:cancellation_"`
	CreatedAt        time.Time                      `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time                      `json:"updatedAt"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	assignID(&b.ID)
	return nil
}
