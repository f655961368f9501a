package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotelbooking/internal/pkg/money"
)

type AvailabilityStatus string

const (
	AvailabilityOpen    AvailabilityStatus = "available"
	AvailabilitySoldOut AvailabilityStatus = "sold_out"
	AvailabilityBlocked AvailabilityStatus = "blocked"
)

// RoomAvailability is the inventory counter of one room for one night.
// Rows are created lazily the first time a night is looked at.
type RoomAvailability struct {
	ID             uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	HotelID        uuid.UUID          `json:"hotelId" gorm:"type:uuid;not null;index"`
	RoomID         uuid.UUID          `json:"roomId" gorm:"type:uuid;not null;uniqueIndex:idx_room_availability_room_date,priority:1"`
	Date           time.Time          `json:"date" gorm:"not null;uniqueIndex:idx_room_availability_room_date,priority:2;index"`
	Status         AvailabilityStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	AvailableRooms int                `json:"availableRooms" gorm:"not null;check:chk_room_availabilities_available_rooms,available_rooms >= 0"`
	Price          *money.Amount      `json:"price"`
	IsBlocked      bool               `json:"isBlocked" gorm:"not null"`
	BlockReason    string             `json:"blockReason,omitempty" gorm:"type:varchar(255)"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

func (RoomAvailability) TableName() string {
	return "room_availabilities"
}

func (a *RoomAvailability) BeforeCreate(_ *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// NightlyPrice is the override price when set, the room's base price otherwise.
func (a *RoomAvailability) NightlyPrice(base money.Amount) money.Amount {
	if a.Price != nil {
		return *a.Price
	}
	return base
}

// CanTake reports whether units rooms can still be sold for this night.
func (a *RoomAvailability) CanTake(units int) bool {
	if a.IsBlocked || a.Status == AvailabilityBlocked || a.Status == AvailabilitySoldOut {
		return false
	}
	return a.AvailableRooms >= units
}

// StatusFor derives the status of an unblocked night from its remaining count.
func StatusFor(available int) AvailabilityStatus {
	if available <= 0 {
		return AvailabilitySoldOut
	}
	return AvailabilityOpen
}
