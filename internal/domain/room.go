package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotelbooking/internal/pkg/money"
)

type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomDeluxe   RoomType = "deluxe"
	RoomSuite    RoomType = "suite"
	RoomFamily   RoomType = "family"
)

// Capacity is the guest limit of a single room unit. Total is the
// binding limit; Adults and Children are informational.
type Capacity struct {
	Adults   int `json:"adults" gorm:"not null"`
	Children int `json:"children" gorm:"not null"`
	Total    int `json:"total" gorm:"not null"`
}

// Room is a room type of a hotel with TotalRooms identical units.
type Room struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	HotelID     uuid.UUID                   `json:"hotelId" gorm:"type:uuid;not null;index"`
	Type        RoomType                    `json:"type" gorm:"type:varchar(32);not null"`
	Description string                      `json:"description,omitempty" gorm:"type:text"`
	Capacity    Capacity                    `json:"capacity" gorm:"embedded;embeddedPrefix:capacity_"`
	BasePrice   money.Amount                `json:"basePrice" gorm:"not null"`
	TaxRate     float64                     `json:"taxRate" gorm:"not null"`
	TotalRooms  int                         `json:"totalRooms" gorm:"not null;check:chk_rooms_total_rooms,total_rooms >= 0"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	IsActive    bool                        `json:"isActive" gorm:"not null"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (Room) TableName() string {
	return "rooms"
}

func (r *Room) BeforeCreate(_ *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// Fits reports whether a party of adults and children fits in one unit.
func (r *Room) Fits(adults, children int) bool {
	return adults+children <= r.Capacity.Total
}
