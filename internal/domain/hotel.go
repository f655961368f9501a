package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hotel is owned by a vendor account. Hotel CRUD lives outside this
// service; bookings only need existence, ownership and the active flag.
type Hotel struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	VendorID    int64     `json:"vendorId" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Address     string    `json:"address,omitempty" gorm:"type:varchar(255)"`
	City        string    `json:"city" gorm:"type:varchar(120);index"`
	IsActive    bool      `json:"isActive" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Hotel) TableName() string {
	return "hotels"
}

func (h *Hotel) BeforeCreate(_ *gorm.DB) error {
	assignID(&h.ID)
	return nil
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
