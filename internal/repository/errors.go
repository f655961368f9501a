package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound              = errors.New("record not found")
	ErrAvailabilityNotFound  = errors.New("availability record not found")
	ErrInsufficientInventory = errors.New("insufficient rooms for the night")
	ErrInvalidUnits          = errors.New("units must be positive")
)

// conn returns tx when the caller is inside a transaction, the base handle
// otherwise. Inside a transaction every call must go through tx.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
