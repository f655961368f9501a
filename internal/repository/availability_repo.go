package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/calendar"
	"hotelbooking/internal/pkg/money"
)

// AvailabilityDefaults seed a night the first time it is looked at.
type AvailabilityDefaults struct {
	TotalRooms int
	BasePrice  money.Amount
}

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetOrCreate returns the row of roomID for day, inserting it from def when
// missing. Concurrent callers for the same night all get the same row: the
// insert is ON CONFLICT DO NOTHING against the (room_id, date) unique index
// and the row is then read back with FOR UPDATE.
func (r *AvailabilityRepository) GetOrCreate(ctx context.Context, tx *gorm.DB, hotelID, roomID uuid.UUID, day time.Time, def AvailabilityDefaults) (*domain.RoomAvailability, error) {
	db := conn(ctx, r.db, tx)
	day = calendar.Normalize(day)

	price := def.BasePrice
	row := domain.RoomAvailability{
		HotelID:        hotelID,
		RoomID:         roomID,
		Date:           day,
		Status:         domain.StatusFor(def.TotalRooms),
		AvailableRooms: def.TotalRooms,
		Price:          &price,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil && !database.IsUniqueViolation(err) {
		return nil, err
	}

	var out domain.RoomAvailability
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ? AND date = ?", roomID, day).
		First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, err
	}
	return &out, nil
}

// Decrement takes units rooms out of a night in one conditional UPDATE and
// recomputes the status. It never clamps: a night that cannot cover units,
// or is blocked, fails with ErrInsufficientInventory.
func (r *AvailabilityRepository) Decrement(ctx context.Context, tx *gorm.DB, id uuid.UUID, units int) error {
	if units <= 0 {
		return ErrInvalidUnits
	}
	db := conn(ctx, r.db, tx)

	res := db.Model(&domain.RoomAvailability{}).
		Where("id = ? AND available_rooms >= ? AND is_blocked = ? AND status <> ?", id, units, false, string(domain.AvailabilityBlocked)).
		Updates(map[string]any{
			"available_rooms": gorm.Expr("available_rooms - ?", units),
			"status": gorm.Expr("CASE WHEN available_rooms - ? <= 0 THEN ? ELSE ? END",
				units, string(domain.AvailabilitySoldOut), string(domain.AvailabilityOpen)),
		})
	if res.Error != nil {
		if database.IsCheckViolation(res.Error) {
			return ErrInsufficientInventory
		}
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.Model(&domain.RoomAvailability{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrAvailabilityNotFound
	}
	return ErrInsufficientInventory
}

func (r *AvailabilityRepository) GetByRoomAndDate(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, day time.Time) (*domain.RoomAvailability, error) {
	var out domain.RoomAvailability
	err := conn(ctx, r.db, tx).
		Where("room_id = ? AND date = ?", roomID, calendar.Normalize(day)).
		First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, err
	}
	return &out, nil
}

// ListByRoom returns the known nights of a room ordered by date. A zero
// from or to leaves that side open.
func (r *AvailabilityRepository) ListByRoom(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]domain.RoomAvailability, error) {
	q := r.db.WithContext(ctx).Where("room_id = ?", roomID)
	if !from.IsZero() {
		q = q.Where("date >= ?", calendar.Normalize(from))
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", calendar.Normalize(to))
	}

	var rows []domain.RoomAvailability
	if err := q.Order("date asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// NightOccupancy is one room's inventory for one night joined with the
// room ceiling.
type NightOccupancy struct {
	RoomID         uuid.UUID
	Date           time.Time
	TotalRooms     int
	AvailableRooms int
	IsBlocked      bool
}

func (n NightOccupancy) Occupied() int {
	if n.IsBlocked {
		return 0
	}
	if occupied := n.TotalRooms - n.AvailableRooms; occupied > 0 {
		return occupied
	}
	return 0
}

func (r *AvailabilityRepository) OccupancyForHotel(ctx context.Context, hotelID uuid.UUID, day time.Time) ([]NightOccupancy, error) {
	var rows []NightOccupancy
	err := r.db.WithContext(ctx).
		Table("room_availabilities AS ra").
		Select("ra.room_id AS room_id, ra.date AS date, r.total_rooms AS total_rooms, ra.available_rooms AS available_rooms, ra.is_blocked AS is_blocked").
		Joins("JOIN rooms AS r ON r.id = ra.room_id").
		Where("ra.hotel_id = ? AND ra.date = ?", hotelID, calendar.Normalize(day)).
		Order("ra.room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SetBlocked blocks or unblocks a night. Unblocking restores the status
// from the remaining count.
func (r *AvailabilityRepository) SetBlocked(ctx context.Context, tx *gorm.DB, id uuid.UUID, blocked bool, reason string) error {
	updates := map[string]any{
		"is_blocked":   blocked,
		"block_reason": reason,
	}
	if blocked {
		updates["status"] = string(domain.AvailabilityBlocked)
	} else {
		updates["block_reason"] = ""
		updates["status"] = gorm.Expr("CASE WHEN available_rooms <= 0 THEN ? ELSE ? END",
			string(domain.AvailabilitySoldOut), string(domain.AvailabilityOpen))
	}

	res := conn(ctx, r.db, tx).Model(&domain.RoomAvailability{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

func (r *AvailabilityRepository) SetPrice(ctx context.Context, tx *gorm.DB, id uuid.UUID, price money.Amount) error {
	res := conn(ctx, r.db, tx).Model(&domain.RoomAvailability{}).Where("id = ?", id).Update("price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

// PurgeUntouchedBefore deletes past nights that were created on lookup but
// never sold, blocked or repriced.
func (r *AvailabilityRepository) PurgeUntouchedBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("date < ? AND is_blocked = ?", calendar.Normalize(before), false).
		Where("available_rooms = (SELECT total_rooms FROM rooms WHERE rooms.id = room_availabilities.room_id)").
		Where("(price IS NULL OR price = (SELECT base_price FROM rooms WHERE rooms.id = room_availabilities.room_id))").
		Delete(&domain.RoomAvailability{})
	return res.RowsAffected, res.Error
}
