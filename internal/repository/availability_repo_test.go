package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/money"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := database.Open(fmt.Sprintf("file:repository_test_%s?mode=memory&cache=shared", name), database.Options{})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.Migrate(store.DB()); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store.DB()
}

func seedRoom(t *testing.T, db *gorm.DB, totalRooms int, basePrice money.Amount) (*domain.Hotel, *domain.Room) {
	t.Helper()
	ctx := context.Background()

	hotel := &domain.Hotel{VendorID: 10, Name: "Seaside", City: "Goa", IsActive: true}
	require.NoError(t, NewHotelRepository(db).Create(ctx, hotel))

	room := &domain.Room{
		HotelID:    hotel.ID,
		Type:       domain.RoomDeluxe,
		Capacity:   domain.Capacity{Adults: 2, Children: 1, Total: 3},
		BasePrice:  basePrice,
		TaxRate:    10,
		TotalRooms: totalRooms,
		IsActive:   true,
	}
	require.NoError(t, NewRoomRepository(db).Create(ctx, room))
	return hotel, room
}

var night = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

func TestGetOrCreate_CreatesFromDefaults(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 5, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)

	row, err := repo.GetOrCreate(context.Background(), nil, hotel.ID, room.ID, night.Add(15*time.Hour), AvailabilityDefaults{TotalRooms: 5, BasePrice: room.BasePrice})
	require.NoError(t, err)

	assert.Equal(t, 5, row.AvailableRooms)
	assert.Equal(t, domain.AvailabilityOpen, row.Status)
	require.NotNil(t, row.Price)
	assert.Equal(t, money.FromMajor(100), *row.Price)
	assert.True(t, row.Date.Equal(night))
}

func TestGetOrCreate_IsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 5, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()
	def := AvailabilityDefaults{TotalRooms: 5, BasePrice: room.BasePrice}

	first, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night, def)
	require.NoError(t, err)
	require.NoError(t, repo.Decrement(ctx, nil, first.ID, 2))

	// defaults must not overwrite an existing night
	second, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night, AvailabilityDefaults{TotalRooms: 9, BasePrice: 1})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.AvailableRooms)

	var count int64
	require.NoError(t, db.Model(&domain.RoomAvailability{}).Where("room_id = ?", room.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetOrCreate_ConcurrentCallersShareOneRow(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 5, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	def := AvailabilityDefaults{TotalRooms: 5, BasePrice: room.BasePrice}

	var wg sync.WaitGroup
	ids := make(chan string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			row, err := repo.GetOrCreate(context.Background(), nil, hotel.ID, room.ID, night, def)
			if assert.NoError(t, err) {
				ids <- row.ID.String()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 1)
}

func TestGetOrCreate_ZeroInventoryStartsSoldOut(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 0, money.FromMajor(100))

	row, err := NewAvailabilityRepository(db).GetOrCreate(context.Background(), nil, hotel.ID, room.ID, night, AvailabilityDefaults{TotalRooms: 0, BasePrice: room.BasePrice})
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilitySoldOut, row.Status)
	assert.False(t, row.CanTake(1))
}

func TestDecrement_RecomputesStatus(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 3, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()

	row, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night, AvailabilityDefaults{TotalRooms: 3, BasePrice: room.BasePrice})
	require.NoError(t, err)

	require.NoError(t, repo.Decrement(ctx, nil, row.ID, 2))
	got, err := repo.GetByRoomAndDate(ctx, nil, room.ID, night)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableRooms)
	assert.Equal(t, domain.AvailabilityOpen, got.Status)

	require.NoError(t, repo.Decrement(ctx, nil, row.ID, 1))
	got, err = repo.GetByRoomAndDate(ctx, nil, room.ID, night)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableRooms)
	assert.Equal(t, domain.AvailabilitySoldOut, got.Status)
}

func TestDecrement_RejectsInsteadOfClamping(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 2, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()

	row, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night, AvailabilityDefaults{TotalRooms: 2, BasePrice: room.BasePrice})
	require.NoError(t, err)

	err = repo.Decrement(ctx, nil, row.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	got, err := repo.GetByRoomAndDate(ctx, nil, room.ID, night)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableRooms)

	assert.ErrorIs(t, repo.Decrement(ctx, nil, row.ID, 0), ErrInvalidUnits)
}

func TestDecrement_MissingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAvailabilityRepository(db)

	_, room := seedRoom(t, db, 2, money.FromMajor(100))
	err := repo.Decrement(context.Background(), nil, room.ID, 1)
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}

func TestDecrement_BlockedNight(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 4, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()

	row, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night, AvailabilityDefaults{TotalRooms: 4, BasePrice: room.BasePrice})
	require.NoError(t, err)
	require.NoError(t, repo.SetBlocked(ctx, nil, row.ID, true, "renovation"))

	assert.ErrorIs(t, repo.Decrement(ctx, nil, row.ID, 1), ErrInsufficientInventory)

	require.NoError(t, repo.SetBlocked(ctx, nil, row.ID, false, ""))
	got, err := repo.GetByRoomAndDate(ctx, nil, room.ID, night)
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityOpen, got.Status)
	assert.Empty(t, got.BlockReason)
	assert.NoError(t, repo.Decrement(ctx, nil, row.ID, 1))
}

func TestDecrement_ConcurrentNeverOversells(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 5, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()

	row, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night, AvailabilityDefaults{TotalRooms: 5, BasePrice: room.BasePrice})
	require.NoError(t, err)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Decrement(ctx, nil, row.ID, 1); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetByRoomAndDate(ctx, nil, room.ID, night)
	require.NoError(t, err)
	assert.Equal(t, 5, ok)
	assert.Equal(t, 0, got.AvailableRooms)
}

func TestListByRoom_OrderedAndBounded(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 5, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()
	def := AvailabilityDefaults{TotalRooms: 5, BasePrice: room.BasePrice}

	for _, offset := range []int{3, 0, 1, 2} {
		_, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night.AddDate(0, 0, offset), def)
		require.NoError(t, err)
	}

	all, err := repo.ListByRoom(ctx, room.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := range all {
		assert.True(t, all[i].Date.Equal(night.AddDate(0, 0, i)))
	}

	some, err := repo.ListByRoom(ctx, room.ID, night.AddDate(0, 0, 1), night.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, some, 2)
}

func TestOccupancyForHotel(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 5, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()

	row, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night, AvailabilityDefaults{TotalRooms: 5, BasePrice: room.BasePrice})
	require.NoError(t, err)
	require.NoError(t, repo.Decrement(ctx, nil, row.ID, 2))

	rows, err := repo.OccupancyForHotel(ctx, hotel.ID, night)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Occupied())
	assert.Equal(t, 5, rows[0].TotalRooms)
}

func TestSetPrice(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 5, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()

	row, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night, AvailabilityDefaults{TotalRooms: 5, BasePrice: room.BasePrice})
	require.NoError(t, err)
	require.NoError(t, repo.SetPrice(ctx, nil, row.ID, money.FromMajor(150)))

	got, err := repo.GetByRoomAndDate(ctx, nil, room.ID, night)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(150), got.NightlyPrice(room.BasePrice))
}

func TestPurgeUntouchedBefore(t *testing.T) {
	db := setupTestDB(t)
	hotel, room := seedRoom(t, db, 5, money.FromMajor(100))
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()
	def := AvailabilityDefaults{TotalRooms: 5, BasePrice: room.BasePrice}

	untouched, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night, def)
	require.NoError(t, err)
	sold, err := repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night.AddDate(0, 0, 1), def)
	require.NoError(t, err)
	require.NoError(t, repo.Decrement(ctx, nil, sold.ID, 1))
	_, err = repo.GetOrCreate(ctx, nil, hotel.ID, room.ID, night.AddDate(0, 0, 10), def)
	require.NoError(t, err)

	purged, err := repo.PurgeUntouchedBefore(ctx, night.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.GetByRoomAndDate(ctx, nil, room.ID, untouched.Date)
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}
