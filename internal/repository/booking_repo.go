package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/money"
)

// BookingRepository is the booking ledger. Pricing is written once by
// Create; no method here changes it afterwards.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type BookingFilter struct {
	RoomID        *uuid.UUID
	PaymentStatus domain.PaymentStatus
}

type Earnings struct {
	BookingsCount int64        `gorm:"column:bookings_count"`
	TotalEarnings money.Amount `gorm:"column:total_earnings"`
}

func (r *BookingRepository) Create(ctx context.Context, tx *gorm.DB, b *domain.Booking) error {
	return conn(ctx, r.db, tx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	if err := conn(ctx, r.db, tx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID uuid.UUID, f BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if f.RoomID != nil {
		q = q.Where("room_id = ?", *f.RoomID)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", string(f.PaymentStatus))
	}

	var out []domain.Booking
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListOverlapping returns the live bookings of a hotel that cover at least
// one night in [from, to).
func (r *BookingRepository) ListOverlapping(ctx context.Context, hotelID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND check_in < ? AND check_out > ?", hotelID, to, from).
		Where("status NOT IN ?", []string{string(domain.BookingCancelled), string(domain.BookingNoShow)}).
		Order("check_in asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountByMonth buckets bookings created in year by month (index 0 is
// January). hotelID may be nil for all hotels. Bucketing happens here
// rather than in SQL so both dialects behave the same.
func (r *BookingRepository) CountByMonth(ctx context.Context, hotelID *uuid.UUID, year int) ([12]int, error) {
	var counts [12]int

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	q := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("created_at >= ? AND created_at < ?", start, start.AddDate(1, 0, 0))
	if hotelID != nil {
		q = q.Where("hotel_id = ?", *hotelID)
	}

	var created []time.Time
	if err := q.Pluck("created_at", &created).Error; err != nil {
		return counts, err
	}
	for _, t := range created {
		counts[t.UTC().Month()-1]++
	}
	return counts, nil
}

func (r *BookingRepository) TotalAmount(ctx context.Context) (money.Amount, error) {
	var total money.Amount
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Select("COALESCE(SUM(pricing_total_amount), 0)").
		Row().Scan(&total)
	return total, err
}

func (r *BookingRepository) EarningsForHotels(ctx context.Context, hotelIDs []uuid.UUID) (Earnings, error) {
	var out Earnings
	if len(hotelIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Select("COUNT(*) AS bookings_count, COALESCE(SUM(pricing_total_amount), 0) AS total_earnings").
		Where("hotel_id IN ?", hotelIDs).
		Scan(&out).Error
	return out, err
}

// UpdateCancellation overwrites the cancellation sub-record only.
func (r *BookingRepository) UpdateCancellation(ctx context.Context, tx *gorm.DB, id uuid.UUID, c domain.Cancellation) error {
	res := conn(ctx, r.db, tx).Model(&domain.Booking{}).Where("id = ?", id).Updates(map[string]any{
		"cancellation_requested":     c.Requested,
		"cancellation_requested_at":  c.RequestedAt,
		"cancellation_reason":        c.Reason,
		"cancellation_refund_amount": c.RefundAmount,
		"cancellation_status":        string(c.Status),
		"cancellation_processed_at":  c.ProcessedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
