package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/calendar"
	"hotelbooking/internal/pkg/metrics"
	"hotelbooking/internal/pkg/money"
	"hotelbooking/internal/pkg/validator"
	"hotelbooking/internal/repository"
)

const defaultTxTimeout = 5 * time.Second

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "June", "July", "Aug", "Sep", "Oct", "Nov", "Dec"}

type Options struct {
	// TxTimeout bounds the reservation transaction. Zero means 5s.
	TxTimeout time.Duration
	Events    EventPublisher
	Logger    *logrus.Logger
	Now       func() time.Time
}

// Service coordinates reservations: it validates a request, reads the room,
// and commits the booking together with the per-night inventory decrements.
type Service struct {
	tx           Transactor
	rooms        RoomCatalog
	hotels       HotelDirectory
	availability AvailabilityStore
	bookings     BookingLedger
	events       EventPublisher
	log          *logrus.Logger
	now          func() time.Time
	txTimeout    time.Duration
}

func NewService(
	tx Transactor,
	rooms RoomCatalog,
	hotels HotelDirectory,
	availability AvailabilityStore,
	bookings BookingLedger,
	opts Options,
) *Service {
	s := &Service{
		tx:           tx,
		rooms:        rooms,
		hotels:       hotels,
		availability: availability,
		bookings:     bookings,
		events:       opts.Events,
		log:          opts.Logger,
		now:          opts.Now,
		txTimeout:    opts.TxTimeout,
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.txTimeout <= 0 {
		s.txTimeout = defaultTxTimeout
	}
	return s
}

// CreateBooking reserves req.RoomsRequested units of a room for every night
// of the stay. Either the booking and all decrements commit, or nothing
// does; nights created on first lookup may remain.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	units := req.RoomsRequested
	if units == 0 {
		units = 1
	}

	checkIn, checkOut, err := s.validate(req)
	if err != nil {
		metrics.ObserveBooking(metrics.OutcomeRejected, 0, 0)
		return nil, err
	}

	fields := logrus.Fields{
		"hotel_id":  req.HotelID,
		"room_id":   req.RoomID,
		"check_in":  calendar.Format(checkIn),
		"check_out": calendar.Format(checkOut),
		"rooms":     units,
		"adults":    req.Adults,
		"children":  req.Children,
		"email":     req.GuestDetails.Email,
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.WithFields(fields).Warn("booking rejected: room not found")
			metrics.ObserveBooking(metrics.OutcomeNotFound, 0, 0)
			return nil, ErrRoomNotFound
		}
		s.log.WithFields(fields).WithError(err).Error("booking failed: load room")
		metrics.ObserveBooking(metrics.OutcomeFailed, 0, 0)
		return nil, fmt.Errorf("load room: %w", err)
	}
	if !room.IsActive || room.HotelID != req.HotelID {
		s.log.WithFields(fields).Warn("booking rejected: room inactive or not in hotel")
		metrics.ObserveBooking(metrics.OutcomeNotFound, 0, 0)
		return nil, ErrRoomNotFound
	}

	if !room.Fits(req.Adults, req.Children) {
		metrics.ObserveBooking(metrics.OutcomeRejected, 0, 0)
		return nil, &CapacityError{Limit: room.Capacity.Total, Requested: req.Adults + req.Children}
	}

	nights := calendar.Nights(checkIn, checkOut)
	if len(nights) == 0 {
		metrics.ObserveBooking(metrics.OutcomeRejected, 0, 0)
		return nil, &ValidationError{Field: "checkOut", Message: "Invalid check-in or check-out dates"}
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var (
		booking *domain.Booking
		pricing PricingSummary
	)
	err = s.tx.WithTransaction(txCtx, func(tx *gorm.DB) error {
		def := repository.AvailabilityDefaults{TotalRooms: room.TotalRooms, BasePrice: room.BasePrice}

		// ascending date order keeps row locks ordered across requests
		records := make([]domain.RoomAvailability, 0, len(nights))
		for _, night := range nights {
			rec, err := s.availability.GetOrCreate(txCtx, tx, room.HotelID, room.ID, night, def)
			if err != nil {
				return fmt.Errorf("availability %s: %w", calendar.Format(night), err)
			}
			records = append(records, *rec)
		}

		for i := range records {
			if !records[i].CanTake(units) {
				return &AvailabilityError{Date: records[i].Date, Available: sellable(&records[i]), Requested: units}
			}
		}

		pricing = PriceStay(room, records, units)

		booking = &domain.Booking{
			HotelID:          room.HotelID,
			RoomID:           room.ID,
			CheckIn:          checkIn,
			CheckOut:         checkOut,
			Nights:           len(records),
			Adults:           req.Adults,
			Children:         req.Children,
			AdditionalGuests: req.AdditionalGuests,
			GuestDetails:     req.GuestDetails.toDomain(),
			Pricing: domain.Pricing{
				BasePrice:   pricing.BasePrice,
				TaxAmount:   pricing.TaxAmount,
				TotalAmount: pricing.TotalAmount,
			},
			Status:        domain.BookingPending,
			PaymentStatus: domain.PaymentPending,
			RoomsBooked:   units,
		}
		if err := s.bookings.Create(txCtx, tx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		for i := range records {
			if err := s.availability.Decrement(txCtx, tx, records[i].ID, units); err != nil {
				if errors.Is(err, repository.ErrInsufficientInventory) {
					return &AvailabilityError{Date: records[i].Date, Available: sellable(&records[i]), Requested: units}
				}
				return fmt.Errorf("decrement %s: %w", calendar.Format(records[i].Date), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.abort(txCtx, err, fields)
	}

	metrics.ObserveBooking(metrics.OutcomeCreated, pricing.Nights, units)
	s.log.WithFields(fields).WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"total":      pricing.TotalAmount.String(),
	}).Info("booking created")

	if s.events != nil {
		s.events.Publish(booking.HotelID, EventBookingCreated, BookingCreatedEvent{
			BookingID:   booking.ID,
			HotelID:     booking.HotelID,
			RoomID:      booking.RoomID,
			CheckIn:     calendar.NewDate(booking.CheckIn),
			CheckOut:    calendar.NewDate(booking.CheckOut),
			RoomsBooked: booking.RoomsBooked,
			TotalAmount: booking.Pricing.TotalAmount,
			CreatedAt:   booking.CreatedAt,
		})
	}

	amenities := []string(room.Amenities)
	if amenities == nil {
		amenities = []string{}
	}
	return &BookingResult{
		BookingID: booking.ID,
		Booking:   booking,
		RoomDetails: RoomDetails{
			Type:      room.Type,
			Capacity:  room.Capacity,
			Amenities: amenities,
		},
		Pricing: pricing,
	}, nil
}

func (s *Service) validate(req CreateBookingRequest) (time.Time, time.Time, error) {
	if errs := validator.Validate(req); errs != nil {
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return time.Time{}, time.Time{}, &ValidationError{Field: keys[0], Message: "Missing required booking information", Fields: errs}
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		field := "checkIn"
		if !req.CheckIn.IsZero() {
			field = "checkOut"
		}
		return time.Time{}, time.Time{}, &ValidationError{Field: field, Message: "Missing required booking information"}
	}

	checkIn := calendar.Normalize(req.CheckIn.Time)
	checkOut := calendar.Normalize(req.CheckOut.Time)
	today := calendar.Normalize(s.now().UTC())

	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, &ValidationError{Field: "checkOut", Message: "Invalid check-in or check-out dates"}
	}
	if checkIn.Before(today) {
		return time.Time{}, time.Time{}, &ValidationError{Field: "checkIn", Message: "Invalid check-in or check-out dates"}
	}
	return checkIn, checkOut, nil
}

// abort classifies a failed reservation transaction. Nothing it wrote has
// committed at this point.
func (s *Service) abort(txCtx context.Context, err error, fields logrus.Fields) error {
	var avErr *AvailabilityError
	switch {
	case errors.As(err, &avErr):
		s.log.WithFields(fields).WithFields(logrus.Fields{
			"night":     calendar.Format(avErr.Date),
			"available": avErr.Available,
		}).Warn("booking rejected: not enough rooms")
		metrics.ObserveBooking(metrics.OutcomeUnavailable, 0, 0)
		return err
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(txCtx.Err(), context.DeadlineExceeded):
		s.log.WithFields(fields).WithError(err).Error("booking aborted: store timeout")
		metrics.ObserveBooking(metrics.OutcomeFailed, 0, 0)
		return fmt.Errorf("%w: %v", ErrStoreTimeout, err)
	default:
		s.log.WithFields(fields).WithError(err).Error("booking aborted")
		metrics.ObserveBooking(metrics.OutcomeFailed, 0, 0)
		return fmt.Errorf("reserve rooms: %w", err)
	}
}

// sellable is the count reported back to the caller for a night that
// cannot be sold.
func sellable(rec *domain.RoomAvailability) int {
	if rec.IsBlocked || rec.Status == domain.AvailabilityBlocked {
		return 0
	}
	return rec.AvailableRooms
}

func (s *Service) GetConfirmation(ctx context.Context, id uuid.UUID) (*Confirmation, error) {
	b, err := s.bookings.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	out := &Confirmation{Booking: b}
	hotel, err := s.hotels.GetByID(ctx, b.HotelID)
	switch {
	case err == nil:
		out.Hotel = &HotelSummary{ID: hotel.ID, Name: hotel.Name, City: hotel.City, Address: hotel.Address}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	return out, nil
}

// ListHotelBookings returns a hotel's bookings, optionally narrowed to a room
// and a payment status. An empty result is ErrNoBookings.
func (s *Service) ListHotelBookings(ctx context.Context, hotelID uuid.UUID, f repository.BookingFilter) ([]domain.Booking, error) {
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return nil, &ValidationError{Field: "paymentStatus", Message: "Unknown payment status"}
	}
	if _, err := s.hotel(ctx, hotelID); err != nil {
		return nil, err
	}

	out, err := s.bookings.ListByHotel(ctx, hotelID, f)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoBookings
	}
	return out, nil
}

// MonthlyBookings counts a hotel's bookings per month of the current year.
func (s *Service) MonthlyBookings(ctx context.Context, hotelID uuid.UUID) (*MonthlyReport, error) {
	if _, err := s.hotel(ctx, hotelID); err != nil {
		return nil, err
	}

	year := s.now().UTC().Year()
	counts, err := s.bookings.CountByMonth(ctx, &hotelID, year)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{Year: year, Data: make([]MonthCount, 0, 12)}
	for i, name := range monthNames {
		report.Data = append(report.Data, MonthCount{Month: name, Count: counts[i]})
	}
	return report, nil
}

func (s *Service) TotalAmount(ctx context.Context) (money.Amount, error) {
	return s.bookings.TotalAmount(ctx)
}

func (s *Service) VendorEarnings(ctx context.Context, vendorID int64) (*VendorEarnings, error) {
	hotels, err := s.hotels.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return nil, ErrNoHotels
	}

	ids := make([]uuid.UUID, 0, len(hotels))
	for _, h := range hotels {
		ids = append(ids, h.ID)
	}
	earnings, err := s.bookings.EarningsForHotels(ctx, ids)
	if err != nil {
		return nil, err
	}
	if earnings.BookingsCount == 0 {
		return nil, ErrNoBookings
	}

	return &VendorEarnings{
		VendorID:      vendorID,
		BookingsCount: earnings.BookingsCount,
		TotalEarnings: earnings.TotalEarnings,
	}, nil
}

func (s *Service) hotel(ctx context.Context, id uuid.UUID) (*domain.Hotel, error) {
	h, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return h, nil
}
