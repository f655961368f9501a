package vacancy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/calendar"
	"hotelbooking/internal/pkg/money"
	"hotelbooking/internal/repository"
)

// visitorWindow is the number of days reported by DailyVisitors, ending
// at the selected day.
const visitorWindow = 7

type Service struct {
	tx           Transactor
	rooms        RoomCatalog
	hotels       HotelDirectory
	availability AvailabilityStore
	bookings     BookingReader
	log          *logrus.Logger
	now          func() time.Time
}

func NewService(tx Transactor, rooms RoomCatalog, hotels HotelDirectory, availability AvailabilityStore, bookings BookingReader, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		tx:           tx,
		rooms:        rooms,
		hotels:       hotels,
		availability: availability,
		bookings:     bookings,
		log:          log,
		now:          time.Now,
	}
}

// ListRoomVacancies returns the known nights of a room in [from, to].
// Nights never looked at have no row and are not listed.
func (s *Service) ListRoomVacancies(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]Vacancy, error) {
	room, err := s.room(ctx, roomID)
	if err != nil {
		return nil, err
	}

	rows, err := s.availability.ListByRoom(ctx, roomID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]Vacancy, 0, len(rows))
	for i := range rows {
		out = append(out, toVacancy(&rows[i], room.BasePrice))
	}
	return out, nil
}

// DailyOccupancy counts the rooms of a hotel sold for one night.
func (s *Service) DailyOccupancy(ctx context.Context, hotelID uuid.UUID, day time.Time) (*Occupancy, error) {
	if _, err := s.hotel(ctx, hotelID); err != nil {
		return nil, err
	}

	day = calendar.Normalize(day)
	rows, err := s.availability.OccupancyForHotel(ctx, hotelID, day)
	if err != nil {
		return nil, err
	}

	out := &Occupancy{Date: calendar.NewDate(day), Rooms: make([]RoomOccupancy, 0, len(rows))}
	for _, r := range rows {
		occupied := r.Occupied()
		out.OccupiedRooms += occupied
		out.Rooms = append(out.Rooms, RoomOccupancy{
			RoomID:   r.RoomID,
			Occupied: occupied,
			Total:    r.TotalRooms,
			Blocked:  r.IsBlocked,
		})
	}
	return out, nil
}

// DailyVisitors reports guests and rooms in house for each of the seven
// days ending at day.
func (s *Service) DailyVisitors(ctx context.Context, hotelID uuid.UUID, day time.Time) (*VisitorsReport, error) {
	if _, err := s.hotel(ctx, hotelID); err != nil {
		return nil, err
	}

	end := calendar.Normalize(day)
	start := end.AddDate(0, 0, -(visitorWindow - 1))
	bookings, err := s.bookings.ListOverlapping(ctx, hotelID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	report := &VisitorsReport{
		Data: make([]DayVisitors, 0, visitorWindow),
		Summary: VisitorsSummary{
			StartDate: calendar.NewDate(start),
			EndDate:   calendar.NewDate(end),
		},
	}
	for _, d := range calendar.Nights(start, end.AddDate(0, 0, 1)) {
		row := DayVisitors{Date: calendar.NewDate(d)}
		for i := range bookings {
			b := &bookings[i]
			if b.CheckIn.After(d) || !b.CheckOut.After(d) {
				continue
			}
			row.Visitors += b.Adults + b.Children
			row.RoomsBooked += b.RoomsBooked
		}
		report.Summary.TotalVisitors += row.Visitors
		report.Summary.TotalRoomsBooked += row.RoomsBooked
		report.Data = append(report.Data, row)
	}
	return report, nil
}

// BlockNight takes a night off sale. The row is created first if the night
// was never looked at.
func (s *Service) BlockNight(ctx context.Context, roomID uuid.UUID, day time.Time, reason string) (*Vacancy, error) {
	return s.updateNight(ctx, roomID, day, func(tx *gorm.DB, rec *domain.RoomAvailability) error {
		return s.availability.SetBlocked(ctx, tx, rec.ID, true, reason)
	})
}

func (s *Service) UnblockNight(ctx context.Context, roomID uuid.UUID, day time.Time) (*Vacancy, error) {
	return s.updateNight(ctx, roomID, day, func(tx *gorm.DB, rec *domain.RoomAvailability) error {
		return s.availability.SetBlocked(ctx, tx, rec.ID, false, "")
	})
}

// SetNightPrice overrides the room's base price for one night. Bookings
// already committed keep the price they were quoted.
func (s *Service) SetNightPrice(ctx context.Context, roomID uuid.UUID, day time.Time, price money.Amount) (*Vacancy, error) {
	if price <= 0 {
		return nil, &ValidationError{Field: "price", Message: "Price must be positive"}
	}
	return s.updateNight(ctx, roomID, day, func(tx *gorm.DB, rec *domain.RoomAvailability) error {
		return s.availability.SetPrice(ctx, tx, rec.ID, price)
	})
}

func (s *Service) updateNight(ctx context.Context, roomID uuid.UUID, day time.Time, apply func(tx *gorm.DB, rec *domain.RoomAvailability) error) (*Vacancy, error) {
	day = calendar.Normalize(day)
	if day.Before(calendar.Normalize(s.now().UTC())) {
		return nil, &ValidationError{Field: "date", Message: "Date is in the past"}
	}

	room, err := s.room(ctx, roomID)
	if err != nil {
		return nil, err
	}

	var updated *domain.RoomAvailability
	err = s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		def := repository.AvailabilityDefaults{TotalRooms: room.TotalRooms, BasePrice: room.BasePrice}
		rec, err := s.availability.GetOrCreate(ctx, tx, room.HotelID, room.ID, day, def)
		if err != nil {
			return err
		}
		if err := apply(tx, rec); err != nil {
			return err
		}
		updated, err = s.availability.GetByRoomAndDate(ctx, tx, room.ID, day)
		return err
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"room_id": roomID,
			"date":    calendar.Format(day),
		}).WithError(err).Error("inventory update failed")
		return nil, fmt.Errorf("update night: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"room_id": roomID,
		"date":    calendar.Format(day),
		"status":  updated.Status,
	}).Info("inventory updated")

	v := toVacancy(updated, room.BasePrice)
	return &v, nil
}

func (s *Service) room(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
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

func toVacancy(rec *domain.RoomAvailability, base money.Amount) Vacancy {
	return Vacancy{
		Date:           calendar.NewDate(rec.Date),
		Status:         rec.Status,
		AvailableRooms: rec.AvailableRooms,
		Price:          rec.NightlyPrice(base),
		IsBlocked:      rec.IsBlocked,
		BlockReason:    rec.BlockReason,
	}
}
