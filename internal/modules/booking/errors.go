package booking

import (
	"errors"
	"fmt"
	"time"

	"hotelbooking/internal/pkg/calendar"
)

var (
	ErrRoomNotFound    = errors.New("room not found or not available")
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNoBookings      = errors.New("no bookings found")
	ErrNoHotels        = errors.New("no hotels found for this vendor")
	ErrStoreTimeout    = errors.New("booking store timed out")
)

// ValidationError is a malformed or incomplete request. Fields maps json
// paths to the failed rule when the error came from struct validation.
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CapacityError means the party does not fit in one unit of the room.
type CapacityError struct {
	Limit     int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Room capacity exceeded. Maximum %d guests allowed", e.Limit)
}

// AvailabilityError reports the first night that cannot cover the request.
type AvailabilityError struct {
	Date      time.Time
	Available int
	Requested int
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("Not enough rooms available on %s. Available: %d, Requested: %d",
		calendar.Format(e.Date), e.Available, e.Requested)
}
