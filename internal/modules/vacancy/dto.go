package vacancy

import (
	"github.com/google/uuid"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/calendar"
	"hotelbooking/internal/pkg/money"
)

// Vacancy is one known night of a room. Price is the effective nightly
// price, override or base.
type Vacancy struct {
	Date           calendar.Date             `json:"date"`
	Status         domain.AvailabilityStatus `json:"status"`
	AvailableRooms int                       `json:"availableRooms"`
	Price          money.Amount              `json:"price"`
	IsBlocked      bool                      `json:"isBlocked"`
	BlockReason    string                    `json:"blockReason,omitempty"`
}

type RoomOccupancy struct {
	RoomID   uuid.UUID `json:"roomId"`
	Occupied int       `json:"occupied"`
	Total    int       `json:"total"`
	Blocked  bool      `json:"blocked,omitempty"`
}

type Occupancy struct {
	Date          calendar.Date   `json:"date"`
	OccupiedRooms int             `json:"occupiedRooms"`
	Rooms         []RoomOccupancy `json:"rooms"`
}

type DayVisitors struct {
	Date        calendar.Date `json:"date"`
	Visitors    int           `json:"visitors"`
	RoomsBooked int           `json:"roomsBooked"`
}

type VisitorsSummary struct {
	StartDate        calendar.Date `json:"startDate"`
	EndDate          calendar.Date `json:"endDate"`
	TotalVisitors    int           `json:"totalVisitors"`
	TotalRoomsBooked int           `json:"totalRoomsBooked"`
}

type VisitorsReport struct {
	Data    []DayVisitors   `json:"data"`
	Summary VisitorsSummary `json:"summary"`
}

type BlockRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

type PriceRequest struct {
	Price money.Amount `json:"price" binding:"required"`
}
