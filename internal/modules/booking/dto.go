package booking

import (
	"time"

	"github.com/google/uuid"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/calendar"
	"hotelbooking/internal/pkg/money"
)

type GuestDetailsInput struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	Address         string `json:"address"`
	IDProof         string `json:"idProof"`
	SpecialRequests string `json:"specialRequests"`
}

// CreateBookingRequest is the reservation request body. Dates accept
// "2006-01-02" or RFC 3339 and are reduced to calendar days.
type CreateBookingRequest struct {
	HotelID          uuid.UUID          `json:"hotelId" binding:"required"`
	RoomID           uuid.UUID          `json:"roomId" binding:"required"`
	CheckIn          calendar.Date      `json:"checkIn"`
	CheckOut         calendar.Date      `json:"checkOut"`
	Adults           int                `json:"adults" binding:"required,min=1"`
	Children         int                `json:"children" binding:"min=0"`
	AdditionalGuests []domain.GuestInfo `json:"additionalGuests"`
	GuestDetails     GuestDetailsInput  `json:"guestDetails"`
	RoomsRequested   int                `json:"roomsRequested" binding:"omitempty,min=1"`
}

func (g GuestDetailsInput) toDomain() domain.GuestDetails {
	return domain.GuestDetails{
		FirstName:       g.FirstName,
		LastName:        g.LastName,
		Email:           g.Email,
		Phone:           g.Phone,
		Address:         g.Address,
		IDProof:         g.IDProof,
		SpecialRequests: g.SpecialRequests,
	}
}

type RoomDetails struct {
	Type      domain.RoomType `json:"type"`
	Capacity  domain.Capacity `json:"capacity"`
	Amenities []string        `json:"amenities"`
}

type NightPrice struct {
	Date     calendar.Date `json:"date"`
	Price    money.Amount  `json:"price"`
	Subtotal money.Amount  `json:"subtotal"`
}

type PricingSummary struct {
	BasePrice   money.Amount `json:"basePrice"`
	TaxAmount   money.Amount `json:"taxAmount"`
	TotalAmount money.Amount `json:"totalAmount"`
	Nights      int          `json:"nights"`
	RoomsBooked int          `json:"roomsBooked"`
	PerNight    []NightPrice `json:"perNight"`
}

type BookingResult struct {
	BookingID   uuid.UUID       `json:"bookingId"`
	Booking     *domain.Booking `json:"booking"`
	RoomDetails RoomDetails     `json:"roomDetails"`
	Pricing     PricingSummary  `json:"pricing"`
}

type HotelSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	City    string    `json:"city"`
	Address string    `json:"address,omitempty"`
}

type Confirmation struct {
	Booking *domain.Booking `json:"booking"`
	Hotel   *HotelSummary   `json:"hotel,omitempty"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type MonthlyReport struct {
	Year int          `json:"year"`
	Data []MonthCount `json:"data"`
}

type VendorEarnings struct {
	VendorID      int64        `json:"vendorId"`
	BookingsCount int64        `json:"bookingsCount"`
	TotalEarnings money.Amount `json:"totalEarnings"`
}

// BookingCreatedEvent is published once a booking has committed.
type BookingCreatedEvent struct {
	BookingID   uuid.UUID     `json:"bookingId"`
	HotelID     uuid.UUID     `json:"hotelId"`
	RoomID      uuid.UUID     `json:"roomId"`
	CheckIn     calendar.Date `json:"checkIn"`
	CheckOut    calendar.Date `json:"checkOut"`
	RoomsBooked int           `json:"roomsBooked"`
	TotalAmount money.Amount  `json:"totalAmount"`
	CreatedAt   time.Time     `json:"createdAt"`
}

const EventBookingCreated = "booking.created"
