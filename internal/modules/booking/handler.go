package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/calendar"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"
	"hotelbooking/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the booking routes. vendorAuth guards the routes
// that act on behalf of the calling vendor.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, vendorAuth ...gin.HandlerFunc) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/total", h.TotalAmount)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/hotels/:id/bookings", h.ListHotelBookings)
	rg.GET("/hotels/:id/bookings/monthly", h.MonthlyBookings)
	rg.GET("/vendors/me/earnings", append(append([]gin.HandlerFunc{}, vendorAuth...), h.VendorEarnings)...)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required booking information", validator.FromBindError(err))
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Booking failed")
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Room booked successfully", result)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c, "Invalid booking ID")
	if !ok {
		return
	}

	out, err := h.service.GetConfirmation(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Fetching failed")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) ListHotelBookings(c *gin.Context) {
	hotelID, ok := parseID(c, "Invalid hotel ID")
	if !ok {
		return
	}

	var f repository.BookingFilter
	if raw := c.Query("roomId"); raw != "" {
		roomID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
			return
		}
		f.RoomID = &roomID
	}
	f.PaymentStatus = domain.PaymentStatus(c.Query("paymentStatus"))

	out, err := h.service.ListHotelBookings(c.Request.Context(), hotelID, f)
	if err != nil {
		writeError(c, err, "Fetching failed")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) MonthlyBookings(c *gin.Context) {
	hotelID, ok := parseID(c, "Invalid hotel ID")
	if !ok {
		return
	}

	out, err := h.service.MonthlyBookings(c.Request.Context(), hotelID)
	if err != nil {
		writeError(c, err, "Failed to get monthly booking data")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) TotalAmount(c *gin.Context) {
	total, err := h.service.TotalAmount(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to calculate total booking amount")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"totalAmount": total})
}

func (h *Handler) VendorEarnings(c *gin.Context) {
	vendorID := c.GetInt64("user_id")
	if vendorID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	out, err := h.service.VendorEarnings(c.Request.Context(), vendorID)
	if err != nil {
		writeError(c, err, "Failed to calculate vendor earnings")
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Vendor earnings calculated successfully", out)
}

func parseID(c *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", message)
		return uuid.Nil, false
	}
	return id, true
}

func writeError(c *gin.Context, err error, fallback string) {
	var (
		vErr   *ValidationError
		capErr *CapacityError
		avErr  *AvailabilityError
	)
	switch {
	case errors.As(err, &vErr):
		details := any(vErr.Fields)
		if vErr.Fields == nil {
			details = gin.H{"field": vErr.Field}
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Message, details)
	case errors.As(err, &capErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "CAPACITY_EXCEEDED", capErr.Error(), gin.H{
			"maxGuests":       capErr.Limit,
			"requestedGuests": capErr.Requested,
		})
	case errors.As(err, &avErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "NOT_AVAILABLE", avErr.Error(), gin.H{
			"date":      calendar.Format(avErr.Date),
			"available": avErr.Available,
			"requested": avErr.Requested,
		})
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found or not available")
	case errors.Is(err, ErrHotelNotFound):
		response.Error(c, http.StatusNotFound, "HOTEL_NOT_FOUND", "Hotel not found")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "booking not found")
	case errors.Is(err, ErrNoBookings):
		response.Error(c, http.StatusNotFound, "NO_BOOKINGS", "No bookings found")
	case errors.Is(err, ErrNoHotels):
		response.Error(c, http.StatusNotFound, "NO_HOTELS", "No hotels found for this vendor")
	default:
		_ = c.Error(err)
		response.ErrorWithDetails(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, err.Error())
	}
}
