package vacancy

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hotelbooking/internal/pkg/calendar"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the inventory routes. manage runs before the
// routes that change a night, typically vendor auth and room ownership.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, manage ...gin.HandlerFunc) {
	rg.GET("/rooms/:id/vacancies", h.ListRoomVacancies)
	rg.GET("/hotels/:id/occupancy", h.DailyOccupancy)
	rg.GET("/hotels/:id/visitors", h.DailyVisitors)

	nights := rg.Group("/rooms/:id/availability/:date", manage...)
	{
		nights.PATCH("/block", h.BlockNight)
		nights.PATCH("/unblock", h.UnblockNight)
		nights.PUT("/price", h.SetNightPrice)
	}
}

func (h *Handler) ListRoomVacancies(c *gin.Context) {
	roomID, ok := parseID(c, "Invalid room ID")
	if !ok {
		return
	}

	var from, to time.Time
	for _, q := range []struct {
		key string
		dst *time.Time
	}{{"from", &from}, {"to", &to}} {
		raw := c.Query(q.key)
		if raw == "" {
			continue
		}
		d, err := calendar.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date format")
			return
		}
		*q.dst = d
	}

	out, err := h.service.ListRoomVacancies(c.Request.Context(), roomID, from, to)
	if err != nil {
		writeError(c, err, "Failed to fetch vacancies")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) DailyOccupancy(c *gin.Context) {
	hotelID, ok := parseID(c, "Invalid hotel ID")
	if !ok {
		return
	}
	day, ok := queryDate(c)
	if !ok {
		return
	}

	out, err := h.service.DailyOccupancy(c.Request.Context(), hotelID, day)
	if err != nil {
		writeError(c, err, "Failed to fetch occupancy")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) DailyVisitors(c *gin.Context) {
	hotelID, ok := parseID(c, "Invalid hotel ID")
	if !ok {
		return
	}
	day, ok := queryDate(c)
	if !ok {
		return
	}

	out, err := h.service.DailyVisitors(c.Request.Context(), hotelID, day)
	if err != nil {
		writeError(c, err, "Failed to calculate daily visitors")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) BlockNight(c *gin.Context) {
	roomID, day, ok := nightParams(c)
	if !ok {
		return
	}
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Block reason is required", validator.FromBindError(err))
		return
	}

	out, err := h.service.BlockNight(c.Request.Context(), roomID, day, req.Reason)
	if err != nil {
		writeError(c, err, "Failed to block night")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) UnblockNight(c *gin.Context) {
	roomID, day, ok := nightParams(c)
	if !ok {
		return
	}

	out, err := h.service.UnblockNight(c.Request.Context(), roomID, day)
	if err != nil {
		writeError(c, err, "Failed to unblock night")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) SetNightPrice(c *gin.Context) {
	roomID, day, ok := nightParams(c)
	if !ok {
		return
	}
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Price is required", validator.FromBindError(err))
		return
	}

	out, err := h.service.SetNightPrice(c.Request.Context(), roomID, day, req.Price)
	if err != nil {
		writeError(c, err, "Failed to set price")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func parseID(c *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", message)
		return uuid.Nil, false
	}
	return id, true
}

func queryDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		response.Error(c, http.StatusBadRequest, "DATE_REQUIRED", "Please select a date")
		return time.Time{}, false
	}
	day, err := calendar.Parse(raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date format")
		return time.Time{}, false
	}
	return day, true
}

func nightParams(c *gin.Context) (uuid.UUID, time.Time, bool) {
	roomID, ok := parseID(c, "Invalid room ID")
	if !ok {
		return uuid.Nil, time.Time{}, false
	}
	day, err := calendar.Parse(c.Param("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "Invalid date format")
		return uuid.Nil, time.Time{}, false
	}
	return roomID, day, true
}

func writeError(c *gin.Context, err error, fallback string) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Message, gin.H{"field": vErr.Field})
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "ROOM_NOT_FOUND", "room not found")
	case errors.Is(err, ErrHotelNotFound):
		response.Error(c, http.StatusNotFound, "HOTEL_NOT_FOUND", "Hotel not found")
	default:
		_ = c.Error(err)
		response.ErrorWithDetails(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, err.Error())
	}
}
