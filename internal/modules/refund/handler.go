package refund

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	refunds := rg.Group("/refunds")
	{
		refunds.POST("/:bookingId", h.RequestRefund)
		refunds.GET("", h.ListRefunds)
	}
}

func (h *Handler) RequestRefund(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req RequestRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Refund amount and reason are required", validator.FromBindError(err))
		return
	}

	refund, err := h.service.RequestRefund(c.Request.Context(), bookingID, req)
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Message, gin.H{"field": vErr.Field})
		case errors.Is(err, ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrDuplicateRefund):
			response.Error(c, http.StatusBadRequest, "REFUND_EXISTS", "Refund already requested for this booking")
		default:
			_ = c.Error(err)
			response.ErrorWithDetails(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err.Error())
		}
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Refund request created successfully", refund)
}

func (h *Handler) ListRefunds(c *gin.Context) {
	refunds, err := h.service.ListRefunds(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.ErrorWithDetails(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err.Error())
		return
	}
	response.Success(c, http.StatusOK, refunds)
}
