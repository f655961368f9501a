package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/repository"
)

type roomReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
}

type hotelReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Hotel, error)
}

// OwnershipChecker provides middleware to verify resource ownership
type OwnershipChecker struct {
	hotels hotelReader
	rooms  roomReader
}

func NewOwnershipChecker(hotels hotelReader, rooms roomReader) *OwnershipChecker {
	return &OwnershipChecker{hotels: hotels, rooms: rooms}
}

// CheckHotelOwnership verifies the caller's vendor id owns the hotel in
// URL param "id". Admins pass.
func (oc *OwnershipChecker) CheckHotelOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := caller(c)
		if !ok {
			return
		}

		hotelID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Abort(c, http.StatusBadRequest, "INVALID_ID", "Invalid hotel ID")
			return
		}

		hotel, err := oc.hotels.GetByID(c.Request.Context(), hotelID)
		if err != nil {
			lookupFailed(c, err, "Hotel not found")
			return
		}
		if !owns(c, hotel.VendorID, userID) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "You don't own this hotel")
			return
		}

		c.Next()
	}
}

// CheckRoomOwnership verifies the caller owns the hotel of the room in URL
// param "id".
func (oc *OwnershipChecker) CheckRoomOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := caller(c)
		if !ok {
			return
		}

		roomID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Abort(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
			return
		}

		room, err := oc.rooms.GetByID(c.Request.Context(), roomID)
		if err != nil {
			lookupFailed(c, err, "Room not found")
			return
		}

		hotel, err := oc.hotels.GetByID(c.Request.Context(), room.HotelID)
		if err != nil {
			lookupFailed(c, err, "Hotel not found")
			return
		}

		if !owns(c, hotel.VendorID, userID) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "You don't own this resource")
			return
		}

		c.Next()
	}
}

func caller(c *gin.Context) (int64, bool) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return 0, false
	}
	return userID, true
}

func owns(c *gin.Context, vendorID, userID int64) bool {
	return vendorID == userID || c.GetString("role") == jwt.RoleAdmin
}

func lookupFailed(c *gin.Context, err error, notFoundMessage string) {
	if errors.Is(err, repository.ErrNotFound) {
		response.Abort(c, http.StatusNotFound, "NOT_FOUND", notFoundMessage)
		return
	}
	_ = c.Error(err)
	response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Ownership check failed")
}
