package feed

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/response"
)

type HotelDirectory interface {
	ListByVendor(ctx context.Context, vendorID int64) ([]domain.Hotel, error)
}

type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
	hotels     HotelDirectory
	upgrader   websocket.Upgrader
	log        *logrus.Logger
}

// NewHandler builds the feed endpoint. allowedOrigins empty accepts any
// origin.
func NewHandler(hub *Hub, jwtService *jwt.Service, hotels HotelDirectory, allowedOrigins []string, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:        hub,
		jwtService: jwtService,
		hotels:     hotels,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/ws/bookings", h.HandleWebSocket)
}

// HandleWebSocket upgrades a vendor to the live booking feed. Browsers
// cannot set headers on websocket requests, so the token comes in ?token=.
// Vendors start subscribed to all their hotels; admins subscribe explicitly.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Token is required")
		return
	}
	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if claims.Role != jwt.RoleVendor && claims.Role != jwt.RoleAdmin {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		return
	}

	owned := map[uuid.UUID]bool{}
	initial := make([]uuid.UUID, 0)
	if claims.Role == jwt.RoleVendor {
		hotels, err := h.hotels.ListByVendor(c.Request.Context(), claims.UserID)
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load hotels")
			return
		}
		for _, hotel := range hotels {
			owned[hotel.ID] = true
			initial = append(initial, hotel.ID)
		}
	}
	may := func(id uuid.UUID) bool {
		return claims.Role == jwt.RoleAdmin || owned[id]
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("feed: websocket upgrade failed")
		return
	}

	entry := h.log.WithFields(logrus.Fields{"user_id": claims.UserID, "hotels": len(initial)})
	entry.Info("feed: client connected")
	h.hub.serve(conn, claims.UserID, initial, may)
	entry.Info("feed: client disconnected")
}
