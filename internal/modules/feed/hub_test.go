package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/logging"
)

type stubHotels map[int64][]domain.Hotel

func (s stubHotels) ListByVendor(_ context.Context, vendorID int64) ([]domain.Hotel, error) {
	return s[vendorID], nil
}

type feedServer struct {
	hub    *Hub
	jwt    *jwt.Service
	server *httptest.Server
}

func newFeedServer(t *testing.T, hotels stubHotels) *feedServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(logging.Discard())
	jwtService := jwt.New("feed-secret", time.Hour)

	r := gin.New()
	NewHandler(hub, jwtService, hotels, nil, logging.Discard()).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &feedServer{hub: hub, jwt: jwtService, server: srv}
}

func (s *feedServer) dial(t *testing.T, userID int64, role string) *websocket.Conn {
	t.Helper()
	token, err := s.jwt.GenerateToken(userID, role)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws/bookings?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var raw struct {
		Type    string          `json:"type"`
		HotelID uuid.UUID       `json:"hotel_id"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&raw))
	return Event{Type: raw.Type, HotelID: raw.HotelID, Payload: raw.Payload}
}

func TestFeed_VendorReceivesOwnHotelEvents(t *testing.T) {
	mine, theirs := uuid.New(), uuid.New()
	s := newFeedServer(t, stubHotels{7: {{ID: mine, VendorID: 7}}})

	conn := s.dial(t, 7, jwt.RoleVendor)
	require.Eventually(t, func() bool { return s.hub.Subscribers(mine) == 1 }, 2*time.Second, 10*time.Millisecond)

	s.hub.Publish(theirs, "booking.created", map[string]string{"n": "0"})
	s.hub.Publish(mine, "booking.created", map[string]string{"n": "1"})

	ev := readEvent(t, conn)
	assert.Equal(t, "booking.created", ev.Type)
	assert.Equal(t, mine, ev.HotelID)
	assert.JSONEq(t, `{"n":"1"}`, string(ev.Payload.(json.RawMessage)))
}

func TestFeed_SubscribeIsLimitedToOwnedHotels(t *testing.T) {
	mine, theirs := uuid.New(), uuid.New()
	s := newFeedServer(t, stubHotels{7: {{ID: mine, VendorID: 7}}})

	vendor := s.dial(t, 7, jwt.RoleVendor)
	admin := s.dial(t, 1, jwt.RoleAdmin)

	require.NoError(t, vendor.WriteJSON(map[string]any{"type": "subscribe", "hotel_id": theirs}))
	require.NoError(t, admin.WriteJSON(map[string]any{"type": "subscribe", "hotel_id": theirs}))
	require.Eventually(t, func() bool { return s.hub.Subscribers(theirs) == 1 }, 2*time.Second, 10*time.Millisecond)

	s.hub.Publish(theirs, "booking.created", nil)
	ev := readEvent(t, admin)
	assert.Equal(t, theirs, ev.HotelID)

	require.NoError(t, admin.WriteJSON(map[string]any{"type": "unsubscribe", "hotel_id": theirs}))
	require.Eventually(t, func() bool { return s.hub.Subscribers(theirs) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFeed_DisconnectUnregisters(t *testing.T) {
	mine := uuid.New()
	s := newFeedServer(t, stubHotels{7: {{ID: mine, VendorID: 7}}})

	conn := s.dial(t, 7, jwt.RoleVendor)
	require.Eventually(t, func() bool { return s.hub.Subscribers(mine) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return s.hub.Subscribers(mine) == 0 }, 2*time.Second, 10*time.Millisecond)

	// publishing with no subscribers is a no-op
	s.hub.Publish(mine, "booking.created", nil)
}

func TestFeed_RejectsBadTokens(t *testing.T) {
	s := newFeedServer(t, stubHotels{})

	for name, query := range map[string]string{
		"missing": "",
		"garbage": "?token=nope",
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Get(s.server.URL + "/ws/bookings" + query)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	guest, err := s.jwt.GenerateToken(5, jwt.RoleGuest)
	require.NoError(t, err)
	resp, err := http.Get(s.server.URL + "/ws/bookings?token=" + guest)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
