package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelbooking/internal/pkg/response"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func setupTestRouter(t *testing.T, f *fixture, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	vendorAuth := func(c *gin.Context) {
		if c.GetHeader("X-Test-User-ID") == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header required")
			return
		}
		c.Set("user_id", f.hotel.VendorID)
		c.Next()
	}

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), vendorAuth)
	return r
}

func doJSONRequest(r http.Handler, method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("X-Test-User-ID", "77")
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func (e envelope) detailFields(t *testing.T) map[string]any {
	t.Helper()
	var fields map[string]any
	require.NoError(t, json.Unmarshal(e.Error.Details, &fields), string(e.Error.Details))
	return fields
}

func (f *fixture) body(checkIn, checkOut string, rooms int) map[string]any {
	return map[string]any{
		"hotelId":        f.hotel.ID,
		"roomId":         f.room.ID,
		"checkIn":        checkIn,
		"checkOut":       checkOut,
		"adults":         2,
		"roomsRequested": rooms,
		"guestDetails": map[string]any{
			"firstName": "Maria",
			"email":     "maria@example.com",
			"phone":     "+351000000",
		},
	}
}

func TestCreateBookingEndpoint(t *testing.T) {
	f := setupFixture(t, 5)
	r := setupTestRouter(t, f, f.service(Options{}))

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/bookings", f.body("2026-11-01", "2026-11-03", 2), false)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	env := decode(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "Room booked successfully", env.Message)

	var res struct {
		BookingID uuid.UUID `json:"bookingId"`
		Pricing   struct {
			BasePrice   float64 `json:"basePrice"`
			TaxAmount   float64 `json:"taxAmount"`
			TotalAmount float64 `json:"totalAmount"`
		} `json:"pricing"`
		RoomDetails struct {
			Amenities []string `json:"amenities"`
		} `json:"roomDetails"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.NotEqual(t, uuid.Nil, res.BookingID)
	assert.Equal(t, 400.0, res.Pricing.BasePrice)
	assert.Equal(t, 40.0, res.Pricing.TaxAmount)
	assert.Equal(t, 440.0, res.Pricing.TotalAmount)
	assert.Equal(t, []string{"wifi", "balcony"}, res.RoomDetails.Amenities)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/bookings/"+res.BookingID.String(), nil, false)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestCreateBookingEndpoint_Rejections(t *testing.T) {
	f := setupFixture(t, 3)
	r := setupTestRouter(t, f, f.service(Options{}))

	tooMany := f.body("2026-11-01", "2026-11-03", 1)
	tooMany["adults"], tooMany["children"] = 3, 2

	foreignRoom := f.body("2026-11-01", "2026-11-03", 1)
	foreignRoom["roomId"] = uuid.New()

	noEmail := f.body("2026-11-01", "2026-11-03", 1)
	noEmail["guestDetails"] = map[string]any{"firstName": "Maria", "phone": "1"}

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"unavailable", f.body("2026-11-01", "2026-11-03", 4), http.StatusBadRequest, "NOT_AVAILABLE"},
		{"capacity", tooMany, http.StatusBadRequest, "CAPACITY_EXCEEDED"},
		{"same day", f.body("2026-11-01", "2026-11-01", 1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing email", noEmail, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad date", f.body("11/01/2026", "2026-11-03", 1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown room", foreignRoom, http.StatusNotFound, "ROOM_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSONRequest(r, http.MethodPost, "/api/v1/bookings", tc.body, false)
			require.Equal(t, tc.status, rr.Code, rr.Body.String())
			env := decode(t, rr)
			assert.False(t, env.Success)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/bookings", f.body("2026-11-01", "2026-11-03", 4), false)
	details := decode(t, rr).detailFields(t)
	assert.Equal(t, "2026-11-01", details["date"])
	assert.Equal(t, 3.0, details["available"])
	assert.Equal(t, 4.0, details["requested"])

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/bookings", noEmail, false)
	assert.Equal(t, "required", decode(t, rr).detailFields(t)["guestDetails.email"])
}

type brokenTransactor struct{}

func (brokenTransactor) WithTransaction(context.Context, func(tx *gorm.DB) error) error {
	return errors.New("database is closed")
}

func TestCreateBookingEndpoint_StoreFailure(t *testing.T) {
	f := setupFixture(t, 5)
	svc := NewService(brokenTransactor{}, f.rooms, f.hotels, f.avail, f.bookings, Options{Logger: silent, Now: func() time.Time { return today }})
	r := setupTestRouter(t, f, svc)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/bookings", f.body("2026-11-01", "2026-11-03", 1), false)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decode(t, rr)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.Equal(t, "Booking failed", env.Error.Message)

	var detail string
	require.NoError(t, json.Unmarshal(env.Error.Details, &detail))
	assert.Contains(t, detail, "database is closed")
}

func TestReportEndpoints(t *testing.T) {
	f := setupFixture(t, 5)
	r := setupTestRouter(t, f, f.service(Options{}))
	hotelPath := "/api/v1/hotels/" + f.hotel.ID.String()

	rr := doJSONRequest(r, http.MethodGet, hotelPath+"/bookings", nil, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NO_BOOKINGS", decode(t, rr).Error.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/bookings", f.body("2026-11-01", "2026-11-02", 1), false)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodGet, hotelPath+"/bookings?paymentStatus=pending&roomId="+f.room.ID.String(), nil, false)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var list []map[string]any
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &list))
	assert.Len(t, list, 1)

	rr = doJSONRequest(r, http.MethodGet, hotelPath+"/bookings?roomId=nope", nil, false)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, hotelPath+"/bookings/monthly", nil, false)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/hotels/not-a-uuid/bookings", nil, false)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_ID", decode(t, rr).Error.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/bookings/total", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var total struct {
		TotalAmount float64 `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &total))
	assert.Equal(t, 110.0, total.TotalAmount)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/vendors/me/earnings", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/vendors/me/earnings", nil, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var earnings VendorEarnings
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &earnings))
	assert.Equal(t, int64(1), earnings.BookingsCount)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/bookings/"+uuid.NewString(), nil, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
