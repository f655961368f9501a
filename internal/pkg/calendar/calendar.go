package calendar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Layout is the wire format for calendar days.
const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Normalize returns the calendar day of t as midnight UTC. The day is taken
// from t's own location, so "2026-03-01T23:30:00-05:00" stays March 1st.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights expands [checkIn, checkOut) into the nights stayed. Both ends are
// normalized first; the checkout day is never part of the result.
func Nights(checkIn, checkOut time.Time) []time.Time {
	start, end := Normalize(checkIn), Normalize(checkOut)
	if !start.Before(end) {
		return nil
	}

	nights := make([]time.Time, 0, int(end.Sub(start).Hours()/24))
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		nights = append(nights, day)
	}
	return nights
}

// Parse accepts either a plain date or an RFC 3339 timestamp.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(Layout, s); err == nil {
		return Normalize(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Normalize(t), nil
}

func Format(day time.Time) string {
	return day.Format(Layout)
}

// Date is a normalized calendar day that binds from JSON.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: Normalize(t)}
}

func (d Date) String() string {
	return Format(d.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	if raw == "" {
		*d = Date{}
		return nil
	}

	t, err := Parse(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
