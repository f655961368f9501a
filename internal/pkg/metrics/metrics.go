package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeCreated     = "created"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeFailed      = "failed"
	OutcomeDuplicate   = "duplicate"
	OutcomeNotFound    = "not_found"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotel_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hotel_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
	}, []string{"method", "endpoint"})

	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotel_bookings_total",
		Help: "Reservation attempts by outcome",
	}, []string{"outcome"})

	BookedNightsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hotel_booked_nights_total",
		Help: "Room-nights taken out of inventory by committed bookings",
	})

	RefundRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotel_refund_requests_total",
		Help: "Refund requests by outcome",
	}, []string{"outcome"})
)

// ObserveBooking records one reservation attempt. nights and rooms only
// count when the outcome is OutcomeCreated.
func ObserveBooking(outcome string, nights, rooms int) {
	BookingsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCreated {
		BookedNightsTotal.Add(float64(nights * rooms))
	}
}

func ObserveRefund(outcome string) {
	RefundRequestsTotal.WithLabelValues(outcome).Inc()
}
