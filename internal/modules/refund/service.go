package refund

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/metrics"
	"hotelbooking/internal/repository"
)

type Service struct {
	tx       Transactor
	bookings BookingLedger
	refunds  RefundStore
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(tx Transactor, bookings BookingLedger, refunds RefundStore, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{tx: tx, bookings: bookings, refunds: refunds, log: log, now: time.Now}
}

// RequestRefund records a refund request for a booking and marks the
// booking's cancellation as requested. Both writes commit together.
// Inventory and payment status are left alone.
func (s *Service) RequestRefund(ctx context.Context, bookingID uuid.UUID, req RequestRefundRequest) (*domain.Refund, error) {
	reason := strings.TrimSpace(req.Reason)
	if req.AmountRequested <= 0 {
		metrics.ObserveRefund(metrics.OutcomeRejected)
		return nil, &ValidationError{Field: "amountRequested", Message: "Refund amount must be positive"}
	}
	if reason == "" {
		metrics.ObserveRefund(metrics.OutcomeRejected)
		return nil, &ValidationError{Field: "reason", Message: "Refund reason is required"}
	}

	var out *domain.Refund
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		b, err := s.bookings.GetByID(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		exists, err := s.refunds.ExistsForBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateRefund
		}

		refund := &domain.Refund{
			BookingID: b.ID,
			HotelID:   b.HotelID,
			RoomID:    b.RoomID,
			Guest: domain.RefundGuest{
				FirstName: b.GuestDetails.FirstName,
				LastName:  b.GuestDetails.LastName,
				Email:     b.GuestDetails.Email,
				Phone:     b.GuestDetails.Phone,
			},
			AmountRequested: req.AmountRequested,
			AmountActual:    b.Pricing.TotalAmount,
			Reason:          reason,
			RefundStatus:    domain.RefundPending,
		}
		if err := s.refunds.Create(ctx, tx, refund); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrDuplicateRefund
			}
			return fmt.Errorf("create refund: %w", err)
		}

		requestedAt := s.now().UTC()
		cancellation := b.Cancellation
		cancellation.Requested = true
		cancellation.RequestedAt = &requestedAt
		cancellation.Reason = reason
		cancellation.RefundAmount = req.AmountRequested
		cancellation.Status = domain.CancellationPending
		if err := s.bookings.UpdateCancellation(ctx, tx, b.ID, cancellation); err != nil {
			return fmt.Errorf("update cancellation: %w", err)
		}

		out = refund
		return nil
	})

	entry := s.log.WithFields(logrus.Fields{"booking_id": bookingID, "amount": req.AmountRequested.String()})
	switch {
	case err == nil:
		metrics.ObserveRefund(metrics.OutcomeCreated)
		entry.WithField("refund_id", out.ID).Info("refund requested")
		return out, nil
	case errors.Is(err, ErrBookingNotFound):
		metrics.ObserveRefund(metrics.OutcomeNotFound)
		return nil, err
	case errors.Is(err, ErrDuplicateRefund):
		metrics.ObserveRefund(metrics.OutcomeDuplicate)
		entry.Warn("refund rejected: already requested")
		return nil, err
	default:
		metrics.ObserveRefund(metrics.OutcomeFailed)
		entry.WithError(err).Error("refund request failed")
		return nil, err
	}
}

func (s *Service) ListRefunds(ctx context.Context) ([]domain.Refund, error) {
	out, err := s.refunds.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Refund{}
	}
	return out, nil
}
