package refund

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrDuplicateRefund = errors.New("refund already requested for this booking")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
