package vacancy

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrHotelNotFound = errors.New("hotel not found")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
