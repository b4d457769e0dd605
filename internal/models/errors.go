package models

import (
	"errors"
	"fmt"
)

// Domain errors returned by the booking, loyalty and review services.
// Handlers match these with errors.Is / errors.As to choose HTTP codes.
var (
	ErrFlightNotBookable      = errors.New("flight is not open for booking")
	ErrFlightAlreadyCancelled = errors.New("flight is already cancelled")
	ErrInsufficientPoints     = errors.New("insufficient loyalty points")
	ErrCannotCancelCompleted  = errors.New("completed bookings cannot be cancelled")
	ErrDuplicateReview        = errors.New("booking has already been reviewed")
	ErrPaymentNotRefundable   = errors.New("only successful payments can be refunded")
	ErrNotFound               = errors.New("record not found")
)

// InsufficientSeatsError is returned when a booking requests more seats
// than the flight has left. Available carries the remaining count so
// callers can surface it.
type InsufficientSeatsError struct {
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("insufficient seats: requested %d, only %d available", e.Requested, e.Available)
}

// AlreadyFinalizedError is returned when a cancellation targets a
// booking that is already in a terminal state. Repeated cancels are a
// no-op, not a crash.
type AlreadyFinalizedError struct {
	Status BookingStatus
}

func (e *AlreadyFinalizedError) Error() string {
	return fmt.Sprintf("booking is already finalized with status %s", e.Status)
}
