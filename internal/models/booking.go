package models

import (
	"errors"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusRefunded  BookingStatus = "REFUNDED"
)

// BookingClass represents the fare category of a booking
type BookingClass string

const (
	BookingClassEconomy        BookingClass = "ECONOMY"
	BookingClassPremiumEconomy BookingClass = "PREMIUM_ECONOMY"
	BookingClassBusiness       BookingClass = "BUSINESS"
	BookingClassFirst          BookingClass = "FIRST"
)

// Booking represents a customer's seat reservation on a flight.
// TotalCost is frozen at booking time and never recomputed when the
// flight price later changes.
type Booking struct {
	ID                 int64         `json:"booking_id" db:"booking_id"`
	CustomerID         int64         `json:"cust_id" db:"cust_id"`
	FlightID           int64         `json:"flight_id" db:"flight_id"`
	BookingReference   string        `json:"booking_reference" db:"booking_reference"`
	SeatsBooked        int           `json:"seats_booked" db:"seats_booked"`
	TotalCost          float64       `json:"total_cost" db:"total_cost"`
	Status             BookingStatus `json:"status" db:"status"`
	BookingClass       BookingClass  `json:"booking_class" db:"booking_class"`
	SpecialRequests    *string       `json:"special_requests,omitempty" db:"special_requests"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancellationReason *string       `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

// BookingDetail is a booking joined with its flight for display
type BookingDetail struct {
	Booking
	FlightCode  string    `json:"flight_code" db:"flight_code"`
	Origin      string    `json:"origin" db:"origin"`
	Destination string    `json:"destination" db:"destination"`
	DepTime     time.Time `json:"dep_time" db:"dep_time"`
	ArrTime     time.Time `json:"arr_time" db:"arr_time"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	FlightID        int64        `json:"flight_id" binding:"required"`
	SeatsBooked     int          `json:"seats_booked" binding:"required,min=1"`
	BookingClass    BookingClass `json:"booking_class"`
	SpecialRequests *string      `json:"special_requests,omitempty"`
}

// CancelBookingRequest represents the request to cancel a booking
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if r.SeatsBooked <= 0 {
		return errors.New("seats_booked must be at least 1")
	}

	if r.SeatsBooked > 9 {
		return errors.New("maximum 9 seats can be booked at once")
	}

	if r.BookingClass == "" {
		r.BookingClass = BookingClassEconomy
	}

	switch r.BookingClass {
	case BookingClassEconomy, BookingClassPremiumEconomy, BookingClassBusiness, BookingClassFirst:
	default:
		return errors.New("invalid booking_class")
	}

	return nil
}

// IsCancellable reports whether the booking may still go through the
// cancellation transition
func (b *Booking) IsCancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
