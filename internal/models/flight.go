package models

import (
	"errors"
	"time"
)

// FlightStatus represents the operational status of a flight
type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusBoarding  FlightStatus = "BOARDING"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusArrived   FlightStatus = "ARRIVED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
)

// Flight represents a scheduled flight with its seat inventory.
// available_seats is the authoritative seat count and is only mutated
// through booking/cancellation transitions or an admin force-cancel.
type Flight struct {
	ID             int64        `json:"flight_id" db:"flight_id"`
	FlightCode     string       `json:"flight_code" db:"flight_code"`
	Origin         string       `json:"origin" db:"origin"`
	Destination    string       `json:"destination" db:"destination"`
	DepTime        time.Time    `json:"dep_time" db:"dep_time"`
	ArrTime        time.Time    `json:"arr_time" db:"arr_time"`
	TotalSeats     int          `json:"total_seats" db:"total_seats"`
	AvailableSeats int          `json:"available_seats" db:"available_seats"`
	Status         FlightStatus `json:"status" db:"status"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// CreateFlightRequest represents the admin request to add a flight
type CreateFlightRequest struct {
	FlightCode  string    `json:"flight_code" binding:"required"`
	Origin      string    `json:"origin" binding:"required"`
	Destination string    `json:"destination" binding:"required"`
	DepTime     time.Time `json:"dep_time" binding:"required"`
	ArrTime     time.Time `json:"arr_time" binding:"required"`
	TotalSeats  int       `json:"total_seats"`
	BasePrice   float64   `json:"base_price" binding:"required"`
}

// UpdateFlightRequest represents the admin request to update flight details
type UpdateFlightRequest struct {
	Origin      *string       `json:"origin,omitempty"`
	Destination *string       `json:"destination,omitempty"`
	DepTime     *time.Time    `json:"dep_time,omitempty"`
	ArrTime     *time.Time    `json:"arr_time,omitempty"`
	Status      *FlightStatus `json:"status,omitempty"`
}

// Validate validates the create flight request
func (r *CreateFlightRequest) Validate() error {
	if r.TotalSeats <= 0 {
		return errors.New("total_seats must be greater than zero")
	}

	if r.BasePrice <= 0 {
		return errors.New("base_price must be greater than zero")
	}

	if !r.ArrTime.After(r.DepTime) {
		return errors.New("arrival time must be after departure time")
	}

	return nil
}

// IsBookable reports whether the flight accepts new bookings
func (f *Flight) IsBookable() bool {
	return f.Status == FlightStatusScheduled
}
