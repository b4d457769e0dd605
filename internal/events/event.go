// Package events publishes change notifications for downstream
// consumers (cache invalidation, notification fan-out). Publishing is
// fire-and-forget: a failed publish is logged and never fails the
// operation that produced it.
package events

import "time"

// EventKind discriminates the payload carried by an Event
type EventKind string

const (
	KindPriceChanged     EventKind = "PRICE_CHANGED"
	KindBookingCreated   EventKind = "BOOKING_CREATED"
	KindBookingCancelled EventKind = "BOOKING_CANCELLED"
	KindFlightCancelled  EventKind = "FLIGHT_CANCELLED"
	KindLoyaltyAdjusted  EventKind = "LOYALTY_ADJUSTED"
)

// Event is the envelope published for every tracked change. Exactly one
// payload field is set, matching Kind.
type Event struct {
	Kind       EventKind `json:"kind"`
	Table      string    `json:"table"`
	Operation  string    `json:"operation"`
	RecordID   int64     `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`

	PriceChanged     *PriceChangedPayload     `json:"price_changed,omitempty"`
	BookingCreated   *BookingCreatedPayload   `json:"booking_created,omitempty"`
	BookingCancelled *BookingCancelledPayload `json:"booking_cancelled,omitempty"`
	FlightCancelled  *FlightCancelledPayload  `json:"flight_cancelled,omitempty"`
	LoyaltyAdjusted  *LoyaltyAdjustedPayload  `json:"loyalty_adjusted,omitempty"`
}

// PriceChangedPayload describes a surge reprice
type PriceChangedPayload struct {
	FlightID       int64   `json:"flight_id"`
	OldPrice       float64 `json:"old_price"`
	NewPrice       float64 `json:"new_price"`
	Surge          float64 `json:"surge_multiplier"`
	AvailableSeats int     `json:"available_seats"`
}

// BookingCreatedPayload describes a confirmed booking
type BookingCreatedPayload struct {
	BookingID        int64   `json:"booking_id"`
	BookingReference string  `json:"booking_reference"`
	CustomerID       int64   `json:"cust_id"`
	FlightID         int64   `json:"flight_id"`
	SeatsBooked      int     `json:"seats_booked"`
	TotalCost        float64 `json:"total_cost"`
}

// BookingCancelledPayload describes a cancelled booking
type BookingCancelledPayload struct {
	BookingID  int64  `json:"booking_id"`
	CustomerID int64  `json:"cust_id"`
	FlightID   int64  `json:"flight_id"`
	Reason     string `json:"reason,omitempty"`
}

// FlightCancelledPayload describes an admin flight cancellation
type FlightCancelledPayload struct {
	FlightID          int64   `json:"flight_id"`
	Reason            string  `json:"reason"`
	BookingsCancelled int     `json:"bookings_cancelled"`
	TotalRefunded     float64 `json:"total_refunded"`
}

// LoyaltyAdjustedPayload describes a loyalty ledger append
type LoyaltyAdjustedPayload struct {
	CustomerID int64  `json:"cust_id"`
	Points     int    `json:"points"`
	Type       string `json:"transaction_type"`
	NewBalance int    `json:"new_balance"`
	NewTier    string `json:"new_tier"`
}

// NewEvent builds the envelope for a payload-bearing event
func NewEvent(kind EventKind, table, operation string, recordID int64) Event {
	return Event{
		Kind:       kind,
		Table:      table,
		Operation:  operation,
		RecordID:   recordID,
		OccurredAt: time.Now().UTC(),
	}
}

// Notifier delivers change events to downstream consumers
type Notifier interface {
	Publish(event Event)
	Close() error
}
