package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/pricing"
)

// BookingRepository handles database operations for bookings. Booking
// creation, cancellation and flight force-cancel are multi-table
// transitions and run as single transactions serialized per flight
// through a SELECT FOR UPDATE on the flight row.
type BookingRepository struct {
	db      *sqlx.DB
	loyalty *LoyaltyRepository
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB, loyalty *LoyaltyRepository) *BookingRepository {
	return &BookingRepository{db: db, loyalty: loyalty}
}

const bookingColumns = `booking_id, cust_id, flight_id, booking_reference, seats_booked,
	   total_cost, status, booking_class, special_requests,
	   cancelled_at, cancellation_reason, created_at, updated_at`

// GenerateBookingReference produces a reference like FS-3F2A9C1B
func GenerateBookingReference() string {
	return "FS-" + strings.ToUpper(uuid.New().String()[:8])
}

// BookingOutcome carries everything a created booking changed, so the
// caller can log and emit change events after commit.
type BookingOutcome struct {
	Booking        *models.Booking
	Customer       *models.Customer
	LoyaltyEntry   *models.LoyaltyTransaction
	PointsEarned   int
	OldPrice       float64
	NewPrice       float64
	NewSurge       float64
	SeatsRemaining int
}

// Create runs the whole booking transition in one transaction:
// lock flight, validate, charge the pre-decrement price, decrement
// seats, reprice for the next booker, insert the booking and award
// loyalty points.
func (r *BookingRepository) Create(custID int64, req *models.CreateBookingRequest) (*BookingOutcome, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	flight, err := lockFlight(tx, req.FlightID)
	if err != nil {
		return nil, err
	}

	if !flight.IsBookable() {
		return nil, models.ErrFlightNotBookable
	}
	if flight.AvailableSeats < req.SeatsBooked {
		return nil, &models.InsufficientSeatsError{
			Requested: req.SeatsBooked,
			Available: flight.AvailableSeats,
		}
	}

	price := &models.Price{}
	err = tx.QueryRowx(
		`SELECT price_id, flight_id, base_price, current_price, surge_multiplier, last_updated
		 FROM prices WHERE flight_id = $1 FOR UPDATE`,
		flight.ID,
	).StructScan(price)
	if err != nil {
		return nil, fmt.Errorf("failed to lock price: %w", err)
	}

	// The booker pays the price that was displayed before their own
	// seats tightened the inventory.
	totalCost := pricing.PriceFor(price.CurrentPrice*float64(req.SeatsBooked), pricing.ClassMultiplier(req.BookingClass))

	flight.AvailableSeats -= req.SeatsBooked
	if err := updateSeats(tx, flight.ID, flight.AvailableSeats); err != nil {
		return nil, err
	}

	newSurge, newPrice, err := repriceFlight(tx, flight, price.BasePrice)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		CustomerID:       custID,
		FlightID:         flight.ID,
		BookingReference: GenerateBookingReference(),
		SeatsBooked:      req.SeatsBooked,
		TotalCost:        totalCost,
		Status:           models.BookingStatusConfirmed,
		BookingClass:     req.BookingClass,
		SpecialRequests:  req.SpecialRequests,
	}

	insertQuery := `
		INSERT INTO bookings (
			cust_id, flight_id, booking_reference, seats_booked,
			total_cost, status, booking_class, special_requests
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING booking_id, created_at, updated_at`

	err = tx.QueryRowx(insertQuery,
		booking.CustomerID, booking.FlightID, booking.BookingReference, booking.SeatsBooked,
		booking.TotalCost, booking.Status, booking.BookingClass, booking.SpecialRequests,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	points := pricing.PointsForSpend(totalCost)
	entry := &models.LoyaltyTransaction{
		CustomerID:  custID,
		BookingID:   &booking.ID,
		Points:      points,
		Type:        models.LoyaltyEarned,
		Description: fmt.Sprintf("Points earned for booking %s", booking.BookingReference),
	}
	customer, err := r.loyalty.AppendTx(tx, entry)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &BookingOutcome{
		Booking:        booking,
		Customer:       customer,
		LoyaltyEntry:   entry,
		PointsEarned:   points,
		OldPrice:       price.CurrentPrice,
		NewPrice:       newPrice,
		NewSurge:       newSurge,
		SeatsRemaining: flight.AvailableSeats,
	}, nil
}

// CancelOutcome carries the state changed by a cancellation
type CancelOutcome struct {
	Booking  *models.Booking
	NewPrice float64
	NewSurge float64
}

// Cancel reverses a booking: restores seats and reprices the flight.
// Earned loyalty points are intentionally not clawed back. Cancelling a
// booking that is already cancelled or refunded returns
// AlreadyFinalizedError so callers can treat it as a no-op.
//
// Row locks are taken flight first, then booking, the same order Create
// and ForceCancelFlight use, so concurrent transitions on one flight
// cannot deadlock each other.
func (r *BookingRepository) Cancel(bookingID int64, reason *string) (*CancelOutcome, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var flightID int64
	err = tx.QueryRowx(
		`SELECT flight_id FROM bookings WHERE booking_id = $1`,
		bookingID,
	).Scan(&flightID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking flight: %w", err)
	}

	flight, err := lockFlight(tx, flightID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{}
	err = tx.QueryRowx(
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_id = $1 FOR UPDATE`,
		bookingID,
	).StructScan(booking)
	if err != nil {
		return nil, fmt.Errorf("failed to lock booking: %w", err)
	}

	if booking.Status == models.BookingStatusCompleted {
		return nil, models.ErrCannotCancelCompleted
	}
	if !booking.IsCancellable() {
		return nil, &models.AlreadyFinalizedError{Status: booking.Status}
	}

	now := time.Now()
	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = reason

	_, err = tx.Exec(
		`UPDATE bookings
		 SET status = $2, cancelled_at = $3, cancellation_reason = $4, updated_at = NOW()
		 WHERE booking_id = $1`,
		booking.ID, booking.Status, booking.CancelledAt, booking.CancellationReason,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	flight.AvailableSeats += booking.SeatsBooked
	if err := updateSeats(tx, flight.ID, flight.AvailableSeats); err != nil {
		return nil, err
	}

	var basePrice float64
	err = tx.QueryRowx(
		`SELECT base_price FROM prices WHERE flight_id = $1 FOR UPDATE`,
		flight.ID,
	).Scan(&basePrice)
	if err != nil {
		return nil, fmt.Errorf("failed to lock price: %w", err)
	}

	newSurge, newPrice, err := repriceFlight(tx, flight, basePrice)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &CancelOutcome{Booking: booking, NewPrice: newPrice, NewSurge: newSurge}, nil
}

// ForceCancelResult summarizes an admin flight cancellation
type ForceCancelResult struct {
	FlightID          int64   `json:"flight_id"`
	BookingsCancelled int     `json:"bookings_cancelled"`
	TotalRefunded     float64 `json:"total_refunded"`
}

// ForceCancelFlight cancels a flight and every active booking on it.
// Each affected customer's wallet is credited with the booking cost and
// the booking's payments are marked refunded. Seats are not restored,
// the flight no longer sells.
func (r *BookingRepository) ForceCancelFlight(flightID int64, reason string) (*ForceCancelResult, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	flight, err := lockFlight(tx, flightID)
	if err != nil {
		return nil, err
	}

	if flight.Status == models.FlightStatusCancelled {
		return nil, models.ErrFlightAlreadyCancelled
	}

	_, err = tx.Exec(
		`UPDATE flights SET status = $2, updated_at = NOW() WHERE flight_id = $1`,
		flightID, models.FlightStatusCancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel flight: %w", err)
	}

	active := []models.Booking{}
	err = tx.Select(&active,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE flight_id = $1 AND status IN ($2, $3)
		 FOR UPDATE`,
		flightID, models.BookingStatusPending, models.BookingStatusConfirmed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load active bookings: %w", err)
	}

	result := &ForceCancelResult{FlightID: flightID}
	for i := range active {
		b := &active[i]

		_, err = tx.Exec(
			`UPDATE bookings
			 SET status = $2, cancelled_at = NOW(), cancellation_reason = $3, updated_at = NOW()
			 WHERE booking_id = $1`,
			b.ID, models.BookingStatusCancelled, reason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to cancel booking %d: %w", b.ID, err)
		}

		_, err = tx.Exec(
			`UPDATE payments SET status = $2, updated_at = NOW()
			 WHERE booking_id = $1 AND status = $3`,
			b.ID, models.PaymentStatusRefunded, models.PaymentStatusSuccess,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to refund payments for booking %d: %w", b.ID, err)
		}

		_, err = tx.Exec(
			`UPDATE customers SET balance = balance + $2, updated_at = NOW() WHERE cust_id = $1`,
			b.CustomerID, b.TotalCost,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to credit customer %d: %w", b.CustomerID, err)
		}

		result.BookingsCancelled++
		result.TotalRefunded += b.TotalCost
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1`

	err := r.db.Get(booking, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// GetByCustomerID retrieves all bookings for a customer with flight details
func (r *BookingRepository) GetByCustomerID(custID int64) ([]models.BookingDetail, error) {
	bookings := []models.BookingDetail{}
	query := `
		SELECT b.booking_id, b.cust_id, b.flight_id, b.booking_reference, b.seats_booked,
			   b.total_cost, b.status, b.booking_class, b.special_requests,
			   b.cancelled_at, b.cancellation_reason, b.created_at, b.updated_at,
			   f.flight_code, f.origin, f.destination, f.dep_time, f.arr_time
		FROM bookings b
		JOIN flights f ON f.flight_id = b.flight_id
		WHERE b.cust_id = $1
		ORDER BY b.created_at DESC
	`

	if err := r.db.Select(&bookings, query, custID); err != nil {
		return nil, fmt.Errorf("failed to get customer bookings: %w", err)
	}

	return bookings, nil
}

// GetUpcoming retrieves a customer's confirmed bookings on flights that
// have not departed yet
func (r *BookingRepository) GetUpcoming(custID int64) ([]models.BookingDetail, error) {
	bookings := []models.BookingDetail{}
	query := `
		SELECT b.booking_id, b.cust_id, b.flight_id, b.booking_reference, b.seats_booked,
			   b.total_cost, b.status, b.booking_class, b.special_requests,
			   b.cancelled_at, b.cancellation_reason, b.created_at, b.updated_at,
			   f.flight_code, f.origin, f.destination, f.dep_time, f.arr_time
		FROM bookings b
		JOIN flights f ON f.flight_id = b.flight_id
		WHERE b.cust_id = $1
		  AND b.status = $2
		  AND f.dep_time > NOW()
		ORDER BY f.dep_time
	`

	if err := r.db.Select(&bookings, query, custID, models.BookingStatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to get upcoming bookings: %w", err)
	}

	return bookings, nil
}

// lockFlight reads the flight row under FOR UPDATE, serializing all
// transitions touching this flight's inventory
func lockFlight(tx *sqlx.Tx, flightID int64) (*models.Flight, error) {
	flight := &models.Flight{}
	err := tx.QueryRowx(
		`SELECT `+flightColumns+` FROM flights WHERE flight_id = $1 FOR UPDATE`,
		flightID,
	).StructScan(flight)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock flight: %w", err)
	}

	return flight, nil
}

func updateSeats(tx *sqlx.Tx, flightID int64, availableSeats int) error {
	_, err := tx.Exec(
		`UPDATE flights SET available_seats = $2, updated_at = NOW() WHERE flight_id = $1`,
		flightID, availableSeats,
	)
	if err != nil {
		return fmt.Errorf("failed to update seats: %w", err)
	}
	return nil
}

// repriceFlight recomputes the surge for the flight's current occupancy
// and writes the new price
func repriceFlight(tx *sqlx.Tx, flight *models.Flight, basePrice float64) (surge, newPrice float64, err error) {
	surge, err = pricing.Surge(flight.AvailableSeats, flight.TotalSeats)
	if err != nil {
		return 0, 0, err
	}

	newPrice = pricing.PriceFor(basePrice, surge)
	_, err = tx.Exec(
		`UPDATE prices SET surge_multiplier = $2, current_price = $3, last_updated = NOW()
		 WHERE flight_id = $1`,
		flight.ID, surge, newPrice,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update price: %w", err)
	}

	return surge, newPrice, nil
}
