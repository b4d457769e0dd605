package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/pricing"
)

// FlightRepository handles database operations for flights table
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

const flightColumns = `flight_id, flight_code, origin, destination, dep_time, arr_time,
	   total_seats, available_seats, status, created_at, updated_at`

// Create inserts a flight together with its price row in one
// transaction. The price is seeded with the surge for an empty flight
// so current_price is occupancy-consistent from the first read.
func (r *FlightRepository) Create(req *models.CreateFlightRequest) (*models.Flight, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	flight := &models.Flight{
		FlightCode:     req.FlightCode,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepTime:        req.DepTime,
		ArrTime:        req.ArrTime,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Status:         models.FlightStatusScheduled,
	}

	flightQuery := `
		INSERT INTO flights (
			flight_code, origin, destination, dep_time, arr_time,
			total_seats, available_seats, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING flight_id, created_at, updated_at`

	err = tx.QueryRowx(flightQuery,
		flight.FlightCode, flight.Origin, flight.Destination,
		flight.DepTime, flight.ArrTime,
		flight.TotalSeats, flight.AvailableSeats, flight.Status,
	).Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	surge, err := pricing.Surge(flight.AvailableSeats, flight.TotalSeats)
	if err != nil {
		return nil, err
	}

	priceQuery := `
		INSERT INTO prices (flight_id, base_price, current_price, surge_multiplier, last_updated)
		VALUES ($1, $2, $3, $4, NOW())`

	_, err = tx.Exec(priceQuery,
		flight.ID, req.BasePrice, pricing.PriceFor(req.BasePrice, surge), surge,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create price record: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return flight, nil
}

// RepriceOutcome carries the before and after of a price refresh
type RepriceOutcome struct {
	Flight   *models.Flight
	OldPrice float64
	OldSurge float64
	NewPrice float64
	NewSurge float64
}

// Reprice recomputes the flight's surge price from its current
// occupancy under the same flight-then-price lock order the booking
// transitions use, so a booking cannot slip between the occupancy read
// and the price write.
func (r *FlightRepository) Reprice(flightID int64) (*RepriceOutcome, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	flight, err := lockFlight(tx, flightID)
	if err != nil {
		return nil, err
	}

	price := &models.Price{}
	err = tx.QueryRowx(
		`SELECT price_id, flight_id, base_price, current_price, surge_multiplier, last_updated
		 FROM prices WHERE flight_id = $1 FOR UPDATE`,
		flightID,
	).StructScan(price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock price: %w", err)
	}

	newSurge, newPrice, err := repriceFlight(tx, flight, price.BasePrice)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &RepriceOutcome{
		Flight:   flight,
		OldPrice: price.CurrentPrice,
		OldSurge: price.SurgeMultiplier,
		NewPrice: newPrice,
		NewSurge: newSurge,
	}, nil
}

// GetByID retrieves a flight by ID
func (r *FlightRepository) GetByID(flightID int64) (*models.Flight, error) {
	flight := &models.Flight{}
	query := `SELECT ` + flightColumns + ` FROM flights WHERE flight_id = $1`

	err := r.db.Get(flight, query, flightID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	return flight, nil
}

// List retrieves all flights ordered by departure time
func (r *FlightRepository) List() ([]models.Flight, error) {
	flights := []models.Flight{}
	query := `SELECT ` + flightColumns + ` FROM flights ORDER BY dep_time`

	if err := r.db.Select(&flights, query); err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	return flights, nil
}

// ListScheduled retrieves all flights still open for booking
func (r *FlightRepository) ListScheduled() ([]models.Flight, error) {
	flights := []models.Flight{}
	query := `SELECT ` + flightColumns + ` FROM flights WHERE status = $1 ORDER BY dep_time`

	if err := r.db.Select(&flights, query, models.FlightStatusScheduled); err != nil {
		return nil, fmt.Errorf("failed to list scheduled flights: %w", err)
	}

	return flights, nil
}

// Update applies the provided flight detail changes
func (r *FlightRepository) Update(flightID int64, req *models.UpdateFlightRequest) (*models.Flight, error) {
	flight := &models.Flight{}
	query := `
		UPDATE flights
		SET origin = COALESCE($2, origin),
			destination = COALESCE($3, destination),
			dep_time = COALESCE($4, dep_time),
			arr_time = COALESCE($5, arr_time),
			status = COALESCE($6, status),
			updated_at = NOW()
		WHERE flight_id = $1
		RETURNING ` + flightColumns

	err := r.db.QueryRow(query,
		flightID, req.Origin, req.Destination, req.DepTime, req.ArrTime, req.Status,
	).Scan(
		&flight.ID, &flight.FlightCode, &flight.Origin, &flight.Destination,
		&flight.DepTime, &flight.ArrTime, &flight.TotalSeats, &flight.AvailableSeats,
		&flight.Status, &flight.CreatedAt, &flight.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update flight: %w", err)
	}

	return flight, nil
}
