package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/flightsync/booking-backend/internal/models"
)

// PriceRepository handles database operations for prices table
type PriceRepository struct {
	db DB
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(db DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetByFlightID retrieves the price record for a flight
func (r *PriceRepository) GetByFlightID(flightID int64) (*models.Price, error) {
	price := &models.Price{}
	query := `
		SELECT price_id, flight_id, base_price, current_price, surge_multiplier,
			   min_price, max_price, last_updated
		FROM prices
		WHERE flight_id = $1
	`

	err := r.db.Get(price, query, flightID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}

	return price, nil
}
