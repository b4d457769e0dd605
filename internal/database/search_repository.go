package database

import (
	"fmt"
	"strings"

	"github.com/flightsync/booking-backend/internal/models"
)

// SearchRepository handles flight search queries
type SearchRepository struct {
	db DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// SearchFlights finds bookable flights matching the criteria, joined
// with their live price. Empty criteria match everything scheduled.
func (r *SearchRepository) SearchFlights(req *models.FlightSearchRequest) ([]models.FlightSummary, error) {
	conditions := []string{"f.status = 'SCHEDULED'"}
	args := []interface{}{}
	argIdx := 1

	if req.Origin != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(f.origin) = LOWER($%d)", argIdx))
		args = append(args, req.Origin)
		argIdx++
	}
	if req.Destination != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(f.destination) = LOWER($%d)", argIdx))
		args = append(args, req.Destination)
		argIdx++
	}
	if req.Date != nil {
		conditions = append(conditions, fmt.Sprintf("DATE(f.dep_time) = DATE($%d)", argIdx))
		args = append(args, *req.Date)
		argIdx++
	}
	if req.MinSeats > 0 {
		conditions = append(conditions, fmt.Sprintf("f.available_seats >= $%d", argIdx))
		args = append(args, req.MinSeats)
		argIdx++
	}

	query := `
		SELECT f.flight_id, f.flight_code, f.origin, f.destination,
			   f.dep_time, f.arr_time, f.available_seats, f.total_seats, f.status,
			   p.current_price
		FROM flights f
		JOIN prices p ON p.flight_id = f.flight_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY f.dep_time`

	flights := []models.FlightSummary{}
	if err := r.db.Select(&flights, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}

	return flights, nil
}
