package database

import (
	"fmt"

	"github.com/flightsync/booking-backend/internal/models"
)

// AnalyticsRepository runs the read-only admin aggregations
type AnalyticsRepository struct {
	db DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// GetRevenueStats aggregates booking revenue across the platform
func (r *AnalyticsRepository) GetRevenueStats() (*models.RevenueStats, error) {
	stats := &models.RevenueStats{}
	query := `
		SELECT COALESCE(SUM(total_cost) FILTER (WHERE status IN ('CONFIRMED', 'COMPLETED')), 0) AS total_revenue,
			   COUNT(*) AS total_bookings,
			   COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancelled_bookings,
			   COALESCE(AVG(total_cost) FILTER (WHERE status IN ('CONFIRMED', 'COMPLETED')), 0) AS average_booking_value,
			   COALESCE(SUM(seats_booked) FILTER (WHERE status IN ('CONFIRMED', 'COMPLETED')), 0) AS total_seats_sold
		FROM bookings
	`

	if err := r.db.Get(stats, query); err != nil {
		return nil, fmt.Errorf("failed to get revenue stats: %w", err)
	}

	return stats, nil
}

// GetRouteStats aggregates bookings and revenue per route
func (r *AnalyticsRepository) GetRouteStats() ([]models.RouteStats, error) {
	stats := []models.RouteStats{}
	query := `
		SELECT f.origin, f.destination,
			   COUNT(DISTINCT f.flight_id) AS flight_count,
			   COUNT(b.booking_id) FILTER (WHERE b.status IN ('CONFIRMED', 'COMPLETED')) AS booking_count,
			   COALESCE(SUM(b.total_cost) FILTER (WHERE b.status IN ('CONFIRMED', 'COMPLETED')), 0) AS total_revenue
		FROM flights f
		LEFT JOIN bookings b ON b.flight_id = f.flight_id
		GROUP BY f.origin, f.destination
		ORDER BY total_revenue DESC
	`

	if err := r.db.Select(&stats, query); err != nil {
		return nil, fmt.Errorf("failed to get route stats: %w", err)
	}

	return stats, nil
}
