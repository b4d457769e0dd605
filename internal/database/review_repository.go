package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/flightsync/booking-backend/internal/models"
)

// ReviewRepository handles database operations for reviews table
type ReviewRepository struct {
	db DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. The reviews table carries a unique
// (cust_id, booking_id) constraint; a violation surfaces as
// ErrDuplicateReview.
func (r *ReviewRepository) Create(review *models.Review) error {
	query := `
		INSERT INTO reviews (
			cust_id, flight_id, booking_id, rating, comment,
			comfort_rating, service_rating, food_rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING review_id, helpful_count, created_at
	`

	err := r.db.QueryRow(query,
		review.CustomerID, review.FlightID, review.BookingID, review.Rating, review.Comment,
		review.ComfortRating, review.ServiceRating, review.FoodRating,
	).Scan(&review.ID, &review.HelpfulCount, &review.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return models.ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// Exists reports whether the customer has already reviewed the booking
func (r *ReviewRepository) Exists(custID, bookingID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM reviews WHERE cust_id = $1 AND booking_id = $2`

	if err := r.db.Get(&count, query, custID, bookingID); err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}

	return count > 0, nil
}

// GetByFlightID retrieves all reviews for a flight with reviewer names
func (r *ReviewRepository) GetByFlightID(flightID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	query := `
		SELECT rv.review_id, rv.cust_id, rv.flight_id, rv.booking_id, rv.rating, rv.comment,
			   rv.comfort_rating, rv.service_rating, rv.food_rating, rv.helpful_count,
			   c.fname || ' ' || c.lname AS customer_name, rv.created_at
		FROM reviews rv
		JOIN customers c ON c.cust_id = rv.cust_id
		WHERE rv.flight_id = $1
		ORDER BY rv.created_at DESC
	`

	if err := r.db.Select(&reviews, query, flightID); err != nil {
		return nil, fmt.Errorf("failed to get flight reviews: %w", err)
	}

	return reviews, nil
}

// IncrementHelpful bumps the helpful counter and returns the new count
func (r *ReviewRepository) IncrementHelpful(reviewID int64) (int, error) {
	var count int
	query := `
		UPDATE reviews SET helpful_count = helpful_count + 1
		WHERE review_id = $1
		RETURNING helpful_count
	`

	err := r.db.QueryRow(query, reviewID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment helpful count: %w", err)
	}

	return count, nil
}
