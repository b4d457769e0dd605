package models

import (
	"errors"
	"time"
)

// Review represents a customer review of a flown booking. One review is
// allowed per (customer, booking) pair.
type Review struct {
	ID            int64     `json:"review_id" db:"review_id"`
	CustomerID    int64     `json:"cust_id" db:"cust_id"`
	FlightID      int64     `json:"flight_id" db:"flight_id"`
	BookingID     int64     `json:"booking_id" db:"booking_id"`
	Rating        int       `json:"rating" db:"rating"`
	Comment       *string   `json:"comment,omitempty" db:"comment"`
	ComfortRating *int      `json:"comfort_rating,omitempty" db:"comfort_rating"`
	ServiceRating *int      `json:"service_rating,omitempty" db:"service_rating"`
	FoodRating    *int      `json:"food_rating,omitempty" db:"food_rating"`
	HelpfulCount  int       `json:"helpful_count" db:"helpful_count"`
	CustomerName  string    `json:"customer_name,omitempty" db:"customer_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CreateReviewRequest represents a review submission
type CreateReviewRequest struct {
	BookingID     int64   `json:"booking_id" binding:"required"`
	Rating        int     `json:"rating" binding:"required,min=1,max=5"`
	Comment       *string `json:"comment,omitempty"`
	ComfortRating *int    `json:"comfort_rating,omitempty"`
	ServiceRating *int    `json:"service_rating,omitempty"`
	FoodRating    *int    `json:"food_rating,omitempty"`
}

// Validate validates the review request
func (r *CreateReviewRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}

	for _, cat := range []*int{r.ComfortRating, r.ServiceRating, r.FoodRating} {
		if cat != nil && (*cat < 1 || *cat > 5) {
			return errors.New("category ratings must be between 1 and 5")
		}
	}

	return nil
}
