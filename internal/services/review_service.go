package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/models"
)

// ReviewService handles flight reviews and the review bonus
type ReviewService struct {
	reviewRepo     *database.ReviewRepository
	bookingRepo    *database.BookingRepository
	loyaltyService *LoyaltyService
	logger         *logrus.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo *database.ReviewRepository,
	bookingRepo *database.BookingRepository,
	loyaltyService *LoyaltyService,
	logger *logrus.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		bookingRepo:    bookingRepo,
		loyaltyService: loyaltyService,
		logger:         logger,
	}
}

// CreateReview records a review for one of the customer's bookings and
// awards the flat review bonus. A second review for the same booking is
// rejected with ErrDuplicateReview before any points move.
func (s *ReviewService) CreateReview(custID int64, req *models.CreateReviewRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != custID {
		return nil, models.ErrNotFound
	}

	exists, err := s.reviewRepo.Exists(custID, req.BookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateReview
	}

	review := &models.Review{
		CustomerID:    custID,
		FlightID:      booking.FlightID,
		BookingID:     req.BookingID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		ComfortRating: req.ComfortRating,
		ServiceRating: req.ServiceRating,
		FoodRating:    req.FoodRating,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"review_id":  review.ID,
		"cust_id":    custID,
		"booking_id": req.BookingID,
		"rating":     req.Rating,
	}).Info("Review created")

	_, err = s.loyaltyService.AwardBonus(custID, &req.BookingID, ReviewBonusPoints,
		fmt.Sprintf("Review bonus for booking %s", booking.BookingReference))
	if err != nil {
		// the review stands even if the bonus write fails
		s.logger.WithFields(logrus.Fields{
			"cust_id":    custID,
			"booking_id": req.BookingID,
			"error":      err.Error(),
		}).Error("Failed to award review bonus")
	}

	return review, nil
}

// GetFlightReviews retrieves all reviews for a flight
func (s *ReviewService) GetFlightReviews(flightID int64) ([]models.Review, error) {
	return s.reviewRepo.GetByFlightID(flightID)
}

// MarkHelpful bumps a review's helpful counter
func (s *ReviewService) MarkHelpful(reviewID int64) (int, error) {
	return s.reviewRepo.IncrementHelpful(reviewID)
}
