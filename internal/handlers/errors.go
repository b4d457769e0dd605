package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/pricing"
	"github.com/flightsync/booking-backend/internal/services"
)

// respondError maps domain errors to HTTP statuses. Infrastructure
// errors become an opaque 500; their details stay in the logs.
func respondError(c *gin.Context, err error) {
	var insufficientSeats *models.InsufficientSeatsError
	var alreadyFinalized *models.AlreadyFinalizedError
	var invalidInventory *pricing.InvalidInventoryError
	var rateLimited *services.RateLimitError

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, models.ErrFlightNotBookable):
		c.JSON(http.StatusConflict, gin.H{"error": "This flight is not open for booking"})
	case errors.Is(err, models.ErrFlightAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "This flight is already cancelled"})
	case errors.As(err, &insufficientSeats):
		c.JSON(http.StatusConflict, gin.H{
			"error":           "Not enough seats available",
			"seats_requested": insufficientSeats.Requested,
			"seats_available": insufficientSeats.Available,
		})
	case errors.Is(err, models.ErrInsufficientPoints):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient loyalty points"})
	case errors.Is(err, models.ErrCannotCancelCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Completed bookings cannot be cancelled"})
	case errors.As(err, &alreadyFinalized):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Booking is already finalized",
			"status": alreadyFinalized.Status,
		})
	case errors.Is(err, models.ErrPaymentNotRefundable):
		c.JSON(http.StatusConflict, gin.H{"error": "Only successful payments can be refunded"})
	case errors.Is(err, models.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this booking"})
	case errors.As(err, &invalidInventory):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Flight has inconsistent seat inventory"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.As(err, &rateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       rateLimited.Message,
			"retry_after": rateLimited.RetryAfter,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// pathID parses a positive integer path parameter, writing a 400 on
// failure
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := parseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
