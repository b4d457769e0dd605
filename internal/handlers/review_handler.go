package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flightsync/booking-backend/internal/middleware"
	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/services"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create records a review for one of the customer's bookings and awards
// the review bonus
// @Summary Review a booking
// @Tags Reviews
// @Accept json
// @Produce json
// @Param request body models.CreateReviewRequest true "Review"
// @Success 201 {object} models.Review
// @Failure 409 {object} map[string]interface{} "Booking already reviewed"
// @Security BearerAuth
// @Router /api/v1/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	review, err := h.reviewService.CreateReview(customerCtx.CustomerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// MarkHelpful bumps a review's helpful counter
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	count, err := h.reviewService.MarkHelpful(reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review_id": reviewID, "helpful_count": count})
}
