package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flightsync/booking-backend/internal/middleware"
	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/services"
)

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create books seats on a flight
// @Summary Create a booking
// @Description Books seats at the currently displayed price and awards loyalty points
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.Booking
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Flight not found"
// @Failure 409 {object} map[string]interface{} "Flight not bookable or insufficient seats"
// @Security BearerAuth
// @Router /api/v1/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookingService.CreateBooking(customerCtx.CustomerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// Get returns one of the customer's bookings
func (h *BookingHandler) Get(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(customerCtx.CustomerID, bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// Upcoming returns the customer's confirmed future bookings
func (h *BookingHandler) Upcoming(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	bookings, err := h.bookingService.GetUpcomingBookings(customerCtx.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// Cancel cancels a booking, restoring seats and repricing the flight
// @Summary Cancel a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body models.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} models.Booking
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 409 {object} map[string]interface{} "Booking already finalized or completed"
// @Security BearerAuth
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookingService.CancelBooking(customerCtx.CustomerID, bookingID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
