package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/services"
)

// FlightHandler handles public flight endpoints
type FlightHandler struct {
	flightService *services.FlightService
	reviewService *services.ReviewService
}

// NewFlightHandler creates a new FlightHandler
func NewFlightHandler(flightService *services.FlightService, reviewService *services.ReviewService) *FlightHandler {
	return &FlightHandler{flightService: flightService, reviewService: reviewService}
}

// Search finds bookable flights. Criteria arrive as query parameters
// on GET or as a JSON body on POST.
// @Summary Search flights
// @Tags Flights
// @Produce json
// @Param origin query string false "Origin city"
// @Param destination query string false "Destination city"
// @Param date query string false "Departure date (YYYY-MM-DD)"
// @Param min_seats query int false "Minimum available seats"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/flights/search [get]
func (h *FlightHandler) Search(c *gin.Context) {
	var req models.FlightSearchRequest
	var err error
	if c.Request.Method == http.MethodPost {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search parameters", "details": err.Error()})
		return
	}

	flights, err := h.flightService.SearchFlights(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"flights": flights, "count": len(flights)})
}

// GetFlight returns a flight with its current price
func (h *FlightHandler) GetFlight(c *gin.Context) {
	flightID, ok := pathID(c, "id")
	if !ok {
		return
	}

	flight, price, err := h.flightService.GetFlight(flightID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"flight": flight, "price": price})
}

// GetReviews returns all reviews for a flight
func (h *FlightHandler) GetReviews(c *gin.Context) {
	flightID, ok := pathID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetFlightReviews(flightID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}
