package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/services"
)

// AdminHandler handles flight management, pricing and analytics
// endpoints. All routes require the admin role.
type AdminHandler struct {
	flightService    *services.FlightService
	bookingService   *services.BookingService
	pricingService   *services.PricingService
	analyticsService *services.AnalyticsService
	cronService      *services.CronService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	flightService *services.FlightService,
	bookingService *services.BookingService,
	pricingService *services.PricingService,
	analyticsService *services.AnalyticsService,
	cronService *services.CronService,
) *AdminHandler {
	return &AdminHandler{
		flightService:    flightService,
		bookingService:   bookingService,
		pricingService:   pricingService,
		analyticsService: analyticsService,
		cronService:      cronService,
	}
}

// ListFlights returns all flights
func (h *AdminHandler) ListFlights(c *gin.Context) {
	flights, err := h.flightService.ListFlights()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"flights": flights, "count": len(flights)})
}

// CreateFlight adds a flight with its seeded price record
// @Summary Add a flight
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body models.CreateFlightRequest true "Flight details"
// @Success 201 {object} models.Flight
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Security BearerAuth
// @Router /api/v1/admin/flights [post]
func (h *AdminHandler) CreateFlight(c *gin.Context) {
	var req models.CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	flight, err := h.flightService.CreateFlight(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, flight)
}

// UpdateFlight applies changes to flight details
func (h *AdminHandler) UpdateFlight(c *gin.Context) {
	flightID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	flight, err := h.flightService.UpdateFlight(flightID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, flight)
}

// ForceCancelFlight cancels a flight and refunds every active booking
// @Summary Cancel a flight
// @Description Cancels the flight, cancels all active bookings and credits refunds to customer wallets
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Flight ID"
// @Success 200 {object} database.ForceCancelResult
// @Failure 404 {object} map[string]interface{} "Flight not found"
// @Failure 409 {object} map[string]interface{} "Flight already cancelled"
// @Security BearerAuth
// @Router /api/v1/admin/flights/{id}/cancel [post]
func (h *AdminHandler) ForceCancelFlight(c *gin.Context) {
	flightID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Reason == "" {
		req.Reason = "Flight cancelled by airline"
	}

	result, err := h.bookingService.ForceCancelFlight(flightID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RefreshPrice recomputes one flight's surge price
func (h *AdminHandler) RefreshPrice(c *gin.Context) {
	flightID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.pricingService.RefreshPrice(flightID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RefreshAllPrices recomputes every scheduled flight's surge price
func (h *AdminHandler) RefreshAllPrices(c *gin.Context) {
	results, err := h.pricingService.RefreshAllPrices()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"refreshed": results, "count": len(results)})
}

// RevenueStats returns platform-wide booking revenue
func (h *AdminHandler) RevenueStats(c *gin.Context) {
	stats, err := h.analyticsService.GetRevenueStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// JobStatus reports the state of scheduled background jobs
func (h *AdminHandler) JobStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.cronService.JobStatus())
}

// RouteStats returns per-route booking and revenue totals
func (h *AdminHandler) RouteStats(c *gin.Context) {
	stats, err := h.analyticsService.GetRouteStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": stats})
}
