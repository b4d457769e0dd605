package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flightsync/booking-backend/internal/middleware"
	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/services"
)

// CustomerHandler handles profile, dashboard and loyalty endpoints
type CustomerHandler struct {
	customerService *services.CustomerService
	loyaltyService  *services.LoyaltyService
	bookingService  *services.BookingService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(
	customerService *services.CustomerService,
	loyaltyService *services.LoyaltyService,
	bookingService *services.BookingService,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		loyaltyService:  loyaltyService,
		bookingService:  bookingService,
	}
}

// GetProfile returns the authenticated customer's profile
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	customer, err := h.customerService.GetProfile(customerCtx.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateProfile applies profile changes
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	customer, err := h.customerService.UpdateProfile(customerCtx.CustomerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// GetDashboard returns the customer's activity summary
// @Summary Customer dashboard
// @Tags Customers
// @Produce json
// @Success 200 {object} models.CustomerDashboard
// @Security BearerAuth
// @Router /api/v1/customers/me/dashboard [get]
func (h *CustomerHandler) GetDashboard(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	dashboard, err := h.customerService.GetDashboard(customerCtx.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetLoyalty returns the customer's loyalty balance and recent ledger
func (h *CustomerHandler) GetLoyalty(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	summary, err := h.loyaltyService.GetSummary(customerCtx.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RedeemPoints deducts loyalty points from the customer's balance
// @Summary Redeem loyalty points
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body models.RedeemPointsRequest true "Points to redeem"
// @Success 200 {object} models.Customer
// @Failure 400 {object} map[string]interface{} "Insufficient points"
// @Security BearerAuth
// @Router /api/v1/customers/me/loyalty/redeem [post]
func (h *CustomerHandler) RedeemPoints(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	var req models.RedeemPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	customer, err := h.loyaltyService.RedeemPoints(customerCtx.CustomerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// GetMyBookings returns all of the customer's bookings
func (h *CustomerHandler) GetMyBookings(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	bookings, err := h.bookingService.GetCustomerBookings(customerCtx.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}
