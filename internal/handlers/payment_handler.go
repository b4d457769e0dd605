package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flightsync/booking-backend/internal/middleware"
	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/services"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create records a payment for a booking
func (h *PaymentHandler) Create(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	payment, err := h.paymentService.ProcessPayment(customerCtx.CustomerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// Refund refunds one of the customer's payments
// @Summary Refund a payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} models.Payment
// @Router /api/v1/payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	paymentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.RefundPayment(customerCtx.CustomerID, paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// Get returns one of the customer's payments
func (h *PaymentHandler) Get(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	paymentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(customerCtx.CustomerID, paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}
