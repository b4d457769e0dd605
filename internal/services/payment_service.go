package services

import (
	"github.com/sirupsen/logrus"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/models"
)

// PaymentService records payments against bookings
type PaymentService struct {
	paymentRepo *database.PaymentRepository
	bookingRepo *database.BookingRepository
	logger      *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo *database.PaymentRepository,
	bookingRepo *database.BookingRepository,
	logger *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// ProcessPayment records a payment for the full booking cost. The
// booking must belong to the paying customer.
func (s *PaymentService) ProcessPayment(custID int64, req *models.CreatePaymentRequest) (*models.Payment, error) {
	booking, err := s.bookingRepo.GetByID(req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != custID {
		return nil, models.ErrNotFound
	}

	payment, err := s.paymentRepo.Create(req.BookingID, booking.TotalCost, req.Method)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id":  payment.ID,
		"booking_id":  req.BookingID,
		"amount":      payment.Amount,
		"method":      payment.Method,
		"transaction": payment.TransactionRef,
	}).Info("Payment processed")

	return payment, nil
}

// RefundPayment refunds one of the customer's payments: the payment is
// marked REFUNDED and the amount is credited to the customer's wallet.
// Only successful payments can be refunded.
func (s *PaymentService) RefundPayment(custID, paymentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(payment.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != custID {
		return nil, models.ErrNotFound
	}

	refunded, err := s.paymentRepo.Refund(paymentID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": refunded.ID,
		"booking_id": refunded.BookingID,
		"cust_id":    custID,
		"amount":     refunded.Amount,
	}).Info("Payment refunded")

	return refunded, nil
}

// GetPayment retrieves a payment, checking the booking belongs to the
// customer
func (s *PaymentService) GetPayment(custID, paymentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(payment.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != custID {
		return nil, models.ErrNotFound
	}

	return payment, nil
}
