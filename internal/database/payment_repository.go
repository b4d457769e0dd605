package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flightsync/booking-backend/internal/models"
)

// PaymentRepository handles database operations for payments table.
// Refunds touch the customer wallet as well and run as a transaction.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `payment_id, booking_id, amount, payment_method, status,
	   transaction_ref, created_at, updated_at`

// Create records a successful payment against a booking
func (r *PaymentRepository) Create(bookingID int64, amount float64, method models.PaymentMethod) (*models.Payment, error) {
	payment := &models.Payment{
		BookingID:      bookingID,
		Amount:         amount,
		Method:         method,
		Status:         models.PaymentStatusSuccess,
		TransactionRef: "TXN_" + strings.ToUpper(uuid.New().String()[:12]),
	}

	query := `
		INSERT INTO payments (booking_id, amount, payment_method, status, transaction_ref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING payment_id, created_at, updated_at
	`

	err := r.db.QueryRow(query,
		payment.BookingID, payment.Amount, payment.Method, payment.Status, payment.TransactionRef,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, nil
}

// Refund marks a successful payment REFUNDED and credits the amount
// back to the booking's customer wallet in one transaction. Payments in
// any other state return ErrPaymentNotRefundable.
func (r *PaymentRepository) Refund(paymentID int64) (*models.Payment, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	payment := &models.Payment{}
	err = tx.QueryRowx(
		`SELECT `+paymentColumns+` FROM payments WHERE payment_id = $1 FOR UPDATE`,
		paymentID,
	).StructScan(payment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock payment: %w", err)
	}

	if payment.Status != models.PaymentStatusSuccess {
		return nil, models.ErrPaymentNotRefundable
	}

	var custID int64
	err = tx.QueryRowx(
		`SELECT cust_id FROM bookings WHERE booking_id = $1`,
		payment.BookingID,
	).Scan(&custID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment booking: %w", err)
	}

	err = tx.QueryRowx(
		`UPDATE payments SET status = $2, updated_at = NOW() WHERE payment_id = $1
		 RETURNING updated_at`,
		paymentID, models.PaymentStatusRefunded,
	).Scan(&payment.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to refund payment: %w", err)
	}
	payment.Status = models.PaymentStatusRefunded

	_, err = tx.Exec(
		`UPDATE customers SET balance = balance + $2, updated_at = NOW() WHERE cust_id = $1`,
		custID, payment.Amount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to credit customer %d: %w", custID, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return payment, nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(paymentID int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1`

	err := r.db.Get(payment, query, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// GetByBookingID retrieves all payments for a booking
func (r *PaymentRepository) GetByBookingID(bookingID int64) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at`

	if err := r.db.Select(&payments, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to get booking payments: %w", err)
	}

	return payments, nil
}
