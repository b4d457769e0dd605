package models

import "time"

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebit  PaymentMethod = "DEBIT_CARD"
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodPayPal PaymentMethod = "PAYPAL"
)

// PaymentStatus represents the state of a payment record
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Payment represents a payment against a booking
type Payment struct {
	ID             int64         `json:"payment_id" db:"payment_id"`
	BookingID      int64         `json:"booking_id" db:"booking_id"`
	Amount         float64       `json:"amount" db:"amount"`
	Method         PaymentMethod `json:"payment_method" db:"payment_method"`
	Status         PaymentStatus `json:"status" db:"status"`
	TransactionRef string        `json:"transaction_ref" db:"transaction_ref"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// CreatePaymentRequest represents a payment submission for a booking
type CreatePaymentRequest struct {
	BookingID int64         `json:"booking_id" binding:"required"`
	Method    PaymentMethod `json:"payment_method" binding:"required"`
}
