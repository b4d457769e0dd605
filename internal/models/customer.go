package models

import (
	"errors"
	"strings"
	"time"
)

// LoyaltyTier represents a customer's loyalty classification, derived
// purely from the loyalty point balance
type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "Bronze"
	TierSilver   LoyaltyTier = "Silver"
	TierGold     LoyaltyTier = "Gold"
	TierPlatinum LoyaltyTier = "Platinum"
)

// CustomerRole represents the access role of a customer account.
// Admin access is an explicit role on the account, not a magic email.
type CustomerRole string

const (
	RoleCustomer CustomerRole = "customer"
	RoleAdmin    CustomerRole = "admin"
)

// Customer represents a registered customer. LoyaltyPts and LoyaltyTier
// are derived from the loyalty ledger and kept in sync atomically with
// every points mutation.
type Customer struct {
	ID          int64        `json:"cust_id" db:"cust_id"`
	FirstName   string       `json:"fname" db:"fname"`
	LastName    string       `json:"lname" db:"lname"`
	Email       string       `json:"email" db:"email"`
	Phone       *string      `json:"phone,omitempty" db:"phone"`
	Role        CustomerRole `json:"role" db:"role"`
	Balance     float64      `json:"balance" db:"balance"`
	LoyaltyPts  int          `json:"loyalty_pts" db:"loyalty_pts"`
	LoyaltyTier LoyaltyTier  `json:"loyalty_tier" db:"loyalty_tier"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// RegisterRequest represents the customer registration request
type RegisterRequest struct {
	FirstName string  `json:"fname" binding:"required"`
	LastName  string  `json:"lname" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone,omitempty"`
	Password  string  `json:"password" binding:"required"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateCustomerRequest represents the profile update request
type UpdateCustomerRequest struct {
	FirstName *string `json:"fname,omitempty"`
	LastName  *string `json:"lname,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// CustomerDashboard aggregates a customer's activity for the dashboard view
type CustomerDashboard struct {
	CustomerName    string      `json:"customer_name" db:"customer_name"`
	Email           string      `json:"email" db:"email"`
	LoyaltyTier     LoyaltyTier `json:"loyalty_tier" db:"loyalty_tier"`
	LoyaltyPoints   int         `json:"loyalty_points" db:"loyalty_points"`
	WalletBalance   float64     `json:"wallet_balance" db:"wallet_balance"`
	TotalBookings   int         `json:"total_bookings" db:"total_bookings"`
	UpcomingFlights int         `json:"upcoming_flights" db:"upcoming_flights"`
	TotalSpent      float64     `json:"total_spent" db:"total_spent"`
}

// Validate validates the registration request
func (r *RegisterRequest) Validate() error {
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return errors.New("first and last name are required")
	}

	return nil
}

// IsAdmin reports whether the customer holds the admin role
func (c *Customer) IsAdmin() bool {
	return c.Role == RoleAdmin
}
