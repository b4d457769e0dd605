package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/flightsync/booking-backend/internal/models"
)

// CustomerRepository handles database operations for customers table
type CustomerRepository struct {
	db DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `cust_id, fname, lname, email, phone, role, balance,
	   loyalty_pts, loyalty_tier, created_at, updated_at`

// Create inserts a new customer with a hashed password
func (r *CustomerRepository) Create(req *models.RegisterRequest, passwordHash string) (*models.Customer, error) {
	customer := &models.Customer{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       strings.ToLower(req.Email),
		Phone:       req.Phone,
		Role:        models.RoleCustomer,
		LoyaltyTier: models.TierBronze,
	}

	query := `
		INSERT INTO customers (fname, lname, email, phone, password_hash, role, loyalty_tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING cust_id, balance, loyalty_pts, created_at, updated_at
	`

	err := r.db.QueryRow(query,
		customer.FirstName, customer.LastName, customer.Email, customer.Phone,
		passwordHash, customer.Role, customer.LoyaltyTier,
	).Scan(&customer.ID, &customer.Balance, &customer.LoyaltyPts, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// GetByID retrieves a customer by ID
func (r *CustomerRepository) GetByID(custID int64) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE cust_id = $1`

	err := r.db.Get(customer, query, custID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetByEmail retrieves a customer and their password hash for login
func (r *CustomerRepository) GetByEmail(email string) (*models.Customer, string, error) {
	row := struct {
		models.Customer
		PasswordHash string `db:"password_hash"`
	}{}
	query := `SELECT ` + customerColumns + `, password_hash FROM customers WHERE email = $1`

	err := r.db.Get(&row, query, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", models.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get customer by email: %w", err)
	}

	return &row.Customer, row.PasswordHash, nil
}

// UpdateProfile applies the provided profile changes
func (r *CustomerRepository) UpdateProfile(custID int64, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `
		UPDATE customers
		SET fname = COALESCE($2, fname),
			lname = COALESCE($3, lname),
			phone = COALESCE($4, phone),
			updated_at = NOW()
		WHERE cust_id = $1
		RETURNING ` + customerColumns

	err := r.db.QueryRow(query, custID, req.FirstName, req.LastName, req.Phone).Scan(
		&customer.ID, &customer.FirstName, &customer.LastName, &customer.Email,
		&customer.Phone, &customer.Role, &customer.Balance,
		&customer.LoyaltyPts, &customer.LoyaltyTier, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// GetDashboard aggregates a customer's booking activity in one query
func (r *CustomerRepository) GetDashboard(custID int64) (*models.CustomerDashboard, error) {
	dashboard := &models.CustomerDashboard{}
	query := `
		SELECT c.fname || ' ' || c.lname AS customer_name,
			   c.email,
			   c.loyalty_tier,
			   c.loyalty_pts AS loyalty_points,
			   c.balance AS wallet_balance,
			   COUNT(b.booking_id) AS total_bookings,
			   COUNT(b.booking_id) FILTER (
				   WHERE b.status = 'CONFIRMED' AND f.dep_time > NOW()
			   ) AS upcoming_flights,
			   COALESCE(SUM(b.total_cost) FILTER (
				   WHERE b.status IN ('CONFIRMED', 'COMPLETED')
			   ), 0) AS total_spent
		FROM customers c
		LEFT JOIN bookings b ON b.cust_id = c.cust_id
		LEFT JOIN flights f ON f.flight_id = b.flight_id
		WHERE c.cust_id = $1
		GROUP BY c.cust_id
	`

	err := r.db.Get(dashboard, query, custID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}

	return dashboard, nil
}
