package database

import (
	"fmt"

	"github.com/flightsync/booking-backend/internal/models"
)

// SessionRepository records login sessions with parsed device info
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create records a login session
func (r *SessionRepository) Create(session *models.LoginSession) error {
	query := `
		INSERT INTO login_sessions (cust_id, ip_address, device_type, browser, os)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING session_id, created_at
	`

	err := r.db.QueryRow(query,
		session.CustomerID, session.IPAddress, session.DeviceType, session.Browser, session.OS,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record login session: %w", err)
	}

	return nil
}

// GetByCustomerID retrieves recent login sessions for a customer
func (r *SessionRepository) GetByCustomerID(custID int64, limit int) ([]models.LoginSession, error) {
	sessions := []models.LoginSession{}
	query := `
		SELECT session_id, cust_id, ip_address, device_type, browser, os, created_at
		FROM login_sessions
		WHERE cust_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	if err := r.db.Select(&sessions, query, custID, limit); err != nil {
		return nil, fmt.Errorf("failed to get login sessions: %w", err)
	}

	return sessions, nil
}
