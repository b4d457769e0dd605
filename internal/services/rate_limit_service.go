package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flightsync/booking-backend/internal/database"
)

// RateLimitService throttles failed login attempts per email and per IP.
// Attempts are recorded in the login_attempts table and counted over a
// sliding window.
type RateLimitService struct {
	db database.DB
}

// NewRateLimitService creates a new RateLimitService
func NewRateLimitService(db database.DB) *RateLimitService {
	return &RateLimitService{db: db}
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxEmailAttempts int           // Max failed logins per email
	EmailWindow      time.Duration // Time window for the email limit
	MaxIPAttempts    int           // Max failed logins per IP
	IPWindow         time.Duration // Time window for the IP limit
}

// DefaultRateLimitConfig returns the default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxEmailAttempts: 5,
		EmailWindow:      15 * time.Minute,
		MaxIPAttempts:    20,
		IPWindow:         1 * time.Hour,
	}
}

// RateLimitError reports an exceeded limit and when to retry
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // "email" or "ip"
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// CheckLoginRateLimit reports whether an email or IP has exceeded the
// failed login limits
func (s *RateLimitService) CheckLoginRateLimit(email, ip string) error {
	config := DefaultRateLimitConfig()

	if email != "" {
		count, lastAttempt, err := s.getAttemptCount(email, "email", config.EmailWindow)
		if err != nil {
			return fmt.Errorf("failed to check email rate limit: %w", err)
		}

		if count >= config.MaxEmailAttempts {
			retryAfter := lastAttempt.Add(config.EmailWindow)
			return &RateLimitError{
				Message:    "Too many failed login attempts for this account. Please try again later",
				RetryAfter: retryAfter,
				Type:       "email",
			}
		}
	}

	if ip != "" {
		count, lastAttempt, err := s.getAttemptCount(ip, "ip", config.IPWindow)
		if err != nil {
			return fmt.Errorf("failed to check IP rate limit: %w", err)
		}

		if count >= config.MaxIPAttempts {
			retryAfter := lastAttempt.Add(config.IPWindow)
			return &RateLimitError{
				Message:    "Too many failed login attempts from this address. Please try again later",
				RetryAfter: retryAfter,
				Type:       "ip",
			}
		}
	}

	return nil
}

func (s *RateLimitService) getAttemptCount(identifier, identifierType string, window time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Add(-window)

	query := `
		SELECT COUNT(*), COALESCE(MAX(created_at), NOW())
		FROM login_attempts
		WHERE identifier = $1
		  AND identifier_type = $2
		  AND created_at > $3
	`

	var count int
	var lastAttempt time.Time

	err := s.db.QueryRow(query, identifier, identifierType, windowStart).Scan(&count, &lastAttempt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, err
	}

	return count, lastAttempt, nil
}

// RecordFailedLogin records a failed login attempt against both the
// email and the source IP
func (s *RateLimitService) RecordFailedLogin(email, ip string) error {
	if email != "" {
		if err := s.recordAttempt(email, "email"); err != nil {
			return fmt.Errorf("failed to record email attempt: %w", err)
		}
	}

	if ip != "" {
		if err := s.recordAttempt(ip, "ip"); err != nil {
			return fmt.Errorf("failed to record IP attempt: %w", err)
		}
	}

	return nil
}

func (s *RateLimitService) recordAttempt(identifier, identifierType string) error {
	query := `
		INSERT INTO login_attempts (identifier, identifier_type, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := s.db.Exec(query, identifier, identifierType)
	return err
}

// CleanupExpiredAttempts removes attempts older than the longest window
func (s *RateLimitService) CleanupExpiredAttempts() (int64, error) {
	config := DefaultRateLimitConfig()

	maxWindow := config.IPWindow
	if config.EmailWindow > maxWindow {
		maxWindow = config.EmailWindow
	}

	cutoff := time.Now().Add(-maxWindow)

	result, err := s.db.Exec(`DELETE FROM login_attempts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup login attempts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// IsRateLimited reports whether an identifier is currently limited
func (s *RateLimitService) IsRateLimited(identifier, identifierType string) (bool, time.Time, error) {
	config := DefaultRateLimitConfig()

	window := config.EmailWindow
	maxAttempts := config.MaxEmailAttempts
	if identifierType == "ip" {
		window = config.IPWindow
		maxAttempts = config.MaxIPAttempts
	}

	count, lastAttempt, err := s.getAttemptCount(identifier, identifierType, window)
	if err != nil {
		return false, time.Time{}, err
	}

	if count >= maxAttempts {
		return true, lastAttempt.Add(window), nil
	}

	return false, time.Time{}, nil
}
