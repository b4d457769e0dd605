package models

import "time"

// LoginSession records a successful login with the parsed device info
// from the User-Agent header
type LoginSession struct {
	ID         int64     `json:"session_id" db:"session_id"`
	CustomerID int64     `json:"cust_id" db:"cust_id"`
	IPAddress  string    `json:"ip_address" db:"ip_address"`
	DeviceType string    `json:"device_type" db:"device_type"`
	Browser    string    `json:"browser" db:"browser"`
	OS         string    `json:"os" db:"os"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
