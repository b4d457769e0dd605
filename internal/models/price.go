package models

import "time"

// Price represents the pricing record for a flight (1:1 with flights).
// Invariant: CurrentPrice == BasePrice * SurgeMultiplier after every write.
// MinPrice/MaxPrice are informational soft bounds; the surge calculation
// does not clamp to them.
type Price struct {
	ID              int64     `json:"price_id" db:"price_id"`
	FlightID        int64     `json:"flight_id" db:"flight_id"`
	BasePrice       float64   `json:"base_price" db:"base_price"`
	CurrentPrice    float64   `json:"current_price" db:"current_price"`
	SurgeMultiplier float64   `json:"surge_multiplier" db:"surge_multiplier"`
	MinPrice        *float64  `json:"min_price,omitempty" db:"min_price"`
	MaxPrice        *float64  `json:"max_price,omitempty" db:"max_price"`
	LastUpdated     time.Time `json:"last_updated" db:"last_updated"`
}

// PriceRefreshResult summarizes a manual price refresh for one flight
type PriceRefreshResult struct {
	FlightID   int64   `json:"flight_id"`
	FlightCode string  `json:"flight_code"`
	OldPrice   float64 `json:"old_price"`
	NewPrice   float64 `json:"new_price"`
	OldSurge   float64 `json:"old_surge"`
	NewSurge   float64 `json:"new_surge"`
	Occupancy  float64 `json:"occupancy_rate"`
}
