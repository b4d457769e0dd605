// Package pricing implements the occupancy-driven surge model and the
// loyalty tier thresholds. Everything here is pure: no storage, no I/O.
package pricing

import (
	"fmt"
	"math"

	"github.com/flightsync/booking-backend/internal/models"
)

// InvalidInventoryError is returned when seat counts are malformed:
// non-positive total, negative available, or available exceeding total.
type InvalidInventoryError struct {
	AvailableSeats int
	TotalSeats     int
}

func (e *InvalidInventoryError) Error() string {
	return fmt.Sprintf("invalid inventory: available=%d total=%d", e.AvailableSeats, e.TotalSeats)
}

// surgeBracket maps an occupancy band to a multiplier and demand label.
// Bands are half-open [min, max) except the last, which includes 1.0.
type surgeBracket struct {
	max        float64
	multiplier float64
	tier       string
}

var surgeBrackets = []surgeBracket{
	{max: 0.30, multiplier: 0.85, tier: "DISCOUNTED"},
	{max: 0.50, multiplier: 1.00, tier: "NORMAL"},
	{max: 0.70, multiplier: 1.25, tier: "MODERATE_DEMAND"},
	{max: 0.85, multiplier: 1.50, tier: "HIGH_DEMAND"},
	{max: 0.95, multiplier: 2.00, tier: "PREMIUM"},
	{max: math.Inf(1), multiplier: 2.50, tier: "PREMIUM"},
}

// Surge returns the price multiplier for the given seat inventory.
// Occupancy is (total - available) / total.
func Surge(availableSeats, totalSeats int) (float64, error) {
	bracket, err := bracketFor(availableSeats, totalSeats)
	if err != nil {
		return 0, err
	}
	return bracket.multiplier, nil
}

// Occupancy returns the occupied fraction of the flight
func Occupancy(availableSeats, totalSeats int) (float64, error) {
	if totalSeats <= 0 || availableSeats < 0 || availableSeats > totalSeats {
		return 0, &InvalidInventoryError{AvailableSeats: availableSeats, TotalSeats: totalSeats}
	}
	return float64(totalSeats-availableSeats) / float64(totalSeats), nil
}

// DemandTier returns the demand label shown in search results for the
// flight's current occupancy band
func DemandTier(availableSeats, totalSeats int) (string, error) {
	bracket, err := bracketFor(availableSeats, totalSeats)
	if err != nil {
		return "", err
	}
	return bracket.tier, nil
}

func bracketFor(availableSeats, totalSeats int) (surgeBracket, error) {
	occupancy, err := Occupancy(availableSeats, totalSeats)
	if err != nil {
		return surgeBracket{}, err
	}

	for _, b := range surgeBrackets {
		if occupancy < b.max {
			return b, nil
		}
	}
	// unreachable, the last bracket is unbounded
	return surgeBrackets[len(surgeBrackets)-1], nil
}

// PriceFor applies a surge multiplier to a base price, rounded to cents
func PriceFor(basePrice, multiplier float64) float64 {
	return math.Round(basePrice*multiplier*100) / 100
}

// ClassMultiplier returns the fare multiplier for a booking class.
// Unknown classes fall back to economy.
func ClassMultiplier(class models.BookingClass) float64 {
	switch class {
	case models.BookingClassPremiumEconomy:
		return 1.5
	case models.BookingClassBusiness:
		return 2.5
	case models.BookingClassFirst:
		return 4.0
	default:
		return 1.0
	}
}

// PointsForSpend converts a booking total into earned loyalty points,
// 1 point per full 100 spent
func PointsForSpend(totalCost float64) int {
	return int(math.Floor(totalCost / 100))
}

// TierFor returns the loyalty tier for a points balance
func TierFor(points int) models.LoyaltyTier {
	switch {
	case points >= 10000:
		return models.TierPlatinum
	case points >= 5000:
		return models.TierGold
	case points >= 2000:
		return models.TierSilver
	default:
		return models.TierBronze
	}
}
