package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightsync/booking-backend/internal/models"
)

func TestSurge(t *testing.T) {
	t.Run("Occupancy Brackets", func(t *testing.T) {
		tests := []struct {
			name      string
			available int
			total     int
			expected  float64
		}{
			{"Empty Flight", 180, 180, 0.85},
			{"Just Under 30 Percent", 127, 180, 0.85},
			{"Exactly 30 Percent", 126, 180, 1.00},
			{"Just Under 50 Percent", 101, 200, 1.00},
			{"Exactly 50 Percent", 100, 200, 1.25},
			{"Exactly 70 Percent", 60, 200, 1.50},
			{"Exactly 85 Percent", 30, 200, 2.00},
			{"Exactly 95 Percent", 10, 200, 2.50},
			{"Full Flight", 0, 200, 2.50},
			{"Nearly Empty", 178, 180, 0.85},
			{"Nearly Full", 20, 180, 2.00},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				multiplier, err := Surge(tt.available, tt.total)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, multiplier)
			})
		}
	})

	t.Run("Invalid Inventory", func(t *testing.T) {
		tests := []struct {
			name      string
			available int
			total     int
		}{
			{"Zero Total Seats", 0, 0},
			{"Negative Total Seats", 10, -5},
			{"Negative Available Seats", -1, 100},
			{"Available Exceeds Total", 101, 100},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Surge(tt.available, tt.total)
				require.Error(t, err)

				var invErr *InvalidInventoryError
				require.ErrorAs(t, err, &invErr)
				assert.Equal(t, tt.available, invErr.AvailableSeats)
				assert.Equal(t, tt.total, invErr.TotalSeats)
			})
		}
	})
}

func TestPriceFor(t *testing.T) {
	t.Run("Discounted Empty Flight", func(t *testing.T) {
		// 2/180 seats occupied keeps the flight in the discount band
		multiplier, err := Surge(178, 180)
		require.NoError(t, err)
		assert.Equal(t, 3825.0, PriceFor(4500, multiplier))
	})

	t.Run("High Demand Flight", func(t *testing.T) {
		// 160/180 occupied puts occupancy at ~0.889
		multiplier, err := Surge(20, 180)
		require.NoError(t, err)
		assert.Equal(t, 9000.0, PriceFor(4500, multiplier))
	})

	t.Run("Rounds To Cents", func(t *testing.T) {
		assert.Equal(t, 123.46, PriceFor(98.765, 1.25))
	})
}

func TestDemandTier(t *testing.T) {
	tests := []struct {
		name      string
		available int
		total     int
		expected  string
	}{
		{"Discounted", 180, 180, "DISCOUNTED"},
		{"Normal", 120, 200, "NORMAL"},
		{"Moderate Demand", 80, 200, "MODERATE_DEMAND"},
		{"High Demand", 50, 200, "HIGH_DEMAND"},
		{"Premium", 20, 200, "PREMIUM"},
		{"Sold Out Premium", 0, 200, "PREMIUM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := DemandTier(tt.available, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tier)
		})
	}
}

func TestClassMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, ClassMultiplier(models.BookingClassEconomy))
	assert.Equal(t, 1.5, ClassMultiplier(models.BookingClassPremiumEconomy))
	assert.Equal(t, 2.5, ClassMultiplier(models.BookingClassBusiness))
	assert.Equal(t, 4.0, ClassMultiplier(models.BookingClassFirst))
	assert.Equal(t, 1.0, ClassMultiplier(models.BookingClass("UNKNOWN")))
}

func TestPointsForSpend(t *testing.T) {
	tests := []struct {
		name     string
		cost     float64
		expected int
	}{
		{"Below One Point", 99.99, 0},
		{"Exact Hundred", 100, 1},
		{"Truncates Fraction", 7650, 76},
		{"Large Booking", 22500, 225},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PointsForSpend(tt.cost))
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		name     string
		points   int
		expected models.LoyaltyTier
	}{
		{"Zero Points", 0, models.TierBronze},
		{"Just Below Silver", 1999, models.TierBronze},
		{"Silver Threshold", 2000, models.TierSilver},
		{"Just Below Gold", 4999, models.TierSilver},
		{"Gold Threshold", 5000, models.TierGold},
		{"Just Below Platinum", 9999, models.TierGold},
		{"Platinum Threshold", 10000, models.TierPlatinum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TierFor(tt.points))
		})
	}
}
