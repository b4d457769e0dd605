package models

import "time"

// FlightSearchRequest represents flight search criteria
type FlightSearchRequest struct {
	Origin      string     `json:"origin" form:"origin"`
	Destination string     `json:"destination" form:"destination"`
	Date        *time.Time `json:"date,omitempty" form:"date" time_format:"2006-01-02"`
	MinSeats    int        `json:"min_seats" form:"min_seats"`
}

// FlightSummary is a search result row: flight joined with its live
// price and the demand label for the current occupancy band.
type FlightSummary struct {
	FlightID       int64        `json:"flight_id" db:"flight_id"`
	FlightCode     string       `json:"flight_code" db:"flight_code"`
	Origin         string       `json:"origin" db:"origin"`
	Destination    string       `json:"destination" db:"destination"`
	DepTime        time.Time    `json:"dep_time" db:"dep_time"`
	ArrTime        time.Time    `json:"arr_time" db:"arr_time"`
	AvailableSeats int          `json:"available_seats" db:"available_seats"`
	TotalSeats     int          `json:"total_seats" db:"total_seats"`
	Status         FlightStatus `json:"status" db:"status"`
	CurrentPrice   float64      `json:"current_price" db:"current_price"`
	PricingTier    string       `json:"pricing_tier"`
}

// RouteStats is one row of the route analytics aggregation
type RouteStats struct {
	Origin       string  `json:"origin" db:"origin"`
	Destination  string  `json:"destination" db:"destination"`
	FlightCount  int     `json:"flight_count" db:"flight_count"`
	BookingCount int     `json:"booking_count" db:"booking_count"`
	TotalRevenue float64 `json:"total_revenue" db:"total_revenue"`
}

// RevenueStats is the revenue analytics aggregation
type RevenueStats struct {
	TotalRevenue      float64 `json:"total_revenue" db:"total_revenue"`
	TotalBookings     int     `json:"total_bookings" db:"total_bookings"`
	CancelledBookings int     `json:"cancelled_bookings" db:"cancelled_bookings"`
	AverageBooking    float64 `json:"average_booking_value" db:"average_booking_value"`
	TotalSeatsSold    int     `json:"total_seats_sold" db:"total_seats_sold"`
}
