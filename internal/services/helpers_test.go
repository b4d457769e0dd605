package services

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/flightsync/booking-backend/internal/events"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newMockSqlx(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

// recordingNotifier captures published events for assertions
type recordingNotifier struct {
	mu     sync.Mutex
	events []events.Event
}

func (n *recordingNotifier) Publish(event events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) published() []events.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]events.Event(nil), n.events...)
}

var flightRowColumns = []string{
	"flight_id", "flight_code", "origin", "destination", "dep_time", "arr_time",
	"total_seats", "available_seats", "status", "created_at", "updated_at",
}

func flightRow(flightID int64, total, available int, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(flightRowColumns).AddRow(
		flightID, "FS101", "Colombo", "Singapore", now.Add(48*time.Hour), now.Add(52*time.Hour),
		total, available, status, now, now,
	)
}

var bookingRowColumns = []string{
	"booking_id", "cust_id", "flight_id", "booking_reference", "seats_booked",
	"total_cost", "status", "booking_class", "special_requests",
	"cancelled_at", "cancellation_reason", "created_at", "updated_at",
}

func bookingRow(bookingID, custID, flightID int64, seats int, cost float64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingRowColumns).AddRow(
		bookingID, custID, flightID, "FS-1A2B3C4D", seats,
		cost, status, "ECONOMY", nil, nil, nil, now, now,
	)
}

var priceRowColumns = []string{
	"price_id", "flight_id", "base_price", "current_price", "surge_multiplier",
	"min_price", "max_price", "last_updated",
}

func priceRow(flightID int64, base, current, surge float64) *sqlmock.Rows {
	return sqlmock.NewRows(priceRowColumns).AddRow(
		int64(11), flightID, base, current, surge, nil, nil, time.Now(),
	)
}
