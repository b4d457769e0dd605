package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightsync/booking-backend/internal/models"
)

func newMockSqlx(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

var flightRowColumns = []string{
	"flight_id", "flight_code", "origin", "destination", "dep_time", "arr_time",
	"total_seats", "available_seats", "status", "created_at", "updated_at",
}

var bookingRowColumns = []string{
	"booking_id", "cust_id", "flight_id", "booking_reference", "seats_booked",
	"total_cost", "status", "booking_class", "special_requests",
	"cancelled_at", "cancellation_reason", "created_at", "updated_at",
}

func flightRow(flightID int64, total, available int, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(flightRowColumns).AddRow(
		flightID, "FS101", "Colombo", "Singapore", now.Add(48*time.Hour), now.Add(52*time.Hour),
		total, available, status, now, now,
	)
}

func TestCreateBooking(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))
		now := time.Now()

		// 178 of 180 seats free keeps the flight in the discount band,
		// so two economy seats cost 2 x 3825
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 178, "SCHEDULED"))
		mock.ExpectQuery(`SELECT (.+) FROM prices WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{
				"price_id", "flight_id", "base_price", "current_price", "surge_multiplier", "last_updated",
			}).AddRow(int64(11), int64(1), 4500.0, 3825.0, 0.85, now))
		mock.ExpectExec(`UPDATE flights SET available_seats`).
			WithArgs(int64(1), 176).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE prices SET surge_multiplier`).
			WithArgs(int64(1), 0.85, 3825.0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(int64(42), int64(1), sqlmock.AnyArg(), 2, 7650.0, "CONFIRMED", "ECONOMY", nil).
			WillReturnRows(sqlmock.NewRows([]string{"booking_id", "created_at", "updated_at"}).
				AddRow(int64(100), now, now))
		mock.ExpectQuery(`SELECT loyalty_pts FROM customers WHERE cust_id = \$1 FOR UPDATE`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"loyalty_pts"}).AddRow(1950))
		mock.ExpectQuery(`INSERT INTO loyalty_transactions`).
			WithArgs(int64(42), int64(100), 76, "EARNED", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "created_at"}).
				AddRow(int64(500), now))
		mock.ExpectQuery(`UPDATE customers`).
			WithArgs(int64(42), 2026, "Silver").
			WillReturnRows(sqlmock.NewRows([]string{
				"cust_id", "fname", "lname", "email", "phone", "role", "balance",
				"loyalty_pts", "loyalty_tier", "created_at", "updated_at",
			}).AddRow(int64(42), "Jane", "Doe", "jane@example.com", nil, "customer", 0.0,
				2026, "Silver", now, now))
		mock.ExpectCommit()

		outcome, err := repo.Create(42, &models.CreateBookingRequest{
			FlightID:     1,
			SeatsBooked:  2,
			BookingClass: models.BookingClassEconomy,
		})
		require.NoError(t, err)
		assert.Equal(t, 7650.0, outcome.Booking.TotalCost)
		assert.Equal(t, models.BookingStatusConfirmed, outcome.Booking.Status)
		assert.Equal(t, 76, outcome.PointsEarned)
		assert.Equal(t, 176, outcome.SeatsRemaining)
		assert.Equal(t, models.TierSilver, outcome.Customer.LoyaltyTier)
		require.NotNil(t, outcome.LoyaltyEntry)
		assert.Equal(t, int64(500), outcome.LoyaltyEntry.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Business Class Multiplier", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 200, 100, "SCHEDULED"))
		mock.ExpectQuery(`SELECT (.+) FROM prices WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{
				"price_id", "flight_id", "base_price", "current_price", "surge_multiplier", "last_updated",
			}).AddRow(int64(11), int64(1), 1000.0, 1250.0, 1.25, now))
		mock.ExpectExec(`UPDATE flights SET available_seats`).
			WithArgs(int64(1), 99).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// 101 of 200 seats occupied stays in the same band
		mock.ExpectExec(`UPDATE prices SET surge_multiplier`).
			WithArgs(int64(1), 1.25, 1250.0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(int64(7), int64(1), sqlmock.AnyArg(), 1, 3125.0, "CONFIRMED", "BUSINESS", nil).
			WillReturnRows(sqlmock.NewRows([]string{"booking_id", "created_at", "updated_at"}).
				AddRow(int64(101), now, now))
		mock.ExpectQuery(`SELECT loyalty_pts FROM customers WHERE cust_id = \$1 FOR UPDATE`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"loyalty_pts"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO loyalty_transactions`).
			WithArgs(int64(7), int64(101), 31, "EARNED", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "created_at"}).
				AddRow(int64(501), now))
		mock.ExpectQuery(`UPDATE customers`).
			WithArgs(int64(7), 31, "Bronze").
			WillReturnRows(sqlmock.NewRows([]string{
				"cust_id", "fname", "lname", "email", "phone", "role", "balance",
				"loyalty_pts", "loyalty_tier", "created_at", "updated_at",
			}).AddRow(int64(7), "Amal", "Perera", "amal@example.com", nil, "customer", 0.0,
				31, "Bronze", now, now))
		mock.ExpectCommit()

		outcome, err := repo.Create(7, &models.CreateBookingRequest{
			FlightID:     1,
			SeatsBooked:  1,
			BookingClass: models.BookingClassBusiness,
		})
		require.NoError(t, err)
		assert.Equal(t, 3125.0, outcome.Booking.TotalCost)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient Seats", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 1, "SCHEDULED"))
		mock.ExpectRollback()

		outcome, err := repo.Create(42, &models.CreateBookingRequest{
			FlightID:     1,
			SeatsBooked:  2,
			BookingClass: models.BookingClassEconomy,
		})
		assert.Nil(t, outcome)

		var seatsErr *models.InsufficientSeatsError
		require.ErrorAs(t, err, &seatsErr)
		assert.Equal(t, 2, seatsErr.Requested)
		assert.Equal(t, 1, seatsErr.Available)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Flight Not Bookable", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 100, "CANCELLED"))
		mock.ExpectRollback()

		_, err := repo.Create(42, &models.CreateBookingRequest{
			FlightID:     1,
			SeatsBooked:  1,
			BookingClass: models.BookingClassEconomy,
		})
		assert.ErrorIs(t, err, models.ErrFlightNotBookable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Flight Not Found", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(flightRowColumns))
		mock.ExpectRollback()

		_, err := repo.Create(42, &models.CreateBookingRequest{
			FlightID:     99,
			SeatsBooked:  1,
			BookingClass: models.BookingClassEconomy,
		})
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelBooking(t *testing.T) {
	// Expectations are ordered: the flight row must be locked before the
	// booking row, the same order the other transitions take their locks.
	t.Run("Success Restores Seats And Reprices", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT flight_id FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"flight_id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 176, "SCHEDULED"))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1 FOR UPDATE`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
				int64(100), int64(42), int64(1), "FS-1A2B3C4D", 2,
				7650.0, "CONFIRMED", "ECONOMY", nil,
				nil, nil, now, now,
			))
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(int64(100), "CANCELLED", sqlmock.AnyArg(), "change of plans").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE flights SET available_seats`).
			WithArgs(int64(1), 178).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT base_price FROM prices WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"base_price"}).AddRow(4500.0))
		mock.ExpectExec(`UPDATE prices SET surge_multiplier`).
			WithArgs(int64(1), 0.85, 3825.0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		reason := "change of plans"
		outcome, err := repo.Cancel(100, &reason)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, outcome.Booking.Status)
		assert.NotNil(t, outcome.Booking.CancelledAt)
		assert.Equal(t, 3825.0, outcome.NewPrice)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled Is Finalized", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT flight_id FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"flight_id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 178, "SCHEDULED"))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1 FOR UPDATE`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
				int64(100), int64(42), int64(1), "FS-1A2B3C4D", 2,
				7650.0, "CANCELLED", "ECONOMY", nil,
				now, "earlier cancellation", now, now,
			))
		mock.ExpectRollback()

		_, err := repo.Cancel(100, nil)

		var finalized *models.AlreadyFinalizedError
		require.ErrorAs(t, err, &finalized)
		assert.Equal(t, models.BookingStatusCancelled, finalized.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Completed Cannot Be Cancelled", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT flight_id FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"flight_id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 178, "SCHEDULED"))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1 FOR UPDATE`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
				int64(100), int64(42), int64(1), "FS-1A2B3C4D", 2,
				7650.0, "COMPLETED", "ECONOMY", nil,
				nil, nil, now, now,
			))
		mock.ExpectRollback()

		_, err := repo.Cancel(100, nil)
		assert.ErrorIs(t, err, models.ErrCannotCancelCompleted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booking Not Found", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT flight_id FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows([]string{"flight_id"}))
		mock.ExpectRollback()

		_, err := repo.Cancel(999, nil)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestForceCancelFlight(t *testing.T) {
	t.Run("Refunds Active Bookings", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 140, "SCHEDULED"))
		mock.ExpectExec(`UPDATE flights SET status`).
			WithArgs(int64(1), "CANCELLED").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(int64(1), "PENDING", "CONFIRMED").
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).
				AddRow(int64(100), int64(42), int64(1), "FS-1A2B3C4D", 2,
					7650.0, "CONFIRMED", "ECONOMY", nil, nil, nil, now, now).
				AddRow(int64(101), int64(43), int64(1), "FS-5E6F7A8B", 1,
					3825.0, "CONFIRMED", "ECONOMY", nil, nil, nil, now, now))

		for _, b := range []struct {
			bookingID int64
			custID    int64
			cost      float64
		}{{100, 42, 7650.0}, {101, 43, 3825.0}} {
			mock.ExpectExec(`UPDATE bookings`).
				WithArgs(b.bookingID, "CANCELLED", "weather disruption").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(`UPDATE payments`).
				WithArgs(b.bookingID, "REFUNDED", "SUCCESS").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(`UPDATE customers`).
				WithArgs(b.custID, b.cost).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		result, err := repo.ForceCancelFlight(1, "weather disruption")
		require.NoError(t, err)
		assert.Equal(t, 2, result.BookingsCancelled)
		assert.Equal(t, 11475.0, result.TotalRefunded)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled Flight", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 140, "CANCELLED"))
		mock.ExpectRollback()

		_, err := repo.ForceCancelFlight(1, "weather disruption")
		assert.ErrorIs(t, err, models.ErrFlightAlreadyCancelled)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error Rolls Back", func(t *testing.T) {
		db, mock := newMockSqlx(t)
		repo := NewBookingRepository(db, NewLoyaltyRepository(db))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback()

		_, err := repo.ForceCancelFlight(1, "weather disruption")
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
