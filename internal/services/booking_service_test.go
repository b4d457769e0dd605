package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/events"
	"github.com/flightsync/booking-backend/internal/models"
)

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock, *recordingNotifier) {
	db, mock := newMockSqlx(t)
	notifier := &recordingNotifier{}
	repo := database.NewBookingRepository(db, database.NewLoyaltyRepository(db))
	return NewBookingService(repo, notifier, newTestLogger()), mock, notifier
}

func TestCreateBookingValidation(t *testing.T) {
	t.Run("Zero Seats Rejected Before Storage", func(t *testing.T) {
		service, mock, notifier := newBookingService(t)

		_, err := service.CreateBooking(42, &models.CreateBookingRequest{
			FlightID:    1,
			SeatsBooked: 0,
		})
		assert.Error(t, err)
		assert.Empty(t, notifier.published())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Too Many Seats Rejected", func(t *testing.T) {
		service, _, _ := newBookingService(t)

		_, err := service.CreateBooking(42, &models.CreateBookingRequest{
			FlightID:    1,
			SeatsBooked: 10,
		})
		assert.Error(t, err)
	})
}

func TestCreateBookingEvents(t *testing.T) {
	t.Run("Loyalty Event Carries Ledger Row", func(t *testing.T) {
		service, mock, notifier := newBookingService(t)
		now := time.Now()

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

		booking, err := service.CreateBooking(42, &models.CreateBookingRequest{
			FlightID:     1,
			SeatsBooked:  2,
			BookingClass: models.BookingClassEconomy,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(100), booking.ID)

		published := notifier.published()
		require.Len(t, published, 3)
		assert.Equal(t, events.KindBookingCreated, published[0].Kind)
		assert.Equal(t, int64(100), published[0].RecordID)
		assert.Equal(t, events.KindPriceChanged, published[1].Kind)

		loyaltyEvent := published[2]
		assert.Equal(t, events.KindLoyaltyAdjusted, loyaltyEvent.Kind)
		assert.Equal(t, "loyalty_transactions", loyaltyEvent.Table)
		assert.Equal(t, int64(500), loyaltyEvent.RecordID)
		require.NotNil(t, loyaltyEvent.LoyaltyAdjusted)
		assert.Equal(t, int64(42), loyaltyEvent.LoyaltyAdjusted.CustomerID)
		assert.Equal(t, 76, loyaltyEvent.LoyaltyAdjusted.Points)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("Success Emits Cancel And Price Events", func(t *testing.T) {
		service, mock, notifier := newBookingService(t)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 42, 1, 2, 7650.0, "CONFIRMED"))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT flight_id FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"flight_id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 176, "SCHEDULED"))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1 FOR UPDATE`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 42, 1, 2, 7650.0, "CONFIRMED"))
		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(int64(100), "CANCELLED", sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE flights SET available_seats`).
			WithArgs(int64(1), 178).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT base_price FROM prices WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"base_price"}).AddRow(4500.0))
		mock.ExpectExec(`UPDATE prices`).
			WithArgs(int64(1), 0.85, 3825.0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		booking, err := service.CancelBooking(42, 100, nil)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, booking.Status)

		published := notifier.published()
		require.Len(t, published, 2)
		assert.Equal(t, events.KindBookingCancelled, published[0].Kind)
		require.NotNil(t, published[0].BookingCancelled)
		assert.Equal(t, int64(100), published[0].BookingCancelled.BookingID)
		assert.Equal(t, events.KindPriceChanged, published[1].Kind)
		require.NotNil(t, published[1].PriceChanged)
		assert.Equal(t, 3825.0, published[1].PriceChanged.NewPrice)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Owner", func(t *testing.T) {
		service, mock, notifier := newBookingService(t)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 43, 1, 2, 7650.0, "CONFIRMED"))

		_, err := service.CancelBooking(42, 100, nil)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Empty(t, notifier.published())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled Publishes Nothing", func(t *testing.T) {
		service, mock, notifier := newBookingService(t)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 42, 1, 2, 7650.0, "CANCELLED"))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT flight_id FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"flight_id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(flightRow(1, 180, 178, "SCHEDULED"))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1 FOR UPDATE`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 42, 1, 2, 7650.0, "CANCELLED"))
		mock.ExpectRollback()

		_, err := service.CancelBooking(42, 100, nil)

		var finalized *models.AlreadyFinalizedError
		require.ErrorAs(t, err, &finalized)
		assert.Equal(t, models.BookingStatusCancelled, finalized.Status)
		assert.Empty(t, notifier.published())

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBooking(t *testing.T) {
	t.Run("Owner Sees Booking", func(t *testing.T) {
		service, mock, _ := newBookingService(t)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 42, 1, 2, 7650.0, "CONFIRMED"))

		booking, err := service.GetBooking(42, 100)
		require.NoError(t, err)
		assert.Equal(t, "FS-1A2B3C4D", booking.BookingReference)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Other Customer Gets Not Found", func(t *testing.T) {
		service, mock, _ := newBookingService(t)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 43, 1, 2, 7650.0, "CONFIRMED"))

		_, err := service.GetBooking(42, 100)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
