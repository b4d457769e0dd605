package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/models"
)

func newPaymentService(t *testing.T) (*PaymentService, sqlmock.Sqlmock) {
	db, mock := newMockSqlx(t)
	paymentRepo := database.NewPaymentRepository(db)
	bookingRepo := database.NewBookingRepository(db, database.NewLoyaltyRepository(db))
	return NewPaymentService(paymentRepo, bookingRepo, newTestLogger()), mock
}

var paymentRowColumns = []string{
	"payment_id", "booking_id", "amount", "payment_method", "status",
	"transaction_ref", "created_at", "updated_at",
}

func paymentRow(paymentID, bookingID int64, amount float64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(paymentRowColumns).AddRow(
		paymentID, bookingID, amount, "CREDIT_CARD", status,
		"TXN_1A2B3C4D5E6F", now, now,
	)
}

func TestProcessPayment(t *testing.T) {
	t.Run("Success Charges Booking Cost", func(t *testing.T) {
		service, mock := newPaymentService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 42, 1, 2, 7650.0, "CONFIRMED"))
		mock.ExpectQuery(`INSERT INTO payments`).
			WithArgs(int64(100), 7650.0, "CREDIT_CARD", "SUCCESS", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"payment_id", "created_at", "updated_at"}).
				AddRow(int64(9), now, now))

		payment, err := service.ProcessPayment(42, &models.CreatePaymentRequest{
			BookingID: 100,
			Method:    models.PaymentMethodCard,
		})
		require.NoError(t, err)
		assert.Equal(t, 7650.0, payment.Amount)
		assert.Equal(t, models.PaymentStatusSuccess, payment.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Owner", func(t *testing.T) {
		service, mock := newPaymentService(t)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 43, 1, 2, 7650.0, "CONFIRMED"))

		_, err := service.ProcessPayment(42, &models.CreatePaymentRequest{
			BookingID: 100,
			Method:    models.PaymentMethodCard,
		})
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRefundPayment(t *testing.T) {
	t.Run("Success Credits Wallet", func(t *testing.T) {
		service, mock := newPaymentService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE payment_id = \$1`).
			WithArgs(int64(9)).
			WillReturnRows(paymentRow(9, 100, 7650.0, "SUCCESS"))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 42, 1, 2, 7650.0, "CANCELLED"))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE payment_id = \$1 FOR UPDATE`).
			WithArgs(int64(9)).
			WillReturnRows(paymentRow(9, 100, 7650.0, "SUCCESS"))
		mock.ExpectQuery(`SELECT cust_id FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"cust_id"}).AddRow(int64(42)))
		mock.ExpectQuery(`UPDATE payments SET status`).
			WithArgs(int64(9), "REFUNDED").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectExec(`UPDATE customers SET balance`).
			WithArgs(int64(42), 7650.0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		payment, err := service.RefundPayment(42, 9)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, payment.Status)
		assert.Equal(t, 7650.0, payment.Amount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Refunded Writes Nothing", func(t *testing.T) {
		service, mock := newPaymentService(t)

		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE payment_id = \$1`).
			WithArgs(int64(9)).
			WillReturnRows(paymentRow(9, 100, 7650.0, "REFUNDED"))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 42, 1, 2, 7650.0, "CANCELLED"))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE payment_id = \$1 FOR UPDATE`).
			WithArgs(int64(9)).
			WillReturnRows(paymentRow(9, 100, 7650.0, "REFUNDED"))
		mock.ExpectRollback()

		_, err := service.RefundPayment(42, 9)
		assert.ErrorIs(t, err, models.ErrPaymentNotRefundable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Owner", func(t *testing.T) {
		service, mock := newPaymentService(t)

		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE payment_id = \$1`).
			WithArgs(int64(9)).
			WillReturnRows(paymentRow(9, 100, 7650.0, "SUCCESS"))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(bookingRow(100, 43, 1, 2, 7650.0, "CONFIRMED"))

		_, err := service.RefundPayment(42, 9)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Payment Not Found", func(t *testing.T) {
		service, mock := newPaymentService(t)

		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE payment_id = \$1`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows(paymentRowColumns))

		_, err := service.RefundPayment(42, 999)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
