package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/pricing"
)

// LoyaltyRepository handles the append-only loyalty ledger. Every append
// also updates the derived balance and tier on the customer row inside
// the same transaction, so the two can never drift apart.
type LoyaltyRepository struct {
	db *sqlx.DB
}

// NewLoyaltyRepository creates a new LoyaltyRepository
func NewLoyaltyRepository(db *sqlx.DB) *LoyaltyRepository {
	return &LoyaltyRepository{db: db}
}

// signedPoints converts a ledger magnitude into its balance delta
func signedPoints(points int, txType models.LoyaltyTransactionType) int {
	switch txType {
	case models.LoyaltyRedeemed, models.LoyaltyExpired:
		return -points
	default:
		return points
	}
}

// Append writes one ledger entry and updates the customer's derived
// balance and tier atomically. For REDEEMED and EXPIRED entries the
// balance is checked under lock first; nothing is written when the
// customer does not hold enough points.
func (r *LoyaltyRepository) Append(entry *models.LoyaltyTransaction) (*models.Customer, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	customer, err := r.appendInTx(tx, entry)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return customer, nil
}

// AppendTx is Append running inside a caller-owned transaction, for use
// by the booking engine which awards points as part of the booking commit
func (r *LoyaltyRepository) AppendTx(tx *sqlx.Tx, entry *models.LoyaltyTransaction) (*models.Customer, error) {
	return r.appendInTx(tx, entry)
}

func (r *LoyaltyRepository) appendInTx(tx *sqlx.Tx, entry *models.LoyaltyTransaction) (*models.Customer, error) {
	var balance int
	err := tx.QueryRowx(
		`SELECT loyalty_pts FROM customers WHERE cust_id = $1 FOR UPDATE`,
		entry.CustomerID,
	).Scan(&balance)
	if err != nil {
		return nil, fmt.Errorf("failed to lock customer: %w", err)
	}

	delta := signedPoints(entry.Points, entry.Type)
	newBalance := balance + delta
	if newBalance < 0 {
		return nil, models.ErrInsufficientPoints
	}

	insertQuery := `
		INSERT INTO loyalty_transactions (cust_id, booking_id, points, transaction_type, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING transaction_id, created_at`

	err = tx.QueryRowx(insertQuery,
		entry.CustomerID, entry.BookingID, entry.Points, entry.Type, entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append loyalty transaction: %w", err)
	}

	customer := &models.Customer{}
	updateQuery := `
		UPDATE customers
		SET loyalty_pts = $2, loyalty_tier = $3, updated_at = NOW()
		WHERE cust_id = $1
		RETURNING ` + customerColumns

	err = tx.QueryRowx(updateQuery,
		entry.CustomerID, newBalance, pricing.TierFor(newBalance),
	).StructScan(customer)
	if err != nil {
		return nil, fmt.Errorf("failed to update loyalty balance: %w", err)
	}

	return customer, nil
}

// GetHistory retrieves a customer's ledger entries, newest first
func (r *LoyaltyRepository) GetHistory(custID int64, limit int) ([]models.LoyaltyTransaction, error) {
	transactions := []models.LoyaltyTransaction{}
	query := `
		SELECT transaction_id, cust_id, booking_id, points, transaction_type, description, created_at
		FROM loyalty_transactions
		WHERE cust_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	if err := r.db.Select(&transactions, query, custID, limit); err != nil {
		return nil, fmt.Errorf("failed to get loyalty history: %w", err)
	}

	return transactions, nil
}
