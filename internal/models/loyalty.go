package models

import "time"

// LoyaltyTransactionType classifies a loyalty ledger entry
type LoyaltyTransactionType string

const (
	LoyaltyEarned   LoyaltyTransactionType = "EARNED"
	LoyaltyRedeemed LoyaltyTransactionType = "REDEEMED"
	LoyaltyExpired  LoyaltyTransactionType = "EXPIRED"
	LoyaltyBonus    LoyaltyTransactionType = "BONUS"
)

// LoyaltyTransaction is one append-only ledger entry. Points is always
// a positive magnitude; the type determines the sign when deriving the
// balance (REDEEMED and EXPIRED subtract, EARNED and BONUS add).
type LoyaltyTransaction struct {
	ID          int64                  `json:"transaction_id" db:"transaction_id"`
	CustomerID  int64                  `json:"cust_id" db:"cust_id"`
	BookingID   *int64                 `json:"booking_id,omitempty" db:"booking_id"`
	Points      int                    `json:"points" db:"points"`
	Type        LoyaltyTransactionType `json:"transaction_type" db:"transaction_type"`
	Description string                 `json:"description" db:"description"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
}

// RedeemPointsRequest represents a points redemption request
type RedeemPointsRequest struct {
	Points      int    `json:"points" binding:"required,min=1"`
	Description string `json:"description"`
}

// LoyaltySummary pairs the derived balance with recent ledger activity
type LoyaltySummary struct {
	Points       int                  `json:"loyalty_pts"`
	Tier         LoyaltyTier          `json:"loyalty_tier"`
	Transactions []LoyaltyTransaction `json:"transactions"`
}
