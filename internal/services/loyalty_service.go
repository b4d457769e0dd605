package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/events"
	"github.com/flightsync/booking-backend/internal/models"
)

// ReviewBonusPoints is the flat award for reviewing a flown booking
const ReviewBonusPoints = 25

// LoyaltyService manages the loyalty ledger and the derived balance
type LoyaltyService struct {
	loyaltyRepo  *database.LoyaltyRepository
	customerRepo *database.CustomerRepository
	notifier     events.Notifier
	logger       *logrus.Logger
}

// NewLoyaltyService creates a new LoyaltyService
func NewLoyaltyService(
	loyaltyRepo *database.LoyaltyRepository,
	customerRepo *database.CustomerRepository,
	notifier events.Notifier,
	logger *logrus.Logger,
) *LoyaltyService {
	return &LoyaltyService{
		loyaltyRepo:  loyaltyRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// GetSummary returns the customer's derived balance with recent ledger
// activity
func (s *LoyaltyService) GetSummary(custID int64) (*models.LoyaltySummary, error) {
	customer, err := s.customerRepo.GetByID(custID)
	if err != nil {
		return nil, err
	}

	history, err := s.loyaltyRepo.GetHistory(custID, 50)
	if err != nil {
		return nil, err
	}

	return &models.LoyaltySummary{
		Points:       customer.LoyaltyPts,
		Tier:         customer.LoyaltyTier,
		Transactions: history,
	}, nil
}

// RedeemPoints deducts points from the customer's balance. The balance
// is checked under lock; an insufficient balance writes nothing.
func (s *LoyaltyService) RedeemPoints(custID int64, req *models.RedeemPointsRequest) (*models.Customer, error) {
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Redeemed %d points", req.Points)
	}

	customer, err := s.append(&models.LoyaltyTransaction{
		CustomerID:  custID,
		Points:      req.Points,
		Type:        models.LoyaltyRedeemed,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"cust_id":     custID,
		"points":      req.Points,
		"new_balance": customer.LoyaltyPts,
	}).Info("Points redeemed")

	return customer, nil
}

// AwardBonus grants bonus points unconditionally
func (s *LoyaltyService) AwardBonus(custID int64, bookingID *int64, points int, description string) (*models.Customer, error) {
	customer, err := s.append(&models.LoyaltyTransaction{
		CustomerID:  custID,
		BookingID:   bookingID,
		Points:      points,
		Type:        models.LoyaltyBonus,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"cust_id": custID,
		"points":  points,
		"tier":    customer.LoyaltyTier,
	}).Info("Bonus points awarded")

	return customer, nil
}

// ExpirePoints removes points from a customer's balance, clamped by the
// insufficient-balance check like any other deduction
func (s *LoyaltyService) ExpirePoints(custID int64, points int, description string) (*models.Customer, error) {
	return s.append(&models.LoyaltyTransaction{
		CustomerID:  custID,
		Points:      points,
		Type:        models.LoyaltyExpired,
		Description: description,
	})
}

func (s *LoyaltyService) append(entry *models.LoyaltyTransaction) (*models.Customer, error) {
	customer, err := s.loyaltyRepo.Append(entry)
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.KindLoyaltyAdjusted, "loyalty_transactions", "INSERT", entry.ID)
	event.LoyaltyAdjusted = &events.LoyaltyAdjustedPayload{
		CustomerID: entry.CustomerID,
		Points:     entry.Points,
		Type:       string(entry.Type),
		NewBalance: customer.LoyaltyPts,
		NewTier:    string(customer.LoyaltyTier),
	}
	s.notifier.Publish(event)

	return customer, nil
}
