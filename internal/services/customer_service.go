package services

import (
	"github.com/sirupsen/logrus"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/pkg/validator"
)

// CustomerService handles customer profiles and the dashboard view
type CustomerService struct {
	customerRepo *database.CustomerRepository
	phone        *validator.PhoneValidator
	logger       *logrus.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo *database.CustomerRepository, logger *logrus.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		phone:        validator.NewPhoneValidator(),
		logger:       logger,
	}
}

// GetProfile retrieves a customer's profile
func (s *CustomerService) GetProfile(custID int64) (*models.Customer, error) {
	return s.customerRepo.GetByID(custID)
}

// UpdateProfile applies profile changes. Phone numbers are stored in
// normalized form.
func (s *CustomerService) UpdateProfile(custID int64, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	if req.Phone != nil {
		normalized, err := s.phone.Validate(*req.Phone)
		if err != nil {
			return nil, err
		}
		req.Phone = &normalized
	}

	customer, err := s.customerRepo.UpdateProfile(custID, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("cust_id", custID).Info("Profile updated")

	return customer, nil
}

// GetDashboard retrieves the customer's activity summary
func (s *CustomerService) GetDashboard(custID int64) (*models.CustomerDashboard, error) {
	return s.customerRepo.GetDashboard(custID)
}
