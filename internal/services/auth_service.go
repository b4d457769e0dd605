package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/pkg/jwt"
	"github.com/flightsync/booking-backend/pkg/validator"
)

// ErrInvalidCredentials is returned for a wrong email or password
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles registration, login and session recording
type AuthService struct {
	customerRepo *database.CustomerRepository
	sessionRepo  *database.SessionRepository
	rateLimit    *RateLimitService
	phone        *validator.PhoneValidator
	jwtManager   *jwt.Manager
	logger       *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	customerRepo *database.CustomerRepository,
	sessionRepo *database.SessionRepository,
	rateLimit *RateLimitService,
	jwtManager *jwt.Manager,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		customerRepo: customerRepo,
		sessionRepo:  sessionRepo,
		rateLimit:    rateLimit,
		phone:        validator.NewPhoneValidator(),
		jwtManager:   jwtManager,
		logger:       logger,
	}
}

// AuthResult carries the issued token and the authenticated customer
type AuthResult struct {
	Token    string           `json:"token"`
	Customer *models.Customer `json:"customer"`
}

// Register creates a customer account with a bcrypt-hashed password
func (s *AuthService) Register(req *models.RegisterRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Phone != nil {
		normalized, err := s.phone.Validate(*req.Phone)
		if err != nil {
			return nil, err
		}
		req.Phone = &normalized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer, err := s.customerRepo.Create(req, string(hash))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, errors.New("email is already registered")
		}
		return nil, err
	}

	token, err := s.jwtManager.Generate(customer.ID, customer.Email, string(customer.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"cust_id": customer.ID,
		"email":   customer.Email,
	}).Info("Customer registered")

	return &AuthResult{Token: token, Customer: customer}, nil
}

// Login verifies credentials, records the session and issues a token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(req *models.LoginRequest, ipAddress, userAgent string) (*AuthResult, error) {
	if err := s.checkRateLimit(req.Email, ipAddress); err != nil {
		return nil, err
	}

	customer, passwordHash, err := s.customerRepo.GetByEmail(req.Email)
	if errors.Is(err, models.ErrNotFound) {
		s.recordFailedLogin(req.Email, ipAddress)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		s.logger.WithField("email", req.Email).Warn("Failed login attempt")
		s.recordFailedLogin(req.Email, ipAddress)
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(customer.ID, customer.Email, string(customer.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.recordSession(customer.ID, ipAddress, userAgent)

	s.logger.WithFields(logrus.Fields{
		"cust_id": customer.ID,
		"email":   customer.Email,
	}).Info("Customer logged in")

	return &AuthResult{Token: token, Customer: customer}, nil
}

// checkRateLimit enforces the failed login limits. A limiter storage
// error is logged and does not block the login.
func (s *AuthService) checkRateLimit(email, ipAddress string) error {
	err := s.rateLimit.CheckLoginRateLimit(email, ipAddress)
	if err == nil {
		return nil
	}

	var limited *RateLimitError
	if errors.As(err, &limited) {
		s.logger.WithFields(logrus.Fields{
			"email": email,
			"ip":    ipAddress,
			"type":  limited.Type,
		}).Warn("Login rate limit exceeded")
		return err
	}

	s.logger.WithField("error", err.Error()).Warn("Rate limit check failed")
	return nil
}

func (s *AuthService) recordFailedLogin(email, ipAddress string) {
	if err := s.rateLimit.RecordFailedLogin(email, ipAddress); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to record login attempt")
	}
}

// recordSession parses the User-Agent and stores the login session.
// Session recording is best-effort and never fails a login.
func (s *AuthService) recordSession(custID int64, ipAddress, userAgent string) {
	ua := user_agent.New(userAgent)

	deviceType := "desktop"
	if ua.Mobile() {
		deviceType = "mobile"
	} else if ua.Bot() {
		deviceType = "bot"
	}

	browser, _ := ua.Browser()

	session := &models.LoginSession{
		CustomerID: custID,
		IPAddress:  ipAddress,
		DeviceType: deviceType,
		Browser:    browser,
		OS:         ua.OS(),
	}

	if err := s.sessionRepo.Create(session); err != nil {
		s.logger.WithFields(logrus.Fields{
			"cust_id": custID,
			"error":   err.Error(),
		}).Warn("Failed to record login session")
	}
}
