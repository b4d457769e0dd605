package services

import (
	"github.com/sirupsen/logrus"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/pricing"
)

// FlightService handles flight management and search
type FlightService struct {
	flightRepo *database.FlightRepository
	priceRepo  *database.PriceRepository
	searchRepo *database.SearchRepository
	logger     *logrus.Logger
}

// NewFlightService creates a new FlightService
func NewFlightService(
	flightRepo *database.FlightRepository,
	priceRepo *database.PriceRepository,
	searchRepo *database.SearchRepository,
	logger *logrus.Logger,
) *FlightService {
	return &FlightService{
		flightRepo: flightRepo,
		priceRepo:  priceRepo,
		searchRepo: searchRepo,
		logger:     logger,
	}
}

// CreateFlight adds a flight with its seeded price record. Admin only.
func (s *FlightService) CreateFlight(req *models.CreateFlightRequest) (*models.Flight, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	flight, err := s.flightRepo.Create(req)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"flight_id":   flight.ID,
		"flight_code": flight.FlightCode,
		"route":       flight.Origin + "-" + flight.Destination,
		"seats":       flight.TotalSeats,
	}).Info("Flight created")

	return flight, nil
}

// UpdateFlight applies admin changes to flight details
func (s *FlightService) UpdateFlight(flightID int64, req *models.UpdateFlightRequest) (*models.Flight, error) {
	flight, err := s.flightRepo.Update(flightID, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("flight_id", flightID).Info("Flight updated")

	return flight, nil
}

// GetFlight retrieves a flight with its current price
func (s *FlightService) GetFlight(flightID int64) (*models.Flight, *models.Price, error) {
	flight, err := s.flightRepo.GetByID(flightID)
	if err != nil {
		return nil, nil, err
	}

	price, err := s.priceRepo.GetByFlightID(flightID)
	if err != nil {
		return nil, nil, err
	}

	return flight, price, nil
}

// ListFlights retrieves all flights
func (s *FlightService) ListFlights() ([]models.Flight, error) {
	return s.flightRepo.List()
}

// SearchFlights finds bookable flights and annotates each with its
// demand tier
func (s *FlightService) SearchFlights(req *models.FlightSearchRequest) ([]models.FlightSummary, error) {
	flights, err := s.searchRepo.SearchFlights(req)
	if err != nil {
		return nil, err
	}

	for i := range flights {
		tier, err := pricing.DemandTier(flights[i].AvailableSeats, flights[i].TotalSeats)
		if err != nil {
			// malformed inventory should not hide the flight from search
			s.logger.WithFields(logrus.Fields{
				"flight_id": flights[i].FlightID,
				"error":     err.Error(),
			}).Warn("Could not compute demand tier")
			continue
		}
		flights[i].PricingTier = tier
	}

	return flights, nil
}
