package services

import (
	"github.com/sirupsen/logrus"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/events"
	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/internal/pricing"
)

// PricingService recomputes surge prices from live occupancy. Refreshes
// are idempotent: running them twice against unchanged inventory writes
// the same price.
type PricingService struct {
	flightRepo *database.FlightRepository
	notifier   events.Notifier
	logger     *logrus.Logger
}

// NewPricingService creates a new PricingService
func NewPricingService(
	flightRepo *database.FlightRepository,
	notifier events.Notifier,
	logger *logrus.Logger,
) *PricingService {
	return &PricingService{
		flightRepo: flightRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

// RefreshPrice recomputes one flight's price from its current
// occupancy. The read and write happen under the flight row lock, so
// the written surge always matches the occupancy it was computed from.
func (s *PricingService) RefreshPrice(flightID int64) (*models.PriceRefreshResult, error) {
	outcome, err := s.flightRepo.Reprice(flightID)
	if err != nil {
		return nil, err
	}

	flight := outcome.Flight
	occupancy, err := pricing.Occupancy(flight.AvailableSeats, flight.TotalSeats)
	if err != nil {
		return nil, err
	}

	result := &models.PriceRefreshResult{
		FlightID:   flightID,
		FlightCode: flight.FlightCode,
		OldPrice:   outcome.OldPrice,
		NewPrice:   outcome.NewPrice,
		OldSurge:   outcome.OldSurge,
		NewSurge:   outcome.NewSurge,
		Occupancy:  occupancy,
	}

	if outcome.NewPrice != outcome.OldPrice {
		s.logger.WithFields(logrus.Fields{
			"flight_id": flightID,
			"old_price": outcome.OldPrice,
			"new_price": outcome.NewPrice,
			"surge":     outcome.NewSurge,
		}).Info("Flight price refreshed")

		event := events.NewEvent(events.KindPriceChanged, "prices", "UPDATE", flightID)
		event.PriceChanged = &events.PriceChangedPayload{
			FlightID:       flightID,
			OldPrice:       outcome.OldPrice,
			NewPrice:       outcome.NewPrice,
			Surge:          outcome.NewSurge,
			AvailableSeats: flight.AvailableSeats,
		}
		s.notifier.Publish(event)
	}

	return result, nil
}

// RefreshAllPrices recomputes every scheduled flight's price. A failure
// on one flight is logged and does not stop the sweep.
func (s *PricingService) RefreshAllPrices() ([]models.PriceRefreshResult, error) {
	flights, err := s.flightRepo.ListScheduled()
	if err != nil {
		return nil, err
	}

	results := make([]models.PriceRefreshResult, 0, len(flights))
	for _, flight := range flights {
		result, err := s.RefreshPrice(flight.ID)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"flight_id": flight.ID,
				"error":     err.Error(),
			}).Error("Failed to refresh flight price")
			continue
		}
		results = append(results, *result)
	}

	return results, nil
}
