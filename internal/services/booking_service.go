package services

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/events"
	"github.com/flightsync/booking-backend/internal/models"
)

// BookingService handles booking transitions. The storage layer runs
// each transition as one transaction; this service validates requests,
// logs outcomes and emits change events after commit.
type BookingService struct {
	bookingRepo *database.BookingRepository
	notifier    events.Notifier
	logger      *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	notifier events.Notifier,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateBooking books seats on a flight. The charged cost is based on
// the price shown before this booking's seats were taken; the new
// price written for the next booker reflects the tightened inventory.
func (s *BookingService) CreateBooking(custID int64, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	outcome, err := s.bookingRepo.Create(custID, req)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"cust_id":   custID,
			"flight_id": req.FlightID,
			"seats":     req.SeatsBooked,
			"error":     err.Error(),
		}).Warn("Booking rejected")
		return nil, err
	}

	booking := outcome.Booking
	s.logger.WithFields(logrus.Fields{
		"booking_id":    booking.ID,
		"reference":     booking.BookingReference,
		"cust_id":       custID,
		"flight_id":     booking.FlightID,
		"seats":         booking.SeatsBooked,
		"total_cost":    booking.TotalCost,
		"points_earned": outcome.PointsEarned,
	}).Info("Booking confirmed")

	s.emitBookingCreated(outcome)

	return booking, nil
}

// CancelBooking cancels a customer's booking. The customer must own the
// booking; earned loyalty points are not clawed back. Cancelling an
// already-cancelled booking is a no-op that reports the current status.
func (s *BookingService) CancelBooking(custID, bookingID int64, reason *string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != custID {
		return nil, models.ErrNotFound
	}

	outcome, err := s.bookingRepo.Cancel(bookingID, reason)
	if err != nil {
		var finalized *models.AlreadyFinalizedError
		if errors.As(err, &finalized) {
			s.logger.WithFields(logrus.Fields{
				"booking_id": bookingID,
				"status":     finalized.Status,
			}).Warn("Cancel requested for finalized booking")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"cust_id":    custID,
		"new_price":  outcome.NewPrice,
	}).Info("Booking cancelled")

	s.emitBookingCancelled(outcome)

	return outcome.Booking, nil
}

// ForceCancelFlight cancels a flight and refunds every active booking
// on it. Admin only.
func (s *BookingService) ForceCancelFlight(flightID int64, reason string) (*database.ForceCancelResult, error) {
	result, err := s.bookingRepo.ForceCancelFlight(flightID, reason)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"flight_id":          flightID,
		"reason":             reason,
		"bookings_cancelled": result.BookingsCancelled,
		"total_refunded":     result.TotalRefunded,
	}).Info("Flight force-cancelled")

	event := events.NewEvent(events.KindFlightCancelled, "flights", "UPDATE", flightID)
	event.FlightCancelled = &events.FlightCancelledPayload{
		FlightID:          flightID,
		Reason:            reason,
		BookingsCancelled: result.BookingsCancelled,
		TotalRefunded:     result.TotalRefunded,
	}
	s.notifier.Publish(event)

	return result, nil
}

// GetBooking retrieves a booking owned by the customer
func (s *BookingService) GetBooking(custID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != custID {
		return nil, models.ErrNotFound
	}

	return booking, nil
}

// GetCustomerBookings retrieves all of a customer's bookings
func (s *BookingService) GetCustomerBookings(custID int64) ([]models.BookingDetail, error) {
	return s.bookingRepo.GetByCustomerID(custID)
}

// GetUpcomingBookings retrieves the customer's confirmed future bookings
func (s *BookingService) GetUpcomingBookings(custID int64) ([]models.BookingDetail, error) {
	return s.bookingRepo.GetUpcoming(custID)
}

func (s *BookingService) emitBookingCreated(outcome *database.BookingOutcome) {
	booking := outcome.Booking

	event := events.NewEvent(events.KindBookingCreated, "bookings", "INSERT", booking.ID)
	event.BookingCreated = &events.BookingCreatedPayload{
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		CustomerID:       booking.CustomerID,
		FlightID:         booking.FlightID,
		SeatsBooked:      booking.SeatsBooked,
		TotalCost:        booking.TotalCost,
	}
	s.notifier.Publish(event)

	priceEvent := events.NewEvent(events.KindPriceChanged, "prices", "UPDATE", booking.FlightID)
	priceEvent.PriceChanged = &events.PriceChangedPayload{
		FlightID:       booking.FlightID,
		OldPrice:       outcome.OldPrice,
		NewPrice:       outcome.NewPrice,
		Surge:          outcome.NewSurge,
		AvailableSeats: outcome.SeatsRemaining,
	}
	s.notifier.Publish(priceEvent)

	// The envelope's record_id is the ledger row, matching every other
	// loyalty append.
	loyaltyEvent := events.NewEvent(events.KindLoyaltyAdjusted, "loyalty_transactions", "INSERT", outcome.LoyaltyEntry.ID)
	loyaltyEvent.LoyaltyAdjusted = &events.LoyaltyAdjustedPayload{
		CustomerID: booking.CustomerID,
		Points:     outcome.PointsEarned,
		Type:       string(models.LoyaltyEarned),
		NewBalance: outcome.Customer.LoyaltyPts,
		NewTier:    string(outcome.Customer.LoyaltyTier),
	}
	s.notifier.Publish(loyaltyEvent)
}

func (s *BookingService) emitBookingCancelled(outcome *database.CancelOutcome) {
	booking := outcome.Booking

	reason := ""
	if booking.CancellationReason != nil {
		reason = *booking.CancellationReason
	}

	event := events.NewEvent(events.KindBookingCancelled, "bookings", "UPDATE", booking.ID)
	event.BookingCancelled = &events.BookingCancelledPayload{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		FlightID:   booking.FlightID,
		Reason:     reason,
	}
	s.notifier.Publish(event)

	priceEvent := events.NewEvent(events.KindPriceChanged, "prices", "UPDATE", booking.FlightID)
	priceEvent.PriceChanged = &events.PriceChangedPayload{
		FlightID: booking.FlightID,
		NewPrice: outcome.NewPrice,
		Surge:    outcome.NewSurge,
	}
	s.notifier.Publish(priceEvent)
}
