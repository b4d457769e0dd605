package services

import (
	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/models"
)

// AnalyticsService exposes the admin reporting aggregations
type AnalyticsService struct {
	analyticsRepo *database.AnalyticsRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analyticsRepo *database.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

// GetRevenueStats returns platform-wide booking revenue
func (s *AnalyticsService) GetRevenueStats() (*models.RevenueStats, error) {
	return s.analyticsRepo.GetRevenueStats()
}

// GetRouteStats returns per-route booking and revenue totals
func (s *AnalyticsService) GetRouteStats() ([]models.RouteStats, error) {
	return s.analyticsRepo.GetRouteStats()
}
