package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService manages scheduled background jobs: the periodic surge
// price sweep and cleanup of expired login attempt records.
type CronService struct {
	cron       *cron.Cron
	pricingSvc *PricingService
	rateLimit  *RateLimitService
	logger     *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(pricingSvc *PricingService, rateLimit *RateLimitService, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:       cron.New(),
		pricingSvc: pricingSvc,
		rateLimit:  rateLimit,
		logger:     logger,
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() error {
	// Hourly sweep keeps prices aligned with occupancy even when a
	// flight sees no bookings for a while
	if _, err := s.cron.AddFunc("@hourly", s.refreshPricesJob); err != nil {
		return fmt.Errorf("failed to schedule price refresh job: %w", err)
	}

	if _, err := s.cron.AddFunc("30 * * * *", s.cleanupLoginAttemptsJob); err != nil {
		return fmt.Errorf("failed to schedule login attempt cleanup job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduled jobs started")

	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduled jobs stopped")
}

func (s *CronService) refreshPricesJob() {
	start := time.Now()

	results, err := s.pricingSvc.RefreshAllPrices()
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Price refresh sweep failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"flights":     len(results),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Price refresh sweep completed")
}

func (s *CronService) cleanupLoginAttemptsJob() {
	removed, err := s.rateLimit.CleanupExpiredAttempts()
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Login attempt cleanup failed")
		return
	}

	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Expired login attempts removed")
	}
}

// JobStatus describes the scheduler state for the admin API
func (s *CronService) JobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
