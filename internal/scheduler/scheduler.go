// Package scheduler provides cron-based job scheduling for the offer expiry sweep.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/loanbridge/backend/internal/service"
)

// Config holds the scheduler configuration
type Config struct {
	// Schedule is a cron expression for when to run the sweep (e.g., "*/15 * * * *")
	Schedule string
	// Timeout is the maximum duration for a complete sweep cycle
	Timeout time.Duration
	// Enabled determines if the scheduler should run
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Schedule: "*/15 * * * *",
		Timeout:  2 * time.Minute,
		Enabled:  true,
	}
}

// Scheduler runs the offer expiry sweep on a cron schedule
type Scheduler struct {
	cron         *cron.Cron
	offerService *service.OfferService
	config       Config
	logger       *slog.Logger
	entryID      cron.EntryID
}

// New creates a new Scheduler instance
func New(cfg Config, offerService *service.OfferService, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:         cron.New(cron.WithSeconds()),
		offerService: offerService,
		config:       cfg,
		logger:       logger,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled, skipping start")
		return nil
	}

	// Convert standard cron (5 fields) to cron with seconds (6 fields)
	schedule := "0 " + s.config.Schedule

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return err
	}

	s.entryID = entryID
	s.cron.Start()

	s.logger.Info("Scheduler started",
		slog.String("schedule", s.config.Schedule),
		slog.Duration("timeout", s.config.Timeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping scheduler...")
	return s.cron.Stop()
}

// RunNow triggers an immediate sweep (useful for manual triggers)
func (s *Scheduler) RunNow() {
	go s.runSweep()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Info("Starting offer expiry sweep",
		slog.Time("start_time", startTime),
	)

	count, err := s.offerService.ExpireOffers(ctx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Offer expiry sweep failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		return
	}

	s.logger.Info("Offer expiry sweep completed",
		slog.Int("offers_expired", count),
		slog.Duration("duration", duration),
	)
}
