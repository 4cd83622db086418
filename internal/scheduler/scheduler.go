package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"rentfleet-backend/internal/jobs"
	"rentfleet-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner. Specs
// are evaluated in loc; nil means UTC.
func NewScheduler(jobRunner *jobs.JobRunner, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	// Seconds precision, matching the six-field specs in config
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	// Drop positions of vehicles that are not out on a rental
	if _, err := s.cron.AddFunc(cfg.PurgeStaleLocations, s.jobs.PurgeStaleLocations); err != nil {
		logger.Error("Failed to register PurgeStaleLocations job", "error", err, "schedule", cfg.PurgeStaleLocations)
		return err
	}

	if _, err := s.cron.AddFunc(cfg.CleanupExpiredOffers, s.jobs.CleanupExpiredOffers); err != nil {
		logger.Error("Failed to register CleanupExpiredOffers job", "error", err, "schedule", cfg.CleanupExpiredOffers)
		return err
	}

	logger.Info("All cron jobs registered successfully", "count", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

// NextRuns reports the next activation of every registered job
func (s *Scheduler) NextRuns() []time.Time {
	entries := s.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		next = append(next, e.Schedule.Next(time.Now()))
	}
	return next
}
