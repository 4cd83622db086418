package jobs

import (
	"rentfleet-backend/internal/config"
	"rentfleet-backend/internal/logger"
	"rentfleet-backend/internal/repository"
	"rentfleet-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos    *Repositories
	calendar service.Calendar
	config   *config.Config
}

// Repositories holds the stores the jobs touch
type Repositories struct {
	Reservations repository.ReservationRepository
	Offers       repository.OfferRepository
	Locations    repository.LocationRepository
	// LocationCache is optional; it is only set when the jobs run in the
	// process that serves live locations.
	LocationCache LocationCache
}

// LocationCache holds last known samples outside the store.
type LocationCache interface {
	ForgetExcept(keep []int32) int
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos *Repositories, calendar service.Calendar, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:    repos,
		calendar: calendar,
		config:   cfg,
	}
}

// Config exposes the configuration used to register the schedules
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.PurgeStaleLocations()
	jr.CleanupExpiredOffers()
}
