package scheduler

import (
	"testing"
	"time"

	"rentfleet-backend/internal/config"
	"rentfleet-backend/internal/jobs"
	"rentfleet-backend/internal/repository/memory"
	"rentfleet-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runnerWith(sched config.SchedulerConfig) *jobs.JobRunner {
	store := memory.NewStore()
	return jobs.NewJobRunner(&jobs.Repositories{
		Reservations: store.ReservationRepository,
		Offers:       store.OfferRepository,
		Locations:    store.LocationRepository,
	}, service.Calendar{Location: time.UTC}, &config.Config{Scheduler: sched})
}

func TestNewScheduler(t *testing.T) {
	s, err := NewScheduler(runnerWith(config.SchedulerConfig{
		PurgeStaleLocations:  "0 15 0 * * *",
		CleanupExpiredOffers: "0 30 3 * * *",
	}), nil)
	require.NoError(t, err)
	assert.True(t, s.IsRunning())
	assert.Len(t, s.NextRuns(), 2)

	s.Start()
	s.Stop()
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(runnerWith(config.SchedulerConfig{
		PurgeStaleLocations:  "every night",
		CleanupExpiredOffers: "0 30 3 * * *",
	}), time.UTC)
	assert.Error(t, err)
}
