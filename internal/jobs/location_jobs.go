package jobs

import (
	"context"

	"rentfleet-backend/internal/logger"
)

// PurgeStaleLocations drops the stored and cached current sample of every
// vehicle that has no reservation covering today.
func (jr *JobRunner) PurgeStaleLocations() {
	jr.runWithRecovery("PurgeStaleLocations", func() {
		ctx := context.Background()
		today := jr.calendar.Today()

		active, err := jr.repos.Reservations.ListActiveOn(ctx, today)
		if err != nil {
			logger.Error("Failed to list active reservations", "error", err, "day", today.String())
			return
		}

		seen := make(map[int32]bool, len(active))
		keep := make([]int32, 0, len(active))
		for _, res := range active {
			if !seen[res.VehicleID] {
				seen[res.VehicleID] = true
				keep = append(keep, res.VehicleID)
			}
		}

		deleted, err := jr.repos.Locations.DeleteExcept(ctx, keep)
		if err != nil {
			logger.Error("Failed to purge stale locations", "error", err)
			return
		}

		forgotten := 0
		if jr.repos.LocationCache != nil {
			forgotten = jr.repos.LocationCache.ForgetExcept(keep)
		}

		logger.Info("Purged stale locations", "deleted", deleted, "forgotten", forgotten, "kept", len(keep))
	})
}
