package jobs

import (
	"context"

	"rentfleet-backend/internal/logger"
)

// CleanupExpiredOffers deletes offers that expired more than the configured
// retention period ago. Reservations keep their final rate, so removing an
// offer never changes an existing booking.
func (jr *JobRunner) CleanupExpiredOffers() {
	jr.runWithRecovery("CleanupExpiredOffers", func() {
		ctx := context.Background()
		cutoff := jr.calendar.Today().AddDays(-jr.config.Scheduler.OfferRetentionDays)

		deleted, err := jr.repos.Offers.DeleteExpiredBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to clean up expired offers", "error", err, "cutoff", cutoff.String())
			return
		}

		logger.Info("Cleaned up expired offers", "deleted", deleted, "cutoff", cutoff.String())
	})
}
