package memory

import (
	"context"
	"time"

	"rentfleet-backend/internal/domain"
)

type reviewRepository struct{ *state }

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv.ID = r.id()
	rv.CreatedOn = time.Now()
	r.reviews = append(r.reviews, *rv)
	return nil
}

func (r *reviewRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].VehicleID == vehicleID {
			out = append(out, r.reviews[i])
		}
	}
	return out, nil
}

func (r *reviewRepository) Summary(ctx context.Context, vehicleID int32) (domain.RatingSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summary := domain.RatingSummary{VehicleID: vehicleID}
	sum := 0
	for _, rv := range r.reviews {
		if rv.VehicleID == vehicleID {
			sum += rv.Rating
			summary.Count++
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(sum) / float64(summary.Count)
	}
	return summary, nil
}
