package memory

import (
	"context"

	"rentfleet-backend/internal/domain"
)

type locationRepository struct{ *state }

func (r *locationRepository) Upsert(ctx context.Context, s *domain.LocationSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.locations[s.VehicleID]; ok && cur.CapturedAt.After(s.CapturedAt) {
		return nil
	}
	r.locations[s.VehicleID] = *s
	return nil
}

func (r *locationRepository) Get(ctx context.Context, vehicleID int32) (*domain.LocationSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.locations[vehicleID]
	if !ok {
		return nil, notFound("location for vehicle", vehicleID)
	}
	return &s, nil
}

func (r *locationRepository) DeleteExcept(ctx context.Context, keepVehicleIDs []int32) (int64, error) {
	keep := make(map[int32]bool, len(keepVehicleIDs))
	for _, id := range keepVehicleIDs {
		keep[id] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id := range r.locations {
		if !keep[id] {
			delete(r.locations, id)
			n++
		}
	}
	return n, nil
}
