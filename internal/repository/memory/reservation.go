package memory

import (
	"context"
	"sort"
	"time"

	"rentfleet-backend/internal/domain"
)

type reservationRepository struct{ *state }

// CreateIfAvailable holds the vehicle's booking lock across the overlap check
// and the append.
func (r *reservationRepository) CreateIfAvailable(ctx context.Context, rt *domain.Reservation) error {
	lock := r.vehicleLock(rt.VehicleID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	v, ok := r.vehicles[rt.VehicleID]
	deleted := r.deleted[rt.VehicleID]
	var ownerID int32
	if ok {
		ownerID = v.OwnerID
	}
	conflict := domain.FindConflict(r.reservations, rt.VehicleID, rt.Period)
	r.mu.RUnlock()

	if !ok || deleted {
		return notFound("vehicle", rt.VehicleID)
	}
	if conflict != nil {
		return domain.ErrConflict
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rt.ID = r.id()
	rt.OwnerID = ownerID
	rt.CreatedOn = time.Now()
	r.reservations = append(r.reservations, *rt)
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.reservations {
		if r.reservations[i].ID == id {
			cp := r.reservations[i]
			return &cp, nil
		}
	}
	return nil, notFound("reservation", id)
}

func (r *reservationRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Reservation, error) {
	out := r.filter(func(rt *domain.Reservation) bool { return rt.VehicleID == vehicleID })
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Start.Before(out[j].Period.Start) })
	return out, nil
}

func (r *reservationRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Reservation, error) {
	return newestFirst(r.filter(func(rt *domain.Reservation) bool { return rt.RenterID == renterID })), nil
}

func (r *reservationRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Reservation, error) {
	return newestFirst(r.filter(func(rt *domain.Reservation) bool { return rt.OwnerID == ownerID })), nil
}

func (r *reservationRepository) ListActiveOn(ctx context.Context, day domain.Date) ([]domain.Reservation, error) {
	return r.filter(func(rt *domain.Reservation) bool { return rt.Period.Contains(day) }), nil
}

func (r *reservationRepository) filter(keep func(*domain.Reservation) bool) []domain.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Reservation
	for i := range r.reservations {
		if keep(&r.reservations[i]) {
			out = append(out, r.reservations[i])
		}
	}
	return out
}

func newestFirst(rs []domain.Reservation) []domain.Reservation {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].ID > rs[j].ID })
	return rs
}
