// Package memory keeps every repository in process memory. It backs the
// "memory" database type for local runs and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository"
)

type state struct {
	mu           sync.RWMutex
	nextID       int32
	vehicles     map[int32]*domain.Vehicle
	deleted      map[int32]bool
	reservations []domain.Reservation
	offers       map[int32]*domain.Offer
	reviews      []domain.Review
	locations    map[int32]domain.LocationSample

	lockMu       sync.Mutex
	vehicleLocks map[int32]*sync.Mutex
}

func (s *state) id() int32 {
	s.nextID++
	return s.nextID
}

// vehicleLock returns the mutex serialising bookings of one vehicle.
func (s *state) vehicleLock(vehicleID int32) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.vehicleLocks[vehicleID]
	if !ok {
		l = &sync.Mutex{}
		s.vehicleLocks[vehicleID] = l
	}
	return l
}

type Store struct {
	*state
	repository.VehicleRepository
	repository.ReservationRepository
	repository.OfferRepository
	repository.ReviewRepository
	repository.LocationRepository
}

func NewStore() *Store {
	st := &state{
		vehicles:     make(map[int32]*domain.Vehicle),
		deleted:      make(map[int32]bool),
		offers:       make(map[int32]*domain.Offer),
		locations:    make(map[int32]domain.LocationSample),
		vehicleLocks: make(map[int32]*sync.Mutex),
	}
	return &Store{
		state:                 st,
		VehicleRepository:     &vehicleRepository{st},
		ReservationRepository: &reservationRepository{st},
		OfferRepository:       &offerRepository{st},
		ReviewRepository:      &reviewRepository{st},
		LocationRepository:    &locationRepository{st},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, domain.ErrNotFound)
}

type vehicleRepository struct{ *state }

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	v.ID = r.id()
	v.CreatedOn, v.UpdatedOn = now, now
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	if !ok || r.deleted[id] {
		return nil, notFound("vehicle", id)
	}
	cp := *v
	return &cp, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.vehicles[v.ID]
	if !ok || r.deleted[v.ID] {
		return notFound("vehicle", v.ID)
	}
	cur.Make, cur.Model, cur.YearAcquired, cur.BaseDailyRate = v.Make, v.Model, v.YearAcquired, v.BaseDailyRate
	cur.UpdatedOn = time.Now()
	v.OwnerID, v.CreatedOn, v.UpdatedOn = cur.OwnerID, cur.CreatedOn, cur.UpdatedOn
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[id]; !ok || r.deleted[id] {
		return notFound("vehicle", id)
	}
	r.deleted[id] = true
	return nil
}

func (r *vehicleRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	all := r.filter(func(*domain.Vehicle) bool { return true })
	total := int32(len(all))
	start := (page - 1) * pageSize
	if start < 0 || start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Vehicle, error) {
	return r.filter(func(v *domain.Vehicle) bool { return v.OwnerID == ownerID }), nil
}

func (r *vehicleRepository) filter(keep func(*domain.Vehicle) bool) []domain.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Vehicle
	for id, v := range r.vehicles {
		if r.deleted[id] || !keep(v) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
