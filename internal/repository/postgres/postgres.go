package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

type Store struct {
	db *sql.DB
	repository.VehicleRepository
	repository.ReservationRepository
	repository.OfferRepository
	repository.ReviewRepository
	repository.LocationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		VehicleRepository:     NewVehicleRepository(db),
		ReservationRepository: NewReservationRepository(db),
		OfferRepository:       NewOfferRepository(db),
		ReviewRepository:      NewReviewRepository(db),
		LocationRepository:    NewLocationRepository(db),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// storeErr maps driver errors onto the domain error kinds. Anything that is not
// a missing row or a caller cancellation is reported as an unavailable store.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqExclusionViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
