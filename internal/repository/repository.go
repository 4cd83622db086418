package repository

import (
	"context"

	"rentfleet-backend/internal/domain"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Vehicle, error)
}

// ReservationRepository is the reservation ledger. CreateIfAvailable is the
// only writer: it checks for overlapping reservations on the same vehicle and
// inserts in one atomic step, returning domain.ErrConflict on overlap.
type ReservationRepository interface {
	CreateIfAvailable(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Reservation, error)
	ListByRenter(ctx context.Context, renterID int32) ([]domain.Reservation, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Reservation, error)
	ListActiveOn(ctx context.Context, day domain.Date) ([]domain.Reservation, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id int32) (*domain.Offer, error)
	GetByCode(ctx context.Context, code string) (*domain.Offer, error)
	Update(ctx context.Context, offer *domain.Offer) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context) ([]domain.Offer, error)
	DeleteExpiredBefore(ctx context.Context, day domain.Date) (int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Review, error)
	Summary(ctx context.Context, vehicleID int32) (domain.RatingSummary, error)
}

// LocationRepository keeps one current sample per vehicle.
type LocationRepository interface {
	Upsert(ctx context.Context, sample *domain.LocationSample) error
	Get(ctx context.Context, vehicleID int32) (*domain.LocationSample, error)
	DeleteExcept(ctx context.Context, keepVehicleIDs []int32) (int64, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
