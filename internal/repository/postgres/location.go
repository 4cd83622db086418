package postgres

import (
	"context"
	"database/sql"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository"

	"github.com/lib/pq"
)

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

// Upsert replaces the vehicle's current sample unless the stored one is newer.
func (r *locationRepository) Upsert(ctx context.Context, s *domain.LocationSample) error {
	query := `INSERT INTO vehicle_locations (vehicle_id, reporter_id, lat, lng, captured_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (vehicle_id) DO UPDATE
	          SET reporter_id = EXCLUDED.reporter_id, lat = EXCLUDED.lat, lng = EXCLUDED.lng, captured_at = EXCLUDED.captured_at
	          WHERE vehicle_locations.captured_at <= EXCLUDED.captured_at`
	if _, err := r.db.ExecContext(ctx, query, s.VehicleID, s.ReporterID, s.Lat, s.Lng, s.CapturedAt); err != nil {
		return storeErr("upsert location", err)
	}
	return nil
}

func (r *locationRepository) Get(ctx context.Context, vehicleID int32) (*domain.LocationSample, error) {
	s := &domain.LocationSample{}
	query := `SELECT vehicle_id, reporter_id, lat, lng, captured_at FROM vehicle_locations WHERE vehicle_id = $1`
	if err := r.db.QueryRowContext(ctx, query, vehicleID).Scan(&s.VehicleID, &s.ReporterID, &s.Lat, &s.Lng, &s.CapturedAt); err != nil {
		return nil, storeErr("get location", err)
	}
	return s, nil
}

// DeleteExcept drops the current sample of every vehicle not listed.
func (r *locationRepository) DeleteExcept(ctx context.Context, keepVehicleIDs []int32) (int64, error) {
	keep := make([]int64, len(keepVehicleIDs))
	for i, id := range keepVehicleIDs {
		keep[i] = int64(id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicle_locations WHERE NOT (vehicle_id = ANY($1))`, pq.Array(keep))
	if err != nil {
		return 0, storeErr("purge locations", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("purge locations", err)
	}
	return n, nil
}
