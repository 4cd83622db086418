package postgres

import (
	"context"
	"database/sql"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/logger"
	"rentfleet-backend/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, vehicle_id, renter_id, owner_id, start_date, end_date, base_daily_rate, final_daily_rate, COALESCE(discount_code, ''), created_on`

// Inclusive on both ends: a shared boundary day counts as an overlap.
const overlapCountQuery = `SELECT count(*) FROM reservations
	WHERE vehicle_id = $1
	  AND (($2::date BETWEEN start_date AND end_date)
	    OR ($3::date BETWEEN start_date AND end_date)
	    OR ($2::date <= start_date AND $3::date >= end_date))`

func scanReservation(row interface{ Scan(...any) error }, rt *domain.Reservation) error {
	return row.Scan(&rt.ID, &rt.VehicleID, &rt.RenterID, &rt.OwnerID, &rt.Period.Start, &rt.Period.End, &rt.BaseDailyRate, &rt.FinalDailyRate, &rt.DiscountCode, &rt.CreatedOn)
}

// CreateIfAvailable locks the vehicle row for the duration of the transaction
// so concurrent bookings of the same vehicle run one after another. The
// overlap check and the insert therefore see a stable reservation set. The
// reservations table also carries an exclusion constraint; a violation of it
// is reported as a conflict as well.
func (r *reservationRepository) CreateIfAvailable(ctx context.Context, rt *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin booking", err)
	}
	defer tx.Rollback()

	lockQuery := `SELECT owner_id FROM vehicles WHERE id = $1 AND deleted_on IS NULL FOR UPDATE`
	logger.DatabaseCall("lock vehicle", lockQuery, "vehicle_id", rt.VehicleID)
	if err := tx.QueryRowContext(ctx, lockQuery, rt.VehicleID).Scan(&rt.OwnerID); err != nil {
		return storeErr("lock vehicle", err)
	}

	var conflicts int64
	if err := tx.QueryRowContext(ctx, overlapCountQuery, rt.VehicleID, rt.Period.Start, rt.Period.End).Scan(&conflicts); err != nil {
		return storeErr("check availability", err)
	}
	if conflicts > 0 {
		logger.DatabaseResult("check availability", conflicts, nil, "vehicle_id", rt.VehicleID, "period", rt.Period.String())
		return domain.ErrConflict
	}

	var discountCode sql.NullString
	if rt.DiscountCode != "" {
		discountCode = sql.NullString{String: rt.DiscountCode, Valid: true}
	}
	insertQuery := `INSERT INTO reservations (vehicle_id, renter_id, owner_id, start_date, end_date, base_daily_rate, final_daily_rate, discount_code, created_on)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW()) RETURNING id, created_on`
	err = tx.QueryRowContext(ctx, insertQuery, rt.VehicleID, rt.RenterID, rt.OwnerID, rt.Period.Start, rt.Period.End, rt.BaseDailyRate, rt.FinalDailyRate, discountCode).
		Scan(&rt.ID, &rt.CreatedOn)
	if err != nil {
		return storeErr("insert reservation", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit booking", err)
	}
	logger.DatabaseResult("insert reservation", 1, nil, "reservation_id", rt.ID)
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	rt := &domain.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := scanReservation(r.db.QueryRowContext(ctx, query, id), rt); err != nil {
		return nil, storeErr("get reservation", err)
	}
	return rt, nil
}

func (r *reservationRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Reservation, error) {
	return r.list(ctx, "list vehicle reservations", `WHERE vehicle_id = $1 ORDER BY start_date`, vehicleID)
}

func (r *reservationRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Reservation, error) {
	return r.list(ctx, "list renter reservations", `WHERE renter_id = $1 ORDER BY created_on DESC`, renterID)
}

func (r *reservationRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Reservation, error) {
	return r.list(ctx, "list owner reservations", `WHERE owner_id = $1 ORDER BY created_on DESC`, ownerID)
}

func (r *reservationRepository) ListActiveOn(ctx context.Context, day domain.Date) ([]domain.Reservation, error) {
	return r.list(ctx, "list active reservations", `WHERE $1::date BETWEEN start_date AND end_date ORDER BY vehicle_id`, day)
}

func (r *reservationRepository) list(ctx context.Context, op, where string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations `+where, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var rt domain.Reservation
		if err := scanReservation(rows, &rt); err != nil {
			return nil, storeErr(op, err)
		}
		reservations = append(reservations, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return reservations, nil
}
