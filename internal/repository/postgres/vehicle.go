package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, owner_id, make, model, year_acquired, base_daily_rate, created_on, updated_on`

func scanVehicle(row interface{ Scan(...any) error }, v *domain.Vehicle) error {
	return row.Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.YearAcquired, &v.BaseDailyRate, &v.CreatedOn, &v.UpdatedOn)
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	now := time.Now()
	query := `INSERT INTO vehicles (owner_id, make, model, year_acquired, base_daily_rate, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, v.OwnerID, v.Make, v.Model, v.YearAcquired, v.BaseDailyRate, now, now).Scan(&v.ID)
	if err != nil {
		return storeErr("create vehicle", err)
	}
	v.CreatedOn, v.UpdatedOn = now, now
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 AND deleted_on IS NULL`
	if err := scanVehicle(r.db.QueryRowContext(ctx, query, id), v); err != nil {
		return nil, storeErr("get vehicle", err)
	}
	return v, nil
}

// Update never touches owner_id.
func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	v.UpdatedOn = time.Now()
	query := `UPDATE vehicles SET make=$1, model=$2, year_acquired=$3, base_daily_rate=$4, updated_on=$5 WHERE id=$6 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, v.Make, v.Model, v.YearAcquired, v.BaseDailyRate, v.UpdatedOn, v.ID)
	if err != nil {
		return storeErr("update vehicle", err)
	}
	return requireRow("update vehicle", res)
}

func (r *vehicleRepository) Delete(ctx context.Context, id int32) error {
	query := `UPDATE vehicles SET deleted_on = $1 WHERE id = $2 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return storeErr("delete vehicle", err)
	}
	return requireRow("delete vehicle", res)
}

func (r *vehicleRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM vehicles WHERE deleted_on IS NULL`).Scan(&count); err != nil {
		return nil, 0, storeErr("count vehicles", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE deleted_on IS NULL ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, storeErr("list vehicles", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := scanVehicle(rows, &v); err != nil {
			return nil, 0, storeErr("scan vehicle", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("list vehicles", err)
	}
	return vehicles, count, nil
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE owner_id = $1 AND deleted_on IS NULL ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list owner vehicles", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := scanVehicle(rows, &v); err != nil {
			return nil, storeErr("scan vehicle", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list owner vehicles", err)
	}
	return vehicles, nil
}

func requireRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return storeErr(op, sql.ErrNoRows)
	}
	return nil
}
