package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository"
)

type offerRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

const offerColumns = `id, owner_id, code, percentage_off, min_eligible_amount, expiry, description, created_on, updated_on`

func scanOffer(row interface{ Scan(...any) error }, o *domain.Offer) error {
	return row.Scan(&o.ID, &o.OwnerID, &o.Code, &o.PercentageOff, &o.MinEligibleAmount, &o.Expiry, &o.Description, &o.CreatedOn, &o.UpdatedOn)
}

func (r *offerRepository) Create(ctx context.Context, o *domain.Offer) error {
	now := time.Now()
	query := `INSERT INTO offers (owner_id, code, percentage_off, min_eligible_amount, expiry, description, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, o.OwnerID, o.Code, o.PercentageOff, o.MinEligibleAmount, o.Expiry, o.Description, now, now).Scan(&o.ID)
	if err != nil {
		return storeErr("create offer", err)
	}
	o.CreatedOn, o.UpdatedOn = now, now
	return nil
}

func (r *offerRepository) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	o := &domain.Offer{}
	if err := scanOffer(r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id), o); err != nil {
		return nil, storeErr("get offer", err)
	}
	return o, nil
}

// GetByCode matches the code exactly; codes are case-sensitive.
func (r *offerRepository) GetByCode(ctx context.Context, code string) (*domain.Offer, error) {
	o := &domain.Offer{}
	if err := scanOffer(r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers WHERE code = $1`, code), o); err != nil {
		return nil, storeErr("get offer by code", err)
	}
	return o, nil
}

func (r *offerRepository) Update(ctx context.Context, o *domain.Offer) error {
	o.UpdatedOn = time.Now()
	query := `UPDATE offers SET code=$1, percentage_off=$2, min_eligible_amount=$3, expiry=$4, description=$5, updated_on=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query, o.Code, o.PercentageOff, o.MinEligibleAmount, o.Expiry, o.Description, o.UpdatedOn, o.ID)
	if err != nil {
		return storeErr("update offer", err)
	}
	return requireRow("update offer", res)
}

func (r *offerRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete offer", err)
	}
	return requireRow("delete offer", res)
}

func (r *offerRepository) List(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+offerColumns+` FROM offers ORDER BY expiry, id`)
	if err != nil {
		return nil, storeErr("list offers", err)
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		var o domain.Offer
		if err := scanOffer(rows, &o); err != nil {
			return nil, storeErr("scan offer", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list offers", err)
	}
	return offers, nil
}

func (r *offerRepository) DeleteExpiredBefore(ctx context.Context, day domain.Date) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE expiry < $1`, day)
	if err != nil {
		return 0, storeErr("delete expired offers", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("delete expired offers", err)
	}
	return n, nil
}
