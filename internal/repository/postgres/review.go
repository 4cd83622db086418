package postgres

import (
	"context"
	"database/sql"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (vehicle_id, reviewer_id, rating, text, created_on) VALUES ($1, $2, $3, $4, NOW()) RETURNING id, created_on`
	if err := r.db.QueryRowContext(ctx, query, rv.VehicleID, rv.ReviewerID, rv.Rating, rv.Text).Scan(&rv.ID, &rv.CreatedOn); err != nil {
		return storeErr("create review", err)
	}
	return nil
}

func (r *reviewRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Review, error) {
	query := `SELECT id, vehicle_id, reviewer_id, rating, text, created_on FROM reviews WHERE vehicle_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, storeErr("list reviews", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.VehicleID, &rv.ReviewerID, &rv.Rating, &rv.Text, &rv.CreatedOn); err != nil {
			return nil, storeErr("scan review", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list reviews", err)
	}
	return reviews, nil
}

// Summary computes the average in the database. AVG over zero rows is NULL,
// which is left as a zero Average with Count 0.
func (r *reviewRepository) Summary(ctx context.Context, vehicleID int32) (domain.RatingSummary, error) {
	summary := domain.RatingSummary{VehicleID: vehicleID}
	var avg sql.NullFloat64
	query := `SELECT count(*), AVG(rating)::float8 FROM reviews WHERE vehicle_id = $1`
	if err := r.db.QueryRowContext(ctx, query, vehicleID).Scan(&summary.Count, &avg); err != nil {
		return domain.RatingSummary{}, storeErr("summarize reviews", err)
	}
	if avg.Valid {
		summary.Average = avg.Float64
	}
	return summary, nil
}
