package service

import (
	"context"
	"fmt"
	"strings"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository"
)

type reviewService struct {
	vehicleRepo repository.VehicleRepository
	reviewRepo  repository.ReviewRepository
}

func NewReviewService(vehicleRepo repository.VehicleRepository, reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewService{vehicleRepo: vehicleRepo, reviewRepo: reviewRepo}
}

func (s *reviewService) SubmitReview(ctx context.Context, caller domain.Caller, vehicleID int32, rating int, text string) (*domain.Review, error) {
	if !caller.IsCustomer() {
		return nil, fmt.Errorf("only customers can review vehicles: %w", domain.ErrForbidden)
	}
	review := &domain.Review{
		VehicleID:  vehicleID,
		ReviewerID: caller.UserID,
		Rating:     rating,
		Text:       strings.TrimSpace(text),
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, vehicleID int32) ([]domain.Review, error) {
	return s.reviewRepo.ListByVehicle(ctx, vehicleID)
}

// AverageRating returns the mean rating. With no reviews the summary has
// Count 0 and HasData false.
func (s *reviewService) AverageRating(ctx context.Context, vehicleID int32) (domain.RatingSummary, error) {
	summary, err := s.reviewRepo.Summary(ctx, vehicleID)
	if err != nil {
		return domain.RatingSummary{VehicleID: vehicleID}, err
	}
	summary.VehicleID = vehicleID
	if !summary.HasData() {
		summary.Average = 0
	}
	return summary, nil
}
