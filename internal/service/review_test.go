package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository/memory"
	"rentfleet-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewService_AverageRating(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	vehicle := &domain.Vehicle{OwnerID: owner.UserID, Make: "Kia", Model: "Rio", BaseDailyRate: decimal.NewFromInt(30)}
	require.NoError(t, store.VehicleRepository.Create(ctx, vehicle))
	svc := service.NewReviewService(store.VehicleRepository, store.ReviewRepository)

	t.Run("No reviews is no data", func(t *testing.T) {
		summary, err := svc.AverageRating(ctx, vehicle.ID)
		require.NoError(t, err)
		assert.False(t, summary.HasData())
		assert.Equal(t, 0, summary.Count)

		body, err := json.Marshal(summary)
		require.NoError(t, err)
		assert.JSONEq(t, fmt.Sprintf(`{"vehicle_id":%d,"count":0,"average":null}`, vehicle.ID), string(body))
	})

	t.Run("Mean of ratings", func(t *testing.T) {
		for _, rating := range []int{5, 3, 4} {
			_, err := svc.SubmitReview(ctx, renter, vehicle.ID, rating, "fine")
			require.NoError(t, err)
		}
		summary, err := svc.AverageRating(ctx, vehicle.ID)
		require.NoError(t, err)
		assert.True(t, summary.HasData())
		assert.Equal(t, 3, summary.Count)
		assert.InDelta(t, 4.0, summary.Average, 1e-9)

		reviews, err := svc.ListReviews(ctx, vehicle.ID)
		require.NoError(t, err)
		assert.Len(t, reviews, 3)
	})
}

func TestReviewService_SubmitReview(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		caller domain.Caller
		rating int
		text   string
		want   error
	}{
		{"Rating too low", renter, 0, "ok", domain.ErrValidation},
		{"Rating too high", renter, 6, "ok", domain.ErrValidation},
		{"Blank text", renter, 4, "   ", domain.ErrValidation},
		{"Owners cannot review", owner, 4, "ok", domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reviewRepo := new(MockReviewRepo)
			svc := service.NewReviewService(new(MockVehicleRepo), reviewRepo)
			_, err := svc.SubmitReview(ctx, tc.caller, 1, tc.rating, tc.text)
			assert.ErrorIs(t, err, tc.want)
			reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("Unknown vehicle", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepo)
		vehicleRepo.On("GetByID", ctx, int32(8)).Return(nil, fmt.Errorf("vehicle 8: %w", domain.ErrNotFound))
		svc := service.NewReviewService(vehicleRepo, new(MockReviewRepo))

		_, err := svc.SubmitReview(ctx, renter, 8, 5, "great")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
