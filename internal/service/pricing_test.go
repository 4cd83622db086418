package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixedCalendar(now time.Time) service.Calendar {
	return service.Calendar{Now: func() time.Time { return now }, Location: time.UTC}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func mustRange(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	r, err := domain.ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestPricingEngine_Price(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	period := mustRange(t, "2026-05-12", "2026-05-14")

	save20 := &domain.Offer{
		ID:                1,
		Code:              "SAVE20",
		PercentageOff:     decimal.NewFromInt(20),
		MinEligibleAmount: decimal.NewFromInt(50),
		Expiry:            domain.NewDate(2026, 6, 1),
	}
	vehicle := func(rate string) *domain.Vehicle {
		return &domain.Vehicle{ID: 3, BaseDailyRate: decimal.RequireFromString(rate)}
	}

	t.Run("Eligible code applies", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, "SAVE20").Return(save20, nil)
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(now), 2)

		q, err := engine.Price(ctx, vehicle("100"), period, "SAVE20")
		require.NoError(t, err)
		assertMoney(t, "80", q.FinalDailyRate)
		assertMoney(t, "240", q.Total)
		assert.Equal(t, 3, q.Days)
		assert.True(t, q.DiscountApplied)
		assert.Equal(t, "SAVE20", q.DiscountCode)
	})

	t.Run("Below minimum falls back to base", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, "SAVE20").Return(save20, nil)
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(now), 2)

		q, err := engine.Price(ctx, vehicle("30"), period, "SAVE20")
		require.NoError(t, err)
		assertMoney(t, "30", q.FinalDailyRate)
		assert.False(t, q.DiscountApplied)
		assert.Empty(t, q.DiscountCode)
		assert.NotEmpty(t, q.DiscountNote)
	})

	t.Run("Unknown code is ignored", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, "BOGUS").Return(nil, fmt.Errorf("offer BOGUS: %w", domain.ErrNotFound))
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(now), 2)

		q, err := engine.Price(ctx, vehicle("100"), period, "BOGUS")
		require.NoError(t, err)
		assertMoney(t, "100", q.FinalDailyRate)
		assert.Contains(t, q.DiscountNote, "unknown")
	})

	t.Run("No code skips lookup", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(now), 2)

		q, err := engine.Price(ctx, vehicle("100"), period, "")
		require.NoError(t, err)
		assertMoney(t, "100", q.FinalDailyRate)
		offerRepo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
	})

	t.Run("Code must match exactly", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, " SAVE20").Return(nil, fmt.Errorf("offer  SAVE20: %w", domain.ErrNotFound))
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(now), 2)

		q, err := engine.Price(ctx, vehicle("100"), period, " SAVE20")
		require.NoError(t, err)
		assert.False(t, q.DiscountApplied)
		assertMoney(t, "100", q.FinalDailyRate)
		offerRepo.AssertExpectations(t)
	})

	t.Run("Expiry day is still valid", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, "SAVE20").Return(save20, nil)
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(time.Date(2026, 6, 1, 23, 0, 0, 0, time.UTC)), 2)

		q, err := engine.Price(ctx, vehicle("100"), period, "SAVE20")
		require.NoError(t, err)
		assertMoney(t, "80", q.FinalDailyRate)
	})

	t.Run("Expired code is ignored", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, "SAVE20").Return(save20, nil)
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(time.Date(2026, 6, 2, 0, 30, 0, 0, time.UTC)), 2)

		q, err := engine.Price(ctx, vehicle("100"), period, "SAVE20")
		require.NoError(t, err)
		assertMoney(t, "100", q.FinalDailyRate)
		assert.Contains(t, q.DiscountNote, "expired")
	})

	t.Run("Invalid terms are ignored", func(t *testing.T) {
		bad := *save20
		bad.PercentageOff = decimal.NewFromInt(150)
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, "SAVE20").Return(&bad, nil)
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(now), 2)

		q, err := engine.Price(ctx, vehicle("100"), period, "SAVE20")
		require.NoError(t, err)
		assertMoney(t, "100", q.FinalDailyRate)
	})

	t.Run("Full discount floors at zero", func(t *testing.T) {
		free := *save20
		free.PercentageOff = decimal.NewFromInt(100)
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, "SAVE20").Return(&free, nil)
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(now), 2)

		q, err := engine.Price(ctx, vehicle("100"), period, "SAVE20")
		require.NoError(t, err)
		assertMoney(t, "0", q.FinalDailyRate)
	})

	t.Run("Rounds half to even", func(t *testing.T) {
		half := *save20
		half.PercentageOff = decimal.NewFromInt(50)
		half.MinEligibleAmount = decimal.Zero
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, "SAVE20").Return(&half, nil)
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(now), 2)

		q, err := engine.Price(ctx, vehicle("10.25"), period, "SAVE20")
		require.NoError(t, err)
		assertMoney(t, "5.12", q.FinalDailyRate)
	})

	t.Run("Store failure is returned", func(t *testing.T) {
		offerRepo := new(MockOfferRepo)
		offerRepo.On("GetByCode", ctx, "SAVE20").Return(nil, fmt.Errorf("get offer: %w", domain.ErrStoreUnavailable))
		engine := service.NewPricingEngine(offerRepo, fixedCalendar(now), 2)

		q, err := engine.Price(ctx, vehicle("100"), period, "SAVE20")
		assert.Nil(t, q)
		assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	})
}
