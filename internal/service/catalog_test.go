package service_test

import (
	"context"
	"testing"
	"time"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository/memory"
	"rentfleet-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := service.NewVehicleService(store.VehicleRepository, fixedCalendar(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	v := &domain.Vehicle{Make: "Tesla", Model: "3", YearAcquired: 2024, BaseDailyRate: decimal.NewFromInt(90)}

	t.Run("Customers cannot list vehicles", func(t *testing.T) {
		err := svc.CreateVehicle(ctx, renter, &domain.Vehicle{Make: "A", Model: "B", YearAcquired: 2024, BaseDailyRate: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Create sets owner", func(t *testing.T) {
		require.NoError(t, svc.CreateVehicle(ctx, owner, v))
		assert.Equal(t, owner.UserID, v.OwnerID)
	})

	t.Run("Validation", func(t *testing.T) {
		bad := &domain.Vehicle{Make: "Tesla", Model: "3", YearAcquired: 2030, BaseDailyRate: decimal.NewFromInt(90)}
		assert.ErrorIs(t, svc.CreateVehicle(ctx, owner, bad), domain.ErrValidation)
	})

	t.Run("Owner cannot be changed", func(t *testing.T) {
		update := &domain.Vehicle{ID: v.ID, OwnerID: 999, Make: "Tesla", Model: "Y", YearAcquired: 2024, BaseDailyRate: decimal.NewFromInt(95)}
		require.NoError(t, svc.UpdateVehicle(ctx, owner, update))

		got, err := svc.GetVehicle(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, owner.UserID, got.OwnerID)
		assert.Equal(t, "Y", got.Model)
	})

	t.Run("Only owner updates or deletes", func(t *testing.T) {
		other := domain.Caller{UserID: 11, Role: domain.RoleService}
		assert.ErrorIs(t, svc.DeleteVehicle(ctx, other, v.ID), domain.ErrForbidden)
	})

	t.Run("List and delete", func(t *testing.T) {
		list, total, err := svc.ListVehicles(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int32(1), total)
		assert.Len(t, list, 1)

		mine, err := svc.ListMyVehicles(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, mine, 1)

		require.NoError(t, svc.DeleteVehicle(ctx, owner, v.ID))
		_, err = svc.GetVehicle(ctx, v.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestOfferService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := service.NewOfferService(store.OfferRepository)

	newOffer := func() *domain.Offer {
		return &domain.Offer{
			Code:              "SAVE20",
			PercentageOff:     decimal.NewFromInt(20),
			MinEligibleAmount: decimal.NewFromInt(50),
			Expiry:            domain.NewDate(2026, 12, 31),
			Description:       "Twenty off",
		}
	}

	o := newOffer()
	require.NoError(t, svc.CreateOffer(ctx, owner, o))
	assert.Equal(t, owner.UserID, o.OwnerID)

	t.Run("Duplicate code conflicts", func(t *testing.T) {
		assert.ErrorIs(t, svc.CreateOffer(ctx, owner, newOffer()), domain.ErrConflict)
	})

	t.Run("Customers are refused", func(t *testing.T) {
		_, err := svc.ListOffers(ctx, renter)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Invalid percentage", func(t *testing.T) {
		bad := newOffer()
		bad.Code = "BAD"
		bad.PercentageOff = decimal.NewFromInt(101)
		assert.ErrorIs(t, svc.CreateOffer(ctx, owner, bad), domain.ErrValidation)
	})

	t.Run("Update and delete by owner only", func(t *testing.T) {
		other := domain.Caller{UserID: 12, Role: domain.RoleService}
		upd := newOffer()
		upd.ID = o.ID
		upd.PercentageOff = decimal.NewFromInt(30)
		assert.ErrorIs(t, svc.UpdateOffer(ctx, other, upd), domain.ErrForbidden)
		require.NoError(t, svc.UpdateOffer(ctx, owner, upd))

		got, err := svc.GetOffer(ctx, owner, o.ID)
		require.NoError(t, err)
		assert.True(t, got.PercentageOff.Equal(decimal.NewFromInt(30)))

		require.NoError(t, svc.DeleteOffer(ctx, owner, o.ID))
		list, err := svc.ListOffers(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
