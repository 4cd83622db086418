package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffer_Validate(t *testing.T) {
	valid := func() Offer {
		return Offer{
			Code:              "SAVE20",
			PercentageOff:     decimal.NewFromInt(20),
			MinEligibleAmount: decimal.NewFromInt(50),
			Expiry:            NewDate(2026, 6, 1),
			Description:       "Twenty off",
		}
	}

	o := valid()
	assert.NoError(t, o.Validate())

	cases := map[string]func(o *Offer){
		"code":                func(o *Offer) { o.Code = " " },
		"zero percentage":     func(o *Offer) { o.PercentageOff = decimal.Zero },
		"over 100":            func(o *Offer) { o.PercentageOff = decimal.NewFromInt(101) },
		"negative minimum":    func(o *Offer) { o.MinEligibleAmount = decimal.NewFromInt(-1) },
		"missing expiry":      func(o *Offer) { o.Expiry = Date{} },
		"missing description": func(o *Offer) { o.Description = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			o := valid()
			mutate(&o)
			assert.ErrorIs(t, o.Validate(), ErrValidation)
		})
	}

	t.Run("Expiry day is inclusive", func(t *testing.T) {
		o := valid()
		assert.False(t, o.ExpiredOn(NewDate(2026, 6, 1)))
		assert.True(t, o.ExpiredOn(NewDate(2026, 6, 2)))
	})
}

func TestVehicle_Validate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	v := Vehicle{Make: "Audi", Model: "A3", YearAcquired: 2027, BaseDailyRate: decimal.NewFromInt(70)}
	assert.NoError(t, v.Validate(now))

	v.YearAcquired = 2028
	assert.ErrorIs(t, v.Validate(now), ErrValidation)

	v.YearAcquired = 2020
	v.BaseDailyRate = decimal.Zero
	assert.ErrorIs(t, v.Validate(now), ErrValidation)
}

func TestReservation_Total(t *testing.T) {
	r := Reservation{
		Period:         DateRange{Start: NewDate(2026, 5, 10), End: NewDate(2026, 5, 12)},
		FinalDailyRate: decimal.RequireFromString("80.50"),
		RenterID:       1,
		OwnerID:        2,
	}
	assert.True(t, r.Total().Equal(decimal.RequireFromString("241.50")))
	assert.True(t, r.InvolvesUser(2))
	assert.False(t, r.InvolvesUser(3))
}

func TestRatingSummary_JSON(t *testing.T) {
	out, err := json.Marshal(RatingSummary{VehicleID: 1, Count: 2, Average: 4.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"vehicle_id":1,"count":2,"average":4.5}`, string(out))
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateCoordinates(-90, 180))
	assert.ErrorIs(t, ValidateCoordinates(math.NaN(), 0), ErrValidation)
	assert.ErrorIs(t, ValidateCoordinates(0, math.Inf(1)), ErrValidation)
	assert.ErrorIs(t, ValidateCoordinates(0, -180.5), ErrValidation)
}
