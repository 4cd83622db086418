package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation is an immutable booking fact. Rebooking creates a new one.
type Reservation struct {
	ID             int32           `json:"id"`
	VehicleID      int32           `json:"vehicle_id"`
	RenterID       int32           `json:"renter_id"`
	OwnerID        int32           `json:"owner_id"`
	Period         DateRange       `json:"period"`
	BaseDailyRate  decimal.Decimal `json:"base_daily_rate"`
	FinalDailyRate decimal.Decimal `json:"final_daily_rate"`
	DiscountCode   string          `json:"discount_code,omitempty"`
	CreatedOn      time.Time       `json:"created_on"`
}

// Total is the amount owed for the whole period.
func (r *Reservation) Total() decimal.Decimal {
	return r.FinalDailyRate.Mul(decimal.NewFromInt(int64(r.Period.Days())))
}

// InvolvesUser reports whether the user is the renter or the vehicle owner.
func (r *Reservation) InvolvesUser(userID int32) bool {
	return r.RenterID == userID || r.OwnerID == userID
}

// FindConflict returns the first existing reservation on the same vehicle
// whose period overlaps candidate, or nil.
func FindConflict(existing []Reservation, vehicleID int32, candidate DateRange) *Reservation {
	for i := range existing {
		if existing[i].VehicleID != vehicleID {
			continue
		}
		if candidate.Overlaps(existing[i].Period) {
			return &existing[i]
		}
	}
	return nil
}

// Invoice is the billing view of a reservation.
type Invoice struct {
	ReservationID  int32           `json:"reservation_id"`
	VehicleID      int32           `json:"vehicle_id"`
	Vehicle        string          `json:"vehicle"`
	RenterID       int32           `json:"renter_id"`
	OwnerID        int32           `json:"owner_id"`
	Period         DateRange       `json:"period"`
	Days           int             `json:"days"`
	BaseDailyRate  decimal.Decimal `json:"base_daily_rate"`
	FinalDailyRate decimal.Decimal `json:"final_daily_rate"`
	DiscountCode   string          `json:"discount_code,omitempty"`
	Total          decimal.Decimal `json:"total"`
}
