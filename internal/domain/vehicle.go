package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Vehicle struct {
	ID            int32           `json:"id"`
	OwnerID       int32           `json:"owner_id"`
	Make          string          `json:"make"`
	Model         string          `json:"model"`
	YearAcquired  int             `json:"year_acquired"`
	BaseDailyRate decimal.Decimal `json:"base_daily_rate"`
	CreatedOn     time.Time       `json:"created_on"`
	UpdatedOn     time.Time       `json:"updated_on"`
}

// Validate checks the owner-editable fields.
func (v *Vehicle) Validate(now time.Time) error {
	if strings.TrimSpace(v.Make) == "" {
		return NewValidationError("make", "is required")
	}
	if strings.TrimSpace(v.Model) == "" {
		return NewValidationError("model", "is required")
	}
	if v.YearAcquired < 1900 || v.YearAcquired > now.Year()+1 {
		return NewValidationError("year_acquired", "is out of range")
	}
	if !v.BaseDailyRate.IsPositive() {
		return NewValidationError("base_daily_rate", "must be greater than zero")
	}
	return nil
}
