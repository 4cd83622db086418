package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Offer is a discount code managed by a service account.
type Offer struct {
	ID                int32           `json:"id"`
	OwnerID           int32           `json:"owner_id"`
	Code              string          `json:"code"`
	PercentageOff     decimal.Decimal `json:"percentage_off"`
	MinEligibleAmount decimal.Decimal `json:"min_eligible_amount"`
	Expiry            Date            `json:"expiry"`
	Description       string          `json:"description"`
	CreatedOn         time.Time       `json:"created_on"`
	UpdatedOn         time.Time       `json:"updated_on"`
}

func (o *Offer) Validate() error {
	if strings.TrimSpace(o.Code) == "" {
		return NewValidationError("code", "is required")
	}
	if err := o.ValidateTerms(); err != nil {
		return err
	}
	if o.Expiry.IsZero() {
		return NewValidationError("expiry", "is required")
	}
	if strings.TrimSpace(o.Description) == "" {
		return NewValidationError("description", "is required")
	}
	return nil
}

// ValidateTerms checks the numeric terms: percentage in (0,100] and a
// non-negative minimum amount.
func (o *Offer) ValidateTerms() error {
	if !o.PercentageOff.IsPositive() || o.PercentageOff.GreaterThan(hundred) {
		return NewValidationError("percentage_off", "must be greater than 0 and at most 100")
	}
	if o.MinEligibleAmount.IsNegative() {
		return NewValidationError("min_eligible_amount", "must not be negative")
	}
	return nil
}

// ExpiredOn reports whether the offer can no longer be used on day. The
// expiry day itself is still valid.
func (o *Offer) ExpiredOn(day Date) bool {
	return o.Expiry.Before(day)
}
