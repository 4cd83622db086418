package service

import (
	"context"
	"errors"
	"fmt"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/logger"
	"rentfleet-backend/internal/repository"

	"github.com/shopspring/decimal"
)

const DefaultCurrencyScale = 2

var hundred = decimal.NewFromInt(100)

// Quote is a priced booking request. FinalDailyRate is what a reservation
// stores; later changes to offers never alter it.
type Quote struct {
	VehicleID       int32            `json:"vehicle_id"`
	Period          domain.DateRange `json:"period"`
	Days            int              `json:"days"`
	BaseDailyRate   decimal.Decimal  `json:"base_daily_rate"`
	FinalDailyRate  decimal.Decimal  `json:"final_daily_rate"`
	Total           decimal.Decimal  `json:"total"`
	DiscountCode    string           `json:"discount_code,omitempty"`
	DiscountApplied bool             `json:"discount_applied"`
	DiscountNote    string           `json:"discount_note,omitempty"`
	Available       *bool            `json:"available,omitempty"`
}

type pricingEngine struct {
	offerRepo repository.OfferRepository
	calendar  Calendar
	scale     int32
}

func NewPricingEngine(offerRepo repository.OfferRepository, calendar Calendar, currencyScale int32) PricingEngine {
	if currencyScale < 0 {
		currencyScale = DefaultCurrencyScale
	}
	return &pricingEngine{offerRepo: offerRepo, calendar: calendar, scale: currencyScale}
}

// Price computes the daily rate for the vehicle. A code that is unknown,
// expired, ineligible or carries invalid terms leaves the base rate in place
// and is explained in DiscountNote. Offer lookup failures are returned.
func (p *pricingEngine) Price(ctx context.Context, vehicle *domain.Vehicle, period domain.DateRange, code string) (*Quote, error) {
	base := vehicle.BaseDailyRate
	q := &Quote{
		VehicleID:      vehicle.ID,
		Period:         period,
		Days:           period.Days(),
		BaseDailyRate:  base,
		FinalDailyRate: base,
	}

	if code != "" {
		offer, note, err := p.lookup(ctx, code)
		if err != nil {
			return nil, err
		}
		switch {
		case offer == nil:
			q.DiscountNote = note
		case base.LessThan(offer.MinEligibleAmount):
			q.DiscountNote = fmt.Sprintf("daily rate below the %s minimum for %s", offer.MinEligibleAmount.String(), code)
		default:
			q.FinalDailyRate = applyPercentage(base, offer.PercentageOff)
			q.DiscountCode = offer.Code
			q.DiscountApplied = true
		}
	}

	q.FinalDailyRate = q.FinalDailyRate.RoundBank(p.scale)
	q.Total = q.FinalDailyRate.Mul(decimal.NewFromInt(int64(q.Days)))
	return q, nil
}

func (p *pricingEngine) lookup(ctx context.Context, code string) (*domain.Offer, string, error) {
	offer, err := p.offerRepo.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("Ignoring unknown discount code", "code", code)
		return nil, "unknown discount code " + code, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup discount code: %w", err)
	}
	if offer.ExpiredOn(p.calendar.Today()) {
		return nil, "discount code " + code + " has expired", nil
	}
	if err := offer.ValidateTerms(); err != nil {
		logger.Warn("Ignoring discount code with invalid terms", "code", code, "error", err)
		return nil, "discount code " + code + " is not valid", nil
	}
	return offer, "", nil
}

// applyPercentage returns base reduced by pct percent, never below zero.
func applyPercentage(base, pct decimal.Decimal) decimal.Decimal {
	final := base.Sub(pct.Div(hundred).Mul(base))
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}
