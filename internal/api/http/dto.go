package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"rentfleet-backend/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const maxBodyBytes = 1 << 20

// decode reads a JSON body into dst and runs its validate tags.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "is not valid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.NewValidationError(fe.Field(), "failed "+fe.Tag()+" check")
		}
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}

type BookRequest struct {
	VehicleID    int32  `json:"vehicle_id" validate:"required,gt=0"`
	Start        string `json:"start" validate:"required,datetime=2006-01-02"`
	End          string `json:"end" validate:"required,datetime=2006-01-02"`
	DiscountCode string `json:"discount_code" validate:"omitempty,max=64"`
}

type RebookRequest struct {
	Start        string `json:"start" validate:"required,datetime=2006-01-02"`
	End          string `json:"end" validate:"required,datetime=2006-01-02"`
	DiscountCode string `json:"discount_code" validate:"omitempty,max=64"`
}

type QuoteRequest struct {
	Start        string `json:"start" validate:"required,datetime=2006-01-02"`
	End          string `json:"end" validate:"required,datetime=2006-01-02"`
	DiscountCode string `json:"discount_code" validate:"omitempty,max=64"`
}

// discountCode drops surrounding whitespace from a submitted code. Offers are
// stored trimmed and matched exactly.
func discountCode(code string) string {
	return strings.TrimSpace(code)
}

type VehicleRequest struct {
	Make          string          `json:"make" validate:"required,max=100"`
	Model         string          `json:"model" validate:"required,max=100"`
	YearAcquired  int             `json:"year_acquired" validate:"required,gte=1900"`
	BaseDailyRate decimal.Decimal `json:"base_daily_rate"`
}

func (v VehicleRequest) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		Make:          v.Make,
		Model:         v.Model,
		YearAcquired:  v.YearAcquired,
		BaseDailyRate: v.BaseDailyRate,
	}
}

type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"required,max=2000"`
}

type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

type OfferRequest struct {
	Code              string          `json:"code" validate:"required,max=64"`
	PercentageOff     decimal.Decimal `json:"percentage_off"`
	MinEligibleAmount decimal.Decimal `json:"min_eligible_amount"`
	Expiry            string          `json:"expiry" validate:"required,datetime=2006-01-02"`
	Description       string          `json:"description" validate:"required,max=500"`
}

func (o OfferRequest) toDomain() (*domain.Offer, error) {
	expiry, err := domain.ParseDate(o.Expiry)
	if err != nil {
		return nil, domain.NewValidationError("expiry", "must be a YYYY-MM-DD date")
	}
	return &domain.Offer{
		Code:              strings.TrimSpace(o.Code),
		PercentageOff:     o.PercentageOff,
		MinEligibleAmount: o.MinEligibleAmount,
		Expiry:            expiry,
		Description:       o.Description,
	}, nil
}

type ListVehiclesResponse struct {
	Vehicles []domain.Vehicle `json:"vehicles"`
	Total    int32            `json:"total"`
	Page     int32            `json:"page"`
	PageSize int32            `json:"page_size"`
}

type ReviewsResponse struct {
	Summary domain.RatingSummary `json:"summary"`
	Reviews []domain.Review      `json:"reviews"`
}

type AvailabilityResponse struct {
	VehicleID int32            `json:"vehicle_id"`
	Period    domain.DateRange `json:"period"`
	Available bool             `json:"available"`
}

type ActiveReservationResponse struct {
	Active      bool                `json:"active"`
	Reservation *domain.Reservation `json:"reservation,omitempty"`
}
