package service

import (
	"context"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/stream"
)

type AvailabilityIndex interface {
	IsAvailable(ctx context.Context, vehicleID int32, period domain.DateRange) (bool, error)
}

type PricingEngine interface {
	Price(ctx context.Context, vehicle *domain.Vehicle, period domain.DateRange, code string) (*Quote, error)
}

type BookingService interface {
	Book(ctx context.Context, caller domain.Caller, req BookingRequest) (*domain.Reservation, error)
	Rebook(ctx context.Context, caller domain.Caller, reservationID int32, period domain.DateRange, code string) (*domain.Reservation, error)
	Quote(ctx context.Context, vehicleID int32, period domain.DateRange, code string) (*Quote, error)
	GetReservation(ctx context.Context, caller domain.Caller, id int32) (*domain.Reservation, error)
	ListRentals(ctx context.Context, caller domain.Caller) ([]domain.Reservation, error)
	ListLendings(ctx context.Context, caller domain.Caller) ([]domain.Reservation, error)
	Invoice(ctx context.Context, caller domain.Caller, reservationID int32) (*domain.Invoice, error)
}

type LocationService interface {
	Publish(ctx context.Context, caller domain.Caller, vehicleID int32, lat, lng float64) (*domain.LocationSample, error)
	Subscribe(ctx context.Context, caller domain.Caller, vehicleID int32) (*stream.Subscription, error)
	Current(ctx context.Context, caller domain.Caller, vehicleID int32) (*domain.LocationSample, error)
	ActiveReservation(ctx context.Context, caller domain.Caller, vehicleID int32) (*domain.Reservation, error)
}

type ReviewService interface {
	SubmitReview(ctx context.Context, caller domain.Caller, vehicleID int32, rating int, text string) (*domain.Review, error)
	ListReviews(ctx context.Context, vehicleID int32) ([]domain.Review, error)
	AverageRating(ctx context.Context, vehicleID int32) (domain.RatingSummary, error)
}

type VehicleService interface {
	CreateVehicle(ctx context.Context, caller domain.Caller, vehicle *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error)
	ListMyVehicles(ctx context.Context, caller domain.Caller) ([]domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, caller domain.Caller, vehicle *domain.Vehicle) error
	DeleteVehicle(ctx context.Context, caller domain.Caller, id int32) error
}

type OfferService interface {
	CreateOffer(ctx context.Context, caller domain.Caller, offer *domain.Offer) error
	GetOffer(ctx context.Context, caller domain.Caller, id int32) (*domain.Offer, error)
	ListOffers(ctx context.Context, caller domain.Caller) ([]domain.Offer, error)
	UpdateOffer(ctx context.Context, caller domain.Caller, offer *domain.Offer) error
	DeleteOffer(ctx context.Context, caller domain.Caller, id int32) error
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, email string, reservation *domain.Reservation, vehicle *domain.Vehicle) error
}
