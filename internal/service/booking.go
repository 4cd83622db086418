package service

import (
	"context"
	"errors"
	"fmt"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/logger"
	"rentfleet-backend/internal/repository"
)

type BookingRequest struct {
	VehicleID    int32
	Period       domain.DateRange
	DiscountCode string
}

type bookingService struct {
	vehicleRepo     repository.VehicleRepository
	reservationRepo repository.ReservationRepository
	availability    AvailabilityIndex
	pricing         PricingEngine
	emailSvc        EmailService
}

func NewBookingService(
	vehicleRepo repository.VehicleRepository,
	reservationRepo repository.ReservationRepository,
	availability AvailabilityIndex,
	pricing PricingEngine,
	emailSvc EmailService,
) BookingService {
	return &bookingService{
		vehicleRepo:     vehicleRepo,
		reservationRepo: reservationRepo,
		availability:    availability,
		pricing:         pricing,
		emailSvc:        emailSvc,
	}
}

// Book prices the request and records it if the vehicle is free. The
// availability check and the write happen as one step in the repository.
func (s *bookingService) Book(ctx context.Context, caller domain.Caller, req BookingRequest) (*domain.Reservation, error) {
	logger.EnterMethod("bookingService.Book", "userID", caller.UserID, "vehicleID", req.VehicleID, "period", req.Period.String())

	if !caller.IsCustomer() {
		return nil, fmt.Errorf("only customers can book vehicles: %w", domain.ErrForbidden)
	}
	if _, err := domain.NewDateRange(req.Period.Start, req.Period.End); err != nil {
		return nil, err
	}

	vehicle, err := s.referencedVehicle(ctx, req.VehicleID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Book", err, "vehicleID", req.VehicleID)
		return nil, err
	}

	quote, err := s.pricing.Price(ctx, vehicle, req.Period, req.DiscountCode)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Book", err, "vehicleID", req.VehicleID)
		return nil, err
	}

	rt := &domain.Reservation{
		VehicleID:      vehicle.ID,
		RenterID:       caller.UserID,
		OwnerID:        vehicle.OwnerID,
		Period:         req.Period,
		BaseDailyRate:  quote.BaseDailyRate,
		FinalDailyRate: quote.FinalDailyRate,
		DiscountCode:   quote.DiscountCode,
	}
	if err := s.reservationRepo.CreateIfAvailable(ctx, rt); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			logger.Info("Booking rejected, vehicle unavailable", "vehicleID", req.VehicleID, "period", req.Period.String(), "userID", caller.UserID)
		} else {
			logger.ExitMethodWithError("bookingService.Book", err, "vehicleID", req.VehicleID)
		}
		return nil, err
	}

	if caller.Email != "" && s.emailSvc != nil {
		if err := s.emailSvc.SendBookingConfirmation(ctx, caller.Email, rt, vehicle); err != nil {
			logger.Warn("Failed to send booking confirmation", "reservationID", rt.ID, "error", err)
		}
	}

	logger.ExitMethod("bookingService.Book", "reservationID", rt.ID)
	return rt, nil
}

// Rebook books the same vehicle again for the renter of an earlier
// reservation. It is a brand new booking with its own check.
func (s *bookingService) Rebook(ctx context.Context, caller domain.Caller, reservationID int32, period domain.DateRange, code string) (*domain.Reservation, error) {
	prev, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if prev.RenterID != caller.UserID {
		return nil, fmt.Errorf("reservation %d belongs to another renter: %w", reservationID, domain.ErrForbidden)
	}
	return s.Book(ctx, caller, BookingRequest{VehicleID: prev.VehicleID, Period: period, DiscountCode: code})
}

// Quote prices a request and reports availability without writing anything.
func (s *bookingService) Quote(ctx context.Context, vehicleID int32, period domain.DateRange, code string) (*Quote, error) {
	if _, err := domain.NewDateRange(period.Start, period.End); err != nil {
		return nil, err
	}
	vehicle, err := s.referencedVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	q, err := s.pricing.Price(ctx, vehicle, period, code)
	if err != nil {
		return nil, err
	}
	available, err := s.availability.IsAvailable(ctx, vehicleID, period)
	if err != nil {
		return nil, err
	}
	q.Available = &available
	return q, nil
}

func (s *bookingService) GetReservation(ctx context.Context, caller domain.Caller, id int32) (*domain.Reservation, error) {
	rt, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rt.InvolvesUser(caller.UserID) {
		return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrForbidden)
	}
	return rt, nil
}

func (s *bookingService) ListRentals(ctx context.Context, caller domain.Caller) ([]domain.Reservation, error) {
	return s.reservationRepo.ListByRenter(ctx, caller.UserID)
}

func (s *bookingService) ListLendings(ctx context.Context, caller domain.Caller) ([]domain.Reservation, error) {
	if !caller.IsService() {
		return nil, fmt.Errorf("only service accounts own vehicles: %w", domain.ErrForbidden)
	}
	return s.reservationRepo.ListByOwner(ctx, caller.UserID)
}

func (s *bookingService) Invoice(ctx context.Context, caller domain.Caller, reservationID int32) (*domain.Invoice, error) {
	rt, err := s.GetReservation(ctx, caller, reservationID)
	if err != nil {
		return nil, err
	}
	inv := &domain.Invoice{
		ReservationID:  rt.ID,
		VehicleID:      rt.VehicleID,
		RenterID:       rt.RenterID,
		OwnerID:        rt.OwnerID,
		Period:         rt.Period,
		Days:           rt.Period.Days(),
		BaseDailyRate:  rt.BaseDailyRate,
		FinalDailyRate: rt.FinalDailyRate,
		DiscountCode:   rt.DiscountCode,
		Total:          rt.Total(),
	}
	// A deleted vehicle still gets an invoice, just without its name.
	if v, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID); err == nil {
		inv.Vehicle = fmt.Sprintf("%s %s", v.Make, v.Model)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return inv, nil
}

// referencedVehicle loads a vehicle named in a request; a missing one is a
// validation error rather than a 404 on the request itself.
func (s *bookingService) referencedVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("vehicle_id", fmt.Sprintf("vehicle %d does not exist", id))
	}
	return v, err
}
