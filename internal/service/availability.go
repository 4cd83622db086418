package service

import (
	"context"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/logger"
	"rentfleet-backend/internal/repository"
)

type availabilityIndex struct {
	vehicleRepo     repository.VehicleRepository
	reservationRepo repository.ReservationRepository
}

func NewAvailabilityIndex(vehicleRepo repository.VehicleRepository, reservationRepo repository.ReservationRepository) AvailabilityIndex {
	return &availabilityIndex{vehicleRepo: vehicleRepo, reservationRepo: reservationRepo}
}

// IsAvailable reports whether no reservation on the vehicle overlaps period.
// It fails closed: any lookup error yields false alongside the error.
func (s *availabilityIndex) IsAvailable(ctx context.Context, vehicleID int32, period domain.DateRange) (bool, error) {
	logger.EnterMethod("availabilityIndex.IsAvailable", "vehicleID", vehicleID, "period", period.String())

	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		logger.ExitMethodWithError("availabilityIndex.IsAvailable", err, "vehicleID", vehicleID)
		return false, err
	}
	existing, err := s.reservationRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		logger.ExitMethodWithError("availabilityIndex.IsAvailable", err, "vehicleID", vehicleID)
		return false, err
	}

	available := domain.FindConflict(existing, vehicleID, period) == nil
	logger.ExitMethod("availabilityIndex.IsAvailable", "vehicleID", vehicleID, "available", available)
	return available, nil
}
