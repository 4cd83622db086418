package service

import (
	"context"
	"fmt"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository"
)

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	calendar    Calendar
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, calendar Calendar) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo, calendar: calendar}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, caller domain.Caller, vehicle *domain.Vehicle) error {
	if !caller.IsService() {
		return fmt.Errorf("only service accounts can list vehicles: %w", domain.ErrForbidden)
	}
	vehicle.OwnerID = caller.UserID
	if err := vehicle.Validate(s.calendar.now()); err != nil {
		return err
	}
	return s.vehicleRepo.Create(ctx, vehicle)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) ListVehicles(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.vehicleRepo.List(ctx, page, pageSize)
}

func (s *vehicleService) ListMyVehicles(ctx context.Context, caller domain.Caller) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListByOwner(ctx, caller.UserID)
}

// UpdateVehicle changes the descriptive fields and rate. The owner never
// changes.
func (s *vehicleService) UpdateVehicle(ctx context.Context, caller domain.Caller, vehicle *domain.Vehicle) error {
	existing, err := s.owned(ctx, caller, vehicle.ID)
	if err != nil {
		return err
	}
	vehicle.OwnerID = existing.OwnerID
	if err := vehicle.Validate(s.calendar.now()); err != nil {
		return err
	}
	return s.vehicleRepo.Update(ctx, vehicle)
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, caller domain.Caller, id int32) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return s.vehicleRepo.Delete(ctx, id)
}

func (s *vehicleService) owned(ctx context.Context, caller domain.Caller, id int32) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != caller.UserID {
		return nil, fmt.Errorf("vehicle %d: %w", id, domain.ErrForbidden)
	}
	return v, nil
}

