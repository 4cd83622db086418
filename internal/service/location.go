package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/logger"
	"rentfleet-backend/internal/repository"
	"rentfleet-backend/internal/stream"
)

type locationService struct {
	vehicleRepo     repository.VehicleRepository
	reservationRepo repository.ReservationRepository
	locationRepo    repository.LocationRepository
	broker          *stream.Broker
	publisher       stream.Publisher
	shared          stream.LatestSource
	calendar        Calendar
	log             *slog.Logger
}

// NewLocationService wires the gate in front of the stream. publisher
// receives every accepted sample; it is usually a stream.Fanout whose
// primary is broker. shared, when set, is consulted for the last known
// sample before the store, so a sample accepted by another instance is
// visible here.
func NewLocationService(
	vehicleRepo repository.VehicleRepository,
	reservationRepo repository.ReservationRepository,
	locationRepo repository.LocationRepository,
	broker *stream.Broker,
	publisher stream.Publisher,
	shared stream.LatestSource,
	calendar Calendar,
) LocationService {
	if publisher == nil {
		publisher = broker
	}
	return &locationService{
		vehicleRepo:     vehicleRepo,
		reservationRepo: reservationRepo,
		locationRepo:    locationRepo,
		broker:          broker,
		publisher:       publisher,
		shared:          shared,
		calendar:        calendar,
		log:             logger.WithService("location"),
	}
}

// Publish records the renter's position for a vehicle they hold today.
func (s *locationService) Publish(ctx context.Context, caller domain.Caller, vehicleID int32, lat, lng float64) (*domain.LocationSample, error) {
	if err := domain.ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	if _, err := s.ActiveReservation(ctx, caller, vehicleID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no active reservation on vehicle %d: %w", vehicleID, domain.ErrForbidden)
		}
		return nil, err
	}

	sample := &domain.LocationSample{
		VehicleID:  vehicleID,
		ReporterID: caller.UserID,
		Lat:        lat,
		Lng:        lng,
		CapturedAt: s.calendar.now().UTC(),
	}
	if err := s.locationRepo.Upsert(ctx, sample); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, *sample); err != nil {
		return nil, err
	}
	return sample, nil
}

// Subscribe opens a live feed for the vehicle owner or its current renter.
// The feed ends when ctx is done or the subscription is cancelled. A
// renter's feed also ends with their reservation and never carries samples
// taken before it started.
func (s *locationService) Subscribe(ctx context.Context, caller domain.Caller, vehicleID int32) (*stream.Subscription, error) {
	rt, err := s.authorizeViewer(ctx, caller, vehicleID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.broker.Latest(vehicleID); !ok {
		last, err := s.lastKnown(ctx, vehicleID)
		switch {
		case err == nil:
			s.broker.Prime(*last)
		case errors.Is(err, domain.ErrNotFound):
		default:
			s.log.Warn("Could not load last known location", "vehicleID", vehicleID, "error", err)
		}
	}
	if rt == nil {
		return s.broker.SubscribeContext(ctx, vehicleID), nil
	}

	// the timer closes an idle feed; the gate catches clock jumps between samples
	ends := rt.Period.End.AddDays(1).In(s.calendar.loc())
	feedCtx, cancel := context.WithTimeout(ctx, ends.Sub(s.calendar.now()))
	sub := s.broker.SubscribeGated(feedCtx, vehicleID, s.renterGate(*rt))
	go func() {
		<-sub.Done()
		cancel()
	}()
	return sub, nil
}

func (s *locationService) Current(ctx context.Context, caller domain.Caller, vehicleID int32) (*domain.LocationSample, error) {
	rt, err := s.authorizeViewer(ctx, caller, vehicleID)
	if err != nil {
		return nil, err
	}
	var last *domain.LocationSample
	if latest, ok := s.broker.Latest(vehicleID); ok {
		last = &latest
	} else if last, err = s.lastKnown(ctx, vehicleID); err != nil {
		return nil, err
	}
	if rt != nil && last.CapturedAt.Before(s.reservationStart(*rt)) {
		return nil, fmt.Errorf("location for vehicle %d in current reservation: %w", vehicleID, domain.ErrNotFound)
	}
	return last, nil
}

func (s *locationService) lastKnown(ctx context.Context, vehicleID int32) (*domain.LocationSample, error) {
	if s.shared != nil {
		last, err := s.shared.Latest(ctx, vehicleID)
		if err == nil {
			return last, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("Shared location cache unavailable", "vehicleID", vehicleID, "error", err)
		}
	}
	return s.locationRepo.Get(ctx, vehicleID)
}

func (s *locationService) reservationStart(rt domain.Reservation) time.Time {
	return rt.Period.Start.In(s.calendar.loc())
}

// renterGate passes samples taken during rt and closes the feed once rt is
// no longer active.
func (s *locationService) renterGate(rt domain.Reservation) stream.Gate {
	since := s.reservationStart(rt)
	return func(sample domain.LocationSample) (bool, bool) {
		if !s.calendar.ActiveToday(rt.Period) {
			return false, false
		}
		return !sample.CapturedAt.Before(since), true
	}
}

// ActiveReservation returns the caller's reservation on the vehicle that is
// active today, or domain.ErrNotFound.
func (s *locationService) ActiveReservation(ctx context.Context, caller domain.Caller, vehicleID int32) (*domain.Reservation, error) {
	reservations, err := s.reservationRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	for i := range reservations {
		rt := reservations[i]
		if rt.RenterID == caller.UserID && s.calendar.ActiveToday(rt.Period) {
			return &rt, nil
		}
	}
	return nil, fmt.Errorf("active reservation for vehicle %d: %w", vehicleID, domain.ErrNotFound)
}

// authorizeViewer lets the owner through with a nil reservation. Anyone else
// needs a reservation active today, which is returned.
func (s *locationService) authorizeViewer(ctx context.Context, caller domain.Caller, vehicleID int32) (*domain.Reservation, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.OwnerID == caller.UserID {
		return nil, nil
	}
	rt, err := s.ActiveReservation(ctx, caller, vehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("vehicle %d location: %w", vehicleID, domain.ErrForbidden)
		}
		return nil, err
	}
	return rt, nil
}
