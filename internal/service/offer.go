package service

import (
	"context"
	"fmt"
	"strings"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/repository"
)

type offerService struct {
	offerRepo repository.OfferRepository
}

func NewOfferService(offerRepo repository.OfferRepository) OfferService {
	return &offerService{offerRepo: offerRepo}
}

func requireService(caller domain.Caller) error {
	if !caller.IsService() {
		return fmt.Errorf("only service accounts manage offers: %w", domain.ErrForbidden)
	}
	return nil
}

func (s *offerService) CreateOffer(ctx context.Context, caller domain.Caller, offer *domain.Offer) error {
	if err := requireService(caller); err != nil {
		return err
	}
	offer.Code = strings.TrimSpace(offer.Code)
	offer.OwnerID = caller.UserID
	if err := offer.Validate(); err != nil {
		return err
	}
	return s.offerRepo.Create(ctx, offer)
}

func (s *offerService) GetOffer(ctx context.Context, caller domain.Caller, id int32) (*domain.Offer, error) {
	if err := requireService(caller); err != nil {
		return nil, err
	}
	return s.offerRepo.GetByID(ctx, id)
}

func (s *offerService) ListOffers(ctx context.Context, caller domain.Caller) ([]domain.Offer, error) {
	if err := requireService(caller); err != nil {
		return nil, err
	}
	return s.offerRepo.List(ctx)
}

// UpdateOffer rewrites an offer's terms. Existing reservations keep the rate
// they were booked at.
func (s *offerService) UpdateOffer(ctx context.Context, caller domain.Caller, offer *domain.Offer) error {
	if _, err := s.owned(ctx, caller, offer.ID); err != nil {
		return err
	}
	offer.Code = strings.TrimSpace(offer.Code)
	offer.OwnerID = caller.UserID
	if err := offer.Validate(); err != nil {
		return err
	}
	return s.offerRepo.Update(ctx, offer)
}

func (s *offerService) DeleteOffer(ctx context.Context, caller domain.Caller, id int32) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return s.offerRepo.Delete(ctx, id)
}

func (s *offerService) owned(ctx context.Context, caller domain.Caller, id int32) (*domain.Offer, error) {
	if err := requireService(caller); err != nil {
		return nil, err
	}
	o, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != caller.UserID {
		return nil, fmt.Errorf("offer %d: %w", id, domain.ErrForbidden)
	}
	return o, nil
}
