package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rentfleet-backend/internal/domain"
)

type offerRepository struct{ *state }

func (r *offerRepository) Create(ctx context.Context, o *domain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codeTaken(o.Code, 0) {
		return fmt.Errorf("offer code %q: %w", o.Code, domain.ErrConflict)
	}
	now := time.Now()
	o.ID = r.id()
	o.CreatedOn, o.UpdatedOn = now, now
	cp := *o
	r.offers[o.ID] = &cp
	return nil
}

func (r *offerRepository) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, notFound("offer", id)
	}
	cp := *o
	return &cp, nil
}

func (r *offerRepository) GetByCode(ctx context.Context, code string) (*domain.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.offers {
		if o.Code == code {
			cp := *o
			return &cp, nil
		}
	}
	return nil, notFound("offer", code)
}

func (r *offerRepository) Update(ctx context.Context, o *domain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.offers[o.ID]
	if !ok {
		return notFound("offer", o.ID)
	}
	if r.codeTaken(o.Code, o.ID) {
		return fmt.Errorf("offer code %q: %w", o.Code, domain.ErrConflict)
	}
	o.UpdatedOn = time.Now()
	o.OwnerID, o.CreatedOn = cur.OwnerID, cur.CreatedOn
	cp := *o
	r.offers[o.ID] = &cp
	return nil
}

func (r *offerRepository) Delete(ctx context.Context, id int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return notFound("offer", id)
	}
	delete(r.offers, id)
	return nil
}

func (r *offerRepository) List(ctx context.Context) ([]domain.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *offerRepository) DeleteExpiredBefore(ctx context.Context, day domain.Date) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, o := range r.offers {
		if o.Expiry.Before(day) {
			delete(r.offers, id)
			n++
		}
	}
	return n, nil
}

// codeTaken must be called with mu held.
func (r *offerRepository) codeTaken(code string, exceptID int32) bool {
	for id, o := range r.offers {
		if id != exceptID && o.Code == code {
			return true
		}
	}
	return false
}
