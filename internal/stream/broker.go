// Package stream fans live vehicle locations out to subscribers.
package stream

import (
	"context"
	"sync"

	"rentfleet-backend/internal/domain"

	"github.com/google/uuid"
)

const DefaultSubscriberBuffer = 16

// Publisher accepts a new location sample for delivery.
type Publisher interface {
	Publish(ctx context.Context, sample domain.LocationSample) error
}

// LatestSource answers the last known sample for a vehicle, or
// domain.ErrNotFound.
type LatestSource interface {
	Latest(ctx context.Context, vehicleID int32) (*domain.LocationSample, error)
}

// Gate screens samples for a single subscriber. deliver reports whether the
// sample may be sent; open false ends the subscription.
type Gate func(sample domain.LocationSample) (deliver, open bool)

// Broker is the in-process pub/sub hub. Each vehicle is a topic with its own
// lock, so samples for one vehicle are delivered in publish order while
// topics never block each other.
type Broker struct {
	mu     sync.Mutex
	topics map[int32]*topic
	buffer int
}

type topic struct {
	mu     sync.Mutex
	latest *domain.LocationSample
	subs   map[string]*Subscription
}

// Subscription is one subscriber's view of a vehicle topic.
type Subscription struct {
	ID        string
	VehicleID int32

	ch     chan domain.LocationSample
	done   chan struct{}
	topic  *topic
	gate   Gate
	closed bool
}

func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = DefaultSubscriberBuffer
	}
	return &Broker{
		topics: make(map[int32]*topic),
		buffer: buffer,
	}
}

func (b *Broker) topic(vehicleID int32) *topic {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[vehicleID]
	if !ok {
		t = &topic{subs: make(map[string]*Subscription)}
		b.topics[vehicleID] = t
	}
	return t
}

// Publish replaces the vehicle's latest sample and hands it to every current
// subscriber. A subscriber that has fallen behind loses its oldest pending
// sample rather than stalling the publisher.
func (b *Broker) Publish(ctx context.Context, sample domain.LocationSample) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := b.topic(sample.VehicleID)
	t.mu.Lock()
	defer t.mu.Unlock()

	s := sample
	t.latest = &s
	for _, sub := range t.subs {
		sub.deliver(sample)
	}
	return nil
}

// Prime seeds the latest sample without notifying anyone. It never moves the
// cache backwards in time.
func (b *Broker) Prime(sample domain.LocationSample) {
	t := b.topic(sample.VehicleID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest != nil && t.latest.CapturedAt.After(sample.CapturedAt) {
		return
	}
	s := sample
	t.latest = &s
}

func (b *Broker) Latest(vehicleID int32) (domain.LocationSample, bool) {
	t := b.topic(vehicleID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest == nil {
		return domain.LocationSample{}, false
	}
	return *t.latest, true
}

// ForgetExcept drops the cached latest sample of every vehicle not in keep
// and returns how many were dropped. Subscribers are left alone.
func (b *Broker) ForgetExcept(keep []int32) int {
	kept := make(map[int32]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}

	b.mu.Lock()
	topics := make([]*topic, 0, len(b.topics))
	for id, t := range b.topics {
		if !kept[id] {
			topics = append(topics, t)
		}
	}
	b.mu.Unlock()

	dropped := 0
	for _, t := range topics {
		t.mu.Lock()
		if t.latest != nil {
			t.latest = nil
			dropped++
		}
		t.mu.Unlock()
	}
	return dropped
}

// Subscribe registers a new subscriber. If the vehicle already has a sample
// it is queued immediately so late subscribers start from the current
// position.
func (b *Broker) Subscribe(vehicleID int32) *Subscription {
	return b.subscribe(vehicleID, nil)
}

// SubscribeContext is Subscribe with an automatic Unsubscribe when ctx ends.
func (b *Broker) SubscribeContext(ctx context.Context, vehicleID int32) *Subscription {
	return b.SubscribeGated(ctx, vehicleID, nil)
}

// SubscribeGated is SubscribeContext with every sample, the queued latest
// one included, passed through gate first.
func (b *Broker) SubscribeGated(ctx context.Context, vehicleID int32, gate Gate) *Subscription {
	sub := b.subscribe(vehicleID, gate)
	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.done:
		}
	}()
	return sub
}

func (b *Broker) subscribe(vehicleID int32, gate Gate) *Subscription {
	t := b.topic(vehicleID)
	sub := &Subscription{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		ch:        make(chan domain.LocationSample, b.buffer),
		done:      make(chan struct{}),
		topic:     t,
		gate:      gate,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs[sub.ID] = sub
	if t.latest != nil {
		sub.deliver(*t.latest)
	}
	return sub
}

// Subscribers returns the number of live subscriptions for a vehicle.
func (b *Broker) Subscribers(vehicleID int32) int {
	t := b.topic(vehicleID)
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// C is closed once the subscription ends.
func (s *Subscription) C() <-chan domain.LocationSample {
	return s.ch
}

// Done is closed once the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe stops delivery. Samples still buffered are discarded, so
// nothing is received after it returns. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.topic.mu.Lock()
	defer s.topic.mu.Unlock()
	s.closeLocked()
}

func (s *Subscription) closeLocked() {
	if s.closed {
		return
	}
	delete(s.topic.subs, s.ID)
	s.closed = true
	for len(s.ch) > 0 {
		<-s.ch
	}
	close(s.ch)
	close(s.done)
}

// deliver must be called with the topic lock held.
func (s *Subscription) deliver(sample domain.LocationSample) {
	if s.closed {
		return
	}
	if s.gate != nil {
		ok, open := s.gate(sample)
		if !open {
			s.closeLocked()
			return
		}
		if !ok {
			return
		}
	}
	select {
	case s.ch <- sample:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- sample:
	default:
	}
}
