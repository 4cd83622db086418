package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"rentfleet-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(vehicleID int32, lat float64) domain.LocationSample {
	return domain.LocationSample{VehicleID: vehicleID, ReporterID: 7, Lat: lat, Lng: 10, CapturedAt: time.Now()}
}

func receive(t *testing.T, sub *Subscription) domain.LocationSample {
	t.Helper()
	select {
	case s, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sample")
	}
	return domain.LocationSample{}
}

func TestBroker_PublishSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Delivers to every subscriber in order", func(t *testing.T) {
		b := NewBroker(8)
		a := b.Subscribe(1)
		c := b.Subscribe(1)

		for i := 1; i <= 3; i++ {
			require.NoError(t, b.Publish(ctx, sample(1, float64(i))))
		}
		for _, sub := range []*Subscription{a, c} {
			for i := 1; i <= 3; i++ {
				assert.Equal(t, float64(i), receive(t, sub).Lat)
			}
		}
	})

	t.Run("Topics are isolated", func(t *testing.T) {
		b := NewBroker(8)
		sub := b.Subscribe(1)
		require.NoError(t, b.Publish(ctx, sample(2, 5)))
		assert.Len(t, sub.C(), 0)
	})

	t.Run("Late subscriber receives latest sample", func(t *testing.T) {
		b := NewBroker(8)
		require.NoError(t, b.Publish(ctx, sample(1, 1)))
		require.NoError(t, b.Publish(ctx, sample(1, 2)))

		sub := b.Subscribe(1)
		assert.Equal(t, float64(2), receive(t, sub).Lat)
		assert.Len(t, sub.C(), 0)
	})

	t.Run("No delivery after unsubscribe", func(t *testing.T) {
		b := NewBroker(8)
		sub := b.Subscribe(1)
		require.NoError(t, b.Publish(ctx, sample(1, 1)))
		sub.Unsubscribe()
		require.NoError(t, b.Publish(ctx, sample(1, 2)))

		_, ok := <-sub.C()
		assert.False(t, ok)
		assert.Equal(t, 0, b.Subscribers(1))
		sub.Unsubscribe()
	})

	t.Run("Slow subscriber drops oldest", func(t *testing.T) {
		b := NewBroker(2)
		sub := b.Subscribe(1)
		for i := 1; i <= 5; i++ {
			require.NoError(t, b.Publish(ctx, sample(1, float64(i))))
		}
		assert.Equal(t, float64(4), receive(t, sub).Lat)
		assert.Equal(t, float64(5), receive(t, sub).Lat)
	})

	t.Run("Cancelled publish is rejected", func(t *testing.T) {
		b := NewBroker(2)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, b.Publish(cctx, sample(1, 1)), context.Canceled)
		_, ok := b.Latest(1)
		assert.False(t, ok)
	})
}

func TestBroker_SubscribeContext(t *testing.T) {
	b := NewBroker(4)
	ctx, cancel := context.WithCancel(context.Background())
	sub := b.SubscribeContext(ctx, 3)
	cancel()

	select {
	case _, ok := <-sub.C():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after context cancel")
	}
}

func TestBroker_Prime(t *testing.T) {
	b := NewBroker(4)
	newer := sample(1, 2)
	older := newer
	older.Lat = 1
	older.CapturedAt = newer.CapturedAt.Add(-time.Minute)

	b.Prime(newer)
	b.Prime(older)

	latest, ok := b.Latest(1)
	require.True(t, ok)
	assert.Equal(t, float64(2), latest.Lat)
}

func TestBroker_ConcurrentPublishers(t *testing.T) {
	b := NewBroker(1000)
	sub := b.Subscribe(1)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = b.Publish(context.Background(), sample(1, float64(i)))
		}(i)
	}
	wg.Wait()
	assert.Len(t, sub.C(), 50)
	sub.Unsubscribe()
}

func TestBroker_UnsubscribeReleasesContextWatcher(t *testing.T) {
	b := NewBroker(4)
	sub := b.SubscribeContext(context.Background(), 3)
	sub.Unsubscribe()
	sub.Unsubscribe()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed after unsubscribe")
	}
	assert.Equal(t, 0, b.Subscribers(3))
}

func TestBroker_SubscribeGated(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejected samples are skipped", func(t *testing.T) {
		b := NewBroker(4)
		require.NoError(t, b.Publish(ctx, sample(1, -1)))
		sub := b.SubscribeGated(ctx, 1, func(s domain.LocationSample) (bool, bool) {
			return s.Lat > 0, true
		})
		defer sub.Unsubscribe()

		assert.Len(t, sub.C(), 0)
		require.NoError(t, b.Publish(ctx, sample(1, 2)))
		assert.Equal(t, float64(2), receive(t, sub).Lat)
	})

	t.Run("Closed gate ends the subscription", func(t *testing.T) {
		b := NewBroker(4)
		expired := false
		sub := b.SubscribeGated(ctx, 1, func(domain.LocationSample) (bool, bool) {
			return !expired, !expired
		})

		require.NoError(t, b.Publish(ctx, sample(1, 1)))
		assert.Equal(t, float64(1), receive(t, sub).Lat)

		expired = true
		require.NoError(t, b.Publish(ctx, sample(1, 2)))
		_, ok := <-sub.C()
		assert.False(t, ok)
		<-sub.Done()
		assert.Equal(t, 0, b.Subscribers(1))
	})
}

func TestBroker_ForgetExcept(t *testing.T) {
	ctx := context.Background()
	b := NewBroker(4)
	require.NoError(t, b.Publish(ctx, sample(1, 1)))
	require.NoError(t, b.Publish(ctx, sample(2, 2)))
	b.Subscribe(3)

	assert.Equal(t, 1, b.ForgetExcept([]int32{2, 3}))

	_, ok := b.Latest(1)
	assert.False(t, ok)
	_, ok = b.Latest(2)
	assert.True(t, ok)
	sub := b.Subscribe(1)
	assert.Len(t, sub.C(), 0)
}
