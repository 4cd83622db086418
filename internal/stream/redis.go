package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "rentfleet:locations:"
	latestPrefix  = "rentfleet:location:"
)

type envelope struct {
	Origin string                `json:"origin"`
	Sample domain.LocationSample `json:"sample"`
}

// RedisRelay shares samples between server instances. Published samples go
// out on a per-vehicle channel; Run feeds samples from other instances into
// the local broker.
type RedisRelay struct {
	client    *redis.Client
	broker    *Broker
	origin    string
	latestTTL time.Duration
}

var _ LatestSource = (*RedisRelay)(nil)

func NewRedisRelay(client *redis.Client, broker *Broker, latestTTL time.Duration) *RedisRelay {
	return &RedisRelay{
		client:    client,
		broker:    broker,
		origin:    uuid.NewString(),
		latestTTL: latestTTL,
	}
}

func (r *RedisRelay) Name() string { return "redis" }

func channelName(vehicleID int32) string {
	return channelPrefix + strconv.Itoa(int(vehicleID))
}

func latestKey(vehicleID int32) string {
	return latestPrefix + strconv.Itoa(int(vehicleID))
}

func (r *RedisRelay) Publish(ctx context.Context, sample domain.LocationSample) error {
	sampleJSON, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}
	payload, err := json.Marshal(envelope{Origin: r.origin, Sample: sample})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, latestKey(sample.VehicleID), sampleJSON, r.latestTTL)
	pipe.Publish(ctx, channelName(sample.VehicleID), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish vehicle %d: %w", sample.VehicleID, err)
	}
	return nil
}

// Latest reads the shared latest sample, or domain.ErrNotFound.
func (r *RedisRelay) Latest(ctx context.Context, vehicleID int32) (*domain.LocationSample, error) {
	data, err := r.client.Get(ctx, latestKey(vehicleID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("latest location for vehicle %d: %w", vehicleID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var sample domain.LocationSample
	if err := json.Unmarshal([]byte(data), &sample); err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}
	return &sample, nil
}

// Run relays remote samples until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis psubscribe: %w", err)
	}
	logger.Info("Redis location relay started", "origin", r.origin)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(msg.Channel, channelPrefix) {
				continue
			}
			if err := r.handle(ctx, msg.Payload); err != nil {
				logger.Warn("Dropping relayed location", "channel", msg.Channel, "error", err)
			}
		}
	}
}

func (r *RedisRelay) handle(ctx context.Context, payload string) error {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.Origin == r.origin {
		return nil
	}
	return r.broker.Publish(ctx, env.Sample)
}
