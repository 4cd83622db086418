package grpc

import (
	"context"
	"time"

	"rentfleet-backend/internal/logger"
	"rentfleet-backend/internal/repository"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// BookingServiceName is the health service name reported next to the
// overall ("") status.
const BookingServiceName = "rentfleet.v1.Booking"

const pingTimeout = 3 * time.Second

// HealthMonitor keeps the gRPC health status in line with the store.
type HealthMonitor struct {
	server   *health.Server
	store    repository.Pinger
	interval time.Duration
}

func NewHealthMonitor(store repository.Pinger, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &HealthMonitor{server: health.NewServer(), store: store, interval: interval}
}

// Check pings the store once and publishes the result.
func (m *HealthMonitor) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := m.store.Ping(ctx); err != nil {
		logger.Warn("Store health check failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(BookingServiceName, status)
	return status
}

// Run checks on every tick until ctx ends, then reports NOT_SERVING to
// watchers.
func (m *HealthMonitor) Run(ctx context.Context) {
	m.Check(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.server.Shutdown()
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// NewServer returns a gRPC server exposing the health service and
// reflection for grpcurl.
func NewServer(monitor *HealthMonitor) *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, monitor.server)
	reflection.Register(s)
	return s
}
