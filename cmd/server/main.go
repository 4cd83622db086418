package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	apigrpc "rentfleet-backend/internal/api/grpc"
	httpapi "rentfleet-backend/internal/api/http"
	"rentfleet-backend/internal/config"
	"rentfleet-backend/internal/jobs"
	"rentfleet-backend/internal/logger"
	"rentfleet-backend/internal/repository"
	"rentfleet-backend/internal/repository/memory"
	"rentfleet-backend/internal/repository/postgres"
	"rentfleet-backend/internal/scheduler"
	"rentfleet-backend/internal/security"
	"rentfleet-backend/internal/service"
	"rentfleet-backend/internal/stream"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// repositories is the subset of a store the server wires into services.
type repositories struct {
	repository.Pinger
	vehicles     repository.VehicleRepository
	reservations repository.ReservationRepository
	offers       repository.OfferRepository
	reviews      repository.ReviewRepository
	locations    repository.LocationRepository
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentFleet Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Booking configuration", "timezone", cfg.Booking.Timezone, "currency_scale", cfg.Booking.CurrencyScale)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	calendar, err := service.NewCalendar(cfg.Booking.Timezone)
	if err != nil {
		log.Fatalf("Failed to load booking timezone: %v", err)
	}

	// Initialize Repositories
	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err, "type", cfg.Database.Type)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	// Live location fan-out: local broker first, then the optional sinks
	broker := stream.NewBroker(cfg.Stream.SubscriberBuffer)
	var sinks []stream.Sink
	var shared stream.LatestSource
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("Failed to ping redis", "error", err, "addr", cfg.Redis.Addr)
			log.Fatalf("Failed to ping redis: %v", err)
		}
		relay := stream.NewRedisRelay(client, broker, cfg.LatestLocationTTL())
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Redis relay stopped", "error", err)
			}
		}()
		sinks = append(sinks, relay)
		shared = relay
		logger.Info("Redis location relay enabled", "addr", cfg.Redis.Addr)
	}
	if cfg.Firebase.Enabled {
		mirror, err := stream.NewFirebaseMirror(ctx, cfg.Firebase.DatabaseURL, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize firebase mirror", "error", err)
			log.Fatalf("Failed to initialize firebase mirror: %v", err)
		}
		sinks = append(sinks, mirror)
		logger.Info("Firebase location mirror enabled", "database_url", cfg.Firebase.DatabaseURL)
	}
	publisher := stream.NewFanout(broker, sinks...)

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailSvc = service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		logger.Warn("SendGrid API key not set, booking confirmations will only be logged")
		emailSvc = service.NewLogEmailService()
	}

	// Initialize Services
	availability := service.NewAvailabilityIndex(repos.vehicles, repos.reservations)
	pricing := service.NewPricingEngine(repos.offers, calendar, cfg.Booking.CurrencyScale)
	services := &httpapi.Services{
		Vehicles:     service.NewVehicleService(repos.vehicles, calendar),
		Bookings:     service.NewBookingService(repos.vehicles, repos.reservations, availability, pricing, emailSvc),
		Availability: availability,
		Locations:    service.NewLocationService(repos.vehicles, repos.reservations, repos.locations, broker, publisher, shared, calendar),
		Reviews:      service.NewReviewService(repos.vehicles, repos.reviews),
		Offers:       service.NewOfferService(repos.offers),
		Store:        repos,
	}

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Scheduled maintenance runs in-process; cmd/cronjob runs the same jobs on demand
	if cfg.Scheduler.Enabled {
		runner := jobs.NewJobRunner(&jobs.Repositories{
			Reservations:  repos.reservations,
			Offers:        repos.offers,
			Locations:     repos.locations,
			LocationCache: broker,
		}, calendar, cfg)
		sched, err := scheduler.NewScheduler(runner, calendar.Location)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Set up gRPC health server
	var grpcServer interface{ GracefulStop() }
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		monitor := apigrpc.NewHealthMonitor(repos, 15*time.Second)
		go monitor.Run(ctx)
		s := apigrpc.NewServer(monitor)
		grpcServer = s
		go func() {
			logger.Info("gRPC health server listening", "address", addr)
			if err := s.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	// Set up HTTP server
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(services, tokenManager),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	logger.Info("Server stopped")
}

// openStore connects the configured backing store. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config) (*repositories, func(), error) {
	switch cfg.Database.Type {
	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			Pinger:       store,
			vehicles:     store.VehicleRepository,
			reservations: store.ReservationRepository,
			offers:       store.OfferRepository,
			reviews:      store.ReviewRepository,
			locations:    store.LocationRepository,
		}, func() {}, nil
	default:
		logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		logger.Info("Database connection established")
		store := postgres.NewStore(db)
		return &repositories{
			Pinger:       store,
			vehicles:     store.VehicleRepository,
			reservations: store.ReservationRepository,
			offers:       store.OfferRepository,
			reviews:      store.ReviewRepository,
			locations:    store.LocationRepository,
		}, func() { db.Close() }, nil
	}
}

