// Package main provides the entrypoint for the RapidAid API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/ambulance"
	"github.com/rapidaid/rapidaid/internal/api"
	"github.com/rapidaid/rapidaid/internal/api/middleware"
	"github.com/rapidaid/rapidaid/internal/auth"
	"github.com/rapidaid/rapidaid/internal/database"
	"github.com/rapidaid/rapidaid/internal/geocode"
	"github.com/rapidaid/rapidaid/internal/geocode/nominatim"
	"github.com/rapidaid/rapidaid/internal/provider/resilience"
	"github.com/rapidaid/rapidaid/internal/realtime"
	"github.com/rapidaid/rapidaid/internal/request"
	"github.com/rapidaid/rapidaid/internal/telemetry"
	"github.com/rapidaid/rapidaid/internal/user"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "rapidaid-api"

	// Load .env for local development; absence is fine.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting RapidAid API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	trackingMetrics, err := middleware.NewTrackingMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize tracking metrics")
		os.Exit(1)
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize auth repositories and service
	authUserRepo := auth.NewPostgresUserRepository(pool)
	authRefreshRepo := auth.NewPostgresRefreshTokenRepository(pool)

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    authUserRepo,
		RefreshRepo: authRefreshRepo,
	})
	log.Info().Msg("auth service initialized")

	// Provider registry tracks external dependency health.
	registry := resilience.NewRegistry()

	// Reverse geocoding via Nominatim. Failures degrade to raw
	// coordinates, so the server starts without it being reachable.
	nominatimClient := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:   os.Getenv("NOMINATIM_BASE_URL"),
		UserAgent: "rapidaid-api/" + Version,
		Registry:  registry,
		Logger:    log,
	})
	geocoder := geocode.NewService(nominatimClient, log)

	// Realtime change feed over NATS. When no server is configured or
	// reachable the API falls back to an in-process bus, which keeps
	// tracking working on a single instance.
	var bus realtime.Bus
	var natsBus *realtime.NATSBus
	natsURL := os.Getenv("NATS_URL")
	if natsURL != "" {
		natsBus, err = realtime.NewNATSBus(natsURL, log)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable, using in-process change feed")
		}
	} else {
		log.Warn().Msg("NATS_URL not set, using in-process change feed")
	}
	if natsBus != nil {
		bus = natsBus
		log.Info().Str("url", natsURL).Msg("realtime bus connected")
	} else {
		bus = realtime.NewInMemoryBus()
	}
	defer bus.Close()

	var realtimeUp func() bool
	if natsBus != nil {
		realtimeUp = natsBus.IsConnected
	}

	// Initialize domain repositories and services
	userService := user.NewService(user.NewPostgresRepository(pool))
	log.Info().Msg("user service initialized")

	ambulanceRepo := ambulance.NewPostgresRepository(pool)
	ambulanceService := ambulance.NewService(ambulanceRepo)
	log.Info().Msg("ambulance service initialized")

	requestRepo := request.NewPostgresRepository(pool)
	requestService := request.NewService(requestRepo, ambulanceRepo, geocoder, bus, log)
	log.Info().Msg("request service initialized")

	trackingSession := realtime.NewSession(bus, ambulanceRepo, log)

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		TrackingMetrics:  trackingMetrics,
		AuthService:      authService,
		UserService:      userService,
		RequestService:   requestService,
		AmbulanceService: ambulanceService,
		TrackingSession:  trackingSession,
		DB:               pool,
		Registry:         registry,
		Realtime:         realtimeUp,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
