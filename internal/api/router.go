// Package api provides the HTTP API for RapidAid.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/ambulance"
	"github.com/rapidaid/rapidaid/internal/api/handler"
	"github.com/rapidaid/rapidaid/internal/api/middleware"
	"github.com/rapidaid/rapidaid/internal/auth"
	"github.com/rapidaid/rapidaid/internal/provider/resilience"
	"github.com/rapidaid/rapidaid/internal/realtime"
	"github.com/rapidaid/rapidaid/internal/request"
	"github.com/rapidaid/rapidaid/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	TrackingMetrics  *middleware.TrackingMetrics
	AuthService      *auth.Service
	UserService      *user.Service
	RequestService   *request.Service
	AmbulanceService *ambulance.Service
	TrackingSession  *realtime.Session

	// Readiness probes. Any of these may be nil.
	DB       handler.Pinger
	Registry *resilience.Registry
	Realtime func() bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "rapidaid-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON bodies on write methods

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB, cfg.Registry, cfg.Realtime)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.UserService, cfg.Logger)
	profileHandler := handler.NewProfileHandler(cfg.UserService, cfg.Logger)
	requestHandler := handler.NewRequestHandler(cfg.RequestService, cfg.UserService, cfg.Logger)
	dispatchHandler := handler.NewDispatchHandler(cfg.RequestService, cfg.AmbulanceService, cfg.Logger)
	trackHandler := handler.NewTrackHandler(cfg.RequestService, cfg.TrackingSession, cfg.TrackingMetrics, cfg.Logger)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min per IP
	submitRateLimit := middleware.RateLimitByUser(middleware.SubmitRateLimit)     // 30 req/min per user
	standardRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit) // 100 req/min per user

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			// logout-all requires authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpsertProfile)
		})

		// Emergency request endpoints (authenticated)
		r.Route("/requests", func(r chi.Router) {
			r.Use(authMiddleware)
			r.With(submitRateLimit).Post("/", requestHandler.Create)
			r.With(standardRateLimit).Get("/", requestHandler.List)
			r.Route("/{requestID}", func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Get("/", requestHandler.Get)
				r.Get("/track", trackHandler.Track)
			})
		})

		// Dispatch endpoints (authenticated) - operator console
		r.Route("/dispatch", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/requests", dispatchHandler.ListRequests)
			r.Patch("/requests/{requestID}", dispatchHandler.UpdateRequest)
			r.Route("/ambulances", func(r chi.Router) {
				r.Get("/", dispatchHandler.ListAmbulances)
				r.Post("/", dispatchHandler.CreateAmbulance)
				r.Route("/{ambulanceID}", func(r chi.Router) {
					r.Get("/", dispatchHandler.GetAmbulance)
					r.Put("/", dispatchHandler.UpdateAmbulance)
					r.Delete("/", dispatchHandler.DeleteAmbulance)
				})
			})
		})
	})

	return r
}
