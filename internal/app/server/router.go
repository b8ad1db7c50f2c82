package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/policy"
	"leavemgmt/internal/platform/config"
	"leavemgmt/internal/platform/metrics"
	"leavemgmt/internal/transport/http/api"
	authhandler "leavemgmt/internal/transport/http/handlers/auth"
	leavehandler "leavemgmt/internal/transport/http/handlers/leave"
	usershandler "leavemgmt/internal/transport/http/handlers/users"
	"leavemgmt/internal/transport/http/middleware"
)

// Deps is everything the router needs. Run builds it from a live pool;
// tests build it from fakes.
type Deps struct {
	Config  config.Config
	Logger  *zap.Logger
	Policy  *policy.Policy
	Metrics *metrics.Collector
	Revoker auth.RevocationChecker
	Auth    authhandler.Authenticator
	Users   interface {
		authhandler.Registrar
		usershandler.Service
	}
	Leaves leavehandler.Service
	Ready  func(ctx context.Context) error
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.L()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(d.Config.JWTSecret, d.Revoker))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(d.Config.IsProduction()))
	router.Use(middleware.Metrics(d.Metrics))

	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if d.Config.MetricsEnabled && d.Metrics != nil {
		router.Handle("/metrics", d.Metrics.Handler())
	}

	authHandler := authhandler.NewHandler(d.Auth, d.Users)
	leaveHandler := leavehandler.NewHandler(d.Leaves, d.Policy)
	usersHandler := usershandler.NewHandler(d.Users, d.Policy)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BodyLimit(d.Config.MaxBodyBytes))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CredentialRateLimit(d.Config.RateLimitPerMinute))
			authHandler.RegisterPublicRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RateLimit(d.Config.RateLimitPerMinute))
			authHandler.RegisterRoutes(r)
			leaveHandler.RegisterRoutes(r)
			usersHandler.RegisterRoutes(r)
		})
	})

	return router
}

func notFound(w http.ResponseWriter, r *http.Request) {
	api.Fail(w, http.StatusNotFound, "not_found", "API endpoint not found", middleware.GetRequestID(r.Context()))
}
