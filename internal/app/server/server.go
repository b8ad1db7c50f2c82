package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/leave"
	"leavemgmt/internal/domain/policy"
	"leavemgmt/internal/domain/users"
	"leavemgmt/internal/platform/breaker"
	"leavemgmt/internal/platform/config"
	"leavemgmt/internal/platform/db"
	"leavemgmt/internal/platform/logging"
	"leavemgmt/internal/platform/metrics"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler

	closeRevoker func()
}

// New connects to the database, applies migrations and seed data as
// configured, and builds the router. Callers must Close the App.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := zap.L()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	revoker, closeRevoker := newRevoker(cfg, logger)
	deps, err := newDeps(cfg, pool, revoker, logger)
	if err != nil {
		closeRevoker()
		pool.Close()
		return nil, err
	}

	return &App{
		Config:       cfg,
		DB:           pool,
		Router:       NewRouter(deps),
		closeRevoker: closeRevoker,
	}, nil
}

func (a *App) Close() {
	if a.closeRevoker != nil {
		a.closeRevoker()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run loads configuration, builds the App and serves until SIGINT or
// SIGTERM, then drains in-flight requests.
func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("leave management server listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newDeps(cfg config.Config, pool *pgxpool.Pool, revoker auth.Revoker, logger *zap.Logger) (Deps, error) {
	p, err := policy.New()
	if err != nil {
		return Deps{}, fmt.Errorf("load policy: %w", err)
	}
	collector := metrics.New()

	leaveSvc := leave.NewService(leave.NewStore(pool), p, collector, logger)
	userStore := users.NewStore(pool)
	userSvc := users.NewService(userStore, leaveSvc, p, logger)
	authSvc := auth.NewService(userStore, revoker, cfg.JWTSecret, cfg.TokenTTL, logger)

	return Deps{
		Config:  cfg,
		Logger:  logger,
		Policy:  p,
		Metrics: collector,
		Revoker: revoker,
		Auth:    authSvc,
		Users:   userSvc,
		Leaves:  leaveSvc,
		Ready:   pool.Ping,
	}, nil
}

// newRevoker uses Redis when REDIS_ADDR is set and an in-process store
// otherwise. The in-process store does not survive restarts and is not
// shared between replicas.
func newRevoker(cfg config.Config, logger *zap.Logger) (auth.Revoker, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, token revocation is kept in memory")
		return auth.NewMemoryRevoker(), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return auth.NewRedisRevoker(client, breaker.New("redis", 30*time.Second)), func() {
		if err := client.Close(); err != nil {
			logger.Warn("redis close failed", zap.Error(err))
		}
	}
}
