package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/pomodoro/internal/adapter/httpserver"
	"github.com/pscheid92/pomodoro/internal/adapter/memory"
	"github.com/pscheid92/pomodoro/internal/adapter/metrics"
	"github.com/pscheid92/pomodoro/internal/adapter/postgres"
	"github.com/pscheid92/pomodoro/internal/adapter/redis"
	"github.com/pscheid92/pomodoro/internal/app"
	"github.com/pscheid92/pomodoro/internal/domain"
	"github.com/pscheid92/pomodoro/internal/platform/config"
	"github.com/pscheid92/pomodoro/internal/platform/logging"
	"github.com/pscheid92/pomodoro/internal/platform/version"
	goredis "github.com/redis/go-redis/v9"
)

const startupTimeout = 10 * time.Second

// stores bundles the selected backend with its health checks and cleanup.
type stores struct {
	tasks        domain.TaskRepository
	sessions     domain.SessionRepository
	healthChecks []httpserver.HealthCheck
	closers      []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config, reg prometheus.Registerer) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	tracer := postgres.NewMetricsTracer(metrics.NewDBMetrics(reg))
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, tracer)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config, reg prometheus.Registerer) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	breaker := redis.NewCircuitBreakerHook(metrics.NewCircuitBreakerMetrics(reg))
	client, err := redis.NewClient(ctx, cfg.RedisURL, breaker)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupStores(cfg *config.Config, reg prometheus.Registerer) *stores {
	s := &stores{}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool := setupDB(cfg, reg)
		s.closers = append(s.closers, pool.Close)
		s.tasks = postgres.NewTaskRepo(pool)
		s.sessions = postgres.NewSessionRepo(pool)
		s.healthChecks = append(s.healthChecks, httpserver.HealthCheck{Name: "postgres", Check: pool.Ping})
	default:
		store := memory.NewStore()
		s.tasks = store.Tasks()
		s.sessions = store.Sessions()
		s.healthChecks = append(s.healthChecks, httpserver.HealthCheck{Name: "memory", Check: store.Ping})
		slog.Warn("Using in-memory store; data is lost on restart")
	}

	if cfg.RedisURL != "" {
		client := setupRedis(cfg, reg)
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.tasks = redis.NewTaskCache(client, s.tasks, cfg.TaskCacheTTL, metrics.NewCacheMetrics(reg))
		s.healthChecks = append(s.healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		slog.Info("Task cache enabled", "ttl", cfg.TaskCacheTTL)
	}

	return s
}

func runGracefulShutdown(srv *httpserver.Server, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "version", version.Get().String(), "env", cfg.AppEnv, "port", cfg.Port)

	registry := metrics.NewRegistry()

	s := setupStores(cfg, registry)
	defer s.close()

	appSvc := app.NewService(s.tasks, s.sessions, clockwork.NewRealClock())
	srv := httpserver.NewServer(cfg, appSvc, registry, s.healthChecks)

	done := runGracefulShutdown(srv, cfg.ShutdownTimeout)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		s.close()
		os.Exit(1)
	}

	<-done
	slog.Info("Server stopped")
}
