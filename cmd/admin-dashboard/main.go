package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/visa-admin/internal/gateway"
	"github.com/noah-isme/visa-admin/internal/handler"
	"github.com/noah-isme/visa-admin/internal/repository"
	"github.com/noah-isme/visa-admin/internal/router"
	"github.com/noah-isme/visa-admin/internal/service"
	"github.com/noah-isme/visa-admin/migrations"
	"github.com/noah-isme/visa-admin/pkg/cache"
	"github.com/noah-isme/visa-admin/pkg/config"
	"github.com/noah-isme/visa-admin/pkg/database"
	"github.com/noah-isme/visa-admin/pkg/jobs"
	"github.com/noah-isme/visa-admin/pkg/logger"
)

// @title Visa Admin API
// @version 1.0.0
// @description JSON endpoints behind the visa admin dashboard pages
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validator.New()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}

	var (
		sessions  service.SessionStore
		cacheRepo service.CacheRepository
	)
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
		sessions = repository.NewSessionRepository(redisClient)
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	} else {
		logr.Warn("redis disabled, sessions and cache are kept in process memory")
		sessions = repository.NewMemorySessionRepository()
		cacheRepo = repository.NewMemoryCacheRepository()
	}

	audit, db, queue := buildAudit(cfg, logr)
	if db != nil {
		defer db.Close() //nolint:errcheck
	}
	if queue != nil {
		defer queue.Stop()
	}
	logr.Info("status audit configured", zap.Bool("persistent", audit.Persistent()))

	gw := gateway.New(gateway.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout}, sessions, metrics, logr)

	authSvc := service.NewAuthService(gw, sessions, validate, logr, service.AuthConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	})
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr)
	appSvc := service.NewApplicationService(gw, cacheSvc, audit, service.NewReminderGuard(), metrics, validate, logr, cfg.Grid.PageSize)

	engine := router.New(router.Deps{
		Config:       cfg,
		Logger:       logr,
		Metrics:      metrics,
		Auth:         authSvc,
		Applications: appSvc,
		Dashboard:    service.NewDashboardService(appSvc, logr),
		Export:       service.NewExportService(appSvc, logr),
		Ready:        readiness(redisClient, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// buildAudit wires persistent status-transition storage when enabled. Without it the
// audit service only logs. The queue outlives the signal context so Stop can drain it.
func buildAudit(cfg *config.Config, logr *zap.Logger) (*service.AuditService, *sqlx.DB, *jobs.Queue) {
	if !cfg.Audit.Enabled {
		return service.NewAuditService(nil, logr), nil, nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect audit database", "error", err)
	}

	if cfg.Audit.AutoMigrate {
		if err := database.Migrate(db, migrations.FS, logr); err != nil {
			logr.Sugar().Fatalw("failed to migrate audit database", "error", err)
		}
	}

	audit := service.NewAuditService(repository.NewAuditRepository(db), logr)
	queue := jobs.NewQueue("audit", audit.Handle, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		MaxRetries: cfg.Audit.Retries,
		RetryDelay: cfg.Audit.RetryDelay,
		Logger:     logr,
	})
	queue.Start(context.Background())
	audit.UseQueue(queue)
	return audit, db, queue
}

func readiness(redisClient *redis.Client, db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
		}
		return nil
	}
}
