package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learning-platform/backend/catalog"
	"learning-platform/backend/config"
	"learning-platform/backend/controllers"
	"learning-platform/backend/routes"
	"learning-platform/backend/services"
	"learning-platform/backend/store"
	"learning-platform/backend/utils"

	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{Format: cfg.LogFormat, Level: cfg.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, checks, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	svc := services.New(st, services.Defaults{
		PassMarkPercentage: cfg.DefaultPassMark,
		EnforcePassMark:    cfg.DefaultEnforcePassMark,
	}, logger)

	if cfg.CatalogPath != "" {
		cat, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			logger.Error("load catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
		if _, err := catalog.Import(ctx, svc, cat); err != nil {
			logger.Error("import catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	}

	app := routes.NewApp(svc, cfg, logger, checks)

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

// openStore builds the configured store, wrapped in the Redis cache when CACHE_URL is set.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, map[string]controllers.HealthCheck, func(), error) {
	checks := map[string]controllers.HealthCheck{}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var st store.Store
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		st = store.NewMemoryStore()
		logger.Warn("using in-memory store; data is lost on restart")
	default:
		db, err := utils.InitDB(cfg, logger)
		if err != nil {
			return nil, nil, cleanup, err
		}
		closers = append(closers, func() {
			if err := utils.CloseDB(db); err != nil {
				logger.Error("close database", "error", err)
			}
		})
		gs := store.NewGormStore(db)
		if err := gs.Migrate(ctx); err != nil {
			cleanup()
			return nil, nil, func() {}, err
		}
		checks["database"] = pingDB(db)
		st = gs
	}

	if cfg.CacheURL != "" {
		cache, err := store.NewCache(ctx, cfg.CacheURL)
		if err != nil {
			cleanup()
			return nil, nil, func() {}, err
		}
		closers = append(closers, func() {
			if err := cache.Close(); err != nil {
				logger.Error("close cache", "error", err)
			}
		})
		checks["cache"] = cache.HealthCheck
		st = store.NewCachedStore(st, cache, cfg.CacheTTL(), logger)
	}
	return st, checks, cleanup, nil
}

func pingDB(db *gorm.DB) controllers.HealthCheck {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
