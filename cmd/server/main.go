package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/polyfolio/pnl-data/internal/api"
	"github.com/polyfolio/pnl-data/internal/cache"
	"github.com/polyfolio/pnl-data/internal/config"
	"github.com/polyfolio/pnl-data/internal/database"
	"github.com/polyfolio/pnl-data/internal/model"
	"github.com/polyfolio/pnl-data/internal/reconcile"
	"github.com/polyfolio/pnl-data/internal/refresh"
	"github.com/polyfolio/pnl-data/internal/server"
	"github.com/polyfolio/pnl-data/internal/store"
	"github.com/polyfolio/pnl-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	flag.Parse()

	// Optional .env for local development; config YAML expands the vars.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting pnl-data server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Upstream source clients.
	dataClient := api.NewClient(cfg.Sources.DataAPIURL,
		api.WithTimeout(cfg.Sources.Timeout),
		api.WithRetries(cfg.Sources.MaxAttempts, cfg.Sources.RetryBackoff),
		api.WithPageDelay(cfg.Sources.PageDelay),
		api.WithPageSize(cfg.Sources.PageSize),
		api.WithLogger(logger),
	)
	subgraphClient := api.NewSubgraphClient(cfg.Sources.SubgraphURL,
		api.WithSubgraphTimeout(cfg.Sources.Timeout),
		api.WithSubgraphRetries(cfg.Sources.MaxAttempts, cfg.Sources.RetryBackoff),
		api.WithSubgraphPageDelay(cfg.Sources.PageDelay),
		api.WithSubgraphPageSize(cfg.Sources.SubgraphPageSize),
		api.WithSubgraphLogger(logger),
	)
	service := reconcile.NewService(dataClient, subgraphClient, logger)

	// Result cache: redis when configured, in-process otherwise.
	var resultCache cache.Cache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL, logger)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		resultCache = redisCache
		logger.Info("redis cache enabled")
	} else {
		resultCache = cache.NewMemory(cfg.Cache.TTL)
	}

	// Optional snapshot store.
	var snapshots *store.Store
	if cfg.Database.Enabled() {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		snapshots = store.New(pool, logger)
		logger.Info("snapshot store enabled", "host", cfg.Database.Host)
	}

	hub := server.NewHub(logger)
	go hub.Run()

	srv := server.New(cfg.Server, service, resultCache, snapshots, hub, logger)

	// Background refresher keeps watched addresses warm.
	if len(cfg.Refresh.Addresses) > 0 {
		refresher := refresh.New(refresh.Config{
			Interval:    cfg.Refresh.Interval,
			Concurrency: cfg.Refresh.Concurrency,
			Addresses:   cfg.Refresh.Addresses,
		}, service, refresh.ResultHandlerFunc(func(ctx context.Context, result *model.ReconciliationResult) {
			resultCache.Set(ctx, result.Address, result)
			if snapshots != nil {
				if err := snapshots.SaveSnapshot(ctx, result); err != nil {
					logger.Warn("snapshot save failed", "address", result.Address, "error", err)
				}
			}
			hub.BroadcastResult(result)
		}), logger)

		if err := refresher.Start(ctx); err != nil {
			logger.Error("failed to start refresher", "error", err)
			os.Exit(1)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			refresher.Stop(stopCtx)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
