package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/pickpackz-backend/api/routes"
	"github.com/angelmondragon/pickpackz-backend/internal/inventory"
	"github.com/angelmondragon/pickpackz-backend/internal/orders"
	"github.com/angelmondragon/pickpackz-backend/pkg/config"
	"github.com/angelmondragon/pickpackz-backend/pkg/db"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
	"github.com/angelmondragon/pickpackz-backend/pkg/metrics"
	"github.com/angelmondragon/pickpackz-backend/pkg/migrate"
	pkgredis "github.com/angelmondragon/pickpackz-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	fulfillmentMetrics := metrics.NewFulfillmentMetrics(registry)

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	inventorySvc, err := inventory.NewService(inventoryRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersSvc, err := orders.NewService(ordersRepo, dbClient, inventorySvc, fulfillmentMetrics, logg, cfg.FeatureFlags.RestockOnCancel)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"site": cfg.App.SiteCode,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, ordersSvc, inventorySvc),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeResources(ctx, logg, dbClient, redisClient)
			os.Exit(1)
		}
	case sig := <-stop:
		sigCtx := logg.WithField(ctx, "signal", sig.String())
		logg.Info(sigCtx, "shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(sigCtx, "graceful shutdown failed", err)
		}
	}

	closeResources(ctx, logg, dbClient, redisClient)
	logg.Info(ctx, "api server stopped")
}

func closeResources(ctx context.Context, logg *logger.Logger, dbClient *db.Client, redisClient *pkgredis.Client) {
	var errs error
	if redisClient != nil {
		errs = multierr.Append(errs, redisClient.Close())
	}
	if dbClient != nil {
		errs = multierr.Append(errs, dbClient.Close())
	}
	if errs != nil {
		logg.Error(ctx, "error closing resources", errs)
	}
}
