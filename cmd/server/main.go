package main

import (
	"context"
	"delivery-tracker/internal/adapters/realtime"
	"delivery-tracker/internal/adapters/repositories"
	"delivery-tracker/internal/adapters/store"
	"delivery-tracker/internal/api"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/platform/logging"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/services"
	"delivery-tracker/internal/views"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires the configured store adapter, the synchronization core and the
// WebSocket view surfaces, then serves HTTP until interrupted.
func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logrus.SetLevel(logger.GetLevel())
	logrus.SetFormatter(logger.Formatter)
	logrus.SetOutput(logger.Out)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.Open(ctx, store.Options{
		Driver:          cfg.StoreDriver,
		DatabaseURL:     cfg.DatabaseURL,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPass,
		RedisDB:         cfg.RedisDB,
		Logger:          logger,
		PreparePostgres: repositories.InitSchema,
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer closeStore()

	logger.WithFields(logrus.Fields{
		"driver":     cfg.StoreDriver,
		"collection": cfg.Collection,
	}).Info("store ready")

	// Seed demo data on startup for local runs.
	if cfg.SeedOnStart {
		if err := seed(ctx, st, cfg, logger); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	hub := realtime.NewHub(logger)
	mirror := services.NewMirror()
	syncer := services.NewSynchronizer(st, mirror, views.All(hub), services.SynchronizerOptions{
		Collection: cfg.Collection,
		Delay:      cfg.RefreshDelay,
		Logger:     logger,
	})

	router := api.NewRouter(api.Deps{
		Store:      st,
		Reader:     syncer.Mirror(),
		Collection: cfg.Collection,
		Surface:    http.HandlerFunc(hub.ServeWS),
		Logger:     logger,
	})

	// No WriteTimeout: /ws responses are long-lived.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return syncer.Run(gctx)
	})

	g.Go(func() error {
		logger.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func seed(ctx context.Context, st ports.DeliveryStore, cfg config.Config, logger logrus.FieldLogger) error {
	records, err := repositories.LoadSeedFile(cfg.SeedPath)
	if err != nil {
		logger.WithError(err).Warn("seed file unavailable; using built-in samples")
		records = services.SampleDeliveries()
	}

	keys, err := services.SeedDeliveries(ctx, st, cfg.Collection, records, time.Now)
	if err != nil {
		return err
	}

	logger.WithField("count", len(keys)).Info("seeded deliveries")
	return nil
}
