package main

import (
	"context"
	"delivery-tracker/internal/adapters/repositories"
	"delivery-tracker/internal/adapters/store"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/platform/db"
	"delivery-tracker/internal/platform/logging"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/services"
	"delivery-tracker/internal/views"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flags = struct {
		EnvFile    string
		Driver     string
		Collection string
		SeedFile   string
		Samples    bool
	}{}

	cfg    config.Config
	logger *logrus.Logger

	root = &cobra.Command{
		Use:   "dbtool",
		Short: "dbtool prepares and inspects the delivery store",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv(flags.EnvFile)
			cfg = config.Load()
			if flags.Driver != "" {
				cfg.StoreDriver = strings.ToLower(flags.Driver)
			}
			if flags.Collection != "" {
				cfg.Collection = flags.Collection
			}
			logger = logging.New(logging.Config{Level: cfg.LogLevel, Format: "text"})
		},
	}

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the Postgres table and change-notification trigger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(cfg.DatabaseURL) == "" {
				return errors.New("DATABASE_URL is required")
			}

			pool, err := db.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger.Info("initializing database schema")
			if err := repositories.InitSchema(cmd.Context(), pool); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			logger.Info("schema ready")
			return nil
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert seed deliveries through the store so subscribers see them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			records := services.SampleDeliveries()
			if !flags.Samples {
				path := flags.SeedFile
				if path == "" {
					path = cfg.SeedPath
				}
				if records, err = repositories.LoadSeedFile(path); err != nil {
					return err
				}
			}

			logger.WithField("count", len(records)).Info("seeding deliveries")
			keys, err := services.SeedDeliveries(cmd.Context(), st, cfg.Collection, records, time.Now)
			for i, key := range keys {
				logger.WithFields(logrus.Fields{"key": key, "package_id": records[i].PackageID}).Info("inserted")
			}
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			logger.Info("seeding complete")
			return nil
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Mirror the collection and log every change and redraw until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if logger.GetLevel() < logrus.DebugLevel {
				logger.SetLevel(logrus.DebugLevel)
			}

			syncer := services.NewSynchronizer(st, services.NewMirror(),
				[]ports.Renderer{views.NewStatsRenderer(logSurface{log: logger})},
				services.SynchronizerOptions{
					Collection: cfg.Collection,
					Delay:      cfg.RefreshDelay,
					Logger:     logger,
				})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return syncer.Run(gctx) })
			return g.Wait()
		},
	}
)

// logSurface prints published frames instead of pushing them to browsers.
type logSurface struct {
	log logrus.FieldLogger
}

func (s logSurface) Publish(view string, payload any) {
	s.log.WithFields(logrus.Fields{"view": view, "frame": fmt.Sprintf("%+v", payload)}).Info("redraw")
}

func openStore(ctx context.Context) (ports.DeliveryStore, func(), error) {
	st, closeStore, err := store.Open(ctx, store.Options{
		Driver:        cfg.StoreDriver,
		DatabaseURL:   cfg.DatabaseURL,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPass,
		RedisDB:       cfg.RedisDB,
		Logger:        logger,
	})
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, nil, fmt.Errorf("store %q unreachable: %w", cfg.StoreDriver, err)
		}
		return nil, nil, err
	}
	return st, closeStore, nil
}

func init() {
	root.PersistentFlags().StringVarP(&flags.EnvFile, "env", "e", ".env", "dotenv file to load")
	root.PersistentFlags().StringVarP(&flags.Driver, "driver", "d", "", "store driver (postgres, redis, memory); overrides STORE_DRIVER")
	root.PersistentFlags().StringVarP(&flags.Collection, "collection", "c", "", "collection name; overrides COLLECTION")

	seedCmd.Flags().StringVarP(&flags.SeedFile, "file", "f", "", "JSON seed file; defaults to SEED_PATH")
	seedCmd.Flags().BoolVar(&flags.Samples, "samples", false, "insert the built-in sample deliveries instead of a file")

	root.AddCommand(initCmd, seedCmd, watchCmd)
}

func Execute() {
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
