// Command solartrack runs the solar production tracking service: an HTTP
// API over a unit/record store, with an optional synthetic-data seeder.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"solartrack/internal/cache"
	"solartrack/internal/config"
	"solartrack/internal/httpapi"
	"solartrack/internal/seed"
	"solartrack/internal/store"
	"solartrack/internal/ws"
)

var (
	cfgPath string
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "solartrack",
		Short: "Solar energy production tracker",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newServeCmd(), newSeedCmd())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

// openRepos connects to Postgres when a DSN is configured, otherwise falls
// back to the in-memory store for local runs.
func openRepos(cfg config.Config) (httpapi.Deps, func(), error) {
	if cfg.Database.DSN == "" {
		log.Warn().Msg("no database DSN configured, using in-memory store")
		mem := store.NewMemory()
		return httpapi.Deps{
			Units:   mem.Units,
			Records: mem.Records,
			Events:  mem.Events,
		}, func() {}, nil
	}

	pg, err := store.OpenPostgres(cfg.Database)
	if err != nil {
		return httpapi.Deps{}, nil, err
	}
	deps := httpapi.Deps{
		Units:   pg.Units,
		Records: pg.Records,
		Events:  pg.Events,
		Pinger:  pg,
	}
	return deps, func() { pg.Close() }, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			deps, closeStore, err := openRepos(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if cfg.Redis.Enabled {
				c, err := cache.New(cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.TTL)
				if err != nil {
					return err
				}
				defer c.Close()
				deps.Cache = c
				log.Info().Str("addr", cfg.Redis.Addr).Msg("analytics cache enabled")
			}

			deps.Hub = ws.NewHub()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return httpapi.New(cfg.HTTP, deps).Run(ctx)
		},
	}
}

func newSeedCmd() *cobra.Command {
	var (
		units    int
		capacity float64
		days     int
		rngSeed  int64
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the store with synthetic units and readings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if units == 0 {
				units = cfg.Seed.Units
			}
			if capacity == 0 {
				capacity = cfg.Seed.CapacityWatts
			}
			if days == 0 {
				days = cfg.Seed.Days
			}

			var deps httpapi.Deps
			if dryRun {
				// Generate into a throwaway store; only the summary survives.
				mem := store.NewMemory()
				deps = httpapi.Deps{Units: mem.Units, Records: mem.Records, Events: mem.Events}
			} else {
				var closeStore func()
				deps, closeStore, err = openRepos(cfg)
				if err != nil {
					return err
				}
				defer closeStore()
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner := seed.NewRunner(deps.Units, deps.Records, deps.Events, nil)
			summary, err := runner.Run(ctx, seed.Options{
				Units:         units,
				CapacityWatts: capacity,
				Days:          days,
				Seed:          rngSeed,
			})
			if err != nil {
				return err
			}

			log.Info().
				Int("units", summary.Units).
				Int("records", summary.Records).
				Int("anomalies", summary.Anomalies).
				Msg("seeding complete")
			for cat, n := range summary.PerCategory {
				log.Info().Str("category", string(cat)).Int("count", n).Msg("anomalies injected")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&units, "units", 0, "number of units to create (default from config)")
	cmd.Flags().Float64Var(&capacity, "capacity", 0, "unit capacity in watts (default from config)")
	cmd.Flags().IntVar(&days, "days", 0, "days of history to generate (default from config)")
	cmd.Flags().Int64Var(&rngSeed, "seed", 0, "random seed, 0 for time-based")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate and report without persisting")

	return cmd
}
