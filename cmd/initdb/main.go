package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/yigit/courseportal/internal/app/repositories/sqlite"
	"github.com/yigit/courseportal/internal/bootstrap"
	"github.com/yigit/courseportal/internal/config"
	"github.com/yigit/courseportal/internal/seed"
)

type options struct {
	force  bool
	path   string
	noSeed bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.force, "force", false, "remove the existing store file even if it is readable")
	flag.StringVar(&opts.path, "path", "", "store file to initialize (defaults to database.path from config)")
	flag.BoolVar(&opts.noSeed, "no-seed", false, "skip inserting the sample courses")
	flag.Parse()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error initializing database")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, lgr zerolog.Logger) error {
	if cfg.Database.Driver != config.DriverSQLite {
		return fmt.Errorf("initdb only manages the sqlite store file, driver is %q", cfg.Database.Driver)
	}

	storePath := cfg.Database.Path
	if opts.path != "" {
		storePath = opts.path
	}

	store, removed, err := sqlite.Initialize(ctx, storePath, opts.force, lgr)
	if err != nil {
		if rmErr := sqlite.Remove(storePath); rmErr == nil {
			lgr.Warn().Str("path", storePath).Msg("Removed partially initialized store file")
		}
		return err
	}
	defer store.Close()

	added := 0
	if !opts.noSeed {
		if added, err = seed.CreateDefaultData(ctx, store, lgr); err != nil {
			return fmt.Errorf("failed to add sample courses: %w", err)
		}
	}

	event := lgr.Info().Str("path", storePath).Bool("recreated", removed).Int("sampleCoursesAdded", added)
	if info, err := os.Stat(storePath); err == nil {
		event = event.Int64("sizeBytes", info.Size())
	}
	event.Msg("Database initialized successfully")
	return nil
}
