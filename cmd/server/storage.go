package main

import (
	"context"
	"errors"
	"io/fs"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/dataset"
	"github.com/Nixie-Tech-LLC/minaret/internal/db"
	"github.com/Nixie-Tech-LLC/minaret/internal/storage"
)

// LoadDataset loads the mosque list from the configured backend:
// Postgres when DATABASE_URL is set, Spaces when USE_SPACES=true, and the
// local CSV otherwise. An empty mosque table is seeded from the CSV
// source. The returned func releases whatever was opened.
func LoadDataset(ctx context.Context, cfg *config.Config) (*dataset.Dataset, func(), error) {
	noop := func() {}

	if cfg.DatabaseURL != "" {
		store, err := db.Init(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := store.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
			store.Close()
			return nil, noop, err
		}
		src, err := InitSource(cfg)
		if err != nil {
			store.Close()
			return nil, noop, err
		}
		ds, err := dataset.LoadOrSeed(ctx, store, src)
		if err != nil {
			store.Close()
			return nil, noop, err
		}
		return ds, func() { store.Close() }, nil
	}

	src, err := InitSource(cfg)
	if err != nil {
		return nil, noop, err
	}
	ds, err := dataset.Load(ctx, src)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("source", src.String()).Msg("dataset not found, serving an empty map")
		return dataset.Empty(), noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	return ds, noop, nil
}

// InitSource selects where the mosque CSV is read from.
func InitSource(cfg *config.Config) (storage.Source, error) {
	if cfg.UseSpaces {
		src, err := storage.NewSpacesSource(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesKey,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			return nil, err
		}
		log.Info().Str("source", src.String()).Msg("Using DigitalOcean Spaces dataset")
		return src, nil
	}

	log.Info().Str("path", cfg.DatasetPath).Msg("Using local dataset file")
	return storage.NewLocalSource(cfg.DatasetPath), nil
}
