package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"rentnest/internal/adapters/geocode"
	"rentnest/internal/adapters/observability"
	"rentnest/internal/shared"
	"rentnest/internal/storage/postgres"
)

// geofill backfills coordinates for listings that were created while
// the geocoding provider was down or unconfigured.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.GeocodeKey == "" {
		log.Fatal().Msg("GEOCODE_API_KEY is required for geofill")
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := postgres.NewListingRepo(db)
	geo, err := geocode.New(cfg.GeocodeBase, cfg.GeocodeKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize geocode client")
	}

	listings, err := repo.ListMissingCoords(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listing scan failed")
	}
	log.Info().
		Int("listings", len(listings)).
		Int("workers", cfg.GeofillWorkers).
		Msg("geofill starting")

	sem := semaphore.NewWeighted(int64(cfg.GeofillWorkers))
	var wg sync.WaitGroup

	for _, l := range listings {
		l := l

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			c, err := geo.Geocode(ctx, l.Address)
			if err != nil {
				log.Warn().Str("id", l.ID.String()).Str("address", l.Address).Err(err).Msg("geocode failed")
				return
			}
			if err := repo.SetCoords(ctx, l.ID, c); err != nil {
				log.Warn().Str("id", l.ID.String()).Err(err).Msg("coords update failed")
				return
			}
			log.Info().Str("id", l.ID.String()).Float64("lat", c.Lat).Float64("lon", c.Lon).Msg("geofill ok")
		}()
	}

	wg.Wait()
	log.Info().Msg("geofill completed")
}
