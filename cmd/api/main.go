package main

import (
	"database/sql"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"rentnest/internal/adapters/geocode"
	server "rentnest/internal/adapters/http_server"
	"rentnest/internal/adapters/identity"
	"rentnest/internal/adapters/observability"
	redisad "rentnest/internal/adapters/redis"
	"rentnest/internal/app"
	"rentnest/internal/domain"
	"rentnest/internal/shared"
	"rentnest/internal/storage/postgres"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// outbound clients
	idp, err := identity.New(cfg.IdentityBase, cfg.IdentityKey)
	if err != nil {
		log.Fatal().Err(err).Msg("identity client init failed")
	}
	// a nil Geocoder interface means "skip geocoding"; never wrap a
	// typed nil pointer in it
	var geo domain.Geocoder
	if cfg.GeocodeKey != "" {
		gc, err := geocode.New(cfg.GeocodeBase, cfg.GeocodeKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("geocode client init failed")
		}
		geo = gc
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	listingRepo := postgres.NewListingRepo(db)

	h := &server.Handlers{
		Auth:      app.NewAuthService(idp, postgres.NewUserRepo(db)),
		Listings:  app.NewListingService(listingRepo, geo, cache, cfg.CacheTTL),
		Favorites: app.NewFavoriteService(postgres.NewFavoriteRepo(db)),
		Reviews:   app.NewReviewService(postgres.NewReviewRepo(db)),
		Admin:     app.NewAdminService(listingRepo, postgres.NewAnalyticsRepo(db), cache),
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
