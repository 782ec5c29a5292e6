package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "location-resolver/docs"
	"location-resolver/internal/auth"
	"location-resolver/internal/config"
	"location-resolver/internal/geocode"
	"location-resolver/internal/handler"
	"location-resolver/internal/logging"
	"location-resolver/internal/repository"
	"location-resolver/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
)

// geocoder serves both directions of lookup
type geocoder interface {
	service.Searcher
	service.ReverseProvider
}

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(config.LogLevel, config.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	var conn *pgxpool.Pool
	if config.DBSource != "" {
		conn, err = pgxpool.New(ctx, config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()
	}

	// Initialize layers
	provider := newGeocoder(ctx, config.GeocodeProvider, config.GoogleMapsAPIKey, config.GoogleMapsBaseURL, config.HTTPTimeout, conn)
	geoCodeService := service.NewGeoCodeService(provider)
	reverseGeocodeService := service.NewReverseGeoCodeService(provider)

	geoCodeHandler := handler.NewGeoCodeHandler(geoCodeService)
	reverseGeocodeHandler := handler.NewReverseGeocodeHandler(reverseGeocodeService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/internal/geocode", reverseGeocodeHandler.ReverseGeocode)
	r.GET("/internal/geocode/search", geoCodeHandler.Search)

	if config.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, profile API disabled")
	} else {
		store, closeStore := newProfileStore(ctx, config.ProfileStore, config.MongoURI, config.MongoDatabase, conn)
		defer closeStore()

		profileHandler := handler.NewProfileHandler(service.NewProfileService(store))
		api := r.Group("/api/v1", auth.RequireUser(auth.NewVerifier(config.JWTSecret)))
		api.GET("/profile/location", profileHandler.GetLocation)
		api.PUT("/profile/location", profileHandler.PutLocation)
	}

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func newGeocoder(ctx context.Context, kind, apiKey, baseURL string, timeout time.Duration, conn *pgxpool.Pool) geocoder {
	switch kind {
	case "postgis":
		if conn == nil {
			log.Fatal().Msg("GEOCODE_PROVIDER=postgis requires DB_SOURCE")
		}
		repo := repository.NewPlaceRepository(conn)
		if err := repo.EnsurePlaceSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("cannot prepare places table")
		}
		return geocode.NewPlaceProvider(repo)
	case "google":
		if apiKey == "" {
			log.Warn().Msg("GOOGLE_MAPS_API_KEY is empty, upstream requests will be denied")
		}
		return geocode.NewGoogleProvider(apiKey, baseURL, &http.Client{Timeout: timeout})
	default:
		log.Fatal().Str("provider", kind).Msg("unknown GEOCODE_PROVIDER")
		return nil
	}
}

func newProfileStore(ctx context.Context, kind, mongoURI, database string, conn *pgxpool.Pool) (service.ProfileStore, func()) {
	switch kind {
	case "mongo":
		client, err := repository.ConnectMongo(ctx, mongoURI)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to mongo")
		}
		store := repository.NewMongoProfileStore(client.Database(database).Collection(repository.ProfileCollection))
		return store, func() { _ = client.Disconnect(context.Background()) }
	case "postgres":
		if conn == nil {
			log.Fatal().Msg("PROFILE_STORE=postgres requires DB_SOURCE")
		}
		store := repository.NewPostgresProfileStore(conn)
		if err := store.EnsureProfileSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("cannot prepare profile table")
		}
		return store, func() {}
	default:
		log.Fatal().Str("store", kind).Msg("unknown PROFILE_STORE")
		return nil, nil
	}
}
