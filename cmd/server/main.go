// backend-go/cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/api"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/auth"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/cache"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/service"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/source"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/storage"
	"github.com/andresuchdata/dgm-dashboard/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Configure(os.Stdout, cfg.App.LogFormat)
	logger.SetLevel(cfg.App.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid configuration")
	}

	mapping, err := config.LoadMapping(cfg.App.MappingFile)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load column mapping")
	}

	ctx := context.Background()

	store, err := newObjectStorage(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	src, err := source.New(ctx, cfg.Source, store)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize data source")
	}

	records := source.NewRepository(src, mapping)
	if err := records.Load(ctx); err != nil {
		// The server still starts; requests retry the load and report the error.
		logger.Log.Error().Err(err).Str("source", src.Name()).Msg("Initial load failed")
	}

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Dashboard cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	dashboardService := service.NewDashboardService(records, dashboardCache)
	if store != nil && cfg.Storage.ExportPrefix != "" {
		dashboardService.EnableArchive(store, cfg.Storage.ExportPrefix)
	}

	authenticator, closeAuth, err := newAuthenticator(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize authenticator")
	}
	defer closeAuth()

	router := api.NewRouter(&api.Services{
		Dashboard:     dashboardService,
		Authenticator: authenticator,
		Tokens:        auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		AdminToken:    cfg.Auth.AdminToken,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("source", src.Name()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newObjectStorage returns nil when neither the source nor export archiving
// needs a bucket.
func newObjectStorage(cfg *config.Config) (storage.ObjectStorage, error) {
	needed := cfg.Source.Kind == config.SourceS3 ||
		cfg.Source.Kind == config.SourceMinio ||
		cfg.Storage.ExportPrefix != ""
	if !needed {
		return nil, nil
	}

	storageCfg := storage.ConfigFrom(cfg.Storage)
	if cfg.Source.Kind == config.SourceMinio {
		storageCfg.Provider = storage.ProviderMinio
	}

	return storage.New(storageCfg)
}

func newAuthenticator(cfg *config.Config) (auth.Authenticator, func(), error) {
	if cfg.Auth.Backend != config.AuthPostgres {
		return auth.NewStaticAuthenticator(cfg.Auth.Users), func() {}, nil
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.RunMigrations(db.DB.DB); err != nil {
		db.Close()
		return nil, nil, err
	}

	repo := postgres.NewCredentialRepository(db)
	return auth.NewPostgresAuthenticator(repo), func() { db.Close() }, nil
}
