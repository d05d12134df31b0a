package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"linkshelf/internal/api"
	"linkshelf/internal/api/handlers"
	"linkshelf/internal/api/middleware"
	"linkshelf/internal/engine/links"
	"linkshelf/internal/pkg/logger"
	"linkshelf/internal/platform/audit"
	"linkshelf/internal/platform/auth"
	"linkshelf/internal/platform/config"
	"linkshelf/internal/platform/database"
	"linkshelf/internal/platform/repositories"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	migrate := flag.Bool("migrate", true, "Apply pending migrations on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()

	if *migrate {
		if _, err := database.ApplyMigrations(ctx, db, cfg.Database.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	auditLogger := audit.NewLogger(db)

	// Services
	tokenSvc, err := auth.NewTokenService(cfg.JWT, clockwork.NewRealClock())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token service")
	}
	keyGen, err := auth.NewKeyGenerator(cfg.APIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create key generator")
	}
	resolver := auth.NewResolver(tokenSvc, tokenRepo)
	linkSvc := links.NewService(links.NewRepository(db))

	deps := &api.Dependencies{
		AuthHandler:    handlers.NewAuthHandler(userRepo, tokenSvc, auditLogger),
		AuditHandler:   handlers.NewAuditHandler(auditLogger),
		UserHandler:    handlers.NewUserHandler(userRepo),
		LinkHandler:    handlers.NewLinkHandler(linkSvc),
		TokenHandler:   handlers.NewTokenHandler(tokenRepo, keyGen, auditLogger),
		HealthHandler:  handlers.NewHealthHandler(db),
		MetricsHandler: handlers.NewMetricsHandler(),
		AuthMiddleware: middleware.NewAuthMiddleware(resolver),
		CORS:           cfg.CORS,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
