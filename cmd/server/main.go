package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LinkingTom/CustomIdP/internal/app/migrate"
	"github.com/LinkingTom/CustomIdP/internal/config"
	"github.com/LinkingTom/CustomIdP/internal/router"
	teamrepo "github.com/LinkingTom/CustomIdP/internal/team/repo"
	teamrest "github.com/LinkingTom/CustomIdP/internal/team/rest"
	teamservice "github.com/LinkingTom/CustomIdP/internal/team/service"
	userrepo "github.com/LinkingTom/CustomIdP/internal/user/repo"
	userrest "github.com/LinkingTom/CustomIdP/internal/user/rest"
	userservice "github.com/LinkingTom/CustomIdP/internal/user/service"
	"github.com/LinkingTom/CustomIdP/internal/validator"
	"github.com/LinkingTom/CustomIdP/pkg/db"
	"github.com/rs/zerolog/log"
)

func main() {
	// Context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Initialize config
	cfg := config.MustLoad()

	// Apply schema migrations
	if err := migrate.Up(ctx, cfg.DB.DSN()); err != nil {
		log.Logger.Fatal().Err(err).Msg("failed to migrate DB")
	}

	// Connect to DB
	DB, err := db.OpenDB(ctx, cfg.DB)
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("failed to connect to DB")
	}

	// Initialize validator
	v := validator.New()

	// Initialize user and team repositories
	userRepo := userrepo.New(DB)
	teamRepo := teamrepo.New(DB)

	// Initialize user and team services
	user := userservice.NewUser(userRepo)
	team := teamservice.NewTeam(teamRepo)

	// Initialize user and team handlers
	userHandler := userrest.NewUserHandler(user, v)
	teamHandler := teamrest.NewTeamHandler(team, v)

	// Initialize Gin engine and set routes
	engine := router.New(userHandler, teamHandler, cfg.CORS.AllowedOrigins)

	// Initialize and start http server
	server := &http.Server{
		Addr:    cfg.Server.HTTPPort,
		Handler: engine,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal().Err(err).Msg("failed to start http server")
		}
	}()

	log.Logger.Info().Str("addr", cfg.Server.HTTPPort).Msg("server started")

	<-ctx.Done()

	// Graceful shutdown
	withTimeout, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := server.Shutdown(withTimeout); err != nil {
		log.Logger.Error().Err(err).Msg("server shutdown failed")
	}

	DB.Close()
}
