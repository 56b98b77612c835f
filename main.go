package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/usamakj/auth-app-be/internal/api"
	"github.com/usamakj/auth-app-be/internal/api/handlers"
	"github.com/usamakj/auth-app-be/internal/auth"
	"github.com/usamakj/auth-app-be/internal/config"
	"github.com/usamakj/auth-app-be/internal/database"
	"github.com/usamakj/auth-app-be/internal/logger"
	"github.com/usamakj/auth-app-be/internal/monitoring"
	"github.com/usamakj/auth-app-be/internal/services"
	"github.com/usamakj/auth-app-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	commentService := services.NewCommentService(db, cfg.MaxPageSize)
	eventService := services.NewEventService(db)

	// Set up auth
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewAuthenticator(tokens, userService, func(w http.ResponseWriter, message string) {
		handlers.Fail(w, http.StatusUnauthorized, message)
	})

	// Set up and run the background retention job
	maintenance := monitoring.NewMaintenance(eventService, cfg.EventRetention)
	if err := maintenance.Run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start event retention job")
	}

	// Set up router
	router := api.NewRouter(cfg.CORSOrigin, authenticator, tokens, userService, commentService, eventService, hub)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
