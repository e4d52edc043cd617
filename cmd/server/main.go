package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/chirp/backend/internal/jobs"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/internal/router"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/anonto42/chirp/backend/pkg/cache"
	"github.com/anonto42/chirp/backend/pkg/config"
	"github.com/anonto42/chirp/backend/pkg/firebase"
	"github.com/anonto42/chirp/backend/pkg/logger"
	"github.com/anonto42/chirp/backend/validators"
	"github.com/fatih/color"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.IsProduction())

	if !cfg.IsProduction() {
		fmt.Printf("%s (%s)\n", color.New(color.FgHiCyan).Add(color.Bold).Sprint("Chirp API"), cfg.Env)
		color.HiBlack("=====================================================\n")
	}

	if _, ok := cfg.Secret(); !ok {
		log.Fatal().Msg("JWT_SECRET must be set in production.")
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB()

	c, err := cache.New(cfg.CacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache")
	}

	// Firebase login is optional
	var verifier firebase.TokenVerifier
	firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
	switch {
	case errors.Is(err, firebase.ErrDisabled):
		log.Info().Msg("FIREBASE_CREDENTIALS_PATH not set, firebase login disabled.")
	case err != nil:
		log.Fatal().Err(err).Msg("Failed to initialize Firebase")
	default:
		verifier = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperror.Handler(cfg.IsProduction())
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e)

	if err := router.SetupRoutes(e, cfg, db, c, verifier); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up routes")
	}

	// Configure timed tasks
	quartz, err := jobs.NewScheduler(cfg.PollCloserSchedule, repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase)))
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.PollCloserSchedule).Msg("Invalid poll closer schedule")
	}
	quartz.Start()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	<-quartz.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}
