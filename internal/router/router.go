package router

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/chirp/backend/internal/handlers"
	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/internal/services"
	"github.com/anonto42/chirp/backend/pkg/cache"
	"github.com/anonto42/chirp/backend/pkg/config"
	"github.com/anonto42/chirp/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SetupRoutes migrates the stores, wires repositories, services and handlers,
// and mounts every route under /api. verifier may be nil.
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, c *cache.Cache, verifier firebase.TokenVerifier) error {
	if err := db.Postgres.AutoMigrate(&models.User{}, &models.UserRelation{}); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	log.Info().Msg("PostgreSQL auto-migrations completed.")

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repositories.EnsureIndexes(ctx, mongoDB); err != nil {
		return fmt.Errorf("failed to create mongo indexes: %w", err)
	}
	log.Info().Msg("MongoDB indexes ensured.")

	secret, _ := cfg.Secret()

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres, c)
	relationRepo := repositories.NewPostgresUserRelationRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	promotionalRepo := repositories.NewMongoPromotionalPostRepository(mongoDB)
	likeRepo := repositories.NewMongoLikeRepository(mongoDB)
	repostRepo := repositories.NewMongoRepostRepository(mongoDB)
	bookmarkRepo := repositories.NewMongoBookmarkRepository(mongoDB)
	statsRepo := repositories.NewMongoPostStatsRepository(mongoDB)
	voteRepo := repositories.NewMongoPollVoteRepository(mongoDB)
	gifRepo := repositories.NewMongoGifRepository(mongoDB)

	// --- Services ---
	authService := services.NewAuthService(userRepo, verifier, secret, cfg.JWTExpiresIn)
	resolver := services.NewActionStateResolver(repostRepo, likeRepo, bookmarkRepo, statsRepo)
	postService := services.NewPostService(services.PostServiceDeps{
		Posts:       postRepo,
		Promotional: promotionalRepo,
		Likes:       likeRepo,
		Reposts:     repostRepo,
		Bookmarks:   bookmarkRepo,
		Votes:       voteRepo,
		Users:       userRepo,
		Resolver:    resolver,
	})
	pollService := services.NewPollService(repositories.NewMongoTransactor(db.Mongo), postRepo, voteRepo)
	statsService := services.NewPostStatsService(postRepo, statsRepo)
	relationService := services.NewUserRelationService(relationRepo, statsService, postService)
	gifService := services.NewGifService(gifRepo, c)

	requireAuth := middleware.RequireAuth(authService, cfg.LoginCookieName)
	optionalAuth := middleware.OptionalAuth(authService, cfg.LoginCookieName)

	api := e.Group("/api")
	api.GET("/health", handlers.HealthCheck)

	handlers.NewAuthHandler(authService, cfg.LoginCookieName, cfg.JWTExpiresIn, cfg.IsProduction()).
		RegisterAuthRoutes(api.Group("/auth"))

	userGroup := api.Group("/user")
	handlers.NewUserHandler(userRepo).RegisterUserRoutes(userGroup, requireAuth, optionalAuth)
	handlers.NewUserRelationHandler(relationService).RegisterUserRelationRoutes(userGroup, requireAuth)

	handlers.NewPostHandler(postService, pollService, statsService).
		RegisterPostRoutes(api.Group("/post"), requireAuth, optionalAuth)

	handlers.NewGifHandler(gifService).RegisterGifRoutes(api.Group("/gif"))

	log.Info().Msg("All routes configured.")
	return nil
}
