package router

import (
	"context"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/socialite-app/backend/internal/handlers"
	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/repositories"
	"github.com/socialite-app/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, log *zap.Logger, bodyLimit string) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.BodyLimit(bodyLimit))
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				log.Warn("request", fields...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	}))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, log *zap.Logger, db *mongo.Database, firebaseAuthClient *fbauth.Client) {
	// --- Initialize repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to create user indexes", zap.Error(err))
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Bearer verification for mutating routes ---
	var authMW echo.MiddlewareFunc
	if cfg.AuthProvider == "firebase" && firebaseAuthClient != nil {
		authMW = middleware.FirebaseAuthMiddleware(firebaseAuthClient, userRepo)
		log.Info("firebase auth middleware configured")
	} else {
		authMW = middleware.JWTAuthMiddleware(cfg.JWTSecret)
		log.Info("jwt auth middleware configured")
	}

	api := e.Group("/api/v1")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api, authMW)

	// Post routes (reads public, mutations behind auth)
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(api, authMW)

	// Comment routes
	commentHandler := handlers.NewCommentHandler(postRepo, userRepo)
	commentHandler.RegisterCommentRoutes(api, authMW)

	// Like routes
	likeHandler := handlers.NewLikeHandler(postRepo, userRepo)
	likeHandler.RegisterLikeRoutes(api, authMW)

	log.Info("all routes configured")
}
