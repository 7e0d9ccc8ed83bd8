package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/socialite-app/backend/internal/router"
	"github.com/socialite-app/backend/pkg/config"
	"github.com/socialite-app/backend/pkg/firebase"
	"github.com/socialite-app/backend/pkg/logger"
	"github.com/socialite-app/backend/validators"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.Init(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()
	zlog.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	// Initialize Firebase when configured as the auth provider
	var firebaseApp *firebase.App
	if cfg.AuthProvider == "firebase" {
		firebaseApp, err = firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			zlog.Fatal("failed to initialize firebase", zap.Error(err))
		}
		zlog.Info("firebase auth client initialized")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e, zlog, cfg.BodyLimit)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, zlog, db.Database, firebaseAuthClient(firebaseApp))

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		zlog.Error("shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}

func firebaseAuthClient(app *firebase.App) *fbauth.Client {
	if app == nil {
		return nil
	}
	return app.AuthClient
}
