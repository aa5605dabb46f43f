// @title Luminari Backend API
// @version 1.0
// @description Backend API for clinical document management and Claude-assisted analysis

// @host localhost:5000
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/t4n15hq/luminari-be/internal/claude"
	"github.com/t4n15hq/luminari-be/internal/config"
	"github.com/t4n15hq/luminari-be/internal/db"
	"github.com/t4n15hq/luminari-be/internal/handlers"
	"github.com/t4n15hq/luminari-be/internal/middleware"
	"github.com/t4n15hq/luminari-be/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg.Database.URL); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// Shared database handle: created once, reused by every handler.
	manager := db.NewManager(cfg.Database.URL, cfg.IsProduction(), logger)
	pool, err := manager.Get(ctx)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}

	{
		pingCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			logger.Fatal("database ping failed", zap.Error(err))
		}
	}

	var completer claude.Completer
	if svc, err := claude.NewService(cfg.Claude); err != nil {
		logger.Warn("claude endpoints disabled", zap.Error(err))
	} else {
		completer = svc
	}

	// --- HTTP Handlers ---
	authHandler := handlers.NewAuthHandler(pool, manager, &cfg.JWT, logger)
	documentsHandler := handlers.NewDocumentsHandler(pool, manager, logger)
	claudeHandler := handlers.NewClaudeHandler(completer, logger)
	healthHandler := handlers.NewHealthHandler(manager)

	mux := http.NewServeMux()
	routes.SetupRoutes(mux, &cfg.JWT, authHandler, documentsHandler, claudeHandler, healthHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})
	handler := middleware.Recover(c.Handler(mux), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	// Wait for SIGINT/SIGTERM, then shut down and release the DB handle.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	manager.Close(shutdownCtx)
	logger.Info("server stopped")
}
