package routes

import (
	"net/http"

	"github.com/t4n15hq/luminari-be/internal/config"
	"github.com/t4n15hq/luminari-be/internal/handlers"
	"github.com/t4n15hq/luminari-be/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	mux *http.ServeMux,
	jwtCfg *config.JWTConfig,
	authHandler *handlers.AuthHandler,
	documentsHandler *handlers.DocumentsHandler,
	claudeHandler *handlers.ClaudeHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Health check routes
	mux.HandleFunc("/healthz", healthHandler.HealthCheck)
	mux.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("/auth/register", authHandler.Register)
	mux.HandleFunc("/auth/login", authHandler.Login)
	mux.HandleFunc("/auth/verify", middleware.AuthMiddleware(authHandler.Verify, jwtCfg))

	// Document routes
	mux.HandleFunc("/documents", middleware.AuthMiddleware(documentsHandler.Collection, jwtCfg))
	mux.HandleFunc("/documents/", middleware.AuthMiddleware(documentsHandler.Item, jwtCfg))

	// Claude analysis routes
	mux.HandleFunc("/claude/text-processing", middleware.AuthMiddleware(claudeHandler.TextProcessing, jwtCfg))
	mux.HandleFunc("/claude/pattern-analysis", middleware.AuthMiddleware(claudeHandler.PatternAnalysis, jwtCfg))
	mux.HandleFunc("/claude/reasoning-generation", middleware.AuthMiddleware(claudeHandler.ReasoningGeneration, jwtCfg))

	// Root route (liveness)
	mux.HandleFunc("/", healthHandler.Root)
}
