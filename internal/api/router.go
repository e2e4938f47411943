package api

import (
	"net/http"

	"github.com/Conceptual-Machines/podcast-automate/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/podcast-automate/internal/api/middleware"
	"github.com/Conceptual-Machines/podcast-automate/internal/config"
	"github.com/Conceptual-Machines/podcast-automate/internal/metrics"
	"github.com/Conceptual-Machines/podcast-automate/internal/services"
	webhandlers "github.com/Conceptual-Machines/podcast-automate/internal/web/handlers"
	"github.com/Conceptual-Machines/podcast-automate/pkg/embedded"
	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived components the routes are served by
type Dependencies struct {
	Content   *services.ContentService
	Metrics   metrics.APIRecorder
	Stats     handlers.GenerationStats
	Provider  string
	Templates []string
}

func SetupRouter(cfg *config.Config, deps Dependencies, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Metrics))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	// Embedded scripts and styles
	router.StaticFS("/static", http.FS(embedded.Static()))

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.Provider, cfg.LLMModel, cfg.SourceResolutionEnabled)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, cfg.LLMModel, deps.Templates, deps.Stats)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	auth := apimiddleware.NoAuth()
	if cfg.IsGatewayMode() {
		auth = apimiddleware.GatewayAuth()
	}

	// Web pages
	webHandler := webhandlers.NewWebHandler(deps.Content)
	router.GET("/", webHandler.Home)
	router.POST("/generate", auth, webHandler.Generate)
	router.POST("/htmx/generate", auth, webHandler.HTMXGenerate)

	// JSON API
	v1 := router.Group("/api/v1")
	v1.Use(auth)
	{
		generationHandler := handlers.NewGenerationHandler(deps.Content)
		v1.POST("/generate", generationHandler.Generate)
		v1.POST("/titles", generationHandler.SuggestTitles)
		v1.POST("/adapt-tone", generationHandler.AdaptTone)
	}

	return router
}
