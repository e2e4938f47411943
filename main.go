package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/podcast-automate/internal/api"
	"github.com/Conceptual-Machines/podcast-automate/internal/config"
	"github.com/Conceptual-Machines/podcast-automate/internal/llm"
	"github.com/Conceptual-Machines/podcast-automate/internal/logger"
	"github.com/Conceptual-Machines/podcast-automate/internal/metrics"
	"github.com/Conceptual-Machines/podcast-automate/internal/observability"
	"github.com/Conceptual-Machines/podcast-automate/internal/prompt"
	"github.com/Conceptual-Machines/podcast-automate/internal/services"
	"github.com/Conceptual-Machines/podcast-automate/internal/source"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "podcast-automate@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", logger.Fields{"reason": err.Error()})
		} else {
			logger.Info("✅ Sentry initialized", logger.Fields{
				"environment": cfg.Environment,
				"release":     releaseVersion,
			})
			// Flush on shutdown
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		logger.Info("⚠️  Sentry not configured (SENTRY_DSN not set)", nil)
	}

	ctx := context.Background()

	registry, err := prompt.LoadDefaultRegistry()
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to load prompt templates:", err)
	}

	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	provider, err := factory.GetProvider(ctx, cfg.LLMModel, cfg.LLMProvider)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to create model provider:", err)
	}
	provider = llm.WithRetry(provider, cfg.LLMMaxAttempts)

	cloudwatch, err := metrics.NewClient(ctx, cfg.Environment, cfg.CloudWatchEnabled)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to create metrics client:", err)
	}
	counters := metrics.NewCounters(registry.Names()...)
	recorder := metrics.Multi{metrics.NewSentryMetrics(), cloudwatch, counters}

	opts := services.Options{
		Model:         cfg.LLMModel,
		ReasoningMode: cfg.LLMReasoningMode,
		Timeout:       cfg.LLMTimeout,
		Langfuse:      observability.NewLangfuseClient(ctx, cfg),
		Metrics:       recorder,
	}
	if cfg.SourceResolutionEnabled {
		opts.Resolver = source.NewResolver(source.Options{Timeout: cfg.SourceFetchTimeout})
	}
	content := services.NewContentService(provider, registry, opts)

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(cfg, api.Dependencies{
		Content:   content,
		Metrics:   recorder,
		Stats:     counters,
		Provider:  provider.Name(),
		Templates: registry.Names(),
	}, GetVersion())

	logger.Info("🚀 Starting server", logger.Fields{
		"port":     cfg.Port,
		"model":    cfg.LLMModel,
		"provider": provider.Name(),
	})
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
		"x-user-email":  true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
