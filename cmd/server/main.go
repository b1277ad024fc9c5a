package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/recipereel/colette/internal/api"
	"github.com/recipereel/colette/internal/cache"
	"github.com/recipereel/colette/internal/config"
	"github.com/recipereel/colette/internal/db"
	"github.com/recipereel/colette/internal/logger"
	"github.com/recipereel/colette/internal/metrics"
	"github.com/recipereel/colette/internal/middleware"
	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/sentry"
	"github.com/recipereel/colette/internal/services/ai"
	"github.com/recipereel/colette/internal/services/extractor"
	"github.com/recipereel/colette/internal/services/parser"
	"github.com/recipereel/colette/internal/services/scraper"
	"github.com/recipereel/colette/internal/telemetry"
	"github.com/recipereel/colette/internal/worker"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, nil)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	} else if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	logger := logger.New(cfg.Env)
	slog.SetDefault(logger)

	// Database connection
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	store := cache.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure cache schema: %v", err)
	}
	coordinator := cache.NewCoordinator(store)

	// Redis cache for scraped posts
	var postCache *cache.PostCache
	if redisOpt, err := redis.ParseURL(cfg.RedisURL); err == nil {
		postCache = cache.NewPostCache(redis.NewClient(redisOpt))
	} else {
		slog.Warn("Failed to parse Redis URL, post cache disabled", "error", err)
	}

	// Asynq client for enqueuing tasks
	asynqClient := worker.NewClient(cfg.RedisURL)
	defer asynqClient.Close()

	// Scrapers
	registry := scraper.NewRegistry(
		scraper.NewInstagramScraper(cfg.ProxyServerURL, cfg.ProxyAPIKey),
		scraper.NewTikTokScraper(cfg.ApifyAPIKey),
		scraper.NewYouTubeScraper(cfg.YouTubeAPIKey),
	)

	// Parsing strategies
	heuristic := parser.NewHeuristic(parser.Options{
		PreferQuantityLines: cfg.Parsing.PreferQuantityLines,
		SegmentThreshold:    cfg.Parsing.SegmentThreshold,
	})
	strategies := parser.Set{Heuristic: heuristic}
	if cfg.AIEnabled() {
		strategies.AI = parser.NewAIAssisted(ai.NewClient(cfg.GroqKey).WithModel(cfg.GroqModel))
	} else {
		slog.Info("AI-assisted strategy disabled, no API key configured")
	}

	orchestrator := extractor.New(coordinator, registry, postCache, strategies, extractor.Options{
		DefaultLanguage: cfg.Parsing.DefaultLanguage,
		DefaultStrategy: recipe.Strategy(cfg.Parsing.Strategy),
	})

	// API handlers
	apiServer := api.NewServer(cfg, orchestrator, asynqClient)

	// Router
	r := chi.NewRouter()

	// Middleware
	r.Use(otelchi.Middleware(cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(sentry.HTTPMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.Get("/health", apiServer.HandleHealth(coordinator.Degraded))

	// Public API routes
	r.Get("/api/v1/supported-platforms", apiServer.HandleSupportedPlatforms)

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg))
		r.Post("/api/v1/parse-recipe", apiServer.HandleParseRecipe)
		r.Get("/api/v1/cache-stats", apiServer.HandleCacheStats)
		r.Post("/api/v1/reparse", apiServer.HandleReparse)
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("Starting server", "port", port)

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
