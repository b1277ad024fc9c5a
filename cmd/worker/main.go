package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/recipereel/colette/internal/cache"
	"github.com/recipereel/colette/internal/config"
	"github.com/recipereel/colette/internal/db"
	"github.com/recipereel/colette/internal/logger"
	"github.com/recipereel/colette/internal/metrics"
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
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName+"-worker", cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, nil)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName+"-worker", cfg.ServiceVersion); err != nil {
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

	var postCache *cache.PostCache
	if redisOpt, err := redis.ParseURL(cfg.RedisURL); err == nil {
		postCache = cache.NewPostCache(redis.NewClient(redisOpt))
	} else {
		slog.Warn("Failed to parse Redis URL, post cache disabled", "error", err)
	}

	// Scrapers and parsing strategies
	registry := scraper.NewRegistry(
		scraper.NewInstagramScraper(cfg.ProxyServerURL, cfg.ProxyAPIKey),
		scraper.NewTikTokScraper(cfg.ApifyAPIKey),
		scraper.NewYouTubeScraper(cfg.YouTubeAPIKey),
	)

	heuristic := parser.NewHeuristic(parser.Options{
		PreferQuantityLines: cfg.Parsing.PreferQuantityLines,
		SegmentThreshold:    cfg.Parsing.SegmentThreshold,
	})
	strategies := parser.Set{Heuristic: heuristic}
	if cfg.AIEnabled() {
		strategies.AI = parser.NewAIAssisted(ai.NewClient(cfg.GroqKey).WithModel(cfg.GroqModel))
	}

	orchestrator := extractor.New(coordinator, registry, postCache, strategies, extractor.Options{
		DefaultLanguage: cfg.Parsing.DefaultLanguage,
		DefaultStrategy: recipe.Strategy(cfg.Parsing.Strategy),
	})

	workerMetrics, err := worker.NewWorkerMetrics()
	if err != nil {
		slog.Warn("Failed to init worker metrics", "error", err)
	}

	// Recipe processor
	processor := worker.NewRecipeProcessor(orchestrator, store, workerMetrics)

	// Asynq server
	srv := worker.NewServer(cfg.RedisURL)

	// Nightly cache cleanup. Zero payload means the handler's default cutoff.
	scheduler := worker.NewScheduler(cfg.RedisURL)
	cleanupTask, err := worker.NewCleanupCacheTask(worker.CleanupCachePayload{})
	if err != nil {
		log.Fatalf("Failed to build cleanup task: %v", err)
	}
	if _, err := scheduler.Register("0 3 * * *", cleanupTask); err != nil {
		log.Fatalf("Failed to register cleanup schedule: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Register handlers
	mux := asynq.NewServeMux()
	mux.Use(worker.SentryMiddleware)
	mux.Use(worker.OTelMiddleware)
	mux.HandleFunc(worker.TypeReparseRecipe, processor.HandleReparseRecipe)
	mux.HandleFunc(worker.TypeCleanupCache, processor.HandleCleanupCache)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
	}()

	slog.Info("Starting worker", "redis", cfg.RedisURL)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
