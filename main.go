package main

import (
	"context"
	"os"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"moviedash/internal/config"
	"moviedash/internal/db"
	"moviedash/internal/http/handlers"
	appmw "moviedash/internal/http/middleware"
	"moviedash/internal/logging"
	"moviedash/internal/metrics"
	"moviedash/internal/snapshot"
	ui "moviedash/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.Component("main")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	metrics.Init()

	builder := &snapshot.Builder{
		SourceDir:  cfg.CSVSource,
		RetainRuns: cfg.RetainRuns,
		Logger:     logging.Component("snapshot"),
	}
	if cfg.PersistCSV {
		builder.DataDir = cfg.DataDir
	}

	var runs handlers.RunArchive
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		defer func() { _ = db.Close(sqlDB) }()
		store := db.NewStore(sqlDB)
		builder.Store = store
		runs = store
	}

	cache := snapshot.NewCache(builder.Build, logging.Component("snapshot"))
	key := snapshot.Key{MovieCount: cfg.MovieCount, UserCount: cfg.UserCount, Seed: cfg.Seed}

	// Warm the cache so the first page load does not pay for generation.
	if _, err := cache.Get(context.Background(), key); err != nil {
		log.Error().Err(err).Stringer("key", key).Msg("initial snapshot build failed; retrying on first request")
	}

	handler := newRouter(cache, key, runs, logging.Component("http"))

	log.Info().Str("addr", cfg.ListenAddr).Stringer("key", key).Msg("moviedash listening")
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

// snapshotCache is what the router needs from *snapshot.Cache.
type snapshotCache interface {
	appmw.SnapshotSource
	handlers.Invalidator
}

// newRouter registers every route and wraps the router in the global
// middleware chain. runs may be nil when no database is configured.
//
//nolint:gocritic // zerolog.Logger is passed by value
func newRouter(cache snapshotCache, key snapshot.Key, runs handlers.RunArchive, logger zerolog.Logger) fasthttp.RequestHandler {
	r := router.New()
	withSnapshot := appmw.Snapshot(cache, key)

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})
	r.GET("/metrics", handlers.MetricsHandler())
	r.ServeFS("/static/{filepath:*}", ui.StaticFS())

	r.GET("/", withSnapshot(handlers.HomePage()))
	r.GET("/recommend", withSnapshot(handlers.RecommendPage()))
	r.GET("/analytics", withSnapshot(handlers.AnalyticsPage()))
	r.POST("/dataset/invalidate", handlers.InvalidateSnapshot(cache, key))

	api := r.Group("/api/v1")
	api.GET("/home", withSnapshot(handlers.HomeAPI()))
	api.GET("/recommend", withSnapshot(handlers.RecommendAPI()))
	api.GET("/analytics", withSnapshot(handlers.AnalyticsAPI()))
	if runs != nil {
		api.GET("/runs", handlers.RunsAPI(runs))
		api.GET("/runs/{id}", handlers.RunDetailAPI(runs, logger))
		api.GET("/runs/{id}/genre-stats", handlers.RunGenreStatsAPI(runs))
	}

	// Global middleware chain: request id, then request logger, then router
	return appmw.RequestID(appmw.RequestLogger(logger)(r.Handler))
}
