package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchintent/internal/config"
	dbPostgres "github.com/kailas-cloud/searchintent/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/searchintent/internal/db/redis"
	"github.com/kailas-cloud/searchintent/internal/domain/slug"
	logpkg "github.com/kailas-cloud/searchintent/internal/logger"
	"github.com/kailas-cloud/searchintent/internal/metrics"
	entityrepo "github.com/kailas-cloud/searchintent/internal/repository/entity"
	"github.com/kailas-cloud/searchintent/internal/repository/entitycache"
	"github.com/kailas-cloud/searchintent/internal/repository/static"
	chiTransport "github.com/kailas-cloud/searchintent/internal/transport/chi"
	classifyuc "github.com/kailas-cloud/searchintent/internal/usecase/classify"
	healthuc "github.com/kailas-cloud/searchintent/internal/usecase/health"
	"github.com/kailas-cloud/searchintent/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchintent API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_driver", cfg.Index.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	mapping, err := slug.DefaultMapping().With(cfg.Slugs.Overrides)
	if err != nil {
		logger.Fatal("Invalid slug overrides", zap.Error(err))
	}

	metrics.RegisterClassifierMetrics()

	// Entity index: static seed or postgres
	var (
		index       classifyuc.EntityIndex
		indexPinger healthuc.Pinger
	)
	switch cfg.Index.Driver {
	case config.IndexDriverPostgres:
		pg, err := dbPostgres.Open(ctx, dbPostgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			DBName:       cfg.Database.Name,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() { _ = pg.Close() }()
		index = entityrepo.New(pg.Conn(), mapping).WithLimit(cfg.Index.Limit)
		indexPinger = pg
		logger.Info("Connected to database", zap.String("host", cfg.Database.Host))
	default:
		idx, err := static.Load(cfg.Index.SeedFile, mapping)
		if err != nil {
			logger.Fatal("Failed to load entity seed", zap.Error(err))
		}
		index = idx
		logger.Info("Loaded entity seed", zap.String("file", cfg.Index.SeedFile))
	}

	healthSvc := healthuc.New(indexPinger)

	// Optional lookup cache in front of the index
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		index = entitycache.New(index, store, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.CacheResult, logger)
		healthSvc.WithCache(store)
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	precedence, err := classifyuc.ParsePrecedence(cfg.Classifier.Precedence)
	if err != nil {
		logger.Fatal("Invalid classifier precedence", zap.Error(err))
	}
	passes, err := classifyuc.ParsePasses(cfg.Classifier.Passes)
	if err != nil {
		logger.Fatal("Invalid classifier passes", zap.Error(err))
	}

	classifier := classifyuc.New(index, mapping).
		WithPrecedence(precedence).
		WithPasses(passes).
		WithMinPrefixLen(cfg.Classifier.MinPrefixLen).
		WithLookupTimeout(cfg.Classifier.LookupTimeout()).
		WithMetrics(metrics.NewRecorder())

	server := chiTransport.NewServer(classifier, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternal,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}

			// Canonical log line: one per request. Query text is not logged.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
