package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/rainfall-idf/internal/adapter/filestore"
	"github.com/couchcryptid/rainfall-idf/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/rainfall-idf/internal/adapter/kafka"
	"github.com/couchcryptid/rainfall-idf/internal/adapter/mapbox"
	"github.com/couchcryptid/rainfall-idf/internal/adapter/memcache"
	"github.com/couchcryptid/rainfall-idf/internal/config"
	"github.com/couchcryptid/rainfall-idf/internal/domain"
	"github.com/couchcryptid/rainfall-idf/internal/observability"
	"github.com/couchcryptid/rainfall-idf/internal/pipeline"
	"github.com/couchcryptid/rainfall-idf/internal/stations"
	"github.com/couchcryptid/rainfall-idf/internal/tables"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := filestore.New(cfg.DataDir, logger)
	index, err := stations.Build(ctx, store, logger)
	if err != nil {
		logger.Error("failed to build station index", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	metrics.StationsIndexed.Set(float64(index.Len()))

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	cache := memcache.New[*domain.RainfallTable](cfg.CacheTTL, nil)
	svc := tables.NewService(store, cache, metrics, logger)
	resolver := stations.NewResolver(index, geocoder, logger)

	ready := &readiness{index: index}

	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
		p      *pipeline.Pipeline
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p = pipeline.New(reader, pipeline.NewTransformer(svc, logger), writer, logger, metrics, cfg.BatchSize)
		ready.pipeline = p
	}

	api := httpadapter.NewAPI(svc, index, resolver, store, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, api, ready, cfg.CORSAllowedOrigins, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start precompute pipeline.
	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// readiness reports ready once stations are indexed and, when the pipeline
// runs, it has loaded a batch.
type readiness struct {
	index    *stations.Index
	pipeline sharedobs.ReadinessChecker
}

func (r *readiness) CheckReadiness(ctx context.Context) error {
	if r.index.Len() == 0 {
		return errors.New("no stations indexed")
	}
	if r.pipeline != nil {
		return r.pipeline.CheckReadiness(ctx)
	}
	return nil
}
