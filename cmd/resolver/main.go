package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/location-resolution-service/internal/adapter/gemini"
	"github.com/couchcryptid/location-resolution-service/internal/adapter/httpserver"
	kafkaadapter "github.com/couchcryptid/location-resolution-service/internal/adapter/kafka"
	"github.com/couchcryptid/location-resolution-service/internal/adapter/nominatim"
	"github.com/couchcryptid/location-resolution-service/internal/cache"
	"github.com/couchcryptid/location-resolution-service/internal/config"
	"github.com/couchcryptid/location-resolution-service/internal/domain"
	"github.com/couchcryptid/location-resolution-service/internal/observability"
	"github.com/couchcryptid/location-resolution-service/internal/resolver"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Cache backend: Redis when configured, in-process otherwise. Both
	// double as the readiness check.
	var store interface {
		cache.Store
		CheckReadiness(ctx context.Context) error
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close() //nolint:errcheck
		store = cache.NewRedis(client, logger)
		logger.Info("using redis cache", "addr", cfg.RedisAddr)
	} else {
		store = cache.NewMemory(nil)
		logger.Info("using in-process cache")
	}

	// Extraction strategies run in order; the keyword heuristic is the
	// always-available last resort.
	var extractors []resolver.Extractor
	if cfg.GeminiEnabled() {
		extractors = append(extractors, gemini.NewClient("", cfg.GeminiAPIKey, cfg.GeminiTimeout, logger))
		metrics.SemanticExtractionEnabled.Set(1)
		logger.Info("semantic extraction enabled", "timeout", cfg.GeminiTimeout)
	} else {
		metrics.SemanticExtractionEnabled.Set(0)
		logger.Info("semantic extraction disabled")
	}
	extractors = append(extractors, domain.NewKeywordExtractor(nil))

	geocoder := nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimTimeout, metrics, logger)

	var publisher resolver.Publisher
	if cfg.KafkaEnabled {
		kp := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer kp.Close() //nolint:errcheck
		publisher = kp
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	r := resolver.New(store, extractors, geocoder, domain.NewGazetteer(nil), publisher, metrics, logger, nil)
	classifier := domain.NewPriorityClassifier(nil)

	srv := httpserver.NewServer(cfg.HTTPAddr, r, classifier, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
