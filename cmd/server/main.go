package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/earlybirddelivery/EARLYAPP-sub001/config"
	httpDelivery "github.com/earlybirddelivery/EARLYAPP-sub001/internal/delivery/http"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/infrastructure/cache"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/infrastructure/catalog"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/infrastructure/logging"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/infrastructure/metrics"
	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A local .env is optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting EarlyBird catalog matcher",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	// Initialize infrastructure dependencies
	products, err := catalog.Load(ctx, cfg.Catalog.Source, cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.String("path", cfg.Catalog.Path),
		zap.Int("entries", products.Len()))

	sessions := cache.NewMemorySessionStore(cfg.Session.CleanupInterval)
	defer sessions.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Initialize usecase layer
	strategy, err := usecase.ParseStrategy(cfg.Matching.Strategy)
	if err != nil {
		return err
	}
	matcher := usecase.NewCatalogMatcher(usecase.MatchConfig{
		Strategy:                strategy,
		DefaultSourceConfidence: cfg.Matching.DefaultSourceConfidence,
	})

	ingestionService := usecase.NewIngestionService(
		products,
		matcher,
		sessions,
		recorder,
		logger,
		usecase.IngestionServiceConfig{
			Thresholds: map[domain.Source]float64{
				domain.SourceVoice:  cfg.Matching.VoiceThreshold,
				domain.SourceOCR:    cfg.Matching.OCRThreshold,
				domain.SourceManual: cfg.Matching.ManualThreshold,
			},
			SessionTTL:         cfg.Session.TTL,
			BatchConcurrency:   cfg.Matching.BatchConcurrency,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)

	logger.Info("matching configured",
		zap.String("strategy", string(strategy)),
		zap.Float64("voiceThreshold", ingestionService.Threshold(domain.SourceVoice)),
		zap.Float64("ocrThreshold", ingestionService.Threshold(domain.SourceOCR)),
		zap.Float64("manualThreshold", ingestionService.Threshold(domain.SourceManual)),
		zap.Bool("debug", cfg.Matching.EnableDebugLogging))

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(ingestionService)
	router := httpDelivery.SetupRouter(cfg, handler, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
