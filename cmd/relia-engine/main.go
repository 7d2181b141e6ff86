package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reliastack/relia-engine/internal/api"
	"github.com/reliastack/relia-engine/internal/cache"
	"github.com/reliastack/relia-engine/internal/config"
	"github.com/reliastack/relia-engine/internal/dataset"
	"github.com/reliastack/relia-engine/internal/metrics"
	"github.com/reliastack/relia-engine/internal/services"
	"github.com/reliastack/relia-engine/internal/study"
	"github.com/reliastack/relia-engine/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting relia-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	records, err := dataset.NewCSVSource(cfg.Dataset.Path, logger).Load(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Error("failed to load component sheet", slog.Any("error", err))
		os.Exit(1)
	}

	pack, err := study.Load(cfg.Study.Path, logger)
	if err != nil {
		logger.Error("failed to load study pack", slog.Any("error", err))
		os.Exit(1)
	}
	if err := pack.Validate(records); err != nil {
		logger.Error("study pack does not match the dataset", slog.Any("error", err))
		os.Exit(1)
	}

	var provider cache.Provider = cache.NoopProvider{}
	if cfg.Cache.Enabled {
		provider = cache.NewMemoryProvider()
	}
	defer provider.Close()

	svc := services.NewAnalysisService(
		logger,
		records,
		pack,
		provider,
		cfg.Cache.TTL,
		cfg.MissionProfile(),
		services.Limits{
			DefaultDraws: cfg.Analysis.DefaultDraws,
			MaxDraws:     cfg.Analysis.MaxDraws,
			Variation:    cfg.Analysis.VariationPercent / 100,
		},
		cfg.Analysis.Workers,
	)

	server, err := api.NewServer(cfg.Server, svc, logger)
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("HTTP server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("relia-engine stopped")
}
