// @title Biomass Pathways API
// @version 1.0
// @description Feedstock conversion and county lookup endpoints in front of the biomass pathway simulator.
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/biomass-pathways-api/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/biomass-pathways-api/internal/adapter/kafka"
	"github.com/couchcryptid/biomass-pathways-api/internal/adapter/simulator"
	"github.com/couchcryptid/biomass-pathways-api/internal/adapter/surrogate"
	"github.com/couchcryptid/biomass-pathways-api/internal/catalog"
	"github.com/couchcryptid/biomass-pathways-api/internal/config"
	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"github.com/couchcryptid/biomass-pathways-api/internal/gateway"
	"github.com/couchcryptid/biomass-pathways-api/internal/observability"
	"github.com/couchcryptid/biomass-pathways-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	cat, err := catalog.Load(cfg.DataDir)
	if err != nil {
		logger.Error("failed to load pathway catalog", "data_dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	// A defective county table only fails the affected requests and /readyz.
	if err := cat.Validate(); err != nil {
		logger.Warn("pathway catalog has defects", "error", err)
	}

	// Select the simulator (remote when SIMULATOR_URL is set).
	var sim domain.Simulator
	if cfg.SimulatorURL != "" {
		sim = simulator.NewClient(cfg.SimulatorURL, cfg.SimulatorTimeout, metrics, logger)
		metrics.SimulatorRemote.Set(1)
		logger.Info("remote simulator enabled", "url", cfg.SimulatorURL, "timeout", cfg.SimulatorTimeout)
	} else {
		local, err := surrogate.New()
		if err != nil {
			logger.Error("failed to load surrogate models", "error", err)
			os.Exit(1)
		}
		sim = local
		logger.Info("using built-in surrogate simulator")
	}

	gw := gateway.New(sim, gateway.Options{
		QueueTimeout: cfg.SimulationQueueTimeout,
		RunTimeout:   cfg.SimulatorTimeout,
	}, metrics, logger)

	// Calculation events are feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var (
		publisher service.Publisher
		writer    *kafkaadapter.Publisher
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaPublishTimeout, logger)
		publisher = writer
		logger.Info("calculation events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("calculation events disabled")
	}

	svc := service.New(cat, gw, publisher, service.Options{PublishTimeout: cfg.KafkaPublishTimeout}, metrics, logger)

	opts := httpadapter.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		WriteTimeout:       cfg.SimulationQueueTimeout + cfg.SimulatorTimeout + cfg.KafkaPublishTimeout + 10*time.Second,
	}
	if cfg.RateLimitEnabled {
		opts.RateLimit = &httpadapter.RateLimit{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst}
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, opts, metrics, logger)

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
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
