package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/radar-rain-monitor/internal/adapter/fixture"
	httpadapter "github.com/couchcryptid/radar-rain-monitor/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/radar-rain-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/radar-rain-monitor/internal/adapter/meteo"
	"github.com/couchcryptid/radar-rain-monitor/internal/config"
	"github.com/couchcryptid/radar-rain-monitor/internal/domain"
	"github.com/couchcryptid/radar-rain-monitor/internal/observability"
	"github.com/couchcryptid/radar-rain-monitor/internal/pipeline"
	"github.com/couchcryptid/radar-rain-monitor/internal/status"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var src domain.SiteSource
	switch cfg.SiteSource {
	case config.SourceFixture:
		if cfg.SiteFixtureImage != "" {
			src = fixture.NewFromFile(cfg.SiteFixtureImage)
		} else {
			src = fixture.New()
		}
		logger.Info("using fixture radar site", "image", cfg.SiteFixtureImage)
	default:
		src = meteo.NewClient(cfg.RadarMetadataURL, cfg.RadarImageBaseURL, cfg.FetchTimeout, metrics, logger)
		logger.Info("using live radar site", "metadata_url", cfg.RadarMetadataURL)
	}

	store := status.NewStore(clockwork.NewRealClock(), cfg.StaleAfter)

	// Kafka status publishing is feature-flagged via KAFKA_ENABLED.
	var sinks []pipeline.StatusSink
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		logger.Info("kafka status publishing enabled", "topic", cfg.KafkaStatusTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka status publishing disabled")
	}

	monitor := pipeline.NewMonitor(pipeline.MonitorConfig{
		Point:        domain.Point{Lat: cfg.QueryLat, Lon: cfg.QueryLon},
		Interval:     cfg.PollInterval,
		CycleTimeout: cfg.PollTimeout,
	}, src, pipeline.NewLoader(logger, metrics), store, logger, metrics, sinks...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.StaticDir, store, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := run(ctx, srv, monitor, cfg.ShutdownTimeout, logger)

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("shutdown after failure", "error", runErr)
		stop()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// server is the HTTP side of the process.
type server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// monitorRunner is the polling side of the process.
type monitorRunner interface {
	Run(ctx context.Context) error
}

// run drives the HTTP server and the monitor until ctx is cancelled or either
// of them exits; whichever stops first takes the other down. It returns the
// HTTP server's error when it failed for any reason other than shutdown.
func run(ctx context.Context, srv server, monitor monitorRunner, shutdownTimeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srvErr := make(chan error, 1)
	go func() {
		defer cancel()
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			srvErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		defer cancel()
		if err := monitor.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-monitorDone:
	case <-shutdownCtx.Done():
		logger.Warn("monitor did not stop before shutdown deadline")
	}

	select {
	case err := <-srvErr:
		return err
	default:
		return nil
	}
}
