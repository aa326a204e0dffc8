package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/radar-rain-monitor/internal/domain"
	"github.com/couchcryptid/radar-rain-monitor/internal/observability"
	"github.com/couchcryptid/radar-rain-monitor/internal/status"
	"github.com/jonboulle/clockwork"
)

// Poll cycle outcomes reported in poll_cycles_total.
const (
	outcomeSuccess   = "success"
	outcomeLoadError = "load_error"
	outcomeEmpty     = "empty"
	outcomeNoSample  = "no_sample"
	outcomeRender    = "render_error"
)

// FrameLoader produces the radar frames currently published by a site.
type FrameLoader interface {
	Load(ctx context.Context, src domain.SiteSource) ([]domain.RadarFrame, error)
}

// StatusWriter receives the rendered status page.
type StatusWriter interface {
	Set(page string)
}

// StatusSink receives every successfully evaluated rain status.
type StatusSink interface {
	PublishStatus(ctx context.Context, s domain.RainStatus) error
}

// MonitorConfig holds the monitor's schedule and query point.
type MonitorConfig struct {
	Point        domain.Point
	Interval     time.Duration
	CycleTimeout time.Duration
	Clock        clockwork.Clock
}

// Monitor polls a radar site on a fixed interval and publishes whether it is
// raining at a point.
type Monitor struct {
	src     domain.SiteSource
	loader  FrameLoader
	store   StatusWriter
	sinks   []StatusSink
	logger  *slog.Logger
	metrics *observability.Metrics

	point        domain.Point
	interval     time.Duration
	cycleTimeout time.Duration
	clock        clockwork.Clock
}

// NewMonitor creates a Monitor. Sinks are optional.
func NewMonitor(cfg MonitorConfig, src domain.SiteSource, loader FrameLoader, store StatusWriter, logger *slog.Logger, metrics *observability.Metrics, sinks ...StatusSink) *Monitor {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Monitor{
		src:          src,
		loader:       loader,
		store:        store,
		sinks:        sinks,
		logger:       logger,
		metrics:      metrics,
		point:        cfg.Point,
		interval:     cfg.Interval,
		cycleTimeout: cfg.CycleTimeout,
		clock:        clock,
	}
}

// Run polls once immediately and then on every interval tick until ctx is
// cancelled. Cancellation is observed between and during cycles.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("precipitation monitor started",
		"interval", m.interval,
		"lat", m.point.Lat,
		"lon", m.point.Lon,
	)
	m.metrics.MonitorRunning.Set(1)
	defer m.metrics.MonitorRunning.Set(0)

	m.poll(ctx)

	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("precipitation monitor stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			m.poll(ctx)
		}
	}
}

// poll runs one load-select-sample-publish cycle. Any failure leaves the
// published status untouched.
func (m *Monitor) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := m.clock.Now()
	outcome := m.runCycle(ctx)
	m.metrics.PollDuration.Observe(m.clock.Since(start).Seconds())
	m.metrics.PollCycles.WithLabelValues(outcome).Inc()
}

func (m *Monitor) runCycle(ctx context.Context) string {
	if m.cycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cycleTimeout)
		defer cancel()
	}

	frames, err := m.loader.Load(ctx, m.src)
	if err != nil {
		m.logger.Warn("load radar failed", "error", err)
		return outcomeLoadError
	}
	m.logger.Info("radar maps loaded", "count", len(frames))

	newest, ok := domain.NewestFrame(frames)
	if !ok {
		m.logger.Warn("radar site published no usable maps")
		return outcomeEmpty
	}
	m.logger.Info("latest radar map", "valid_at", newest.ValidAt, "path", newest.Path)

	intensity, ok := newest.Raster.SampleIntensity(m.point.Lat, m.point.Lon)
	if !ok {
		m.logger.Warn("no pixel found at query point",
			"lat", m.point.Lat,
			"lon", m.point.Lon,
			"bbox", newest.Raster.BoundingBox().String(),
		)
		return outcomeNoSample
	}

	rs := domain.NewRainStatus(intensity, newest.ValidAt, m.point, m.clock.Now())
	page, err := status.Render(rs)
	if err != nil {
		m.logger.Error("render status failed", "error", err)
		return outcomeRender
	}
	m.store.Set(page)

	m.metrics.Intensity.Set(intensity)
	m.metrics.Raining.Set(boolToFloat(rs.Raining))
	m.metrics.LastSuccess.Set(float64(rs.ObservedAt.Unix()))
	m.logger.Info("rain status updated", "raining", rs.Raining, "intensity", intensity, "valid_at", newest.ValidAt)

	m.publish(ctx, rs)
	return outcomeSuccess
}

// publish forwards a status to every sink. Sink errors never undo the store write.
func (m *Monitor) publish(ctx context.Context, rs domain.RainStatus) {
	for _, sink := range m.sinks {
		if err := sink.PublishStatus(ctx, rs); err != nil {
			m.logger.Warn("publish rain status failed", "error", err)
			m.metrics.StatusPublishErr.Inc()
		}
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
