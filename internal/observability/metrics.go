package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rainmon"

// Metrics holds the Prometheus collectors for the radar monitor.
type Metrics struct {
	// Poll cycle metrics.
	PollCycles       *prometheus.CounterVec // labels: outcome={success,load_error,empty,no_sample}
	PollDuration     prometheus.Histogram
	LastSuccess      prometheus.Gauge
	MonitorRunning   prometheus.Gauge
	StatusPublishErr prometheus.Counter

	// Loader metrics.
	FramesLoaded   prometheus.Counter
	RecordsSkipped *prometheus.CounterVec // labels: reason={timestamp,bbox,fetch,decode,dimensions}

	// Site fetch metrics.
	FetchDuration *prometheus.HistogramVec // labels: kind={metadata,image}
	FetchErrors   *prometheus.CounterVec   // labels: kind={metadata,image}

	// Latest evaluation.
	Raining   prometheus.Gauge
	Intensity prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PollCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Radar poll cycles by outcome.",
		}, []string{"outcome"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of a complete fetch-decode-classify cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last published status.",
		}),
		MonitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitor_running",
			Help:      "1 while the precipitation monitor loop is active, 0 otherwise.",
		}),
		StatusPublishErr: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_publish_errors_total",
			Help:      "Failures delivering a rain status to an external sink.",
		}),
		FramesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radar_frames_loaded_total",
			Help:      "Radar frames decoded and georeferenced.",
		}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radar_records_skipped_total",
			Help:      "Metadata records dropped during load, by reason.",
		}, []string{"reason"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "site_fetch_duration_seconds",
			Help:      "Remote site request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "site_fetch_errors_total",
			Help:      "Failed remote site requests.",
		}, []string{"kind"}),
		Raining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "raining",
			Help:      "1 when the latest evaluation reports rain at the query point.",
		}),
		Intensity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "precipitation_intensity",
			Help:      "Normalized precipitation intensity at the query point, 0 to 1.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.PollCycles,
		m.PollDuration,
		m.LastSuccess,
		m.MonitorRunning,
		m.StatusPublishErr,
		m.FramesLoaded,
		m.RecordsSkipped,
		m.FetchDuration,
		m.FetchErrors,
		m.Raining,
		m.Intensity,
	}
}
