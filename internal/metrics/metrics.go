// Package metrics records batch-run counters in a private Prometheus registry
// and writes them out in the node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pable/go-pbp-lineups/internal/model"
)

const namespace = "pbplineups"

// Manager owns the run metrics.
type Manager struct {
	registry *prometheus.Registry

	gamesProcessed prometheus.Counter
	gamesFailed    prometheus.Counter
	stintsEmitted  prometheus.Counter
	anomalies      *prometheus.CounterVec
	gameDuration   prometheus.Histogram
	lastRunUnix    prometheus.Gauge
}

// New creates a Manager backed by a fresh registry.
func New() *Manager {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)
	return &Manager{
		registry: reg,
		gamesProcessed: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_processed_total",
			Help:      "Games recomputed successfully.",
		}),
		gamesFailed: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_failed_total",
			Help:      "Games whose recompute returned an error.",
		}),
		stintsEmitted: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stints_emitted_total",
			Help:      "Stints written to storage.",
		}),
		anomalies: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_total",
			Help:      "Data-quality anomalies by kind.",
		}, []string{"kind"}),
		gameDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_process_seconds",
			Help:      "Wall time to recompute one game.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		lastRunUnix: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last batch run finished.",
		}),
	}
}

// Registry exposes the underlying registry as a Gatherer.
func (m *Manager) Registry() prometheus.Gatherer { return m.registry }

// ObserveGame records one successful game recompute.
func (m *Manager) ObserveGame(stints int, anomalies []model.Anomaly, elapsed time.Duration) {
	m.gamesProcessed.Inc()
	m.stintsEmitted.Add(float64(stints))
	for _, a := range anomalies {
		m.anomalies.WithLabelValues(string(a.Kind)).Inc()
	}
	m.gameDuration.Observe(elapsed.Seconds())
}

// GameFailed records one failed game recompute.
func (m *Manager) GameFailed() { m.gamesFailed.Inc() }

// RunFinished stamps the completion time of a batch run.
func (m *Manager) RunFinished(at time.Time) { m.lastRunUnix.Set(float64(at.Unix())) }

// WriteTextfile atomically writes all metrics to path.
func (m *Manager) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
