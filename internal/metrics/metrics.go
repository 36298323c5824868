// Package metrics defines the Prometheus collectors exposed at /metrics:
// per-worker backlog gauges, a sync-duration histogram, and search latency/
// result-count histograms.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mongodb/marian/model"
)

// Metrics holds every collector the coordinator and search front-end report
// through.
type Metrics struct {
	WorkerBacklog   *prometheus.GaugeVec
	WorkerSuspended *prometheus.GaugeVec
	WorkerDead      *prometheus.GaugeVec

	SyncDuration    prometheus.Histogram
	SyncErrorsTotal prometheus.Counter

	SearchLatency            *prometheus.HistogramVec
	SearchResultsCount       prometheus.Histogram
	SpellingCorrectionsTotal prometheus.Counter
}

// New creates and registers every collector against the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates and registers every collector against reg,
// letting tests use an isolated registry instead of the process-global one.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WorkerBacklog: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marian_worker_backlog",
				Help: "Current admitted-but-unreleased request count per worker.",
			},
			[]string{"worker"},
		),
		WorkerSuspended: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marian_worker_suspended",
				Help: "1 if the worker is suspended (mid-rebuild), else 0.",
			},
			[]string{"worker"},
		),
		WorkerDead: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marian_worker_dead",
				Help: "1 if the worker has been marked dead, else 0.",
			},
			[]string{"worker"},
		),
		SyncDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "marian_sync_duration_seconds",
				Help:    "Wall-clock duration of a full manifest sync (load()).",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		SyncErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "marian_sync_errors_total",
				Help: "Total per-manifest sync errors accumulated across all syncs.",
			},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marian_search_latency_seconds",
				Help:    "Search request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"use_hits"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "marian_search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		SpellingCorrectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "marian_spelling_corrections_total",
				Help: "Total searches that attached a spelling correction.",
			},
		),
	}

	reg.MustRegister(
		m.WorkerBacklog,
		m.WorkerSuspended,
		m.WorkerDead,
		m.SyncDuration,
		m.SyncErrorsTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.SpellingCorrectionsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSearch records one completed search's latency and result count.
func (m *Metrics) ObserveSearch(useHits bool, latency time.Duration, resultCount int, hadSpellingCorrection bool) {
	m.SearchLatency.WithLabelValues(strconv.FormatBool(useHits)).Observe(latency.Seconds())
	m.SearchResultsCount.Observe(float64(resultCount))
	if hadSpellingCorrection {
		m.SpellingCorrectionsTotal.Inc()
	}
}

// ObserveSync records one completed load()'s duration and error count.
func (m *Metrics) ObserveSync(duration time.Duration, errCount int) {
	m.SyncDuration.Observe(duration.Seconds())
	m.SyncErrorsTotal.Add(float64(errCount))
}

// SetWorkerStatuses refreshes the per-worker gauges from the pool's
// declaration-ordered status snapshot (§6's /status shape).
func (m *Metrics) SetWorkerStatuses(statuses []model.WorkerStatus) {
	for i, status := range statuses {
		label := strconv.Itoa(i)
		backlog := 0.0
		if !status.Suspended && !status.Dead {
			backlog = float64(status.Backlog)
		}
		m.WorkerBacklog.WithLabelValues(label).Set(backlog)
		m.WorkerSuspended.WithLabelValues(label).Set(boolToFloat(status.Suspended))
		m.WorkerDead.WithLabelValues(label).Set(boolToFloat(status.Dead))
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
