// Package metrics registers the dashboard's Prometheus collectors.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "moviedash"

var (
	queriesTotal   *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	snapshotBuilds *prometheus.CounterVec
	snapshotCache  *prometheus.CounterVec
	catalogMovies  prometheus.Gauge

	initOnce sync.Once
)

// Init creates and registers the collectors with the default registry.
// Only the first call has an effect.
func Init() {
	initOnce.Do(func() {
		queriesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of engine queries served.",
			},
			[]string{"query"},
		)
		queryDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Histogram of engine query durations in seconds.",
				Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
			},
			[]string{"query"},
		)
		snapshotBuilds = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_builds_total",
				Help:      "Snapshot builds by outcome.",
			},
			[]string{"result"},
		)
		snapshotCache = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_cache_total",
				Help:      "Snapshot cache lookups by result (hit or miss).",
			},
			[]string{"result"},
		)
		catalogMovies = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_movies",
			Help:      "Number of movies in the most recently built snapshot.",
		})
		prometheus.MustRegister(queriesTotal, queryDuration, snapshotBuilds, snapshotCache, catalogMovies)
	})
}

// ObserveQuery records one query and how long it took since start.
func ObserveQuery(query string, start time.Time) {
	Init()
	queriesTotal.WithLabelValues(query).Inc()
	queryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// SnapshotBuilt records a build outcome and, on success, the catalog size.
func SnapshotBuilt(movies int, err error) {
	Init()
	if err != nil {
		snapshotBuilds.WithLabelValues("error").Inc()
		return
	}
	snapshotBuilds.WithLabelValues("ok").Inc()
	catalogMovies.Set(float64(movies))
}

// CacheLookup records a snapshot cache hit or miss.
func CacheLookup(hit bool) {
	Init()
	if hit {
		snapshotCache.WithLabelValues("hit").Inc()
		return
	}
	snapshotCache.WithLabelValues("miss").Inc()
}
