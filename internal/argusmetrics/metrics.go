// Package argusmetrics exposes the prometheus counters and histograms
// referenced by the prefetcher and state cache (request latency, retries,
// cache misses) and by the sinks (write latency). No HTTP /metrics server
// is started by the analyze command itself; Registry is exported so a
// host embedding this package as a library can serve one.
package argusmetrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every counter/histogram this program emits.
type Metrics struct {
	Registry *prometheus.Registry

	PrefetchTaskDuration prometheus.Histogram
	PrefetchRetries      prometheus.Counter
	PrefetchFailures     prometheus.Counter

	CacheMisses prometheus.Counter
	CacheHits   prometheus.Counter

	SinkWriteDuration *prometheus.HistogramVec
	SinkWriteErrors   *prometheus.CounterVec
}

// New constructs and registers a fresh Metrics bundle against its own
// registry, so repeated calls (e.g. one per analyzed block in a batch
// driver) never collide on duplicate registration.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		PrefetchTaskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "argus",
			Subsystem: "prefetch",
			Name:      "task_duration_seconds",
			Help:      "Latency of one prefetch RPC task.",
			Buckets:   prometheus.DefBuckets,
		}),
		PrefetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "prefetch",
			Name:      "retries_total",
			Help:      "Count of transient-error retries across all prefetch tasks.",
		}),
		PrefetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "prefetch",
			Name:      "failures_total",
			Help:      "Count of fatal prefetch task failures.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "statecache",
			Name:      "misses_total",
			Help:      "Count of reads against an absent key during execution.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "statecache",
			Name:      "hits_total",
			Help:      "Count of reads served from a populated key.",
		}),
		SinkWriteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "argus",
			Subsystem: "sink",
			Name:      "write_duration_seconds",
			Help:      "Latency of one sink write, labeled by sink kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink"}),
		SinkWriteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "sink",
			Name:      "write_errors_total",
			Help:      "Count of sink write failures, labeled by sink kind.",
		}, []string{"sink"}),
	}

	reg.MustRegister(
		m.PrefetchTaskDuration,
		m.PrefetchRetries,
		m.PrefetchFailures,
		m.CacheMisses,
		m.CacheHits,
		m.SinkWriteDuration,
		m.SinkWriteErrors,
	)
	return m
}
