// Package poetmetrics wires the engine's counters and histograms into
// Prometheus, following the teacher's api/metrics.NewMetrics constructor
// pattern: a struct of typed collectors, allocated and registered together.
package poetmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "poet"

// Metrics holds every collector the engine updates while ingesting a trace.
type Metrics struct {
	EventsProcessed  prometheus.Counter
	FrontiersCreated prometheus.Counter
	FrontiersPruned  prometheus.Counter
	EvalCacheHits    prometheus.Counter
	EvalCacheMisses  prometheus.Counter
	EventProcessTime prometheus.Histogram
}

// New allocates and registers the engine's metrics against reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		EventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_processed_total",
			Help:      "Number of trace events ingested.",
		}),
		FrontiersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frontiers_created_total",
			Help:      "Number of distinct frontiers ever materialized.",
		}),
		FrontiersPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frontiers_pruned_total",
			Help:      "Number of frontiers removed by the reduction policy.",
		}),
		EvalCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eval_cache_hits_total",
			Help:      "Number of memoized verdict lookups that avoided recomputation.",
		}),
		EvalCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eval_cache_misses_total",
			Help:      "Number of verdicts computed from scratch.",
		}),
		EventProcessTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_processing_seconds",
			Help:      "Wall time spent processing a single event, including evaluation and reduction.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{
		m.EventsProcessed, m.FrontiersCreated, m.FrontiersPruned,
		m.EvalCacheHits, m.EvalCacheMisses, m.EventProcessTime,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NoOp returns a Metrics instance registered against a private registry, for
// callers (tests, library embedders) that don't want to touch the default
// Prometheus registerer.
func NoOp() *Metrics {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		panic(err) // a fresh private registry can never reject first registration
	}
	return m
}
