package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for the task read cache.
type CacheMetrics struct {
	Hits          prometheus.Counter
	Misses        prometheus.Counter
	Errors        *prometheus.CounterVec
	Invalidations prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task_cache",
			Name:      "hits_total",
			Help:      "Total number of task cache hits.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task_cache",
			Name:      "misses_total",
			Help:      "Total number of task cache misses.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task_cache",
			Name:      "errors_total",
			Help:      "Total number of task cache errors, by operation.",
		}, []string{"operation"}),
		Invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task_cache",
			Name:      "invalidations_total",
			Help:      "Total number of task cache invalidations.",
		}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Errors, m.Invalidations)
	return m
}
