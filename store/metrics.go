package store

import "github.com/prometheus/client_golang/prometheus"

// Collectors for storage engine metrics.
var (
	readsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flotilla_store_reads_total",
		Help: "Cumulative number of table reads.",
	})
	writesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flotilla_store_writes_total",
		Help: "Cumulative number of committed table mutations.",
	})
	cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flotilla_store_cache_hits_total",
		Help: "Cumulative number of reads served from the cache layer.",
	})
	cacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flotilla_store_cache_misses_total",
		Help: "Cumulative number of reads that decoded the workbook from disk.",
	})
	lockTimeoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flotilla_store_lock_timeouts_total",
		Help: "Cumulative number of lock acquisitions that timed out.",
	})
	restoresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flotilla_store_restores_total",
		Help: "Cumulative number of snapshot restores.",
	})
)

func init() {
	prometheus.MustRegister(
		readsTotal,
		writesTotal,
		cacheHitsTotal,
		cacheMissesTotal,
		lockTimeoutsTotal,
		restoresTotal,
	)
}
