package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexerCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "cycles_total",
		Help:      "Count of indexing cycles by outcome.",
	}, []string{"network", "outcome"})

	indexerCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of indexing cycles.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"network", "outcome"})

	indexerBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "blocks_total",
		Help:      "Count of blocks fetched, normalized and applied.",
	}, []string{"network", "status"})

	indexerBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "block_duration_seconds",
		Help:      "Duration of processing a single block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	indexerIndexedHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "indexed_height",
		Help:      "Last block height applied to the store.",
	}, []string{"network"})

	indexerSafeHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "safe_height",
		Help:      "Chain tip minus the confirmation depth seen by the last cycle.",
	}, []string{"network"})
)

// Indexer tracks metrics for the indexing cycle of one network.
type Indexer struct {
	network string
}

// NewIndexer constructs an Indexer collector for network.
func NewIndexer(network string) *Indexer {
	if network == "" {
		network = "unknown"
	}
	return &Indexer{network: network}
}

// ObserveCycle records the outcome and duration of one cycle.
func (m Indexer) ObserveCycle(outcome string, started time.Time) {
	indexerCyclesTotal.WithLabelValues(m.network, outcome).Inc()
	indexerCycleDuration.WithLabelValues(m.network, outcome).Observe(time.Since(started).Seconds())
}

// ObserveBlock records processing of one block and moves the indexed height on success.
func (m Indexer) ObserveBlock(err error, height uint64, started time.Time) {
	status := statusOf(err)
	indexerBlocksTotal.WithLabelValues(m.network, status).Inc()
	indexerBlockDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
	if err == nil {
		indexerIndexedHeight.WithLabelValues(m.network).Set(float64(height))
	}
}

// SetSafeHeight records the confirmation-adjusted tip.
func (m Indexer) SetSafeHeight(height uint64) {
	indexerSafeHeight.WithLabelValues(m.network).Set(float64(height))
}
