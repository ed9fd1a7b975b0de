// Package metrics exposes prometheus counters for the ingest pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the pipeline counters on a private registry so tests and
// embedding processes stay isolated from the global default.
type Collector struct {
	registry *prometheus.Registry

	RowsParsed    prometheus.Counter
	RowsDefaulted prometheus.Counter
	Inserted      prometheus.Counter
	Matched       prometheus.Counter
}

// NewCollector creates a Collector with a fresh registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	return &Collector{
		registry: registry,
		RowsParsed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "bankfeed_rows_parsed_total",
			Help: "Total CSV rows parsed into transaction candidates",
		}),
		RowsDefaulted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "bankfeed_rows_defaulted_total",
			Help: "Total rows where a missing or unparsable field was defaulted",
		}),
		Inserted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "bankfeed_transactions_inserted_total",
			Help: "Total transactions newly persisted",
		}),
		Matched: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "bankfeed_transactions_matched_total",
			Help: "Total transactions skipped as duplicates of stored records",
		}),
	}
}

// Registry returns the underlying registry for scraping or inspection.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
