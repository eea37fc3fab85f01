// Package metrics exposes Prometheus counters for the claim registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry's operation counters. FeesCollected counts
// fee value in minor units, summed across all tokens.
type Metrics struct {
	ClaimsCreated    prometheus.Counter
	PaymentsApplied  prometheus.Counter
	FeesCollected    prometheus.Counter
	TagsUpdated      prometheus.Counter
	BatchesCommitted prometheus.Counter
	BatchesAborted   prometheus.Counter
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ClaimsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimbank_claims_created_total",
			Help: "Number of claims registered.",
		}),
		PaymentsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimbank_payments_applied_total",
			Help: "Number of payments applied to claims.",
		}),
		FeesCollected: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimbank_fees_collected_total",
			Help: "Total fee value routed to the collector, in minor units.",
		}),
		TagsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimbank_tags_updated_total",
			Help: "Number of tag overwrites.",
		}),
		BatchesCommitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimbank_batches_committed_total",
			Help: "Number of units of work committed.",
		}),
		BatchesAborted: factory.NewCounter(prometheus.CounterOpts{
			Name: "claimbank_batches_aborted_total",
			Help: "Number of units of work aborted with no effect.",
		}),
	}
}
