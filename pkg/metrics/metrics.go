// Package metrics exposes prometheus counters for the loan lifecycle
// and ledger on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	loansCreated   prometheus.Counter
	loansApproved  prometheus.Counter
	loansRejected  prometheus.Counter
	loansDisbursed prometheus.Counter
	loansCompleted prometheus.Counter
	repayments     prometheus.Counter
	ledgerPostings *prometheus.CounterVec
	opDuration     *prometheus.HistogramVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	return &Collector{
		registry: registry,
		loansCreated: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "loans_created_total",
			Help: "Total number of loan requests created",
		}),
		loansApproved: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "loans_approved_total",
			Help: "Total number of loans approved by an admin",
		}),
		loansRejected: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "loans_rejected_total",
			Help: "Total number of loans rejected (guarantor or admin)",
		}),
		loansDisbursed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "loans_disbursed_total",
			Help: "Total number of loans disbursed",
		}),
		loansCompleted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "loans_completed_total",
			Help: "Total number of loans fully repaid",
		}),
		repayments: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "repayments_recorded_total",
			Help: "Total number of repayments recorded",
		}),
		ledgerPostings: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_postings_total",
			Help: "Ledger transactions written, by type",
		}, []string{"transaction_type"}),
		opDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loan_operation_duration_seconds",
			Help:    "Time taken by lifecycle operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// All recording methods are nil-safe so usecases can run without a
// collector in tests.

func (c *Collector) LoanCreated() {
	if c != nil {
		c.loansCreated.Inc()
	}
}

func (c *Collector) LoanApproved() {
	if c != nil {
		c.loansApproved.Inc()
	}
}

func (c *Collector) LoanRejected() {
	if c != nil {
		c.loansRejected.Inc()
	}
}

func (c *Collector) LoanDisbursed() {
	if c != nil {
		c.loansDisbursed.Inc()
	}
}

func (c *Collector) LoanCompleted() {
	if c != nil {
		c.loansCompleted.Inc()
	}
}

func (c *Collector) RepaymentRecorded() {
	if c != nil {
		c.repayments.Inc()
	}
}

func (c *Collector) LedgerPosting(transactionType string) {
	if c != nil {
		c.ledgerPostings.WithLabelValues(transactionType).Inc()
	}
}

func (c *Collector) ObserveOperation(operation string, d time.Duration) {
	if c != nil {
		c.opDuration.WithLabelValues(operation).Observe(d.Seconds())
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
