// Package metrics instruments the rule orchestrator with Prometheus
// counters and histograms, following the teacher's
// vms/platformvm/metrics package: an interface the orchestrator depends
// on, a concrete prometheus-backed implementation, and a no-op
// implementation for callers (tests, and the CLI when --metrics-addr is
// unset, through rules.Run's nil-Metrics fallback) that don't want to
// register collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Metrics = (*metrics)(nil)

// Metrics is everything the rule orchestrator reports as it validates
// transactions.
type Metrics interface {
	// IncAccepted marks that a transaction passed every validator.
	IncAccepted()
	// IncRejected marks that a transaction failed validation, tagged by
	// the RuleError code that caused it (or the first one, when several
	// accumulated).
	IncRejected(code string)
	// ObserveValidationDuration records how long one Run call took.
	ObserveValidationDuration(d time.Duration)
	// ObserveMinFeeIterations records how many EnsureMinFee fixed-point
	// iterations a transaction needed (spec.md §8 property 6 expects <=3
	// for well-formed transactions; this metric watches for drift).
	ObserveMinFeeIterations(n int)
	// ObserveTxSize records the canonical encoded size of a validated
	// transaction.
	ObserveTxSize(bytes int)
}

type metrics struct {
	accepted           prometheus.Counter
	rejected           *prometheus.CounterVec
	validationDuration prometheus.Histogram
	minFeeIterations   prometheus.Histogram
	txSize             prometheus.Histogram
}

// New registers every collector under namespace and returns a Metrics
// backed by registerer, mirroring the teacher's New(namespace,
// registerer, ...) constructor shape.
func New(namespace string, registerer prometheus.Registerer) (Metrics, error) {
	m := &metrics{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_accepted",
			Help:      "Number of transactions that passed every validator.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_rejected",
			Help:      "Number of transactions rejected, by rule code.",
		}, []string{"code"}),
		validationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent running the full validator pipeline on one transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
		minFeeIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "min_fee_iterations",
			Help:      "Number of EnsureMinFee fixed-point iterations per transaction.",
			Buckets:   []float64{1, 2, 3, 4, 5, 8, 16},
		}),
		txSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tx_size_bytes",
			Help:      "Canonical CBOR size of validated transactions.",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 12),
		}),
	}

	errs := wrapErrors(
		registerer.Register(m.accepted),
		registerer.Register(m.rejected),
		registerer.Register(m.validationDuration),
		registerer.Register(m.minFeeIterations),
		registerer.Register(m.txSize),
	)
	if errs != nil {
		return nil, errs
	}
	return m, nil
}

func wrapErrors(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *metrics) IncAccepted() { m.accepted.Inc() }

func (m *metrics) IncRejected(code string) { m.rejected.WithLabelValues(code).Inc() }

func (m *metrics) ObserveValidationDuration(d time.Duration) {
	m.validationDuration.Observe(d.Seconds())
}

func (m *metrics) ObserveMinFeeIterations(n int) { m.minFeeIterations.Observe(float64(n)) }

func (m *metrics) ObserveTxSize(bytes int) { m.txSize.Observe(float64(bytes)) }

// Noop implements Metrics by discarding everything; used where a
// registerer isn't available or wanted (unit tests, and rules.Run when
// Deps.Metrics is nil, as in a CLI run without --metrics-addr).
type Noop struct{}

func (Noop) IncAccepted()                          {}
func (Noop) IncRejected(string)                     {}
func (Noop) ObserveValidationDuration(time.Duration) {}
func (Noop) ObserveMinFeeIterations(int)             {}
func (Noop) ObserveTxSize(int)                       {}

var _ Metrics = Noop{}
