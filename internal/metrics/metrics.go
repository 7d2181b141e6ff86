package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels evaluations that completed.
	OutcomeSuccess = "success"
	// OutcomeError labels evaluations that failed (bad request or engine fault).
	OutcomeError = "error"
)

var (
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relia_engine",
			Name:      "evaluations_total",
			Help:      "Total number of block evaluations handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	evaluationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "relia_engine",
			Name:      "evaluation_seconds",
			Help:      "Block evaluation latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
	)

	monteCarloDrawsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "relia_engine",
			Name:      "montecarlo_draws_total",
			Help:      "Total Monte Carlo draws completed across all runs.",
		},
	)

	componentsExcludedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "relia_engine",
			Name:      "components_excluded_total",
			Help:      "Components excluded from aggregation for missing or malformed data.",
		},
	)
)

// Register attaches the engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		evaluationsTotal,
		evaluationDurationSeconds,
		monteCarloDrawsTotal,
		componentsExcludedTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveEvaluation records an evaluation duration and outcome label.
func ObserveEvaluation(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	evaluationsTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	evaluationDurationSeconds.Observe(duration.Seconds())
}

// AddDraws counts completed Monte Carlo draws.
func AddDraws(n int) {
	if n > 0 {
		monteCarloDrawsTotal.Add(float64(n))
	}
}

// AddExclusions counts components dropped from a block aggregation.
func AddExclusions(n int) {
	if n > 0 {
		componentsExcludedTotal.Add(float64(n))
	}
}
