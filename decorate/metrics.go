package decorate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK         = "ok"
	outcomeError      = "error"
	outcomeRejected   = "rejected"
	outcomeTimeout    = "timeout"
	outcomeSuppressed = "suppressed"
	outcomePanic      = "panic"
)

// callsTotal counts decorated calls by decorator, wrapped function and outcome.
//
// Example PromQL query:
//
//	sum by (decorator) (rate(amp_decorators_calls_total{outcome="rejected"}[5m]))
var callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Namespace: "amp",
	Subsystem: "decorators",
	Name:      "calls_total",
	Help:      "Total number of decorated calls, by decorator, function and outcome",
}, []string{"decorator", "function", "outcome"})

func observe(decorator string, info Info, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}

	callsTotal.WithLabelValues(decorator, info.Name, outcome).Inc()
}

func observeOutcome(decorator string, info Info, outcome string) {
	callsTotal.WithLabelValues(decorator, info.Name, outcome).Inc()
}
