package retry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "amp",
		Subsystem: "decorators",
		Name:      "retry_attempts_total",
		Help:      "Attempts made by retried functions; kind is first or retry",
	}, []string{"function", "kind"})

	exhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "amp",
		Subsystem: "decorators",
		Name:      "retry_exhausted_total",
		Help:      "Calls that failed on every attempt",
	}, []string{"function"})
)
