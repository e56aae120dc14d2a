package spans

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// spanWithoutTracerCounter counts spans started on the global provider
// because the context carried no tracer.
//
// Example PromQL query:
//
//	sum by (span_name) (rate(amp_decorators_spans_without_tracer_total[5m]))
var spanWithoutTracerCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Namespace: "amp",
		Subsystem: "decorators",
		Name:      "spans_without_tracer_total",
		Help:      "Total number of traced calls without a tracer in context",
	},
	[]string{"span_name"},
)
