package timing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationMillis = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
	Namespace: "amp",
	Subsystem: "decorators",
	Name:      "timing_duration_millis",
	Help:      "Running time of timed functions, in milliseconds",
	Buckets: []float64{
		0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000,
	},
}, []string{"function", "has_error"})
