package runtime

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuronshim",
			Subsystem: "runtime",
			Name:      "calls_total",
			Help:      "Total number of runtime API calls by operation and result code",
		},
		[]string{"op", "code"},
	)

	inferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neuronshim",
			Subsystem: "runtime",
			Name:      "inference_duration_seconds",
			Help:      "Duration of successful inference calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16),
		},
		[]string{"backend"},
	)

	liveHandles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "neuronshim",
			Subsystem: "runtime",
			Name:      "live_handles",
			Help:      "Runtime handles created and not yet released",
		},
	)
)

func init() {
	prometheus.MustRegister(callsTotal, inferenceDuration, liveHandles)
}

// observe records one call outcome and passes err through.
func observe(op string, err error) error {
	callsTotal.WithLabelValues(op, Code(err).Label()).Inc()
	return err
}

func observeInference(backend string, start time.Time) {
	inferenceDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
}
