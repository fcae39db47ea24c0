// Package metrics holds the Prometheus collectors for prompt resolution.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder groups the resolution collectors. A nil Recorder discards every
// observation.
type Recorder struct {
	Resolutions *prometheus.CounterVec
	Empty       prometheus.Counter
	Fields      prometheus.Histogram
	Dropped     *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// New registers the collectors with reg. A nil registerer builds unregistered
// collectors.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formprompt_resolutions_total",
			Help: "Total number of resolved prompts by detected template",
		}, []string{"template"}),
		Empty: factory.NewCounter(prometheus.CounterOpts{
			Name: "formprompt_empty_results_total",
			Help: "Total number of prompts that produced no fields",
		}),
		Fields: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "formprompt_fields_emitted",
			Help:    "Number of fields emitted per resolution",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formprompt_signals_dropped_total",
			Help: "Signals that could not be resolved, by kind",
		}, []string{"kind"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "formprompt_resolution_duration_seconds",
			Help:    "Duration of prompt resolution in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

// Observe records one resolution.
func (r *Recorder) Observe(template string, fields int, dropped map[string]int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Resolutions.WithLabelValues(template).Inc()
	if fields == 0 {
		r.Empty.Inc()
	}
	r.Fields.Observe(float64(fields))
	for kind, n := range dropped {
		if n > 0 {
			r.Dropped.WithLabelValues(kind).Add(float64(n))
		}
	}
	r.Duration.Observe(elapsed.Seconds())
}
