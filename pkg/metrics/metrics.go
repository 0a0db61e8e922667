package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusOK          = "ok"
	StatusUnsupported = "unsupported"
	StatusError       = "error"
)

// Recorder counts the explanations of a batch run. Every Recorder owns its
// registry, so runs in the same process do not share counts.
type Recorder struct {
	registry *prometheus.Registry

	// Explanations computed, by method and status
	ExplanationsTotal *prometheus.CounterVec

	// Time spent explaining one instance
	ExplainDuration prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ExplanationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "explainer_explanations_total",
				Help: "Total number of explained predictions",
			},
			[]string{"method", "status"},
		),
		ExplainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "explainer_explain_duration_seconds",
			Help:    "Time spent explaining a single prediction",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	r.registry.MustRegister(r.ExplanationsTotal, r.ExplainDuration)
	return r
}

// Observe records one explain call.
func (r *Recorder) Observe(method, status string, elapsed time.Duration) {
	r.ExplanationsTotal.WithLabelValues(method, status).Inc()
	r.ExplainDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the metrics in the text exposition format, for the node
// exporter textfile collector.
func (r *Recorder) WriteTextfile(fileName string) error {
	return prometheus.WriteToTextfile(fileName, r.registry)
}
