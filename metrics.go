package nb2pdf

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer receives every finished request report.
type Observer interface {
	ObserveConversion(r *Report)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(r *Report)

// ObserveConversion calls f.
func (f ObserverFunc) ObserveConversion(r *Report) { f(r) }

// Metrics records conversion counters and timings in a Prometheus registry.
type Metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	artifact    prometheus.Histogram
}

// NewMetrics registers the conversion collectors in a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nb2pdf",
				Name:      "conversions_total",
				Help:      "Conversion requests by result and failure category.",
			},
			[]string{"result", "category"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "nb2pdf",
				Name:      "conversion_duration_seconds",
				Help:      "Wall time of conversion requests by last stage reached.",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
			},
			[]string{"stage"},
		),
		artifact: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nb2pdf",
			Name:      "artifact_bytes",
			Help:      "Size of produced PDF files.",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 2, 10),
		}),
	}
	m.registry.MustRegister(m.conversions, m.duration, m.artifact)
	return m
}

// ObserveConversion implements Observer.
func (m *Metrics) ObserveConversion(r *Report) {
	m.conversions.WithLabelValues(r.Result(), r.Category().String()).Inc()
	m.duration.WithLabelValues(r.Stage.String()).Observe(r.Duration.Seconds())
	if r.Err == nil && r.Outcome.Succeeded() {
		m.artifact.Observe(float64(r.Outcome.SizeBytes))
	}
}

// Registry exposes the underlying registry, e.g. for a custom exporter.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
