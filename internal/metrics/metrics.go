// Package metrics exposes Prometheus counters for both pipelines and a
// rolling latency window for speech synthesis calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe for concurrent use. A nil *Metrics ignores observations.
type Metrics struct {
	registry *prometheus.Registry

	decks       *prometheus.CounterVec
	slides      prometheus.Counter
	speechLines *prometheus.CounterVec
	speechTime  prometheus.Histogram

	Latency *LatencyStats
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		decks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slidecast",
			Name:      "decks_generated_total",
			Help:      "Presentation files written, by output format.",
		}, []string{"format"}),
		slides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slidecast",
			Name:      "slides_rendered_total",
			Help:      "Slides laid out across all generated decks.",
		}),
		speechLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slidecast",
			Name:      "speech_lines_total",
			Help:      "Script lines sent for synthesis, by result.",
		}, []string{"result"}),
		speechTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slidecast",
			Name:      "speech_request_seconds",
			Help:      "Latency of synthesis requests.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
		}),
		Latency: NewLatencyStats(time.Hour),
	}
	m.registry.MustRegister(
		m.decks,
		m.slides,
		m.speechLines,
		m.speechTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDeck records one written presentation.
func (m *Metrics) ObserveDeck(format string, slides int) {
	if m == nil {
		return
	}
	m.decks.WithLabelValues(format).Inc()
	m.slides.Add(float64(slides))
}

// ObserveLine records one synthesis attempt.
func (m *Metrics) ObserveLine(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.speechLines.WithLabelValues(result).Inc()
	m.speechTime.Observe(d.Seconds())
	m.Latency.Record(d, !ok)
}
