// Package metrics provides Prometheus instrumentation for the request
// executor. A nil-safe no-op recorder is used when instrumentation is not
// configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives execution events from the request executor.
type Recorder interface {
	// RequestSent is called after every successful request.
	RequestSent()
	// RequestFailed is called when a request errors or returns non-2xx.
	RequestFailed()
	// AdmissionWait records seconds spent blocked on the saturated window.
	AdmissionWait(seconds float64)
	// WindowDepth records the current number of entries in the rate window.
	WindowDepth(n int)
}

// Nop is a Recorder that discards all events.
type Nop struct{}

func (Nop) RequestSent()          {}
func (Nop) RequestFailed()        {}
func (Nop) AdmissionWait(float64) {}
func (Nop) WindowDepth(int)       {}

// Prometheus is a Recorder backed by Prometheus collectors.
type Prometheus struct {
	requestsSent   prometheus.Counter
	requestsFailed prometheus.Counter
	admissionWait  prometheus.Counter
	windowDepth    prometheus.Gauge
}

// NewPrometheus registers the collector metrics with reg and returns the
// recorder. Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)

	return &Prometheus{
		requestsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reddit_collector",
			Name:      "requests_sent_total",
			Help:      "Total API requests that completed successfully.",
		}),
		requestsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reddit_collector",
			Name:      "requests_failed_total",
			Help:      "Total API requests that failed or returned a non-2xx status.",
		}),
		admissionWait: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reddit_collector",
			Name:      "admission_wait_seconds_total",
			Help:      "Cumulative seconds spent blocked waiting for rate-window capacity.",
		}),
		windowDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "reddit_collector",
			Name:      "rate_window_entries",
			Help:      "Number of request timestamps currently tracked in the sliding window.",
		}),
	}
}

func (p *Prometheus) RequestSent()   { p.requestsSent.Inc() }
func (p *Prometheus) RequestFailed() { p.requestsFailed.Inc() }

func (p *Prometheus) AdmissionWait(seconds float64) {
	p.admissionWait.Add(seconds)
}

func (p *Prometheus) WindowDepth(n int) {
	p.windowDepth.Set(float64(n))
}
