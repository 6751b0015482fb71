// Package metrics exposes Prometheus counters for request handling and
// the best-effort side effects of form submissions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the services and middleware report to.
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordSubmission(form, result string)
	RecordNotificationFailure(kind string)
	RecordPostView()
}

// Collector implements Recorder with Prometheus metrics.
type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	submissions  *prometheus.CounterVec
	notifyFailed *prometheus.CounterVec
	postViews    prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_form_submissions_total",
			Help: "Public form submissions by form and result.",
		}, []string{"form", "result"}),
		notifyFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_notification_failures_total",
			Help: "Notifications that could not be delivered.",
		}, []string{"kind"}),
		postViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_post_views_total",
			Help: "Blog post views recorded.",
		}),
	}
	reg.MustRegister(c.requests, c.latency, c.submissions, c.notifyFailed, c.postViews)
	return c
}

// RecordRequest counts a finished HTTP request.
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordSubmission counts a form submission outcome such as "accepted",
// "invalid" or "duplicate".
func (c *Collector) RecordSubmission(form, result string) {
	c.submissions.WithLabelValues(form, result).Inc()
}

// RecordNotificationFailure counts an undelivered notification.
func (c *Collector) RecordNotificationFailure(kind string) {
	c.notifyFailed.WithLabelValues(kind).Inc()
}

// RecordPostView counts a recorded post view.
func (c *Collector) RecordPostView() {
	c.postViews.Inc()
}

// Handler returns the HTTP handler for Prometheus scraping.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordSubmission(string, string)                  {}
func (Nop) RecordNotificationFailure(string)                 {}
func (Nop) RecordPostView()                                  {}
