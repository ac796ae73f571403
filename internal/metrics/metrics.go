// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application collectors around a dedicated registry.
// The Observe methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	estimates     *prometheus.CounterVec
	breakdowns    *prometheus.CounterVec
	checkoutValue prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "furnistore",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "furnistore",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "furnistore",
			Name:      "delivery_estimates_total",
			Help:      "Delivery estimates by lead time and input source.",
		}, []string{"days", "source"}),
		breakdowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "furnistore",
			Name:      "price_breakdowns_total",
			Help:      "Cart price breakdowns by voucher state.",
		}, []string{"voucher"}),
		checkoutValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "furnistore",
			Name:      "checkout_final_amount_rupees",
			Help:      "Final payable amount of created orders.",
			Buckets:   []float64{0, 1000, 5000, 10000, 25000, 50000, 100000, 250000},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.estimates,
		m.breakdowns,
		m.checkoutValue,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveEstimate records a delivery estimate. source is "coordinate" or "postal_code".
func (m *Metrics) ObserveEstimate(days int, source string) {
	if m == nil {
		return
	}
	m.estimates.WithLabelValues(strconv.Itoa(days), source).Inc()
}

// ObserveBreakdown records a computed price breakdown.
func (m *Metrics) ObserveBreakdown(hasVoucher, applicable bool) {
	if m == nil {
		return
	}
	state := "none"
	switch {
	case hasVoucher && applicable:
		state = "applied"
	case hasVoucher:
		state = "below_minimum"
	}
	m.breakdowns.WithLabelValues(state).Inc()
}

// ObserveCheckout records the final amount of a created order.
func (m *Metrics) ObserveCheckout(finalAmount float64) {
	if m == nil {
		return
	}
	m.checkoutValue.Observe(finalAmount)
}
