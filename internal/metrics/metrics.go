package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	soapRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "volare_soap_requests_total",
		Help: "SOAP calls to the flight reservation service by action and outcome.",
	}, []string{"action", "outcome"})

	soapDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "volare_soap_request_duration_seconds",
		Help:    "Duration of SOAP calls to the flight reservation service.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "volare_http_requests_total",
		Help: "Gateway HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "volare_http_request_duration_seconds",
		Help:    "Duration of gateway HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveSoapCall records one SOAP round trip.
func ObserveSoapCall(action string, outcome string, elapsed time.Duration) {
	soapRequests.WithLabelValues(action, outcome).Inc()
	soapDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// ObserveHTTPRequest records one handled gateway request.
func ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
