package client

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client-side collectors.
type Metrics struct {
	Requests  *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	Refreshes *prometheus.CounterVec
	Replays   prometheus.Counter
	Parked    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mscli_http_requests_total",
			Help: "Outbound requests by service and status.",
		}, []string{"method", "service", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mscli_http_request_duration_seconds",
			Help:    "Outbound request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "service"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mscli_token_refreshes_total",
			Help: "Token renewals by outcome.",
		}, []string{"outcome"}),
		Replays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mscli_request_replays_total",
			Help: "Requests replayed after a token renewal.",
		}),
		Parked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mscli_requests_parked_total",
			Help: "Requests parked behind a token renewal.",
		}),
	}
	reg.MustRegister(m.Requests, m.Duration, m.Refreshes, m.Replays, m.Parked)
	return m
}

// Instrument counts and times every call.
func (m *Metrics) Instrument() Middleware {
	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(req)
			service := serviceOf(req)
			status := "error"
			if err == nil {
				status = strconv.Itoa(resp.StatusCode)
			}
			m.Requests.WithLabelValues(req.Method, service, status).Inc()
			m.Duration.WithLabelValues(req.Method, service).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// ObserveRefresh is a gate hook.
func (m *Metrics) ObserveRefresh(err error, waiters int) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.Refreshes.WithLabelValues(outcome).Inc()
	m.Parked.Add(float64(waiters))
}

// serviceOf returns the gateway route segment, e.g. CUSTOMER-SERVICE.
func serviceOf(req *http.Request) string {
	p := strings.TrimPrefix(req.URL.Path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "unknown"
	}
	return p
}
