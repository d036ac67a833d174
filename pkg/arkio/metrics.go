package arkio

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "arkio"
	startTimeKey     = "start_time"
	statusTransport  = "transport_error"
)

// Metrics holds the Prometheus collectors updated by a session.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	ApplicationErrors *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
}

// NewMetrics creates the session collectors and registers them with reg.
// Collectors already registered by an earlier call are reused, so several
// sessions can share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "API requests by operation and HTTP status.",
		}, []string{"operation", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "API request latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		ApplicationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "application_errors_total",
			Help:      "Application errors reported by the API, by operation and error code.",
		}, []string{"operation", "code"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by operation and result.",
		}, []string{"operation", "result"}),
	}

	if reg == nil {
		return metrics, nil
	}

	var err error

	metrics.RequestsTotal, err = register(reg, metrics.RequestsTotal)
	if err != nil {
		return nil, err
	}

	metrics.RequestDuration, err = register(reg, metrics.RequestDuration)
	if err != nil {
		return nil, err
	}

	metrics.ApplicationErrors, err = register(reg, metrics.ApplicationErrors)
	if err != nil {
		return nil, err
	}

	metrics.CacheLookups, err = register(reg, metrics.CacheLookups)
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	alreadyRegistered := prometheus.AlreadyRegisteredError{}
	if errors.As(err, &alreadyRegistered) {
		existing, ok := alreadyRegistered.ExistingCollector.(C)
		if ok {
			return existing, nil
		}
	}

	return collector, fmt.Errorf("registering collector: %w", err)
}

// RequestInterceptor records the request start time.
func (m *Metrics) RequestInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[startTimeKey] = time.Now()

		return nil
	}
}

// ResponseInterceptor counts the response and observes its latency.
func (m *Metrics) ResponseInterceptor() ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		status := statusTransport
		if resp.StatusCode != 0 {
			status = strconv.Itoa(resp.StatusCode)
		}

		m.RequestsTotal.WithLabelValues(req.Operation, status).Inc()

		if startTime, ok := req.Metadata[startTimeKey].(time.Time); ok {
			m.RequestDuration.WithLabelValues(req.Operation).Observe(time.Since(startTime).Seconds())
		}

		return nil
	}
}

// ObserveApplicationError counts an application error.
func (m *Metrics) ObserveApplicationError(operation string, appErr *APIError) {
	if m == nil || appErr == nil {
		return
	}

	m.ApplicationErrors.WithLabelValues(operation, appErr.Code).Inc()
}

// ObserveCacheLookup counts a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(operation string, hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	m.CacheLookups.WithLabelValues(operation, result).Inc()
}
