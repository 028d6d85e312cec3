package tonplace

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/s0up4200/tonplace/apierror"
)

const (
	outcomeOK          = "ok"
	outcomeServiceDown = "service_unavailable"
	outcomeInvalid     = "invalid_response"
	outcomeFailed      = "request_failed"
	outcomeTransport   = "transport_error"
)

type metrics struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tonplace",
			Name:      "requests_total",
			Help:      "TonPlace API request attempts by endpoint and outcome.",
		}, []string{"method", "endpoint", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tonplace",
			Name:      "retries_total",
			Help:      "TonPlace API request retries by endpoint.",
		}, []string{"method", "endpoint"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tonplace",
			Name:      "request_duration_seconds",
			Help:      "Latency of a single TonPlace API request attempt.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}

	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.retries, err = register(reg, m.retries); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// register returns the collector already registered under the same
// descriptor when there is one, so several clients can share a registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// endpoint reduces a path to its first segment so ids do not explode label
// cardinality.
func endpoint(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}

func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	switch {
	case errors.Is(err, apierror.ErrServiceUnavailable):
		return outcomeServiceDown
	case errors.Is(err, apierror.ErrInvalidResponse):
		return outcomeInvalid
	case errors.Is(err, apierror.ErrRequestFailed):
		return outcomeFailed
	default:
		return outcomeTransport
	}
}

func (m *metrics) observe(method, path string, started time.Time, err error) {
	if m == nil {
		return
	}
	ep := endpoint(path)
	m.requests.WithLabelValues(method, ep, outcome(err)).Inc()
	m.duration.WithLabelValues(method, ep).Observe(time.Since(started).Seconds())
}

func (m *metrics) retried(method, path string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(method, endpoint(path)).Inc()
}
