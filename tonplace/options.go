package tonplace

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/s0up4200/tonplace/retry"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL      string
	uploadURL    string
	proxy        string
	timeout      time.Duration
	returnErrors bool
	policy       retry.Policy
	transport    http.RoundTripper
	limiter      *rate.Limiter
	registerer   prometheus.Registerer
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:   DefaultBaseURL,
		uploadURL: DefaultUploadURL,
		timeout:   DefaultTimeout,
		policy:    retry.Default(),
	}
}

// WithProxy routes all traffic through an http://, https:// or socks5:// proxy.
func WithProxy(proxyURL string) Option {
	return func(o *clientOptions) {
		o.proxy = proxyURL
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithUploadURL overrides the media upload root.
func WithUploadURL(uploadURL string) Option {
	return func(o *clientOptions) {
		o.uploadURL = uploadURL
	}
}

// WithTimeout sets the HTTP timeout of a single attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithReturnErrors makes fatal API responses come back as raw text in a
// Result marked Failed instead of as an error.
func WithReturnErrors(enabled bool) Option {
	return func(o *clientOptions) {
		o.returnErrors = enabled
	}
}

// WithRetryPolicy replaces the default retry policy of the request primitive.
func WithRetryPolicy(p retry.Policy) Option {
	return func(o *clientOptions) {
		o.policy = p
	}
}

// WithTransport sets the HTTP transport. Mostly useful in tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// WithRateLimit throttles outgoing requests. A non-positive rate disables it.
func WithRateLimit(requestsPerMinute float64, burst int) Option {
	return func(o *clientOptions) {
		if requestsPerMinute <= 0 {
			o.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), burst)
	}
}

// WithMetrics registers request counters and latency histograms.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *clientOptions) {
		o.registerer = reg
	}
}
