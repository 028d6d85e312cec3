package tonplace

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/s0up4200/tonplace/httpclient"
	"github.com/s0up4200/tonplace/retry"
)

const (
	DefaultBaseURL   = "https://api.ton.place/"
	DefaultUploadURL = "https://upload.ton.place/"
	DefaultTimeout   = 30 * time.Second

	acceptLanguage = "en-US,en;q=0.5"
)

// ErrClientClosed is returned by calls made after Close.
var ErrClientClosed = errors.New("tonplace client is closed")

// Client is an authenticated session against the TonPlace API.
type Client struct {
	http         *resty.Client
	baseURL      string
	uploadURL    string
	returnErrors bool
	policy       retry.Policy
	limiter      *rate.Limiter
	metrics      *metrics
	logger       zerolog.Logger

	mu     sync.Mutex
	closed bool
}

var _ API = (*Client)(nil)

// NewClient creates a client that authenticates with token. The token is sent
// verbatim in the Authorization header.
func NewClient(token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("tonplace token is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.baseURL == "" || o.uploadURL == "" {
		return nil, fmt.Errorf("tonplace base and upload URLs are required")
	}

	session, err := httpclient.New(httpclient.Config{
		Proxy:   o.proxy,
		Timeout: o.timeout,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			"Accept-Language": acceptLanguage,
			"Authorization":   token,
		},
		Transport: o.transport,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tonplace session: %w", err)
	}

	client := &Client{
		http:         session,
		baseURL:      withSlash(o.baseURL),
		uploadURL:    withSlash(o.uploadURL),
		returnErrors: o.returnErrors,
		policy:       o.policy,
		limiter:      o.limiter,
		logger:       logger,
	}

	if o.registerer != nil {
		m, err := newMetrics(o.registerer)
		if err != nil {
			httpclient.Close(session)
			return nil, fmt.Errorf("failed to register tonplace metrics: %w", err)
		}
		client.metrics = m
	}

	return client, nil
}

// Close releases the HTTP session. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.http == nil {
		c.closed = true
		return nil
	}

	httpclient.Close(c.http)
	c.closed = true
	c.logger.Debug().Msg("TonPlace session closed")
	return nil
}

func (c *Client) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	return nil
}

func withSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
