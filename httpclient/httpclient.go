// Package httpclient builds the resty sessions shared by the API client and
// the token acquirer: one cookie jar, optional proxy, zerolog-backed logging.
package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Config describes a session.
type Config struct {
	// Proxy is an http, https, socks5 or socks5h URL. Empty means direct.
	Proxy string
	// Timeout bounds a single HTTP exchange. Zero means no timeout.
	Timeout time.Duration
	// Headers are sent with every request.
	Headers map[string]string
	// Transport replaces the default transport when set.
	Transport http.RoundTripper
	Logger    zerolog.Logger
}

// New returns a configured resty client. Callers own it and must Close it.
func New(cfg Config) (*resty.Client, error) {
	if err := ValidateProxy(cfg.Proxy); err != nil {
		return nil, err
	}

	client := resty.New().
		SetLogger(logAdapter{logger: cfg.Logger}).
		SetTimeout(cfg.Timeout).
		SetAllowGetMethodPayload(true)

	if len(cfg.Headers) > 0 {
		client.SetHeaders(cfg.Headers)
	}
	if cfg.Transport != nil {
		client.SetTransport(cfg.Transport)
	}
	if cfg.Proxy != "" {
		client.SetProxy(cfg.Proxy)
	}

	return client, nil
}

// Close drops the idle connections of a session built by New.
func Close(client *resty.Client) {
	if client == nil {
		return
	}
	client.GetClient().CloseIdleConnections()
}

// ValidateProxy checks that proxy is empty or a URL net/http can dial through.
func ValidateProxy(proxy string) error {
	if proxy == "" {
		return nil
	}

	u, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("proxy URL %q has no host", proxy)
	}
	return nil
}

// logAdapter routes resty's internal warnings into zerolog.
type logAdapter struct {
	logger zerolog.Logger
}

func (l logAdapter) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l logAdapter) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l logAdapter) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}
