// Package auth obtains TonPlace access tokens. A token is read from a
// session.Store when one was saved before; otherwise the acquirer drives the
// Telegram login widget handshake for the phone number, waits for the user to
// confirm in Telegram and exchanges the signed identity for a token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/tonplace/httpclient"
	"github.com/s0up4200/tonplace/retry"
	"github.com/s0up4200/tonplace/session"
)

const (
	DefaultOAuthURL     = "https://oauth.telegram.org/"
	DefaultAPIURL       = "https://api.ton.place/"
	DefaultTimeout      = 60 * time.Second
	DefaultPollInterval = time.Second

	// BotID is the Telegram bot behind the ton.place login widget.
	BotID = "2141264283"
	// Origin is the site the widget is embedded in.
	Origin = "https://ton.place"

	requestTimeout = 30 * time.Second
)

// defaultHeaders mimic the browser the login widget normally runs in.
var defaultHeaders = map[string]string{
	"User-Agent":       "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:98.0) Gecko/20100101 Firefox/98.0",
	"Accept":           "*/*",
	"Accept-Language":  "ru-RU,ru;q=0.8,en-US;q=0.5,en;q=0.3",
	"Content-Type":     "application/x-www-form-urlencoded; charset=UTF-8",
	"X-Requested-With": "XMLHttpRequest",
	"Sec-Fetch-Dest":   "empty",
	"Sec-Fetch-Mode":   "cors",
	"Sec-Fetch-Site":   "cross-site",
	"Sec-GPC":          "1",
	"Referer":          "https://ton.place/",
	"Origin":           "https://ton.place/",
}

// TokenRequest describes one GetToken call.
type TokenRequest struct {
	Phone string
	// SaveSession stores a freshly acquired token for later calls.
	SaveSession bool
	// Proxy is an optional http(s) or socks5 proxy URL for the handshake.
	Proxy string
	// Timeout bounds the wait for confirmation in Telegram. Zero means
	// DefaultTimeout.
	Timeout time.Duration
}

// Acquirer obtains and caches access tokens.
type Acquirer struct {
	store        session.Store
	policy       retry.Policy
	logger       zerolog.Logger
	oauthURL     string
	apiURL       string
	pollInterval time.Duration
	transport    http.RoundTripper
	now          func() time.Time

	inflight singleflight.Group
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithStore sets where tokens are cached.
func WithStore(store session.Store) Option {
	return func(a *Acquirer) {
		a.store = store
	}
}

// WithRetryPolicy replaces the policy wrapped around the whole acquisition.
func WithRetryPolicy(p retry.Policy) Option {
	return func(a *Acquirer) {
		a.policy = p
	}
}

// WithOAuthURL overrides the identity provider root.
func WithOAuthURL(u string) Option {
	return func(a *Acquirer) {
		a.oauthURL = withSlash(u)
	}
}

// WithAPIURL overrides the TonPlace API root used for the token exchange.
func WithAPIURL(u string) Option {
	return func(a *Acquirer) {
		a.apiURL = withSlash(u)
	}
}

// WithPollInterval sets the pause between confirmation polls.
func WithPollInterval(d time.Duration) Option {
	return func(a *Acquirer) {
		if d >= 0 {
			a.pollInterval = d
		}
	}
}

// WithTransport sets the HTTP transport of every handshake session.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Acquirer) {
		a.transport = rt
	}
}

// NewAcquirer creates an acquirer. Without WithStore tokens are kept in
// session_<phone> files in the working directory.
func NewAcquirer(logger zerolog.Logger, opts ...Option) *Acquirer {
	a := &Acquirer{
		policy:       retry.Default(),
		logger:       logger,
		oauthURL:     DefaultOAuthURL,
		apiURL:       DefaultAPIURL,
		pollInterval: DefaultPollInterval,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		a.store = session.NewFileStore(nil, ".")
	}

	return a
}

// NormalizePhone strips surrounding spaces and a leading plus sign.
func NormalizePhone(phone string) string {
	return strings.TrimPrefix(strings.TrimSpace(phone), "+")
}

// GetToken returns a cached token for req.Phone or logs in to get a new one.
// The whole login runs under the acquirer's retry policy. Concurrent calls
// for the same phone, proxy and timeout share a single login; each caller
// that asked for SaveSession stores the resulting token.
func (a *Acquirer) GetToken(ctx context.Context, req TokenRequest) (string, error) {
	phone := NormalizePhone(req.Phone)
	if phone == "" {
		return "", fmt.Errorf("phone number is required")
	}
	if err := httpclient.ValidateProxy(req.Proxy); err != nil {
		return "", err
	}
	if req.Timeout <= 0 {
		req.Timeout = DefaultTimeout
	}

	key := fmt.Sprintf("%s|%s|%s", phone, req.Proxy, req.Timeout)

	for {
		ch := a.inflight.DoChan(key, func() (any, error) {
			return a.login(ctx, phone, req)
		})

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("failed to get token: %w", ctx.Err())
		case res = <-ch:
		}

		if res.Err != nil {
			// The shared login ran on another caller's context. Start over
			// when that context ended but ours is still live.
			if res.Shared && ctx.Err() == nil && isContextError(res.Err) {
				continue
			}
			return "", fmt.Errorf("failed to get token: %w", res.Err)
		}

		out := res.Val.(loginResult)
		if out.fresh && req.SaveSession {
			if err := a.store.Set(ctx, phone, out.token); err != nil {
				return "", fmt.Errorf("failed to save session: %w", err)
			}
		}
		return out.token, nil
	}
}

type loginResult struct {
	token string
	// fresh is set when the token came from a login rather than the store.
	fresh bool
}

func (a *Acquirer) login(ctx context.Context, phone string, req TokenRequest) (loginResult, error) {
	var out loginResult
	err := a.policy.Do(ctx, func(ctx context.Context) error {
		r, err := a.acquire(ctx, phone, req)
		if err != nil {
			return err
		}
		out = r
		return nil
	}, func(attempt uint, err error) {
		a.logger.Warn().
			Err(err).
			Str("phone", maskPhone(phone)).
			Uint("attempt", attempt).
			Dur("delay", a.policy.Delay).
			Msg("Token acquisition failed, retrying")
	})
	return out, err
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Logout forgets the cached token for phone.
func (a *Acquirer) Logout(ctx context.Context, phone string) error {
	phone = NormalizePhone(phone)
	if err := a.store.Delete(ctx, phone); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (a *Acquirer) acquire(ctx context.Context, phone string, req TokenRequest) (loginResult, error) {
	token, ok, err := a.store.Get(ctx, phone)
	if err != nil {
		return loginResult{}, fmt.Errorf("failed to read session: %w", err)
	}
	if ok {
		a.logger.Debug().Str("phone", maskPhone(phone)).Msg("Using saved session")
		return loginResult{token: token}, nil
	}

	client, err := httpclient.New(httpclient.Config{
		Proxy:     req.Proxy,
		Timeout:   requestTimeout,
		Headers:   defaultHeaders,
		Transport: a.transport,
		Logger:    a.logger,
	})
	if err != nil {
		return loginResult{}, err
	}
	defer httpclient.Close(client)

	h := &handshake{
		client:   client,
		oauthURL: a.oauthURL,
		apiURL:   a.apiURL,
		now:      a.now,
	}

	if err := h.start(ctx, phone); err != nil {
		return loginResult{}, err
	}

	a.logger.Info().
		Str("phone", maskPhone(phone)).
		Dur("timeout", req.Timeout).
		Msg("Confirm authorisation in Telegram")

	user, err := h.waitForConfirmation(ctx, req.Timeout, a.pollInterval)
	if err != nil {
		return loginResult{}, err
	}

	a.logger.Debug().Str("telegram_id", user.ID).Msg("Telegram login confirmed")

	token, err = h.exchange(ctx, user)
	if err != nil {
		return loginResult{}, err
	}

	a.logger.Info().Str("phone", maskPhone(phone)).Msg("Logged in to TonPlace")
	return loginResult{token: token, fresh: true}, nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

func withSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
