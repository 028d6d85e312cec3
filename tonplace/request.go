package tonplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/s0up4200/tonplace/apierror"
)

const fatalCode = "fatal"

// Request describes one API call. Path is relative to the base URL. At most
// one of Data and JSON should be set; JSON wins when both are.
type Request struct {
	Method string
	Path   string
	Data   []byte
	JSON   any
}

// Do sends req under the client's retry policy and classifies the response.
// Every domain method goes through here.
func (c *Client) Do(ctx context.Context, req Request) (*Result, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	var result *Result
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		res, err := c.attempt(ctx, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	}, func(attempt uint, err error) {
		c.metrics.retried(req.Method, req.Path)
		c.logger.Warn().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Uint("attempt", attempt).
			Dur("delay", c.policy.Delay).
			Msg("TonPlace request failed, retrying")
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	return result, nil
}

func (c *Client) attempt(ctx context.Context, req Request) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	r := c.http.R().SetContext(ctx)
	switch {
	case req.JSON != nil:
		r.SetBody(req.JSON)
	case req.Data != nil:
		r.SetBody(req.Data)
	}

	url := c.baseURL + strings.TrimPrefix(req.Path, "/")
	started := time.Now()

	resp, err := r.Execute(req.Method, url)
	if err != nil {
		err = fmt.Errorf("request failed: %w", err)
		c.metrics.observe(req.Method, req.Path, started, err)
		return nil, err
	}

	result, err := classify(resp.StatusCode(), resp.Body(), c.returnErrors)
	c.metrics.observe(req.Method, req.Path, started, err)

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(started)).
		Msg("TonPlace API request")

	return result, err
}

// classify turns a raw HTTP response into a Result or an *apierror.Error.
// Only an explicit "fatal" code marks a failure; other objects, including
// those carrying access_token, are returned as they are.
func classify(status int, body []byte, returnErrors bool) (*Result, error) {
	text := string(body)

	if status >= http.StatusInternalServerError {
		return nil, apierror.ServiceUnavailable(status, text)
	}

	data, err := decodeJSON(body)
	if err != nil || !json.Valid(body) {
		return nil, apierror.InvalidResponse(status, text)
	}

	raw := json.RawMessage(body)

	switch v := data.(type) {
	case string:
		return &Result{Raw: raw, Data: v}, nil
	case map[string]any:
		if code, ok := v["code"].(string); ok && code == fatalCode {
			if returnErrors {
				return &Result{Raw: raw, Data: text, Failed: true}, nil
			}
			return nil, apierror.RequestFailed(status, messageOf(v), text)
		}
	}

	return &Result{Raw: raw, Data: data}, nil
}

func messageOf(obj map[string]any) string {
	msg, ok := obj["message"]
	if !ok || msg == nil {
		return ""
	}
	if s, ok := msg.(string); ok {
		return s
	}
	return fmt.Sprint(msg)
}
