package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/s0up4200/tonplace/apierror"
)

// identity is the signed Telegram user assertion returned once the login is
// confirmed.
type identity struct {
	ID        string
	FirstName string
	AuthDate  string
	Hash      string
	PhotoURL  string
}

type exchangeParams struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	AuthDate  string `json:"auth_date"`
	Hash      string `json:"hash"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

type exchangeRequest struct {
	Device string         `json:"device"`
	Params exchangeParams `json:"params"`
}

// handshake is one login attempt over a single cookie-carrying session.
type handshake struct {
	client   *resty.Client
	oauthURL string
	apiURL   string
	now      func() time.Time
}

func (h *handshake) widgetQuery() map[string]string {
	return map[string]string{"bot_id": BotID, "origin": Origin}
}

func (h *handshake) call(ctx context.Context, method, path, body string) (*resty.Response, error) {
	r := h.client.R().SetContext(ctx)
	if path != "auth/get" {
		r.SetQueryParams(h.widgetQuery())
	}
	if body != "" {
		r.SetBody(body)
	}

	resp, err := r.Execute(method, h.oauthURL+path)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	return resp, nil
}

// start opens the widget and asks Telegram to send a confirmation prompt.
func (h *handshake) start(ctx context.Context, phone string) error {
	if _, err := h.call(ctx, http.MethodPost, "auth", ""); err != nil {
		return err
	}

	form := url.Values{"phone": {phone}}
	if _, err := h.call(ctx, http.MethodPost, "auth/request", form.Encode()); err != nil {
		return err
	}
	return nil
}

// waitForConfirmation polls until Telegram returns a user or timeout passes.
func (h *handshake) waitForConfirmation(ctx context.Context, timeout, interval time.Duration) (*identity, error) {
	deadline := h.now().Add(timeout)

	for {
		if h.now().After(deadline) {
			return nil, errNotAuthorised()
		}

		user, err := h.poll(ctx)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}

		wait := interval
		if remaining := deadline.Sub(h.now()); remaining < wait {
			wait = remaining
		}
		if wait <= 0 {
			return nil, errNotAuthorised()
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func errNotAuthorised() error {
	return &apierror.Error{
		Kind:    apierror.KindAuthTimeout,
		Message: "not authorised, try again",
	}
}

// poll runs one round of the widget's login/push/get sequence.
func (h *handshake) poll(ctx context.Context) (*identity, error) {
	steps := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "auth/login"},
		{http.MethodPost, "auth/login"},
		{http.MethodGet, "auth"},
		{http.MethodGet, "auth/push"},
	}
	for _, s := range steps {
		if _, err := h.call(ctx, s.method, s.path, ""); err != nil {
			return nil, err
		}
	}

	resp, err := h.call(ctx, http.MethodPost, "auth/get", "bot_id="+BotID)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := decode(resp.Body(), &payload); err != nil {
		return nil, apierror.InvalidResponse(resp.StatusCode(), resp.String())
	}

	user, ok := payload["user"].(map[string]any)
	if !ok {
		return nil, nil
	}

	return &identity{
		ID:        stringify(user["id"]),
		FirstName: stringify(user["first_name"]),
		AuthDate:  stringify(user["auth_date"]),
		Hash:      stringify(user["hash"]),
		PhotoURL:  stringify(user["photo_url"]),
	}, nil
}

// exchange trades the Telegram identity for a TonPlace access token.
func (h *handshake) exchange(ctx context.Context, user *identity) (string, error) {
	endpoint := h.apiURL + "auth/telegram"

	if _, err := h.client.R().SetContext(ctx).Options(endpoint); err != nil {
		return "", fmt.Errorf("OPTIONS auth/telegram failed: %w", err)
	}

	body := exchangeRequest{
		Device: fmt.Sprintf("chrome_%d", h.now().Unix()),
		Params: exchangeParams{
			ID:        user.ID,
			FirstName: user.FirstName,
			AuthDate:  user.AuthDate,
			Hash:      user.Hash,
			PhotoURL:  user.PhotoURL,
		},
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("POST auth/telegram failed: %w", err)
	}

	return parseExchange(resp.StatusCode(), resp.Body())
}

func parseExchange(status int, body []byte) (string, error) {
	text := string(body)

	if status >= http.StatusInternalServerError {
		return "", apierror.ServiceUnavailable(status, text)
	}

	var payload map[string]any
	if err := decode(body, &payload); err != nil {
		return "", apierror.InvalidResponse(status, text)
	}

	if code, ok := payload["code"].(string); ok && code == "fatal" {
		return "", &apierror.Error{
			Kind:       apierror.KindInvalidAssertion,
			StatusCode: status,
			Message:    "invalid hash, try again: " + text,
			Body:       text,
		}
	}

	token, ok := payload["access_token"].(string)
	if !ok || token == "" {
		return "", &apierror.Error{
			Kind:       apierror.KindInvalidResponse,
			StatusCode: status,
			Message:    "access_token missing from response",
			Body:       text,
		}
	}

	return token, nil
}

func decode(body []byte, v any) error {
	if !json.Valid(body) {
		return fmt.Errorf("invalid JSON")
	}
	return json.Unmarshal(body, v)
}

// stringify renders ids and timestamps the way Telegram signed them, so
// large numbers must not pass through float formatting with an exponent.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
