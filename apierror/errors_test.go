package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		sentinel error
	}{
		{"service unavailable", ServiceUnavailable(503, ""), ErrServiceUnavailable},
		{"invalid response", InvalidResponse(200, "<html>"), ErrInvalidResponse},
		{"request failed", RequestFailed(200, "bad", "{}"), ErrRequestFailed},
		{"auth timeout", &Error{Kind: KindAuthTimeout}, ErrAuthTimeout},
		{"invalid assertion", &Error{Kind: KindInvalidAssertion}, ErrInvalidAssertion},
	}

	all := []error{ErrServiceUnavailable, ErrInvalidResponse, ErrRequestFailed, ErrAuthTimeout, ErrInvalidAssertion}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			for _, s := range all {
				assert.Equal(t, s == tt.sentinel, errors.Is(wrapped, s), "sentinel %v", s)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "site is down: status 502", ServiceUnavailable(502, "").Error())
	assert.Equal(t, "not json", InvalidResponse(200, "not json").Error())
	assert.Equal(t, "Request error - banned", RequestFailed(200, "banned", "").Error())
	assert.Equal(t, "authorization timed out", (&Error{Kind: KindAuthTimeout}).Error())
	assert.Equal(t, "unknown: status 418", (&Error{StatusCode: 418}).Error())
}

func TestAsError(t *testing.T) {
	e, ok := AsError(fmt.Errorf("wrap: %w", InvalidResponse(200, "raw")))
	require.True(t, ok)
	assert.Equal(t, "raw", e.Body)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}
