// Package apierror defines the error type shared by the TonPlace client and
// the token acquirer.
package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindUnknown is the zero value and never produced by this module.
	KindUnknown Kind = iota
	// KindServiceUnavailable means the server answered with a 5xx status.
	KindServiceUnavailable
	// KindInvalidResponse means the response body could not be understood.
	KindInvalidResponse
	// KindRequestFailed means the API reported a fatal application error.
	KindRequestFailed
	// KindAuthTimeout means the login was not confirmed before the deadline.
	KindAuthTimeout
	// KindInvalidAssertion means the identity assertion was rejected.
	KindInvalidAssertion
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindServiceUnavailable:
		return "service unavailable"
	case KindInvalidResponse:
		return "invalid response"
	case KindRequestFailed:
		return "request failed"
	case KindAuthTimeout:
		return "authorization timed out"
	case KindInvalidAssertion:
		return "invalid assertion"
	default:
		return "unknown"
	}
}

// Sentinels for use with errors.Is.
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrInvalidResponse    = errors.New("invalid response")
	ErrRequestFailed      = errors.New("request failed")
	ErrAuthTimeout        = errors.New("authorization timed out")
	ErrInvalidAssertion   = errors.New("invalid assertion")
)

// Error is returned for every failure the remote side is responsible for.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	// Body is the raw response text, when there was one.
	Body string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d", e.Kind, e.StatusCode)
	}
	return e.Kind.String()
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindServiceUnavailable:
		return ErrServiceUnavailable
	case KindInvalidResponse:
		return ErrInvalidResponse
	case KindRequestFailed:
		return ErrRequestFailed
	case KindAuthTimeout:
		return ErrAuthTimeout
	case KindInvalidAssertion:
		return ErrInvalidAssertion
	default:
		return nil
	}
}

// ServiceUnavailable builds the error for a 5xx response.
func ServiceUnavailable(status int, body string) *Error {
	return &Error{
		Kind:       KindServiceUnavailable,
		StatusCode: status,
		Message:    fmt.Sprintf("site is down: status %d", status),
		Body:       body,
	}
}

// InvalidResponse builds the error for a body that is not usable JSON. The
// raw text becomes both the message and the body.
func InvalidResponse(status int, body string) *Error {
	return &Error{
		Kind:       KindInvalidResponse,
		StatusCode: status,
		Message:    body,
		Body:       body,
	}
}

// RequestFailed builds the error for a payload flagged with a fatal code.
func RequestFailed(status int, message, body string) *Error {
	return &Error{
		Kind:       KindRequestFailed,
		StatusCode: status,
		Message:    "Request error - " + message,
		Body:       body,
	}
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
