package tonplace

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Result is a loosely typed API response. Data holds the decoded body:
// map[string]any for objects, string for bare strings, []any for arrays and
// json.Number for numbers.
type Result struct {
	Raw  json.RawMessage
	Data any
	// Failed marks a fatal API response surfaced as raw text because the
	// client was built WithReturnErrors. Data is then the response text.
	Failed bool
}

// Object returns the payload as a JSON object.
func (r *Result) Object() (map[string]any, bool) {
	if r == nil || r.Failed {
		return nil, false
	}
	m, ok := r.Data.(map[string]any)
	return m, ok
}

// Text returns the payload when it is a bare string, or the raw text of a
// failed response.
func (r *Result) Text() (string, bool) {
	if r == nil {
		return "", false
	}
	s, ok := r.Data.(string)
	return s, ok
}

// Decode unmarshals the raw body into v.
func (r *Result) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("nil result")
	}
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

func (r *Result) String() string {
	if r == nil {
		return ""
	}
	return string(r.Raw)
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
