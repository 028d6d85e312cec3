// Package filter narrows JSON list payloads with expr-lang expressions, e.g.
//
//	likes > 10 and has(text, "ton")
//
// Fields of each object are exposed as variables and the object itself as
// item. Numbers arrive as int64 or float64 regardless of how the payload was
// decoded.
package filter

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const cacheSize = 64

var compiled = newLRUCache(cacheSize)

// Filter is a compiled boolean expression. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles expression, reusing a cached program when the same
// expression was compiled recently.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if f, ok := compiled.get(expression); ok {
		return f, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(helpers()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{expression: expression, program: program}
	compiled.put(expression, f)
	return f, nil
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expression
}

// Match reports whether item satisfies the filter.
func (f *Filter) Match(item any) (bool, error) {
	result, err := expr.Run(f.program, environment(item))
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// Apply returns data with every list narrowed to its matching items. A
// top-level list is filtered directly; for an object, each list-valued field
// is filtered. Anything else is returned unchanged. data is not modified.
func (f *Filter) Apply(data any) any {
	switch v := data.(type) {
	case []any:
		return f.filterList(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, field := range v {
			if list, ok := field.([]any); ok {
				out[k] = f.filterList(list)
				continue
			}
			out[k] = field
		}
		return out
	default:
		return data
	}
}

// Errors returns the evaluation failures Apply would silently drop.
func (f *Filter) Errors(items []any) []error {
	var errs []error
	for i, item := range items {
		if _, err := f.Match(item); err != nil {
			errs = append(errs, &EvaluationError{Expression: f.expression, Index: i, Err: err})
		}
	}
	return errs
}

// filterList keeps matching items. Items the expression cannot be evaluated
// against count as non-matching.
func (f *Filter) filterList(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if ok, err := f.Match(item); err == nil && ok {
			out = append(out, item)
		}
	}
	return out
}

func environment(item any) map[string]any {
	item = normalize(item)

	env := make(map[string]any, 16)
	if obj, ok := item.(map[string]any); ok {
		for k, v := range obj {
			env[k] = v
		}
	}
	env["item"] = item

	for name, fn := range helpers() {
		env[name] = fn
	}
	return env
}

func helpers() map[string]any {
	return map[string]any{
		"has": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefix": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"daysSince": func(unix any) int {
			ts, ok := toInt64(unix)
			if !ok {
				return 0
			}
			return int(time.Since(time.Unix(ts, 0)).Hours() / 24)
		},
	}
}

// normalize replaces json.Number values with int64 or float64 so that
// expressions can compare them with literals.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, field := range t {
			out[k] = normalize(field)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = normalize(elem)
		}
		return out
	default:
		return v
	}
}

func toInt64(v any) (int64, bool) {
	switch t := normalize(v).(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	default:
		return 0, false
	}
}
