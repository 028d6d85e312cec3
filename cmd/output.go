package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/tonplace/filter"
	"github.com/s0up4200/tonplace/tonplace"
)

// maxConcurrentLookups bounds parallel calls when a command takes many ids.
const maxConcurrentLookups = 5

// printResult writes result as indented JSON, narrowed by filterExpr when set.
// Failed responses surfaced as raw text are printed verbatim.
func printResult(w io.Writer, result *tonplace.Result, filterExpr string) error {
	if result == nil {
		return nil
	}

	if result.Failed {
		text, _ := result.Text()
		_, err := fmt.Fprintln(w, text)
		return err
	}

	data := result.Data
	if filterExpr != "" {
		f, err := filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		data = f.Apply(data)
	}

	return printJSON(w, data)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// fetchAll calls fetch for every id concurrently. A single id yields its
// result unchanged; several ids yield an array in argument order.
func fetchAll(ctx context.Context, args []string, fetch func(ctx context.Context, id int64) (*tonplace.Result, error)) (*tonplace.Result, error) {
	ids, err := parseIDs(args)
	if err != nil {
		return nil, err
	}
	if len(ids) == 1 {
		return fetch(ctx, ids[0])
	}

	results := make([]*tonplace.Result, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			result, err := fetch(ctx, id)
			if err != nil {
				return fmt.Errorf("id %d: %w", id, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]any, len(results))
	raw := make([]json.RawMessage, len(results))
	for i, r := range results {
		items[i] = r.Data
		raw[i] = r.Raw
		if r.Failed {
			text, err := json.Marshal(string(r.Raw))
			if err != nil {
				return nil, fmt.Errorf("id %d: %w", ids[i], err)
			}
			items[i] = string(r.Raw)
			raw[i] = text
		}
	}

	combined, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return &tonplace.Result{Raw: combined, Data: items}, nil
}
