// Copyright (c) 2024 Redis Hexastore Go Contributors
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following
// conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package hexastore

import (
	"context"
	"fmt"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/graph"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/index"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

// Page selects a window of results.
//
// Forward paging uses First and After: up to First results strictly after
// the After triple, in ascending index order. Backward paging uses Last and
// Before: up to Last results strictly before the Before triple, in
// descending order. The two directions cannot be mixed in one Page.
// Zero sizes fall back to the store's default page size.
type Page struct {
	First  int           `json:"first,omitempty"`
	After  *graph.Triple `json:"after,omitempty"`
	Last   int           `json:"last,omitempty"`
	Before *graph.Triple `json:"before,omitempty"`
}

// validate rejects mixed directions and negative sizes. A nil Page is valid.
func (p *Page) validate() error {
	if p == nil {
		return nil
	}
	if p.First < 0 || p.Last < 0 {
		return fmt.Errorf("%w: negative page size", ErrInvalidPagination)
	}
	forward := p.First > 0 || p.After != nil
	backward := p.Last > 0 || p.Before != nil
	if forward && backward {
		return fmt.Errorf("%w: first/after cannot be combined with last/before", ErrInvalidPagination)
	}
	return nil
}

func (p *Page) backward() bool {
	return p != nil && (p.Last > 0 || p.Before != nil)
}

// window is a concrete scan: bounds already tightened by any cursor.
type window struct {
	Start   store.Bound
	End     store.Bound
	Options store.ScanOptions
}

// paginate turns a planned range and a page request into a scan.
func paginate(start, end store.Bound, defaultSize int, page *Page) (window, error) {
	tag, err := rangeTag(start, end)
	if err != nil {
		return window{}, err
	}

	w := window{
		Start:   start,
		End:     end,
		Options: store.ScanOptions{Direction: store.Forward, Limit: defaultSize},
	}
	if page == nil {
		return w, nil
	}

	if page.backward() {
		w.Options.Direction = store.Backward
		if page.Last > 0 {
			w.Options.Limit = page.Last
		}
		if page.Before != nil {
			key, err := cursorKey(tag, *page.Before)
			if err != nil {
				return window{}, err
			}
			w.End = tightenEnd(end, key)
		}
		return w, nil
	}

	if page.First > 0 {
		w.Options.Limit = page.First
	}
	if page.After != nil {
		key, err := cursorKey(tag, *page.After)
		if err != nil {
			return window{}, err
		}
		w.Start = tightenStart(start, key)
	}
	return w, nil
}

// rangeTag returns the permutation both bounds of a planned range share.
func rangeTag(start, end store.Bound) (index.IndexName, error) {
	from, err := index.TagOf(start.Value)
	if err != nil {
		return "", fmt.Errorf("%w: start: %w", ErrInconsistentRange, err)
	}
	to, err := index.TagOf(end.Value)
	if err != nil {
		return "", fmt.Errorf("%w: end: %w", ErrInconsistentRange, err)
	}
	if from != to {
		return "", fmt.Errorf("%w: %s..%s", ErrInconsistentRange, from, to)
	}
	return from, nil
}

// cursorKey re-encodes a cursor triple under the scan's permutation.
func cursorKey(tag index.IndexName, cursor graph.Triple) (string, error) {
	if err := validateTriple(cursor); err != nil {
		return "", fmt.Errorf("cursor: %w", err)
	}
	return index.GenKey(tag, cursor), nil
}

// tightenStart moves start past key unless start already lies beyond it.
func tightenStart(start store.Bound, key string) store.Bound {
	if key >= start.Value {
		return store.Exclusive(key)
	}
	return start
}

// tightenEnd moves end before key unless end already lies before it.
func tightenEnd(end store.Bound, key string) store.Bound {
	if key <= end.Value {
		return store.Exclusive(key)
	}
	return end
}

// CountDirection selects which side of a cursor Count measures.
type CountDirection int

const (
	// CountBefore counts results strictly before the cursor.
	CountBefore CountDirection = iota
	// CountAfter counts results strictly after the cursor.
	CountAfter
)

// String returns "before" or "after".
func (d CountDirection) String() string {
	if d == CountAfter {
		return "after"
	}
	return "before"
}

// CountRequest describes the range Count measures. Exactly one of Query
// and Filter must be set. A zero Cursor counts the whole range.
type CountRequest struct {
	Cursor graph.Triple
	Query  *graph.Triple
	Filter *graph.Filter
}

// Count returns how many results of the request's query or filter lie
// strictly before or after the cursor, in the order Query and Filter
// return them. A fully specified query has no siblings and counts 0.
func (h *Hexastore) Count(ctx context.Context, dir CountDirection, req CountRequest) (int64, error) {
	if (req.Query == nil) == (req.Filter == nil) {
		return 0, ErrInvalidCount
	}

	var (
		plan index.Plan
		err  error
	)
	if req.Query != nil {
		plan, err = index.PlanQuery(*req.Query)
	} else {
		plan, err = index.PlanFilter(*req.Filter)
	}
	if err != nil {
		return 0, fmt.Errorf("hexastore: count: %w", err)
	}
	if plan.Exact {
		return 0, nil
	}

	start, end := plan.Start, plan.End
	if req.Cursor != (graph.Triple{}) {
		tag, err := rangeTag(start, end)
		if err != nil {
			return 0, fmt.Errorf("hexastore: count: %w", err)
		}
		key, err := cursorKey(tag, req.Cursor)
		if err != nil {
			return 0, fmt.Errorf("hexastore: count: %w", err)
		}
		if dir == CountAfter {
			start = tightenStart(start, key)
		} else {
			end = tightenEnd(end, key)
		}
	}

	n, err := h.store.Count(ctx, h.options.SetKey, start, end)
	if err != nil {
		return 0, fmt.Errorf("hexastore: count: %w", err)
	}
	h.debug("count", "index", plan.Index, "direction", dir, "count", n)
	return n, nil
}
