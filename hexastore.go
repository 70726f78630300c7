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

// Package hexastore provides a graph store that indexes every
// subject-predicate-object triple under all six permutations of its fields
// inside one ordered set.
//
// Because each permutation is a separate sorted run of keys, any partial
// triple (or a range over one field with the others fixed) is answered by
// a single lexicographic range scan. The backing set can live in Redis,
// LevelDB, Badger or memory; see the store packages.
//
// Basic usage:
//
//	hx := hexastore.New(memstore.New())
//	defer hx.Close()
//
//	// Insert a triple
//	_, err := hx.Save(ctx, graph.NewTriple("alice", "knows", "bob"))
//
//	// Query triples
//	triples, err := hx.Query(ctx, graph.Triple{Subject: "alice"}, nil)
//
//	// Join patterns
//	who, what := hx.V("who"), hx.V("what")
//	bindings, err := hx.Search(ctx, []graph.Statement{
//	    graph.NewStatement(graph.Var(who), graph.Lit("likes"), graph.Var(what)),
//	})
package hexastore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/graph"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/index"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

var (
	// ErrInvalidTriple is returned when a triple to store is incomplete.
	ErrInvalidTriple = errors.New("hexastore: invalid triple - subject, predicate, and object are required")
	// ErrReservedByte is returned when a value contains the key separator or sentinel byte.
	ErrReservedByte = index.ErrReservedByte
	// ErrInvalidFilter is returned when a filter bounds neither end of its range.
	ErrInvalidFilter = index.ErrInvalidFilter
	// ErrInvalidPagination is returned when forward and backward paging are mixed.
	ErrInvalidPagination = errors.New("hexastore: invalid pagination")
	// ErrInvalidCount is returned when a count request names neither or both of query and filter.
	ErrInvalidCount = errors.New("hexastore: count needs exactly one of query or filter")
	// ErrUnknownVariable is returned when a statement uses a variable minted by another store.
	ErrUnknownVariable = errors.New("hexastore: unknown variable")
	// ErrUnsupportedPattern is returned for statements made only of variables.
	ErrUnsupportedPattern = errors.New("hexastore: statement needs at least one literal")
	// ErrInvalidStatement is returned for statements with unset or empty terms.
	ErrInvalidStatement = errors.New("hexastore: invalid statement")
	// ErrInconsistentRange signals a planned range spanning two permutations.
	// It indicates a defect, not a caller error.
	ErrInconsistentRange = errors.New("hexastore: range bounds disagree on permutation")
	// ErrMalformedKey is returned when a stored key does not decode into a triple.
	ErrMalformedKey = index.ErrMalformedKey
	// ErrClosed is returned by stores that have been closed.
	ErrClosed = store.ErrClosed
)

// Hexastore indexes triples in an ordered store.
// It holds no state besides the store handle and its options, so it is safe
// for concurrent use whenever the store is.
type Hexastore struct {
	store   store.Store
	options *Options
	scope   *graph.Scope
}

// New creates a Hexastore over the given store.
func New(s store.Store, opts ...Option) *Hexastore {
	return &Hexastore{
		store:   s,
		options: applyOptions(opts...),
		scope:   graph.NewScope(),
	}
}

// Store returns the backing store.
func (h *Hexastore) Store() store.Store {
	return h.store
}

// Close closes the backing store.
func (h *Hexastore) Close() error {
	return h.store.Close()
}

// V creates a new Variable for use in Search statements.
// Variables are only accepted by the Hexastore that created them.
func (h *Hexastore) V(name string) *graph.Variable {
	return h.scope.V(name)
}

// NewBatch opens a batch on the backing store. Pass it to the *In methods
// to combine several writes (including the caller's own) into one flush.
func (h *Hexastore) NewBatch() store.Batch {
	return h.store.NewBatch()
}

func (h *Hexastore) debug(msg string, args ...any) {
	if h.options.Logger != nil {
		h.options.Logger.Debug(msg, args...)
	}
}

// validateTriple checks that a triple has all required fields and no reserved bytes.
func validateTriple(t graph.Triple) error {
	if !t.Complete() {
		return fmt.Errorf("%w: %q", ErrInvalidTriple, t.String())
	}
	if err := index.ValidateTriple(t); err != nil {
		return fmt.Errorf("hexastore: %w", err)
	}
	return nil
}

// Save inserts a triple under all six indexes and returns the number of
// keys that were not already present (6 for a new triple, 0 for a repeat).
func (h *Hexastore) Save(ctx context.Context, t graph.Triple) (int64, error) {
	b := h.store.NewBatch()
	if err := h.SaveIn(b, t); err != nil {
		return 0, err
	}
	n, err := b.Flush(ctx)
	if err != nil {
		return 0, fmt.Errorf("hexastore: save: %w", err)
	}
	h.debug("save", "triple", t.String(), "written", n)
	return n, nil
}

// SaveIn queues the six index keys of t into b without flushing it.
func (h *Hexastore) SaveIn(b store.Batch, t graph.Triple) error {
	if err := validateTriple(t); err != nil {
		return err
	}
	for _, key := range index.GenKeys(t) {
		b.Insert(h.options.SetKey, key)
	}
	return nil
}

// BatchSave inserts several triples in one flush and returns the number
// of keys newly written.
func (h *Hexastore) BatchSave(ctx context.Context, triples []graph.Triple) (int64, error) {
	b := h.store.NewBatch()
	if err := h.BatchSaveIn(b, triples); err != nil {
		return 0, err
	}
	n, err := b.Flush(ctx)
	if err != nil {
		return 0, fmt.Errorf("hexastore: batch save: %w", err)
	}
	h.debug("batch save", "triples", len(triples), "written", n)
	return n, nil
}

// BatchSaveIn queues several triples into b. Every triple is validated
// before anything is queued, so a rejected call leaves b untouched.
func (h *Hexastore) BatchSaveIn(b store.Batch, triples []graph.Triple) error {
	for _, t := range triples {
		if err := validateTriple(t); err != nil {
			return err
		}
	}
	for _, t := range triples {
		for _, key := range index.GenKeys(t) {
			b.Insert(h.options.SetKey, key)
		}
	}
	return nil
}

// Delete removes every triple matching partial (a complete triple removes
// just itself; an empty one removes everything) and returns the number of
// index keys removed, six per deleted triple.
func (h *Hexastore) Delete(ctx context.Context, partial graph.Triple) (int64, error) {
	b := h.store.NewBatch()
	if err := h.DeleteIn(ctx, b, partial); err != nil {
		return 0, err
	}
	n, err := b.Flush(ctx)
	if err != nil {
		return 0, fmt.Errorf("hexastore: delete: %w", err)
	}
	h.debug("delete", "pattern", partial.String(), "removed", n)
	return n, nil
}

// DeleteIn queues the removal of every triple matching partial into b.
// Partial patterns are resolved with a scan now; triples saved between the
// scan and the flush are not removed. An empty pattern queues one range
// removal per index instead, which also catches those later triples.
func (h *Hexastore) DeleteIn(ctx context.Context, b store.Batch, partial graph.Triple) error {
	if partial.Complete() {
		if err := validateTriple(partial); err != nil {
			return err
		}
		h.queueRemove(b, partial)
		return nil
	}
	if partial == (graph.Triple{}) {
		for _, name := range index.AllIndexes {
			b.RemoveRange(h.options.SetKey,
				store.Inclusive(string(name)+index.Separator),
				store.Inclusive(string(name)+index.Separator+index.Sentinel))
		}
		return nil
	}

	matches, err := h.scanAll(ctx, partial)
	if err != nil {
		return err
	}
	for _, t := range matches {
		h.queueRemove(b, t)
	}
	return nil
}

func (h *Hexastore) queueRemove(b store.Batch, t graph.Triple) {
	for _, key := range index.GenKeys(t) {
		b.Remove(h.options.SetKey, key)
	}
}

// BatchDelete removes the triples matching each partial in one flush and
// returns the number of index keys removed.
func (h *Hexastore) BatchDelete(ctx context.Context, partials []graph.Triple) (int64, error) {
	b := h.store.NewBatch()
	for _, p := range partials {
		if err := h.DeleteIn(ctx, b, p); err != nil {
			return 0, err
		}
	}
	n, err := b.Flush(ctx)
	if err != nil {
		return 0, fmt.Errorf("hexastore: batch delete: %w", err)
	}
	h.debug("batch delete", "patterns", len(partials), "removed", n)
	return n, nil
}

// Query returns the triples matching partial, one page at a time. A nil
// page returns the first DefaultPageSize results. A complete triple is an
// exact membership check returning it or nothing.
func (h *Hexastore) Query(ctx context.Context, partial graph.Triple, page *Page) ([]graph.Triple, error) {
	if err := page.validate(); err != nil {
		return nil, err
	}
	plan, err := index.PlanQuery(partial)
	if err != nil {
		return nil, fmt.Errorf("hexastore: query: %w", err)
	}

	if plan.Exact {
		found, err := h.store.IsMember(ctx, h.options.SetKey, plan.Key)
		if err != nil {
			return nil, fmt.Errorf("hexastore: query: %w", err)
		}
		h.debug("query exact", "triple", partial.String(), "found", found)
		if !found {
			return []graph.Triple{}, nil
		}
		return []graph.Triple{partial}, nil
	}

	return h.scanPage(ctx, "query", plan, page)
}

// Filter returns the triples whose filtered field lies within the filter's
// bounds, one page at a time.
func (h *Hexastore) Filter(ctx context.Context, f graph.Filter, page *Page) ([]graph.Triple, error) {
	if err := page.validate(); err != nil {
		return nil, err
	}
	plan, err := index.PlanFilter(f)
	if err != nil {
		return nil, fmt.Errorf("hexastore: filter: %w", err)
	}
	return h.scanPage(ctx, "filter", plan, page)
}

func (h *Hexastore) scanPage(ctx context.Context, op string, plan index.Plan, page *Page) ([]graph.Triple, error) {
	w, err := paginate(plan.Start, plan.End, h.options.DefaultPageSize, page)
	if err != nil {
		return nil, fmt.Errorf("hexastore: %s: %w", op, err)
	}

	keys, err := h.store.Range(ctx, h.options.SetKey, w.Start, w.End, w.Options)
	if err != nil {
		return nil, fmt.Errorf("hexastore: %s: %w", op, err)
	}
	h.debug(op, "index", plan.Index, "direction", w.Options.Direction, "limit", w.Options.Limit, "results", len(keys))
	return decodeAll(keys)
}

// scanAll returns every triple matching partial, without paging.
func (h *Hexastore) scanAll(ctx context.Context, partial graph.Triple) ([]graph.Triple, error) {
	plan, err := index.PlanQuery(partial)
	if err != nil {
		return nil, fmt.Errorf("hexastore: %w", err)
	}

	if plan.Exact {
		found, err := h.store.IsMember(ctx, h.options.SetKey, plan.Key)
		if err != nil {
			return nil, fmt.Errorf("hexastore: %w", err)
		}
		if !found {
			return nil, nil
		}
		return []graph.Triple{partial}, nil
	}

	keys, err := h.store.Range(ctx, h.options.SetKey, plan.Start, plan.End, store.ScanOptions{})
	if err != nil {
		return nil, fmt.Errorf("hexastore: %w", err)
	}
	return decodeAll(keys)
}

// decodeAll converts raw index keys back into triples.
func decodeAll(keys []string) ([]graph.Triple, error) {
	triples := make([]graph.Triple, 0, len(keys))
	for _, key := range keys {
		t, err := index.ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("hexastore: decode result: %w", err)
		}
		triples = append(triples, t)
	}
	return triples, nil
}
