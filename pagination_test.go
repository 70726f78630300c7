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
	"errors"
	"fmt"
	"testing"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/graph"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

func setupNumbers(t *testing.T, n int) *Hexastore {
	t.Helper()
	hx, _ := setupTestStore(t)
	triples := make([]graph.Triple, 0, n)
	for i := 0; i < n; i++ {
		triples = append(triples, graph.NewTriple(fmt.Sprintf("n%02d", i), "num", fmt.Sprintf("%02d", i)))
	}
	mustSave(t, hx, triples...)
	return hx
}

func TestPageValidate(t *testing.T) {
	after := graph.NewTriple("a", "b", "c")
	tests := []struct {
		name    string
		page    *Page
		wantErr bool
	}{
		{"nil", nil, false},
		{"zero", &Page{}, false},
		{"first", &Page{First: 3}, false},
		{"first after", &Page{First: 3, After: &after}, false},
		{"last before", &Page{Last: 3, Before: &after}, false},
		{"first and last", &Page{First: 1, Last: 1}, true},
		{"after and before", &Page{After: &after, Before: &after}, true},
		{"first and before", &Page{First: 1, Before: &after}, true},
		{"negative first", &Page{First: -1}, true},
		{"negative last", &Page{Last: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.page.validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidPagination) {
				t.Errorf("expected ErrInvalidPagination, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	start := store.Inclusive("pos\x00num")
	end := store.Inclusive("pos\x00num\x00\xff")

	t.Run("default window", func(t *testing.T) {
		w, err := paginate(start, end, 7, nil)
		if err != nil {
			t.Fatalf("paginate failed: %v", err)
		}
		if w.Start != start || w.End != end || w.Options.Limit != 7 || w.Options.Direction != store.Forward {
			t.Errorf("unexpected window %+v", w)
		}
	})

	t.Run("after tightens start", func(t *testing.T) {
		after := graph.NewTriple("n03", "num", "03")
		w, err := paginate(start, end, 7, &Page{First: 2, After: &after})
		if err != nil {
			t.Fatalf("paginate failed: %v", err)
		}
		if w.Start != store.Exclusive("pos\x00num\x0003\x00n03") {
			t.Errorf("unexpected start %+v", w.Start)
		}
		if w.Options.Limit != 2 {
			t.Errorf("expected limit 2, got %d", w.Options.Limit)
		}
	})

	t.Run("before tightens end", func(t *testing.T) {
		before := graph.NewTriple("n03", "num", "03")
		w, err := paginate(start, end, 7, &Page{Before: &before})
		if err != nil {
			t.Fatalf("paginate failed: %v", err)
		}
		if w.End != store.Exclusive("pos\x00num\x0003\x00n03") || w.Options.Direction != store.Backward {
			t.Errorf("unexpected window %+v", w)
		}
		if w.Options.Limit != 7 {
			t.Errorf("expected default limit, got %d", w.Options.Limit)
		}
	})

	t.Run("cursor outside range keeps bound", func(t *testing.T) {
		before := graph.NewTriple("z", "zzz", "z")
		w, err := paginate(start, end, 7, &Page{Last: 1, Before: &before})
		if err != nil {
			t.Fatalf("paginate failed: %v", err)
		}
		if w.End != end {
			t.Errorf("expected end to stay %+v, got %+v", end, w.End)
		}
	})

	t.Run("incomplete cursor", func(t *testing.T) {
		after := graph.Triple{Subject: "n03"}
		_, err := paginate(start, end, 7, &Page{After: &after})
		if !errors.Is(err, ErrInvalidTriple) {
			t.Errorf("expected ErrInvalidTriple, got %v", err)
		}
	})

	t.Run("mismatched tags", func(t *testing.T) {
		_, err := paginate(store.Inclusive("pos\x00a"), store.Inclusive("spo\x00a\x00\xff"), 7, nil)
		if !errors.Is(err, ErrInconsistentRange) {
			t.Errorf("expected ErrInconsistentRange, got %v", err)
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := paginate(store.Inclusive("xyz"), store.Inclusive("xyz\x00\xff"), 7, nil)
		if !errors.Is(err, ErrInconsistentRange) {
			t.Errorf("expected ErrInconsistentRange, got %v", err)
		}
	})
}

func TestQuery_Pagination(t *testing.T) {
	ctx := context.Background()
	hx := setupNumbers(t, 10)

	all, err := hx.Query(ctx, graph.Triple{Predicate: "num"}, nil)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("expected 10 triples, got %d", len(all))
	}

	t.Run("forward pages concatenate", func(t *testing.T) {
		var got []graph.Triple
		page := &Page{First: 3}
		for i := 0; i < 10; i++ {
			batch, err := hx.Query(ctx, graph.Triple{Predicate: "num"}, page)
			if err != nil {
				t.Fatalf("query failed: %v", err)
			}
			if len(batch) == 0 {
				break
			}
			got = append(got, batch...)
			last := batch[len(batch)-1]
			page = &Page{First: 3, After: &last}
		}
		assertTriples(t, got, all...)
	})

	t.Run("backward pages reverse", func(t *testing.T) {
		var got []graph.Triple
		page := &Page{Last: 4}
		for i := 0; i < 10; i++ {
			batch, err := hx.Query(ctx, graph.Triple{Predicate: "num"}, page)
			if err != nil {
				t.Fatalf("query failed: %v", err)
			}
			if len(batch) == 0 {
				break
			}
			got = append(got, batch...)
			last := batch[len(batch)-1]
			page = &Page{Last: 4, Before: &last}
		}

		want := make([]graph.Triple, len(all))
		for i, tr := range all {
			want[len(all)-1-i] = tr
		}
		assertTriples(t, got, want...)
	})

	t.Run("mixed directions", func(t *testing.T) {
		_, err := hx.Query(ctx, graph.Triple{Predicate: "num"}, &Page{First: 1, Last: 1})
		if !errors.Is(err, ErrInvalidPagination) {
			t.Errorf("expected ErrInvalidPagination, got %v", err)
		}
	})
}

func TestFilter_Pagination(t *testing.T) {
	ctx := context.Background()
	hx := setupNumbers(t, 10)

	after := graph.NewTriple("n04", "num", "04")
	got, err := hx.Filter(ctx, graph.AtMost(graph.Triple{Predicate: "num"}, graph.Object, "07"), &Page{First: 2, After: &after})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	assertTriples(t, got,
		graph.NewTriple("n05", "num", "05"),
		graph.NewTriple("n06", "num", "06"),
	)

	before := graph.NewTriple("n04", "num", "04")
	got, err = hx.Filter(ctx, graph.AtLeast(graph.Triple{Predicate: "num"}, graph.Object, "02"), &Page{Last: 5, Before: &before})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	assertTriples(t, got,
		graph.NewTriple("n03", "num", "03"),
		graph.NewTriple("n02", "num", "02"),
	)
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	hx, _ := setupTestStore(t)
	mustSave(t, hx,
		graph.NewTriple("A", "has", "X"),
		graph.NewTriple("A", "has", "Y"),
		graph.NewTriple("B", "has", "Z"),
		graph.NewTriple("A", "wants", "W"),
	)
	has := graph.Triple{Predicate: "has"}

	tests := []struct {
		name string
		dir  CountDirection
		req  CountRequest
		want int64
	}{
		{"after first", CountAfter, CountRequest{Query: &has, Cursor: graph.NewTriple("A", "has", "X")}, 2},
		{"before second", CountBefore, CountRequest{Query: &has, Cursor: graph.NewTriple("A", "has", "Y")}, 1},
		{"after last", CountAfter, CountRequest{Query: &has, Cursor: graph.NewTriple("B", "has", "Z")}, 0},
		{"no cursor", CountAfter, CountRequest{Query: &has}, 3},
		{"exact query", CountAfter, CountRequest{Query: &graph.Triple{Subject: "A", Predicate: "has", Object: "X"}}, 0},
		{"filter", CountAfter, CountRequest{
			Filter: ptr(graph.AtLeast(has, graph.Object, "Y")),
			Cursor: graph.NewTriple("A", "has", "Y"),
		}, 1},
		{"filter before", CountBefore, CountRequest{
			Filter: ptr(graph.AtLeast(has, graph.Object, "Y")),
			Cursor: graph.NewTriple("B", "has", "Z"),
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hx.Count(ctx, tt.dir, tt.req)
			if err != nil {
				t.Fatalf("count failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}

	t.Run("needs query or filter", func(t *testing.T) {
		if _, err := hx.Count(ctx, CountAfter, CountRequest{}); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("expected ErrInvalidCount, got %v", err)
		}
		f := graph.AtLeast(has, graph.Object, "Y")
		if _, err := hx.Count(ctx, CountAfter, CountRequest{Query: &has, Filter: &f}); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("expected ErrInvalidCount, got %v", err)
		}
	})

	t.Run("incomplete cursor", func(t *testing.T) {
		_, err := hx.Count(ctx, CountAfter, CountRequest{Query: &has, Cursor: graph.Triple{Subject: "A"}})
		if !errors.Is(err, ErrInvalidTriple) {
			t.Errorf("expected ErrInvalidTriple, got %v", err)
		}
	})

	t.Run("direction names", func(t *testing.T) {
		if CountBefore.String() != "before" || CountAfter.String() != "after" {
			t.Error("unexpected direction names")
		}
	})
}

func ptr[T any](v T) *T {
	return &v
}
