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

package index

import (
	"errors"
	"sort"
	"testing"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/graph"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

func TestGenKey(t *testing.T) {
	triple := graph.NewTriple("a", "b", "c")

	tests := []struct {
		index    IndexName
		expected string
	}{
		{IndexSPO, "spo\x00a\x00b\x00c"},
		{IndexSOP, "sop\x00a\x00c\x00b"},
		{IndexPOS, "pos\x00b\x00c\x00a"},
		{IndexPSO, "pso\x00b\x00a\x00c"},
		{IndexOPS, "ops\x00c\x00b\x00a"},
		{IndexOSP, "osp\x00c\x00a\x00b"},
	}

	for _, tt := range tests {
		t.Run(string(tt.index), func(t *testing.T) {
			if got := GenKey(tt.index, triple); got != tt.expected {
				t.Errorf("GenKey(%s) = %q, want %q", tt.index, got, tt.expected)
			}
		})
	}
}

func TestGenKeysRoundTrip(t *testing.T) {
	triples := []graph.Triple{
		graph.NewTriple("a", "b", "c"),
		graph.NewTriple("http://example.org/alice", "foaf:knows", "http://example.org/bob"),
		graph.NewTriple("with space", "ünïcödé", "a:b::c"),
	}

	for _, triple := range triples {
		keys := GenKeys(triple)
		seen := make(map[string]bool)
		for i, key := range keys {
			if seen[key] {
				t.Errorf("duplicate key %q", key)
			}
			seen[key] = true

			tag, err := TagOf(key)
			if err != nil {
				t.Fatalf("TagOf(%q): %v", key, err)
			}
			if tag != AllIndexes[i] {
				t.Errorf("TagOf(%q) = %s, want %s", key, tag, AllIndexes[i])
			}

			got, err := ParseKey(key)
			if err != nil {
				t.Fatalf("ParseKey(%q): %v", key, err)
			}
			if got != triple {
				t.Errorf("ParseKey(%q) = %v, want %v", key, got, triple)
			}
		}
	}
}

func TestParseKeyMalformed(t *testing.T) {
	for _, key := range []string{
		"",
		"spo",
		"spo\x00a\x00b",
		"xyz\x00a\x00b\x00c",
		"spo\x00a\x00\x00c",
		"spo\x00a\x00b\x00c\x00d",
	} {
		if _, err := ParseKey(key); !errors.Is(err, ErrMalformedKey) {
			t.Errorf("ParseKey(%q) error = %v, want ErrMalformedKey", key, err)
		}
	}
	if _, err := TagOf("nope\x00a"); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("TagOf should reject unknown tags, got %v", err)
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		err   error
	}{
		{"plain", "alice", nil},
		{"empty", "", ErrEmptyValue},
		{"separator", "a\x00b", ErrReservedByte},
		{"sentinel", "a\xffb", ErrReservedByte},
		{"replacement character", "\ufffd", nil},
		{"latin-1 byte", "caf\xe9", nil},
		{"continuation byte", "\x80", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValue(tt.value)
			if !errors.Is(err, tt.err) {
				t.Errorf("ValidateValue(%q) = %v, want %v", tt.value, err, tt.err)
			}
		})
	}

	if err := ValidateTriple(graph.Triple{Subject: "a", Predicate: "b"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("incomplete triple should fail, got %v", err)
	}
	if err := ValidatePartial(graph.Triple{Subject: "a"}); err != nil {
		t.Errorf("partial triple should pass, got %v", err)
	}
}

func TestPlanQuery(t *testing.T) {
	tests := []struct {
		name    string
		partial graph.Triple
		index   IndexName
		start   string
	}{
		{"subject and predicate", graph.Triple{Subject: "s", Predicate: "p"}, IndexSPO, "spo\x00s\x00p"},
		{"subject and object", graph.Triple{Subject: "s", Object: "o"}, IndexOSP, "osp\x00o\x00s"},
		{"predicate and object", graph.Triple{Predicate: "p", Object: "o"}, IndexPOS, "pos\x00p\x00o"},
		{"subject", graph.Triple{Subject: "s"}, IndexSPO, "spo\x00s"},
		{"predicate", graph.Triple{Predicate: "p"}, IndexPOS, "pos\x00p"},
		{"object", graph.Triple{Object: "o"}, IndexOSP, "osp\x00o"},
		{"nothing", graph.Triple{}, IndexSPO, "spo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanQuery(tt.partial)
			if err != nil {
				t.Fatalf("PlanQuery: %v", err)
			}
			if plan.Exact {
				t.Fatal("partial query should not be exact")
			}
			if plan.Index != tt.index {
				t.Errorf("index = %s, want %s", plan.Index, tt.index)
			}
			if plan.Start != store.Inclusive(tt.start) {
				t.Errorf("start = %+v, want %q", plan.Start, tt.start)
			}
			if plan.End != store.Inclusive(tt.start+Separator+Sentinel) {
				t.Errorf("end = %+v", plan.End)
			}
		})
	}

	t.Run("exact", func(t *testing.T) {
		plan, err := PlanQuery(graph.NewTriple("s", "p", "o"))
		if err != nil {
			t.Fatalf("PlanQuery: %v", err)
		}
		if !plan.Exact || plan.Index != IndexSPO || plan.Key != "spo\x00s\x00p\x00o" {
			t.Errorf("unexpected exact plan %+v", plan)
		}
	})

	t.Run("reserved byte", func(t *testing.T) {
		if _, err := PlanQuery(graph.Triple{Subject: "a\x00"}); !errors.Is(err, ErrReservedByte) {
			t.Errorf("expected ErrReservedByte, got %v", err)
		}
	})
}

// TestPlanQueryCoversMatches checks every generated key sharing the
// supplied fields falls inside the planned range, and no other key does.
func TestPlanQueryCoversMatches(t *testing.T) {
	triples := []graph.Triple{
		graph.NewTriple("alice", "knows", "bob"),
		graph.NewTriple("alice", "knows", "carol"),
		graph.NewTriple("alicex", "knows", "bob"),
		graph.NewTriple("ali", "knows", "bob"),
		graph.NewTriple("bob", "likes", "alice"),
	}
	var keys []string
	for _, tr := range triples {
		k := GenKeys(tr)
		keys = append(keys, k[:]...)
	}

	partial := graph.Triple{Subject: "alice", Predicate: "knows"}
	plan, err := PlanQuery(partial)
	if err != nil {
		t.Fatalf("PlanQuery: %v", err)
	}

	var got []string
	for _, k := range keys {
		if store.Contains(plan.Start, plan.End, k) {
			got = append(got, k)
		}
	}
	sort.Strings(got)

	want := []string{"spo\x00alice\x00knows\x00bob", "spo\x00alice\x00knows\x00carol"}
	if len(got) != len(want) {
		t.Fatalf("range matched %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPlanFilterLayouts(t *testing.T) {
	min, max := "m", "x"

	tests := []struct {
		name  string
		field graph.Position
		fixed graph.Triple
		index IndexName
		base  string
	}{
		{"subject p,o", graph.Subject, graph.Triple{Predicate: "P", Object: "O"}, IndexPOS, "pos\x00P\x00O\x00"},
		{"subject p", graph.Subject, graph.Triple{Predicate: "P"}, IndexPSO, "pso\x00P\x00"},
		{"subject o", graph.Subject, graph.Triple{Object: "O"}, IndexOSP, "osp\x00O\x00"},
		{"subject", graph.Subject, graph.Triple{}, IndexSPO, "spo\x00"},
		{"predicate s,o", graph.Predicate, graph.Triple{Subject: "S", Object: "O"}, IndexSOP, "sop\x00S\x00O\x00"},
		{"predicate s", graph.Predicate, graph.Triple{Subject: "S"}, IndexSPO, "spo\x00S\x00"},
		{"predicate o", graph.Predicate, graph.Triple{Object: "O"}, IndexOPS, "ops\x00O\x00"},
		{"predicate", graph.Predicate, graph.Triple{}, IndexPOS, "pos\x00"},
		{"object s,p", graph.Object, graph.Triple{Subject: "S", Predicate: "P"}, IndexSPO, "spo\x00S\x00P\x00"},
		{"object s", graph.Object, graph.Triple{Subject: "S"}, IndexSOP, "sop\x00S\x00"},
		{"object p", graph.Object, graph.Triple{Predicate: "P"}, IndexPOS, "pos\x00P\x00"},
		{"object", graph.Object, graph.Triple{}, IndexOSP, "osp\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanFilter(graph.Filter{Triple: tt.fixed, Field: tt.field, Min: &min, Max: &max})
			if err != nil {
				t.Fatalf("PlanFilter: %v", err)
			}
			if plan.Index != tt.index {
				t.Errorf("index = %s, want %s", plan.Index, tt.index)
			}
			if plan.Start != store.Inclusive(tt.base+"m") {
				t.Errorf("start = %q, want %q", plan.Start.Value, tt.base+"m")
			}
			if plan.End != store.Inclusive(tt.base+"x"+Separator+Sentinel) {
				t.Errorf("end = %q", plan.End.Value)
			}

			minOnly, err := PlanFilter(graph.Filter{Triple: tt.fixed, Field: tt.field, Min: &min})
			if err != nil {
				t.Fatalf("PlanFilter(min only): %v", err)
			}
			if minOnly.End.Value != tt.base+Sentinel {
				t.Errorf("open end = %q, want %q", minOnly.End.Value, tt.base+Sentinel)
			}

			maxOnly, err := PlanFilter(graph.Filter{Triple: tt.fixed, Field: tt.field, Max: &max})
			if err != nil {
				t.Fatalf("PlanFilter(max only): %v", err)
			}
			if maxOnly.Start.Value != tt.base {
				t.Errorf("open start = %q, want %q", maxOnly.Start.Value, tt.base)
			}
		})
	}
}

func TestPlanFilterSelectsRange(t *testing.T) {
	triples := []graph.Triple{
		graph.NewTriple("a", "age", "17"),
		graph.NewTriple("b", "age", "18"),
		graph.NewTriple("c", "age", "25"),
		graph.NewTriple("d", "age", "30"),
		graph.NewTriple("e", "height", "20"),
	}

	plan, err := PlanFilter(graph.Between(graph.Triple{Predicate: "age"}, graph.Object, "18", "25"))
	if err != nil {
		t.Fatalf("PlanFilter: %v", err)
	}

	var got []string
	for _, tr := range triples {
		for _, k := range GenKeys(tr) {
			if store.Contains(plan.Start, plan.End, k) {
				got = append(got, tr.Subject)
			}
		}
	}
	sort.Strings(got)
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("filter matched %v, want [b c]", got)
	}
}

func TestPlanFilterErrors(t *testing.T) {
	if _, err := PlanFilter(graph.Filter{Field: graph.Subject}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("missing bounds: got %v", err)
	}
	min := "a"
	if _, err := PlanFilter(graph.Filter{Field: "graph", Min: &min}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("unknown field: got %v", err)
	}
	bad := "a\xff"
	if _, err := PlanFilter(graph.Filter{Field: graph.Object, Min: &bad}); !errors.Is(err, ErrReservedByte) {
		t.Errorf("reserved byte in bound: got %v", err)
	}
}
