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

// Package index encodes triples into hexastore keys and plans the
// lexicographic ranges that answer partial-triple queries and filters.
//
// Every triple is stored six times, once per permutation of its fields:
//
//	tag SEP field1 SEP field2 SEP field3
//
// where tag is one of spo, sop, pos, pso, ops, osp and the fields follow
// the tag's order. SEP is a zero byte and the range sentinel is 0xFF, so
// neither may appear in a value.
package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/graph"
)

// IndexName represents the permutation tag of a hexastore index.
type IndexName string

const (
	IndexSPO IndexName = "spo"
	IndexSOP IndexName = "sop"
	IndexPOS IndexName = "pos"
	IndexPSO IndexName = "pso"
	IndexOPS IndexName = "ops"
	IndexOSP IndexName = "osp"
)

// IndexDefs defines the order of fields for each index.
var IndexDefs = map[IndexName][3]graph.Position{
	IndexSPO: {graph.Subject, graph.Predicate, graph.Object},
	IndexSOP: {graph.Subject, graph.Object, graph.Predicate},
	IndexPOS: {graph.Predicate, graph.Object, graph.Subject},
	IndexPSO: {graph.Predicate, graph.Subject, graph.Object},
	IndexOPS: {graph.Object, graph.Predicate, graph.Subject},
	IndexOSP: {graph.Object, graph.Subject, graph.Predicate},
}

// AllIndexes returns all index names in a consistent order.
var AllIndexes = []IndexName{IndexSPO, IndexSOP, IndexPOS, IndexPSO, IndexOPS, IndexOSP}

const (
	// Separator is placed between key segments.
	Separator = "\x00"
	// Sentinel sorts after every byte a value may contain.
	Sentinel = "\xff"
)

var (
	// ErrEmptyValue is returned when a stored field is empty.
	ErrEmptyValue = errors.New("index: empty value")
	// ErrReservedByte is returned when a value contains the separator or sentinel byte.
	ErrReservedByte = errors.New("index: value contains a reserved byte")
	// ErrMalformedKey is returned when a key does not decode into a triple.
	ErrMalformedKey = errors.New("index: malformed key")
)

// Valid reports whether name is one of the six permutation tags.
func (name IndexName) Valid() bool {
	_, ok := IndexDefs[name]
	return ok
}

// ValidateValue rejects values that would corrupt key ordering.
func ValidateValue(value string) error {
	if value == "" {
		return ErrEmptyValue
	}
	// Match bytes, not runes: "\xff" alone is not valid UTF-8.
	if strings.IndexByte(value, Separator[0]) >= 0 || strings.IndexByte(value, Sentinel[0]) >= 0 {
		return fmt.Errorf("%w: %q", ErrReservedByte, value)
	}
	return nil
}

// ValidateTriple checks every field of a complete triple.
func ValidateTriple(t graph.Triple) error {
	for _, p := range graph.Positions {
		if err := ValidateValue(t.Get(p)); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// ValidatePartial checks the fields a partial triple specifies.
func ValidatePartial(t graph.Triple) error {
	for _, p := range graph.Positions {
		if !t.Has(p) {
			continue
		}
		if err := ValidateValue(t.Get(p)); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// GenKey generates the key for a single index from a complete triple.
func GenKey(index IndexName, triple graph.Triple) string {
	def := IndexDefs[index]
	var b strings.Builder
	b.Grow(len(index) + len(triple.Subject) + len(triple.Predicate) + len(triple.Object) + 3)

	b.WriteString(string(index))
	for _, field := range def {
		b.WriteString(Separator)
		b.WriteString(triple.Get(field))
	}
	return b.String()
}

// GenKeys generates keys for all six indexes from a triple.
func GenKeys(triple graph.Triple) [6]string {
	var keys [6]string
	for i, index := range AllIndexes {
		keys[i] = GenKey(index, triple)
	}
	return keys
}

// prefix joins a tag and the given leading values.
func prefix(index IndexName, values ...string) string {
	var b strings.Builder
	b.WriteString(string(index))
	for _, v := range values {
		b.WriteString(Separator)
		b.WriteString(v)
	}
	return b.String()
}

// TagOf returns the permutation tag a key was built under.
func TagOf(key string) (IndexName, error) {
	tag, _, _ := strings.Cut(key, Separator)
	name := IndexName(tag)
	if !name.Valid() {
		return "", fmt.Errorf("%w: unknown tag %q", ErrMalformedKey, tag)
	}
	return name, nil
}

// ParseKey decodes a key produced by GenKey back into its triple,
// regardless of which permutation produced it.
func ParseKey(key string) (graph.Triple, error) {
	parts := strings.Split(key, Separator)
	if len(parts) != 4 {
		return graph.Triple{}, fmt.Errorf("%w: %q has %d segments", ErrMalformedKey, key, len(parts))
	}

	index := IndexName(parts[0])
	def, ok := IndexDefs[index]
	if !ok {
		return graph.Triple{}, fmt.Errorf("%w: unknown tag %q", ErrMalformedKey, parts[0])
	}

	var t graph.Triple
	for i, field := range def {
		if parts[i+1] == "" {
			return graph.Triple{}, fmt.Errorf("%w: empty %s in %q", ErrMalformedKey, field, key)
		}
		t.Set(field, parts[i+1])
	}
	return t, nil
}
