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
	"fmt"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/graph"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

// ErrInvalidFilter is returned when a filter bounds neither end of its range
// or names an unknown field.
var ErrInvalidFilter = errors.New("index: invalid filter")

// Plan is the outcome of range planning: either a single exact key or a
// start/end range over one permutation.
type Plan struct {
	Index IndexName
	// Exact is set when all three fields were supplied; Key is then the
	// only candidate and Start/End are unused.
	Exact bool
	Key   string
	Start store.Bound
	End   store.Bound
}

// PlanQuery chooses the permutation whose leading positions are the fields
// supplied by partial and returns the range covering every key sharing them.
//
//	{s,p,o} exact spo    {s,p} spo    {s,o} osp    {p,o} pos
//	{s}     spo          {p}   pos    {o}   osp    {}    spo
func PlanQuery(partial graph.Triple) (Plan, error) {
	if err := ValidatePartial(partial); err != nil {
		return Plan{}, err
	}

	s, p, o := partial.Subject, partial.Predicate, partial.Object
	hasS, hasP, hasO := s != "", p != "", o != ""

	var (
		index  IndexName
		fields []string
	)
	switch {
	case hasS && hasP && hasO:
		key := GenKey(IndexSPO, partial)
		return Plan{Index: IndexSPO, Exact: true, Key: key, Start: store.Inclusive(key)}, nil
	case hasS && hasP:
		index, fields = IndexSPO, []string{s, p}
	case hasS && hasO:
		index, fields = IndexOSP, []string{o, s}
	case hasP && hasO:
		index, fields = IndexPOS, []string{p, o}
	case hasS:
		index, fields = IndexSPO, []string{s}
	case hasP:
		index, fields = IndexPOS, []string{p}
	case hasO:
		index, fields = IndexOSP, []string{o}
	default:
		index = IndexSPO
	}

	start := prefix(index, fields...)
	return Plan{
		Index: index,
		Start: store.Inclusive(start),
		End:   store.Inclusive(start + Separator + Sentinel),
	}, nil
}

// filterLayout picks the permutation that puts the filter's fixed fields
// first and the bounded field right after them.
//
//	bounded    fixed      index
//	subject    p,o        pos
//	subject    p          pso
//	subject    o          osp
//	subject    -          spo
//	predicate  s,o        sop
//	predicate  s          spo
//	predicate  o          ops
//	predicate  -          pos
//	object     s,p        spo
//	object     s          sop
//	object     p          pos
//	object     -          osp
func filterLayout(f graph.Filter) (IndexName, []string, error) {
	s, p, o := f.Subject, f.Predicate, f.Object

	switch f.Field {
	case graph.Subject:
		switch hasP, hasO := p != "", o != ""; {
		case hasP && hasO:
			return IndexPOS, []string{p, o}, nil
		case hasP:
			return IndexPSO, []string{p}, nil
		case hasO:
			return IndexOSP, []string{o}, nil
		default:
			return IndexSPO, nil, nil
		}
	case graph.Predicate:
		switch hasS, hasO := s != "", o != ""; {
		case hasS && hasO:
			return IndexSOP, []string{s, o}, nil
		case hasS:
			return IndexSPO, []string{s}, nil
		case hasO:
			return IndexOPS, []string{o}, nil
		default:
			return IndexPOS, nil, nil
		}
	case graph.Object:
		switch hasS, hasP := s != "", p != ""; {
		case hasS && hasP:
			return IndexSPO, []string{s, p}, nil
		case hasS:
			return IndexSOP, []string{s}, nil
		case hasP:
			return IndexPOS, []string{p}, nil
		default:
			return IndexOSP, nil, nil
		}
	default:
		return "", nil, fmt.Errorf("%w: unknown field %q", ErrInvalidFilter, f.Field)
	}
}

// PlanFilter returns the range holding every triple whose bounded field lies
// within [Min, Max] while the remaining fields match the filter's fixed ones.
// A missing Min starts at the empty string and a missing Max runs to the
// sentinel.
func PlanFilter(f graph.Filter) (Plan, error) {
	if f.Min == nil && f.Max == nil {
		return Plan{}, fmt.Errorf("%w: %s has neither min nor max", ErrInvalidFilter, f.Field)
	}

	fixed := f.Fixed()
	if err := ValidatePartial(fixed); err != nil {
		return Plan{}, err
	}
	for _, bound := range []*string{f.Min, f.Max} {
		if bound != nil && *bound != "" {
			if err := ValidateValue(*bound); err != nil {
				return Plan{}, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
			}
		}
	}

	index, fields, err := filterLayout(graph.Filter{Triple: fixed, Field: f.Field})
	if err != nil {
		return Plan{}, err
	}

	base := prefix(index, fields...) + Separator

	start := base
	if f.Min != nil {
		start += *f.Min
	}

	end := base + Sentinel
	if f.Max != nil {
		end = base + *f.Max + Separator + Sentinel
	}

	return Plan{
		Index: index,
		Start: store.Inclusive(start),
		End:   store.Inclusive(end),
	}, nil
}
