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

package graph

// Filter selects triples whose Field lies within [Min, Max] while the
// other fields of Triple are held fixed.
//
// A nil Min means "from the lowest value" and a nil Max means "to the
// highest value"; at least one of them must be set. Any value Triple
// carries at Field itself is ignored.
type Filter struct {
	Triple
	Field Position
	Min   *string
	Max   *string
}

// AtLeast builds a filter for values of field greater than or equal to min.
func AtLeast(fixed Triple, field Position, min string) Filter {
	return Filter{Triple: fixed, Field: field, Min: &min}
}

// AtMost builds a filter for values of field less than or equal to max.
func AtMost(fixed Triple, field Position, max string) Filter {
	return Filter{Triple: fixed, Field: field, Max: &max}
}

// Between builds a filter for values of field within [min, max].
func Between(fixed Triple, field Position, min, max string) Filter {
	return Filter{Triple: fixed, Field: field, Min: &min, Max: &max}
}

// Fixed returns the partial triple of fields held constant by the filter.
func (f Filter) Fixed() Triple {
	return f.Triple.Without(f.Field)
}
