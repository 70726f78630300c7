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

import "fmt"

// Position names one of the three fields of a triple.
type Position string

const (
	Subject   Position = "subject"
	Predicate Position = "predicate"
	Object    Position = "object"
)

// Positions lists the three fields in canonical order.
var Positions = []Position{Subject, Predicate, Object}

// Valid reports whether p is one of Subject, Predicate or Object.
func (p Position) Valid() bool {
	return p == Subject || p == Predicate || p == Object
}

// Triple represents a subject-predicate-object edge in the graph.
//
// When a Triple is used as a query, an empty field means "unspecified".
// Stored triples always have all three fields set.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// NewTriple creates a new Triple.
func NewTriple(subject, predicate, object string) Triple {
	return Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

// Get returns the value at the specified position.
func (t Triple) Get(p Position) string {
	switch p {
	case Subject:
		return t.Subject
	case Predicate:
		return t.Predicate
	case Object:
		return t.Object
	default:
		return ""
	}
}

// Set sets the value at the specified position.
func (t *Triple) Set(p Position, value string) {
	switch p {
	case Subject:
		t.Subject = value
	case Predicate:
		t.Predicate = value
	case Object:
		t.Object = value
	}
}

// Has reports whether the field at p is specified.
func (t Triple) Has(p Position) bool {
	return t.Get(p) != ""
}

// Complete returns true if all three fields are set.
func (t Triple) Complete() bool {
	return t.Subject != "" && t.Predicate != "" && t.Object != ""
}

// Without returns a copy of t with the field at p cleared.
func (t Triple) Without(p Position) Triple {
	t.Set(p, "")
	return t
}

// String returns a human-readable representation of the triple.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.Subject, t.Predicate, t.Object)
}
