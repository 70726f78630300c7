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

import "sort"

// Variable is a named placeholder in a search statement. Variables are
// minted by a Scope and are only meaningful to searches run in that scope.
type Variable struct {
	// Name is the key the variable's values are reported under.
	Name  string `json:"name"`
	scope *Scope
}

// Scope mints variables. A search rejects variables minted elsewhere.
type Scope struct {
	_ byte // non-zero size so distinct scopes never share an address
}

// NewScope returns a fresh variable scope.
func NewScope() *Scope {
	return &Scope{}
}

// V creates a Variable owned by this scope.
func (s *Scope) V(name string) *Variable {
	return &Variable{Name: name, scope: s}
}

// Owns reports whether v was minted by this scope.
func (s *Scope) Owns(v *Variable) bool {
	return v != nil && v.scope != nil && v.scope == s
}

// Values is the set of distinct literals a variable may take.
type Values map[string]struct{}

// NewValues creates a value set holding vals.
func NewValues(vals ...string) Values {
	set := make(Values, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}

// Add inserts v into the set.
func (v Values) Add(val string) {
	v[val] = struct{}{}
}

// Has reports whether val is in the set.
func (v Values) Has(val string) bool {
	_, ok := v[val]
	return ok
}

// Sorted returns the members in ascending order.
func (v Values) Sorted() []string {
	out := make([]string, 0, len(v))
	for val := range v {
		out = append(out, val)
	}
	sort.Strings(out)
	return out
}

// Bindings maps variable names to their materialized value sets.
type Bindings map[string]Values

// Bound reports whether name has been materialized, even to an empty set.
func (b Bindings) Bound(name string) bool {
	_, ok := b[name]
	return ok
}

// Sorted returns the sorted values bound to name, or nil if unbound.
func (b Bindings) Sorted(name string) []string {
	vals, ok := b[name]
	if !ok {
		return nil
	}
	return vals.Sorted()
}

// Names returns the bound variable names in ascending order.
func (b Bindings) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
