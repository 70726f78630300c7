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
)

// Navigator provides a fluent API for traversing the graph.
// It builds a chain of search statements by following edges in and out,
// and runs them through Search.
//
// Example usage:
//
//	friendsLikes, err := hx.Nav("alice").ArchOut("knows").ArchOut("likes").Values(ctx)
//
// This finds all things liked by people that alice knows.
type Navigator struct {
	hx         *Hexastore
	statements []graph.Statement
	initial    graph.Bindings
	last       graph.Term
	varCounter int
}

// Nav creates a new Navigator starting from the given vertex.
// If start is empty, a new variable is created as the starting point.
func (h *Hexastore) Nav(start string) *Navigator {
	nav := &Navigator{
		hx:      h,
		initial: make(graph.Bindings),
	}
	return nav.Go(start)
}

// nextVar generates the next anonymous variable for this navigator,
// skipping names that As has already given out.
func (nav *Navigator) nextVar() *graph.Variable {
	for {
		name := fmt.Sprintf("x%d", nav.varCounter)
		nav.varCounter++
		if !nav.uses(name) {
			return nav.hx.V(name)
		}
	}
}

func (nav *Navigator) uses(name string) bool {
	if _, ok := nav.initial[name]; ok {
		return true
	}
	if v := nav.last.Variable(); v != nil && v.Name == name {
		return true
	}
	for _, st := range nav.statements {
		for _, v := range st.VariableFields() {
			if v.Name == name {
				return true
			}
		}
	}
	return false
}

// Go moves the navigator to a new vertex.
// An empty vertex moves to a fresh variable.
func (nav *Navigator) Go(vertex string) *Navigator {
	if vertex == "" {
		nav.last = graph.Var(nav.nextVar())
	} else {
		nav.last = graph.Lit(vertex)
	}
	return nav
}

// ArchOut follows an outgoing edge with the given predicate.
// The current position becomes the subject, and navigates to the object.
func (nav *Navigator) ArchOut(predicate string) *Navigator {
	next := graph.Var(nav.nextVar())
	nav.statements = append(nav.statements, graph.NewStatement(nav.last, graph.Lit(predicate), next))
	nav.last = next
	return nav
}

// ArchIn follows an incoming edge with the given predicate.
// The current position becomes the object, and navigates to the subject.
func (nav *Navigator) ArchIn(predicate string) *Navigator {
	next := graph.Var(nav.nextVar())
	nav.statements = append(nav.statements, graph.NewStatement(next, graph.Lit(predicate), nav.last))
	nav.last = next
	return nav
}

// As names the current position so its values can be read from Bindings.
// It has no effect when the current position is a literal.
func (nav *Navigator) As(name string) *Navigator {
	v := nav.last.Variable()
	if v == nil || name == "" {
		return nav
	}
	renamed := nav.hx.V(name)
	for i, st := range nav.statements {
		nav.statements[i] = renameIn(st, v, renamed)
	}
	if vals, ok := nav.initial[v.Name]; ok {
		delete(nav.initial, v.Name)
		nav.initial[name] = vals
	}
	nav.last = graph.Var(renamed)
	return nav
}

func renameIn(st graph.Statement, from, to *graph.Variable) graph.Statement {
	swap := func(t graph.Term) graph.Term {
		if t.Variable() == from {
			return graph.Var(to)
		}
		return t
	}
	return graph.NewStatement(swap(st.Subject), swap(st.Predicate), swap(st.Object))
}

// Bind constrains the current position's variable to value. Binding the
// same position again adds to the allowed values.
func (nav *Navigator) Bind(value string) *Navigator {
	v := nav.last.Variable()
	if v == nil || value == "" {
		return nav
	}
	vals, ok := nav.initial[v.Name]
	if !ok {
		vals = graph.NewValues()
		nav.initial[v.Name] = vals
	}
	vals.Add(value)
	return nav
}

// Statements returns a copy of the statements built so far.
func (nav *Navigator) Statements() []graph.Statement {
	out := make([]graph.Statement, len(nav.statements))
	copy(out, nav.statements)
	return out
}

// Bindings runs the navigation and returns every variable's values.
// With no edges followed it returns the initial bindings.
func (nav *Navigator) Bindings(ctx context.Context) (graph.Bindings, error) {
	return nav.hx.SearchWith(ctx, nav.statements, nav.initial)
}

// Values returns the sorted distinct values at the current position.
// A literal position yields itself.
func (nav *Navigator) Values(ctx context.Context) ([]string, error) {
	if nav.last.IsLiteral() {
		return []string{nav.last.Value()}, nil
	}
	bindings, err := nav.Bindings(ctx)
	if err != nil {
		return nil, err
	}
	vals := bindings.Sorted(nav.last.Variable().Name)
	if vals == nil {
		vals = []string{}
	}
	return vals, nil
}

// Clone creates a copy of this navigator that can be modified independently.
func (nav *Navigator) Clone() *Navigator {
	newNav := &Navigator{
		hx:         nav.hx,
		statements: nav.Statements(),
		initial:    make(graph.Bindings, len(nav.initial)),
		last:       nav.last,
		varCounter: nav.varCounter,
	}
	for name, vals := range nav.initial {
		newNav.initial[name] = graph.NewValues(vals.Sorted()...)
	}
	return newNav
}
