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
)

// Search evaluates statements left to right and returns the values each
// variable may take.
//
// Each statement's literal fields are answered by one range scan. A row
// survives only if, for every variable of the statement that earlier
// statements already bound, its value is in that variable's set; a
// variable used twice in one statement must see the same value at both
// positions. The statement's variables are then rebound to the values
// occurring in the surviving rows, which may be the empty set.
func (h *Hexastore) Search(ctx context.Context, statements []graph.Statement) (graph.Bindings, error) {
	return h.SearchWith(ctx, statements, nil)
}

// SearchWith is Search starting from pre-bound variables. The initial
// bindings are copied and constrain the first statement that uses them.
func (h *Hexastore) SearchWith(ctx context.Context, statements []graph.Statement, initial graph.Bindings) (graph.Bindings, error) {
	for i, st := range statements {
		if err := h.checkStatement(st); err != nil {
			return nil, fmt.Errorf("hexastore: search statement %d (%s): %w", i, st, err)
		}
	}

	bindings := make(graph.Bindings, len(initial))
	for name, vals := range initial {
		cp := make(graph.Values, len(vals))
		for v := range vals {
			cp.Add(v)
		}
		bindings[name] = cp
	}

	for i, st := range statements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := h.scanAll(ctx, st.Literals())
		if err != nil {
			return nil, fmt.Errorf("hexastore: search statement %d: %w", i, err)
		}

		vars := st.VariableFields()
		next := make(map[string]graph.Values, len(vars))
		for _, v := range vars {
			next[v.Name] = graph.NewValues()
		}

		kept := 0
		for _, row := range rows {
			if !admits(row, vars, bindings) {
				continue
			}
			kept++
			for pos, v := range vars {
				next[v.Name].Add(row.Get(pos))
			}
		}

		for name, vals := range next {
			bindings[name] = vals
		}
		h.debug("search statement", "index", i, "statement", st.String(), "rows", len(rows), "kept", kept)
	}

	return bindings, nil
}

// admits reports whether row agrees with the bindings so far and with
// itself wherever one variable appears at two positions.
func admits(row graph.Triple, vars map[graph.Position]*graph.Variable, bindings graph.Bindings) bool {
	seen := make(map[string]string, len(vars))
	for pos, v := range vars {
		val := row.Get(pos)
		if prev, ok := seen[v.Name]; ok && prev != val {
			return false
		}
		seen[v.Name] = val
		if bound, ok := bindings[v.Name]; ok && !bound.Has(val) {
			return false
		}
	}
	return true
}

// checkStatement validates a statement before any store call is made.
func (h *Hexastore) checkStatement(st graph.Statement) error {
	variables := 0
	for _, p := range graph.Positions {
		term := st.Term(p)
		switch {
		case term.IsVariable():
			v := term.Variable()
			if !h.scope.Owns(v) || v.Name == "" {
				return fmt.Errorf("%w: %s", ErrUnknownVariable, p)
			}
			variables++
		case term.IsLiteral():
			if term.Value() == "" {
				return fmt.Errorf("%w: empty %s", ErrInvalidStatement, p)
			}
		default:
			return fmt.Errorf("%w: %s is unset", ErrInvalidStatement, p)
		}
	}
	if variables == len(graph.Positions) {
		return ErrUnsupportedPattern
	}
	return index.ValidatePartial(st.Literals())
}
