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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClaudiuCeia/redis-hexastore/memstore"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/graph"
)

func setupPeople(t *testing.T) *Hexastore {
	t.Helper()
	hx, _ := setupTestStore(t)
	mustSave(t, hx,
		graph.NewTriple("Adrian", "likes", "beer"),
		graph.NewTriple("Ana", "likes", "beer"),
		graph.NewTriple("Adrian", "lives", "Romania"),
		graph.NewTriple("Ana", "lives", "Germany"),
		graph.NewTriple("Erika", "lives", "Germany"),
	)
	return hx
}

func TestSearch_Join(t *testing.T) {
	hx := setupPeople(t)
	who, what, where := hx.V("who"), hx.V("what"), hx.V("where")

	bindings, err := hx.Search(context.Background(), []graph.Statement{
		graph.NewStatement(graph.Var(who), graph.Lit("likes"), graph.Var(what)),
		graph.NewStatement(graph.Var(who), graph.Lit("lives"), graph.Var(where)),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Adrian", "Ana"}, bindings.Sorted("who"))
	assert.Equal(t, []string{"beer"}, bindings.Sorted("what"))
	assert.Equal(t, []string{"Germany", "Romania"}, bindings.Sorted("where"))
	assert.Equal(t, []string{"what", "where", "who"}, bindings.Names())
}

func TestSearch_SingleStatement(t *testing.T) {
	hx := setupPeople(t)
	who := hx.V("who")

	bindings, err := hx.Search(context.Background(), []graph.Statement{
		graph.NewStatement(graph.Var(who), graph.Lit("lives"), graph.Lit("Germany")),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Erika"}, bindings.Sorted("who"))
}

func TestSearch_ConjunctiveFilter(t *testing.T) {
	hx := setupPeople(t)
	who, where := hx.V("who"), hx.V("where")

	bindings, err := hx.Search(context.Background(), []graph.Statement{
		graph.NewStatement(graph.Var(who), graph.Lit("likes"), graph.Lit("beer")),
		graph.NewStatement(graph.Lit("Erika"), graph.Lit("lives"), graph.Var(where)),
		graph.NewStatement(graph.Var(who), graph.Lit("lives"), graph.Var(where)),
	})
	require.NoError(t, err)

	// Adrian matches who but not where; Erika matches where but not who
	assert.Equal(t, []string{"Ana"}, bindings.Sorted("who"))
	assert.Equal(t, []string{"Germany"}, bindings.Sorted("where"))
}

func TestSearch_RepeatedVariable(t *testing.T) {
	hx, _ := setupTestStore(t)
	mustSave(t, hx,
		graph.NewTriple("a", "same", "a"),
		graph.NewTriple("a", "same", "b"),
		graph.NewTriple("c", "same", "c"),
	)
	x := hx.V("x")

	bindings, err := hx.Search(context.Background(), []graph.Statement{
		graph.NewStatement(graph.Var(x), graph.Lit("same"), graph.Var(x)),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, bindings.Sorted("x"))
}

func TestSearch_EmptyResultBindsEmptySet(t *testing.T) {
	hx := setupPeople(t)
	who, where := hx.V("who"), hx.V("where")

	bindings, err := hx.Search(context.Background(), []graph.Statement{
		graph.NewStatement(graph.Var(who), graph.Lit("likes"), graph.Lit("wine")),
		graph.NewStatement(graph.Var(who), graph.Lit("lives"), graph.Var(where)),
	})
	require.NoError(t, err)

	assert.True(t, bindings.Bound("who"))
	assert.True(t, bindings.Bound("where"))
	assert.Empty(t, bindings.Sorted("who"))
	assert.Empty(t, bindings.Sorted("where"))
}

func TestSearch_EmptyStatements(t *testing.T) {
	hx := setupPeople(t)

	bindings, err := hx.Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, bindings)
}

func TestSearchWith_InitialBindings(t *testing.T) {
	hx := setupPeople(t)
	who, where := hx.V("who"), hx.V("where")
	initial := graph.Bindings{"who": graph.NewValues("Ana")}

	bindings, err := hx.SearchWith(context.Background(), []graph.Statement{
		graph.NewStatement(graph.Var(who), graph.Lit("lives"), graph.Var(where)),
	}, initial)
	require.NoError(t, err)

	assert.Equal(t, []string{"Germany"}, bindings.Sorted("where"))
	assert.Len(t, initial["who"], 1, "initial bindings must not be modified")
}

func TestSearch_Errors(t *testing.T) {
	hx := setupPeople(t)
	ctx := context.Background()
	x, y, z := hx.V("x"), hx.V("y"), hx.V("z")
	foreign := New(memstore.New()).V("x")

	tests := []struct {
		name string
		st   graph.Statement
		want error
	}{
		{"all variables", graph.NewStatement(graph.Var(x), graph.Var(y), graph.Var(z)), ErrUnsupportedPattern},
		{"foreign variable", graph.NewStatement(graph.Var(foreign), graph.Lit("likes"), graph.Var(y)), ErrUnknownVariable},
		{"zero variable", graph.NewStatement(graph.Var(&graph.Variable{Name: "x"}), graph.Lit("likes"), graph.Var(y)), ErrUnknownVariable},
		{"unset term", graph.NewStatement(graph.Term{}, graph.Lit("likes"), graph.Var(y)), ErrInvalidStatement},
		{"nil variable", graph.NewStatement(graph.Var(nil), graph.Lit("likes"), graph.Var(y)), ErrInvalidStatement},
		{"empty literal", graph.NewStatement(graph.Var(x), graph.Lit(""), graph.Var(y)), ErrInvalidStatement},
		{"reserved byte", graph.NewStatement(graph.Var(x), graph.Lit("li\x00kes"), graph.Var(y)), ErrReservedByte},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hx.Search(ctx, []graph.Statement{tt.st})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSearch_ValidatesBeforeScanning(t *testing.T) {
	hx := setupPeople(t)
	require.NoError(t, hx.Close())
	x, y, z := hx.V("x"), hx.V("y"), hx.V("z")

	_, err := hx.Search(context.Background(), []graph.Statement{
		graph.NewStatement(graph.Var(x), graph.Lit("likes"), graph.Var(y)),
		graph.NewStatement(graph.Var(x), graph.Var(y), graph.Var(z)),
	})
	assert.ErrorIs(t, err, ErrUnsupportedPattern)
	assert.NotErrorIs(t, err, ErrClosed)
}

func TestSearch_Cancelled(t *testing.T) {
	hx := setupPeople(t)
	x := hx.V("x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hx.Search(ctx, []graph.Statement{
		graph.NewStatement(graph.Var(x), graph.Lit("likes"), graph.Lit("beer")),
	})
	assert.ErrorIs(t, err, context.Canceled)
}
