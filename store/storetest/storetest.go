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

// Package storetest holds the behavioural contract every store.Store
// backend must satisfy. Backends call Run from their own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

// Factory opens a fresh, empty store for one subtest.
type Factory func(t *testing.T) store.Store

const set = "hexastore"

// Members shaped like hexastore keys: zero-byte separated segments.
var members = []string{
	"pos\x00age\x0017\x00a",
	"pos\x00age\x0018\x00b",
	"pos\x00age\x0025\x00c",
	"pos\x00age\x0030\x00d",
	"spo\x00a\x00age\x0017",
}

func seed(t *testing.T, s store.Store) {
	t.Helper()
	b := s.NewBatch()
	for _, m := range members {
		b.Insert(set, m)
	}
	n, err := b.Flush(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, len(members), n)
}

var (
	posStart = store.Inclusive("pos\x00age")
	posEnd   = store.Inclusive("pos\x00age\x00\xff")
)

// Run executes the contract suite against stores produced by open.
func Run(t *testing.T, open Factory) {
	ctx := context.Background()

	t.Run("InsertIsIdempotent", func(t *testing.T) {
		s := open(t)
		seed(t, s)

		b := s.NewBatch()
		b.Insert(set, members[0])
		b.Insert(set, members[0])
		assert.Equal(t, 2, b.Len())
		n, err := b.Flush(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)
		assert.Equal(t, 0, b.Len(), "flush should empty the batch")

		count, err := s.Count(ctx, set, store.Inclusive(""), store.Inclusive("\xff"))
		require.NoError(t, err)
		assert.EqualValues(t, len(members), count)
	})

	t.Run("IsMember", func(t *testing.T) {
		s := open(t)
		seed(t, s)

		ok, err := s.IsMember(ctx, set, members[1])
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.IsMember(ctx, set, "pos\x00age\x0018")
		require.NoError(t, err)
		assert.False(t, ok, "prefix of a member is not a member")

		ok, err = s.IsMember(ctx, "other", members[1])
		require.NoError(t, err)
		assert.False(t, ok, "sets are isolated")
	})

	t.Run("RangeForward", func(t *testing.T) {
		s := open(t)
		seed(t, s)

		got, err := s.Range(ctx, set, posStart, posEnd, store.ScanOptions{})
		require.NoError(t, err)
		assert.Equal(t, members[:4], got)

		got, err = s.Range(ctx, set, posStart, posEnd, store.ScanOptions{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, members[1:3], got)
	})

	t.Run("RangeBackward", func(t *testing.T) {
		s := open(t)
		seed(t, s)

		got, err := s.Range(ctx, set, posStart, posEnd, store.ScanOptions{Direction: store.Backward})
		require.NoError(t, err)
		assert.Equal(t, []string{members[3], members[2], members[1], members[0]}, got)

		got, err = s.Range(ctx, set, posStart, posEnd, store.ScanOptions{Direction: store.Backward, Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{members[2], members[1]}, got)
	})

	t.Run("ExclusiveBounds", func(t *testing.T) {
		s := open(t)
		seed(t, s)

		got, err := s.Range(ctx, set, store.Exclusive(members[0]), store.Exclusive(members[3]), store.ScanOptions{})
		require.NoError(t, err)
		assert.Equal(t, members[1:3], got)

		got, err = s.Range(ctx, set, store.Exclusive(members[0]), store.Exclusive(members[3]), store.ScanOptions{Direction: store.Backward})
		require.NoError(t, err)
		assert.Equal(t, []string{members[2], members[1]}, got)

		n, err := s.Count(ctx, set, store.Exclusive(members[0]), posEnd)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
	})

	t.Run("EmptyRange", func(t *testing.T) {
		s := open(t)
		seed(t, s)

		got, err := s.Range(ctx, set, store.Inclusive("zzz"), store.Inclusive("zzz\xff"), store.ScanOptions{})
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = s.Range(ctx, set, posStart, posEnd, store.ScanOptions{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, got)

		n, err := s.Count(ctx, "missing", posStart, posEnd)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)
	})

	t.Run("RemoveAndRemoveRange", func(t *testing.T) {
		s := open(t)
		seed(t, s)

		b := s.NewBatch()
		b.Remove(set, members[4])
		b.Remove(set, "absent")
		b.RemoveRange(set, store.Inclusive("pos\x00age\x0018"), store.Inclusive("pos\x00age\x0025\x00\xff"))
		n, err := b.Flush(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		got, err := s.Range(ctx, set, store.Inclusive(""), store.Inclusive("\xff"), store.ScanOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{members[0], members[3]}, got)
	})

	t.Run("BatchSeesItsOwnWrites", func(t *testing.T) {
		s := open(t)

		b := s.NewBatch()
		b.Insert(set, "a")
		b.Remove(set, "a")
		b.Insert(set, "b")
		n, err := b.Flush(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		got, err := s.Range(ctx, set, store.Inclusive(""), store.Inclusive("\xff"), store.ScanOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, got)
	})
}
