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

// Package memstore provides an in-memory ordered-set store implementation
// that satisfies the hexastore store.Store interface.
// This is useful for testing and for embedding a hexastore without running
// Redis or opening a database directory.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

// MemStore is an in-memory implementation of store.Store.
// Each set is a sorted slice of members guarded by a single lock.
type MemStore struct {
	mu     sync.RWMutex
	sets   map[string][]string
	closed bool
}

// New creates a new in-memory store.
func New() *MemStore {
	return &MemStore{
		sets: make(map[string][]string),
	}
}

// IsMember reports whether member is in set.
func (m *MemStore) IsMember(ctx context.Context, set, member string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, store.ErrClosed
	}

	members := m.sets[set]
	i := sort.SearchStrings(members, member)
	return i < len(members) && members[i] == member, nil
}

// window returns the half-open index range [lo, hi) of members within bounds.
func window(members []string, start, end store.Bound) (int, int) {
	lo := sort.SearchStrings(members, start.SeekKey())
	hi := sort.SearchStrings(members, end.LimitKey())
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Range returns the members of set within [start, end].
func (m *MemStore) Range(ctx context.Context, set string, start, end store.Bound, opts store.ScanOptions) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, store.ErrClosed
	}

	members := m.sets[set]
	lo, hi := window(members, start, end)

	n := hi - lo - opts.Offset
	if n <= 0 {
		return []string{}, nil
	}
	if opts.Limit > 0 && n > opts.Limit {
		n = opts.Limit
	}

	// Copy out so later writes cannot mutate returned results
	result := make([]string, n)
	if opts.Direction == store.Backward {
		for i := range result {
			result[i] = members[hi-1-opts.Offset-i]
		}
	} else {
		copy(result, members[lo+opts.Offset:])
	}
	return result, nil
}

// Count returns the number of members of set within [start, end].
func (m *MemStore) Count(ctx context.Context, set string, start, end store.Bound) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, store.ErrClosed
	}

	lo, hi := window(m.sets[set], start, end)
	return int64(hi - lo), nil
}

// NewBatch opens a batch applied atomically on Flush.
func (m *MemStore) NewBatch() store.Batch {
	return &batch{m: m}
}

// Close closes the store.
func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.sets = nil
	return nil
}

// Len returns the number of members in set. Tests use it to check how many
// index keys a write left behind; the Store interface has no equivalent.
func (m *MemStore) Len(set string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sets[set])
}

// batch replays its op log under the store's write lock.
type batch struct {
	store.OpLog
	m *MemStore
}

func (b *batch) Flush(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	b.m.mu.Lock()
	defer b.m.mu.Unlock()

	if b.m.closed {
		return 0, store.ErrClosed
	}

	var changed int64
	for _, op := range b.Ops() {
		members := b.m.sets[op.Set]
		switch op.Kind {
		case store.OpInsert:
			i := sort.SearchStrings(members, op.Member)
			if i < len(members) && members[i] == op.Member {
				continue
			}
			members = append(members, "")
			copy(members[i+1:], members[i:])
			members[i] = op.Member
			changed++
		case store.OpRemove:
			i := sort.SearchStrings(members, op.Member)
			if i >= len(members) || members[i] != op.Member {
				continue
			}
			members = append(members[:i], members[i+1:]...)
			changed++
		case store.OpRemoveRange:
			lo, hi := window(members, op.Start, op.End)
			members = append(members[:lo], members[hi:]...)
			changed += int64(hi - lo)
		}
		if len(members) == 0 {
			delete(b.m.sets, op.Set)
		} else {
			b.m.sets[op.Set] = members
		}
	}

	b.Reset()
	return changed, nil
}
