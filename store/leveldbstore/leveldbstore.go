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

// Package leveldbstore implements store.Store on LevelDB.
//
// A member of set is kept as the LevelDB key "set \x00 member" with an
// empty value, so LevelDB's bytewise key order is the set order.
package leveldbstore

import (
	"context"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

// Store is a LevelDB-backed store.Store.
type Store struct {
	ldb   *leveldb.DB
	owned bool
}

// Open opens or creates a LevelDB database at the specified path.
func Open(path string, o *opt.Options) (*Store, error) {
	ldb, err := leveldb.OpenFile(path, o)
	if err != nil {
		return nil, fmt.Errorf("leveldbstore: open %s: %w", path, err)
	}
	return &Store{ldb: ldb, owned: true}, nil
}

// OpenMemory opens a LevelDB database held entirely in memory.
func OpenMemory() (*Store, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("leveldbstore: open memory: %w", err)
	}
	return &Store{ldb: ldb, owned: true}, nil
}

// New wraps an existing LevelDB instance. Close does not close it.
// This is useful for custom LevelDB configurations.
func New(ldb *leveldb.DB) *Store {
	return &Store{ldb: ldb}
}

func checkSet(set string) error {
	if !store.ValidSet(set) {
		return fmt.Errorf("%w: %q", store.ErrInvalidSet, set)
	}
	return nil
}

func keyRange(set string, start, end store.Bound) *util.Range {
	return &util.Range{
		Start: store.MemberKey(set, start.SeekKey()),
		Limit: store.MemberKey(set, end.LimitKey()),
	}
}

// IsMember reports whether member is in set.
func (s *Store) IsMember(ctx context.Context, set, member string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := checkSet(set); err != nil {
		return false, err
	}
	return s.ldb.Has(store.MemberKey(set, member), nil)
}

// Range returns the members of set within [start, end].
func (s *Store) Range(ctx context.Context, set string, start, end store.Bound, opts store.ScanOptions) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkSet(set); err != nil {
		return nil, err
	}

	iter := s.ldb.NewIterator(keyRange(set, start, end), nil)
	defer iter.Release()

	first, next := iter.First, iter.Next
	if opts.Direction == store.Backward {
		first, next = iter.Last, iter.Prev
	}

	result := []string{}
	skipped := 0
	for ok := first(); ok; ok = next() {
		if skipped < opts.Offset {
			skipped++
			continue
		}
		result = append(result, store.MemberFromKey(set, iter.Key()))
		if opts.Limit > 0 && len(result) >= opts.Limit {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of members of set within [start, end].
func (s *Store) Count(ctx context.Context, set string, start, end store.Bound) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := checkSet(set); err != nil {
		return 0, err
	}

	iter := s.ldb.NewIterator(keyRange(set, start, end), nil)
	defer iter.Release()

	var n int64
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

// NewBatch opens a batch applied inside one LevelDB transaction.
func (s *Store) NewBatch() store.Batch {
	return &batch{ldb: s.ldb}
}

// Close closes the database if this store opened it.
func (s *Store) Close() error {
	if s.owned {
		return s.ldb.Close()
	}
	return nil
}

type batch struct {
	store.OpLog
	ldb *leveldb.DB
}

func (b *batch) Flush(ctx context.Context) (int64, error) {
	ops := b.Ops()
	b.Reset()
	if len(ops) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	for _, op := range ops {
		if err := checkSet(op.Set); err != nil {
			return 0, err
		}
	}

	tr, err := b.ldb.OpenTransaction()
	if err != nil {
		return 0, err
	}

	changed, err := apply(tr, ops)
	if err != nil {
		tr.Discard()
		return 0, err
	}
	if err := tr.Commit(); err != nil {
		return 0, err
	}
	return changed, nil
}

// apply replays ops in order; transaction reads see earlier writes.
func apply(tr *leveldb.Transaction, ops []store.Op) (int64, error) {
	var changed int64
	for _, op := range ops {
		switch op.Kind {
		case store.OpInsert:
			key := store.MemberKey(op.Set, op.Member)
			has, err := tr.Has(key, nil)
			if err != nil {
				return 0, err
			}
			if has {
				continue
			}
			if err := tr.Put(key, []byte{}, nil); err != nil {
				return 0, err
			}
			changed++
		case store.OpRemove:
			key := store.MemberKey(op.Set, op.Member)
			has, err := tr.Has(key, nil)
			if err != nil {
				return 0, err
			}
			if !has {
				continue
			}
			if err := tr.Delete(key, nil); err != nil {
				return 0, err
			}
			changed++
		case store.OpRemoveRange:
			iter := tr.NewIterator(keyRange(op.Set, op.Start, op.End), nil)
			var keys [][]byte
			for iter.Next() {
				keys = append(keys, append([]byte(nil), iter.Key()...))
			}
			err := iter.Error()
			iter.Release()
			if err != nil {
				return 0, err
			}
			for _, key := range keys {
				if err := tr.Delete(key, nil); err != nil {
					return 0, err
				}
			}
			changed += int64(len(keys))
		}
	}
	return changed, nil
}
