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

// Package badgerstore implements store.Store on BadgerDB.
//
// Keys use the same "set \x00 member" layout as leveldbstore with empty
// values, so scans only ever touch the LSM tree and never the value log.
package badgerstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

// Store is a Badger-backed store.Store.
type Store struct {
	db    *badger.DB
	owned bool
}

// Open opens or creates a Badger database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable default logger
	return OpenWithOptions(opts)
}

// OpenMemory opens a Badger database held entirely in memory.
func OpenMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return OpenWithOptions(opts)
}

// OpenWithOptions opens Badger with caller-supplied options.
func OpenWithOptions(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: failed to open badger db: %w", err)
	}
	return &Store{db: db, owned: true}, nil
}

// New wraps an existing Badger instance. Close does not close it.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

func checkSet(set string) error {
	if !store.ValidSet(set) {
		return fmt.Errorf("%w: %q", store.ErrInvalidSet, set)
	}
	return nil
}

// IsMember reports whether member is in set.
func (s *Store) IsMember(ctx context.Context, set, member string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := checkSet(set); err != nil {
		return false, err
	}

	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = has(txn, store.MemberKey(set, member))
		return err
	})
	return found, err
}

func has(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// scan calls fn with each member of set within [start, end] in the given
// direction until fn returns false.
func scan(txn *badger.Txn, set string, start, end store.Bound, dir store.Direction, fn func(member string) bool) {
	prefix := store.SetPrefix(set)
	lo := store.MemberKey(set, start.SeekKey())
	hi := store.MemberKey(set, end.LimitKey())

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false // We only need keys
	opts.Prefix = prefix
	opts.Reverse = dir == store.Backward

	it := txn.NewIterator(opts)
	defer it.Close()

	if opts.Reverse {
		// Reverse Seek lands on the largest key <= hi
		for it.Seek(hi); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			if bytes.Compare(key, hi) >= 0 {
				continue
			}
			if bytes.Compare(key, lo) < 0 || !fn(store.MemberFromKey(set, key)) {
				return
			}
		}
		return
	}

	for it.Seek(lo); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().Key()
		if bytes.Compare(key, hi) >= 0 || !fn(store.MemberFromKey(set, key)) {
			return
		}
	}
}

// Range returns the members of set within [start, end].
func (s *Store) Range(ctx context.Context, set string, start, end store.Bound, opts store.ScanOptions) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkSet(set); err != nil {
		return nil, err
	}

	result := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		skipped := 0
		scan(txn, set, start, end, opts.Direction, func(member string) bool {
			if skipped < opts.Offset {
				skipped++
				return true
			}
			result = append(result, member)
			return opts.Limit <= 0 || len(result) < opts.Limit
		})
		return nil
	})
	if err != nil {
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

	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		scan(txn, set, start, end, store.Forward, func(string) bool {
			n++
			return true
		})
		return nil
	})
	return n, err
}

// NewBatch opens a batch applied through Badger update transactions.
func (s *Store) NewBatch() store.Batch {
	return &batch{db: s.db}
}

// Close closes the database if this store opened it.
func (s *Store) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

type batch struct {
	store.OpLog
	db *badger.DB
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

	w := &writer{db: b.db, txn: b.db.NewTransaction(true)}
	defer func() { w.txn.Discard() }()

	var changed int64
	for _, op := range ops {
		n, err := w.apply(op)
		if err != nil {
			return 0, err
		}
		changed += n
	}
	if err := w.txn.Commit(); err != nil {
		return 0, err
	}
	return changed, nil
}

// writer applies ops in an update transaction, committing and starting a
// new one whenever Badger reports the current one as full. Batches larger
// than one transaction are therefore not atomic.
type writer struct {
	db  *badger.DB
	txn *badger.Txn
}

func (w *writer) rotate() error {
	if err := w.txn.Commit(); err != nil {
		return err
	}
	w.txn = w.db.NewTransaction(true)
	return nil
}

func (w *writer) set(key []byte) error {
	err := w.txn.Set(key, []byte{})
	if errors.Is(err, badger.ErrTxnTooBig) {
		if err = w.rotate(); err != nil {
			return err
		}
		err = w.txn.Set(key, []byte{})
	}
	return err
}

func (w *writer) delete(key []byte) error {
	err := w.txn.Delete(key)
	if errors.Is(err, badger.ErrTxnTooBig) {
		if err = w.rotate(); err != nil {
			return err
		}
		err = w.txn.Delete(key)
	}
	return err
}

// apply executes one op; update transactions read their own pending writes.
func (w *writer) apply(op store.Op) (int64, error) {
	switch op.Kind {
	case store.OpInsert:
		key := store.MemberKey(op.Set, op.Member)
		found, err := has(w.txn, key)
		if err != nil || found {
			return 0, err
		}
		if err := w.set(key); err != nil {
			return 0, fmt.Errorf("failed to insert member: %w", err)
		}
		return 1, nil
	case store.OpRemove:
		key := store.MemberKey(op.Set, op.Member)
		found, err := has(w.txn, key)
		if err != nil || !found {
			return 0, err
		}
		if err := w.delete(key); err != nil {
			return 0, fmt.Errorf("failed to remove member: %w", err)
		}
		return 1, nil
	case store.OpRemoveRange:
		var members []string
		scan(w.txn, op.Set, op.Start, op.End, store.Forward, func(member string) bool {
			members = append(members, member)
			return true
		})
		for _, m := range members {
			if err := w.delete(store.MemberKey(op.Set, m)); err != nil {
				return 0, fmt.Errorf("failed to remove member: %w", err)
			}
		}
		return int64(len(members)), nil
	default:
		return 0, nil
	}
}
