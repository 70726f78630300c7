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

// Package store defines the ordered-set contract the hexastore is built on.
//
// A Store holds named sets of string members ordered bytewise. Every
// backend (Redis sorted sets, LevelDB, Badger, memory) implements the same
// small surface: membership, lexicographic range scans in either direction,
// range counts, and batches of inserts and removals flushed together.
package store

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("store: closed")
	// ErrInvalidSet is returned for set names the backend cannot represent.
	ErrInvalidSet = errors.New("store: invalid set name")
)

// Direction is the order a range scan walks its bounds in.
type Direction int

const (
	// Forward scans from the start bound towards the end bound.
	Forward Direction = iota
	// Backward scans from the end bound towards the start bound.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// ScanOptions windows a range scan.
type ScanOptions struct {
	Direction Direction
	// Limit caps the number of members returned; 0 means no limit.
	Limit int
	// Offset skips the first members in scan order.
	Offset int
}

// Store is an ordered set of string members, compared bytewise.
type Store interface {
	// NewBatch opens a batch of writes. Nothing is applied until Flush.
	NewBatch() Batch

	// Range returns the members of set within [start, end] honouring the
	// bounds' exclusivity. Backward scans return members in descending order.
	Range(ctx context.Context, set string, start, end Bound, opts ScanOptions) ([]string, error)

	// Count returns the number of members of set within [start, end].
	Count(ctx context.Context, set string, start, end Bound) (int64, error)

	// IsMember reports whether member is present in set.
	IsMember(ctx context.Context, set, member string) (bool, error)

	// Close releases the store's resources.
	Close() error
}

// Batch accumulates writes that a Store applies together on Flush.
type Batch interface {
	// Insert adds member to set. Inserting an existing member is a no-op.
	Insert(set, member string)
	// Remove deletes member from set.
	Remove(set, member string)
	// RemoveRange deletes every member of set within [start, end].
	RemoveRange(set string, start, end Bound)
	// Len returns the number of queued operations.
	Len() int
	// Flush applies the queued operations and returns how many members were
	// actually added or removed. The batch is empty afterwards.
	Flush(ctx context.Context) (int64, error)
}
