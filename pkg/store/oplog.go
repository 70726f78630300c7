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

package store

import "strings"

// OpKind identifies a queued batch operation.
type OpKind int

const (
	OpInsert OpKind = iota
	OpRemove
	OpRemoveRange
)

// Op is a single queued write.
type Op struct {
	Kind   OpKind
	Set    string
	Member string
	Start  Bound
	End    Bound
}

// OpLog records batch operations in order. Backends without a native
// pipeline embed it and replay Ops inside their own transaction on Flush.
type OpLog struct {
	ops []Op
}

// Insert queues an insert.
func (l *OpLog) Insert(set, member string) {
	l.ops = append(l.ops, Op{Kind: OpInsert, Set: set, Member: member})
}

// Remove queues a removal.
func (l *OpLog) Remove(set, member string) {
	l.ops = append(l.ops, Op{Kind: OpRemove, Set: set, Member: member})
}

// RemoveRange queues a range removal.
func (l *OpLog) RemoveRange(set string, start, end Bound) {
	l.ops = append(l.ops, Op{Kind: OpRemoveRange, Set: set, Start: start, End: end})
}

// Len returns the number of queued operations.
func (l *OpLog) Len() int {
	return len(l.ops)
}

// Ops returns the queued operations.
func (l *OpLog) Ops() []Op {
	return l.ops
}

// Reset drops all queued operations.
func (l *OpLog) Reset() {
	l.ops = nil
}

// KV backends keep every set in one keyspace: set name, a zero byte, then
// the member. The zero byte sorts below any member byte, so a set's members
// stay contiguous and in member order.
const setSeparator = "\x00"

// ValidSet reports whether set can be used as a KV key prefix.
func ValidSet(set string) bool {
	return set != "" && !strings.Contains(set, setSeparator)
}

// MemberKey returns the KV key holding member of set.
func MemberKey(set, member string) []byte {
	return []byte(set + setSeparator + member)
}

// MemberFromKey strips the set prefix from a KV key.
func MemberFromKey(set string, key []byte) string {
	return string(key[len(set)+len(setSeparator):])
}

// SetPrefix returns the KV prefix shared by every member of set.
func SetPrefix(set string) []byte {
	return []byte(set + setSeparator)
}
