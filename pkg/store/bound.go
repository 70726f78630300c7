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

// Bound is one end of a lexicographic range.
type Bound struct {
	Value     string
	Exclusive bool
}

// Inclusive returns a bound that admits value itself.
func Inclusive(value string) Bound {
	return Bound{Value: value}
}

// Exclusive returns a bound that stops short of value.
func Exclusive(value string) Bound {
	return Bound{Value: value, Exclusive: true}
}

// AdmitsFromBelow reports whether key satisfies b used as a lower bound.
func (b Bound) AdmitsFromBelow(key string) bool {
	if b.Exclusive {
		return key > b.Value
	}
	return key >= b.Value
}

// AdmitsFromAbove reports whether key satisfies b used as an upper bound.
func (b Bound) AdmitsFromAbove(key string) bool {
	if b.Exclusive {
		return key < b.Value
	}
	return key <= b.Value
}

// SeekKey returns the smallest key admitted by b used as a lower bound.
// The smallest string greater than v is v followed by a zero byte.
func (b Bound) SeekKey() string {
	if b.Exclusive {
		return b.Value + "\x00"
	}
	return b.Value
}

// LimitKey returns the exclusive limit equivalent to b used as an upper bound.
func (b Bound) LimitKey() string {
	if b.Exclusive {
		return b.Value
	}
	return b.Value + "\x00"
}

// Contains reports whether key lies within [start, end].
func Contains(start, end Bound, key string) bool {
	return start.AdmitsFromBelow(key) && end.AdmitsFromAbove(key)
}
