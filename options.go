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
	"log/slog"
)

const (
	// DefaultSetKey names the ordered set holding every index key.
	DefaultSetKey = "hexastore"
	// DefaultPageSize is the page size used when a query gives none.
	DefaultPageSize = 100
)

// Options configures a Hexastore.
type Options struct {
	// SetKey is the name of the ordered set all six indexes share.
	// Defaults to DefaultSetKey.
	SetKey string

	// DefaultPageSize is the number of results Query and Filter return
	// when the caller does not ask for a page size.
	DefaultPageSize int

	// Logger is an optional structured logger for debug output.
	// When nil, no logging is performed.
	Logger *slog.Logger
}

// Option is a function that configures Options.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		SetKey:          DefaultSetKey,
		DefaultPageSize: DefaultPageSize,
		Logger:          nil,
	}
}

// applyOptions applies a list of option functions to an Options struct.
func applyOptions(opts ...Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.SetKey == "" {
		options.SetKey = DefaultSetKey
	}
	if options.DefaultPageSize <= 0 {
		options.DefaultPageSize = DefaultPageSize
	}
	return options
}

// WithSetKey stores the indexes under a different set name, so several
// independent graphs can share one backing store.
func WithSetKey(key string) Option {
	return func(o *Options) {
		o.SetKey = key
	}
}

// WithDefaultPageSize sets the page size used when a query gives none.
// Non-positive values fall back to DefaultPageSize.
func WithDefaultPageSize(size int) Option {
	return func(o *Options) {
		o.DefaultPageSize = size
	}
}

// WithLogger sets an optional structured logger for debug output.
// Pass nil to disable logging (the default).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
