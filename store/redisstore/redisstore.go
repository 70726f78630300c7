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

// Package redisstore implements store.Store on Redis sorted sets.
//
// Every member is added with score 0, so Redis orders a set purely by the
// bytes of its members and the *BYLEX commands answer range scans directly.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
)

// Store is a Redis-backed store.Store.
type Store struct {
	client redis.UniversalClient
	owned  bool
}

// New wraps an existing client. Close does not close a wrapped client.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Open connects to the Redis server described by url
// (for example redis://localhost:6379/0).
func Open(ctx context.Context, url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redisstore: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redisstore: ping: %w", err)
	}
	return &Store{client: client, owned: true}, nil
}

// Client returns the underlying Redis client.
func (s *Store) Client() redis.UniversalClient {
	return s.client
}

// lex renders a bound in ZRANGEBYLEX syntax.
func lex(b store.Bound) string {
	if b.Exclusive {
		return "(" + b.Value
	}
	return "[" + b.Value
}

// IsMember reports whether member is in set.
func (s *Store) IsMember(ctx context.Context, set, member string) (bool, error) {
	err := s.client.ZScore(ctx, set, member).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Range returns the members of set within [start, end].
func (s *Store) Range(ctx context.Context, set string, start, end store.Bound, opts store.ScanOptions) ([]string, error) {
	by := &redis.ZRangeBy{
		Min:    lex(start),
		Max:    lex(end),
		Offset: int64(opts.Offset),
		Count:  int64(opts.Limit),
	}
	// LIMIT is only sent when Offset or Count is non-zero; a negative count
	// means "everything after the offset".
	if opts.Limit == 0 && opts.Offset > 0 {
		by.Count = -1
	}

	if opts.Direction == store.Backward {
		return s.client.ZRevRangeByLex(ctx, set, by).Result()
	}
	return s.client.ZRangeByLex(ctx, set, by).Result()
}

// Count returns the number of members of set within [start, end].
func (s *Store) Count(ctx context.Context, set string, start, end store.Bound) (int64, error) {
	return s.client.ZLexCount(ctx, set, lex(start), lex(end)).Result()
}

// NewBatch opens a batch executed as one MULTI/EXEC transaction.
func (s *Store) NewBatch() store.Batch {
	return &batch{client: s.client}
}

// Close closes the client if this store opened it.
func (s *Store) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}

type batch struct {
	store.OpLog
	client redis.UniversalClient
}

func (b *batch) Flush(ctx context.Context) (int64, error) {
	ops := b.Ops()
	b.Reset()
	if len(ops) == 0 {
		return 0, nil
	}

	pipe := b.client.TxPipeline()
	cmds := make([]*redis.IntCmd, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case store.OpInsert:
			cmds = append(cmds, pipe.ZAdd(ctx, op.Set, redis.Z{Score: 0, Member: op.Member}))
		case store.OpRemove:
			cmds = append(cmds, pipe.ZRem(ctx, op.Set, op.Member))
		case store.OpRemoveRange:
			cmds = append(cmds, pipe.ZRemRangeByLex(ctx, op.Set, lex(op.Start), lex(op.End)))
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	var changed int64
	for _, cmd := range cmds {
		changed += cmd.Val()
	}
	return changed, nil
}
