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

// Command simple walks through the hexastore API against Redis, or an
// in-memory store when no Redis URL is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	hexastore "github.com/ClaudiuCeia/redis-hexastore"
	"github.com/ClaudiuCeia/redis-hexastore/memstore"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/graph"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
	"github.com/ClaudiuCeia/redis-hexastore/store/redisstore"
)

func main() {
	redisURL := flag.String("redis", "", "Redis URL, e.g. redis://localhost:6379/0")
	flag.Parse()

	ctx := context.Background()

	var s store.Store = memstore.New()
	if *redisURL != "" {
		rs, err := redisstore.Open(ctx, *redisURL)
		if err != nil {
			log.Fatal(err)
		}
		s = rs
	}

	hx := hexastore.New(s, hexastore.WithSetKey("example"))
	defer hx.Close()

	fmt.Println("=== Basic Triple Operations ===")

	_, err := hx.BatchSave(ctx, []graph.Triple{
		graph.NewTriple("alice", "knows", "bob"),
		graph.NewTriple("bob", "knows", "alice"),
		graph.NewTriple("alice", "knows", "charlie"),
		graph.NewTriple("bob", "knows", "charlie"),
		graph.NewTriple("charlie", "knows", "diana"),
		graph.NewTriple("alice", "age", "31"),
		graph.NewTriple("bob", "age", "27"),
		graph.NewTriple("charlie", "age", "19"),
	})
	if err != nil {
		log.Fatal(err)
	}

	results, err := hx.Query(ctx, graph.Triple{Subject: "alice", Predicate: "knows"}, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Alice knows: ")
	for _, t := range results {
		fmt.Printf("%s ", t.Object)
	}
	fmt.Println()

	fmt.Println("\n=== Filters ===")

	adults, err := hx.Filter(ctx, graph.AtLeast(graph.Triple{Predicate: "age"}, graph.Object, "21"), nil)
	if err != nil {
		log.Fatal(err)
	}
	for _, t := range adults {
		fmt.Printf("  %s is %s\n", t.Subject, t.Object)
	}

	fmt.Println("\n=== Pagination ===")

	page := &hexastore.Page{First: 2}
	for n := 1; ; n++ {
		triples, err := hx.Query(ctx, graph.Triple{Predicate: "knows"}, page)
		if err != nil {
			log.Fatal(err)
		}
		if len(triples) == 0 {
			break
		}
		fmt.Printf("Page %d: %v\n", n, triples)
		last := triples[len(triples)-1]
		page = &hexastore.Page{First: 2, After: &last}
	}

	fmt.Println("\n=== Navigator API ===")

	friendsOfFriends, err := hx.Nav("alice").ArchOut("knows").ArchOut("knows").Values(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Friends of Alice's friends: %v\n", friendsOfFriends)

	fmt.Println("\n=== Search with Variables ===")

	x, y := hx.V("x"), hx.V("y")
	bindings, err := hx.Search(ctx, []graph.Statement{
		graph.NewStatement(graph.Var(x), graph.Lit("knows"), graph.Var(y)),
		graph.NewStatement(graph.Var(y), graph.Lit("age"), graph.Lit("19")),
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("People who know a 19 year old: %v\n", bindings.Sorted("x"))

	removed, err := hx.Delete(ctx, graph.Triple{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nCleaned up %d index keys.\n", removed)
}
