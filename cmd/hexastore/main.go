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

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	hexastore "github.com/ClaudiuCeia/redis-hexastore"
	"github.com/ClaudiuCeia/redis-hexastore/memstore"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/graph"
	"github.com/ClaudiuCeia/redis-hexastore/pkg/store"
	"github.com/ClaudiuCeia/redis-hexastore/store/badgerstore"
	"github.com/ClaudiuCeia/redis-hexastore/store/leveldbstore"
	"github.com/ClaudiuCeia/redis-hexastore/store/redisstore"
)

func main() {
	cli := &CLI{Out: os.Stdout, Err: os.Stderr}
	os.Exit(cli.Run(os.Args[1:]))
}

// CLI runs hexastore commands against a configurable backend.
type CLI struct {
	Out io.Writer
	Err io.Writer
}

const usage = `Hexastore CLI

Usage:
  hexastore <command> [flags] [arguments]

Commands:
  put <subject> <predicate> <object>       Add a triple
  get <subject> <predicate> <object>       Get triples (use '*' as wildcard)
  filter -field <f> [-min v] [-max v] <subject> <predicate> <object>
                                           Get triples whose field lies in [min, max]
  count [-field <f> [-min v] [-max v]] <before|after> <subject> <predicate> <object> [<s> <p> <o>]
                                           Count results before or after a cursor triple,
                                           within a field range when -field is given
  search <s> <p> <o> [<s> <p> <o> ...]     Join statements; '?name' marks a variable
  del <subject> <predicate> <object>       Delete matching triples (use '*' as wildcard)
  dump                                     Dump all triples
  load <file>                              Load triples from a file (N-Triples format)

Global Flags:
  -db <path>          Path to database (default: hexastore.db)
  -backend <name>     leveldb, badger, redis or memory (default: leveldb)
  -redis <url>        Redis URL for the redis backend (default: redis://localhost:6379/0)
  -key <name>         Set key holding the indexes (default: hexastore)
  -limit <n>          Page size for get and filter (default: 100)
  -table              Print results as a table
  -v                  Log debug output to stderr
`

// Run executes the command in args and returns the process exit code.
func (c *CLI) Run(args []string) int {
	if len(args) < 1 {
		fmt.Fprint(c.Err, usage)
		return 1
	}

	cmd, rest := args[0], args[1:]
	var run func([]string) error
	switch cmd {
	case "help", "-h", "--help", "-help":
		fmt.Fprint(c.Out, usage)
		return 0
	case "put":
		run = c.runPut
	case "get":
		run = c.runGet
	case "filter":
		run = c.runFilter
	case "count":
		run = c.runCount
	case "search":
		run = c.runSearch
	case "del":
		run = c.runDel
	case "dump":
		run = c.runDump
	case "load":
		run = c.runLoad
	default:
		fmt.Fprintf(c.Err, "Unknown command: %s\n", cmd)
		fmt.Fprint(c.Err, usage)
		return 1
	}

	if err := run(rest); err != nil {
		fmt.Fprintln(c.Err, color.RedString("Error: %v", err))
		return 1
	}
	return 0
}

// config holds the global flags shared by every command.
type config struct {
	db       string
	backend  string
	redisURL string
	key      string
	limit    int
	table    bool
	verbose  bool
}

func (c *CLI) flags(name string) (*flag.FlagSet, *config) {
	cfg := &config{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.Err)
	fs.StringVar(&cfg.db, "db", "hexastore.db", "Path to database")
	fs.StringVar(&cfg.backend, "backend", "leveldb", "Storage backend: leveldb, badger, redis or memory")
	fs.StringVar(&cfg.redisURL, "redis", "redis://localhost:6379/0", "Redis URL")
	fs.StringVar(&cfg.key, "key", hexastore.DefaultSetKey, "Set key holding the indexes")
	fs.IntVar(&cfg.limit, "limit", hexastore.DefaultPageSize, "Page size")
	fs.BoolVar(&cfg.table, "table", false, "Print results as a table")
	fs.BoolVar(&cfg.verbose, "v", false, "Log debug output")
	return fs, cfg
}

func openStore(ctx context.Context, cfg *config) (store.Store, error) {
	switch cfg.backend {
	case "leveldb":
		return leveldbstore.Open(cfg.db, nil)
	case "badger":
		return badgerstore.Open(cfg.db)
	case "redis":
		return redisstore.Open(ctx, cfg.redisURL)
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.backend)
	}
}

func (c *CLI) open(ctx context.Context, cfg *config) (*hexastore.Hexastore, error) {
	s, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	opts := []hexastore.Option{
		hexastore.WithSetKey(cfg.key),
		hexastore.WithDefaultPageSize(cfg.limit),
	}
	if cfg.verbose {
		logger := slog.New(slog.NewTextHandler(c.Err, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, hexastore.WithLogger(logger))
	}
	return hexastore.New(s, opts...), nil
}

// parse parses flags and opens the store, requiring exactly nargs
// positional arguments unless nargs is negative.
func (c *CLI) parse(fs *flag.FlagSet, cfg *config, args []string, nargs int, help string) (*hexastore.Hexastore, []string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	remaining := fs.Args()
	if nargs >= 0 && len(remaining) != nargs {
		return nil, nil, fmt.Errorf("usage: hexastore %s", help)
	}
	hx, err := c.open(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return hx, remaining, nil
}

// parsePattern turns three arguments into a partial triple, '*' meaning unset.
func parsePattern(parts []string) graph.Triple {
	part := func(s string) string {
		if s == "*" {
			return ""
		}
		return s
	}
	return graph.NewTriple(part(parts[0]), part(parts[1]), part(parts[2]))
}

func (c *CLI) runPut(args []string) error {
	fs, cfg := c.flags("put")
	hx, remaining, err := c.parse(fs, cfg, args, 3, "put <subject> <predicate> <object>")
	if err != nil {
		return err
	}
	defer hx.Close()

	n, err := hx.Save(context.Background(), graph.NewTriple(remaining[0], remaining[1], remaining[2]))
	if err != nil {
		return fmt.Errorf("failed to put triple: %w", err)
	}
	if n == 0 {
		fmt.Fprintln(c.Out, color.YellowString("Triple already present."))
		return nil
	}
	fmt.Fprintln(c.Out, color.GreenString("Triple added."))
	return nil
}

func (c *CLI) runGet(args []string) error {
	fs, cfg := c.flags("get")
	hx, remaining, err := c.parse(fs, cfg, args, 3, "get <subject> <predicate> <object> (use '*' for wildcard)")
	if err != nil {
		return err
	}
	defer hx.Close()

	triples, err := hx.Query(context.Background(), parsePattern(remaining), nil)
	if err != nil {
		return fmt.Errorf("failed to get triples: %w", err)
	}
	return c.printTriples(cfg, triples)
}

// rangeFlags holds the -field, -min and -max values of a range command.
type rangeFlags struct {
	field, min, max *string
}

func addRangeFlags(fs *flag.FlagSet, field string) rangeFlags {
	return rangeFlags{
		field: fs.String("field", field, "Bounded field: subject, predicate or object"),
		min:   fs.String("min", "", "Lowest value, inclusive"),
		max:   fs.String("max", "", "Highest value, inclusive"),
	}
}

func (r rangeFlags) filter(fixed graph.Triple) (graph.Filter, error) {
	f := graph.Filter{Triple: fixed, Field: graph.Position(*r.field)}
	if !f.Field.Valid() {
		return graph.Filter{}, fmt.Errorf("unknown field %q", *r.field)
	}
	if *r.min != "" {
		f.Min = r.min
	}
	if *r.max != "" {
		f.Max = r.max
	}
	return f, nil
}

func (c *CLI) runFilter(args []string) error {
	fs, cfg := c.flags("filter")
	bounds := addRangeFlags(fs, "object")
	hx, remaining, err := c.parse(fs, cfg, args, 3, "filter -field <f> [-min v] [-max v] <subject> <predicate> <object>")
	if err != nil {
		return err
	}
	defer hx.Close()

	f, err := bounds.filter(parsePattern(remaining))
	if err != nil {
		return err
	}
	triples, err := hx.Filter(context.Background(), f, nil)
	if err != nil {
		return fmt.Errorf("failed to filter triples: %w", err)
	}
	return c.printTriples(cfg, triples)
}

func (c *CLI) runCount(args []string) error {
	fs, cfg := c.flags("count")
	bounds := addRangeFlags(fs, "")
	help := "count [-field <f> [-min v] [-max v]] <before|after> <subject> <predicate> <object> [<s> <p> <o>]"
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 4 && len(remaining) != 7 {
		return fmt.Errorf("usage: hexastore %s", help)
	}

	var dir hexastore.CountDirection
	switch remaining[0] {
	case "before":
		dir = hexastore.CountBefore
	case "after":
		dir = hexastore.CountAfter
	default:
		return fmt.Errorf("usage: hexastore %s", help)
	}

	pattern := parsePattern(remaining[1:4])
	var req hexastore.CountRequest
	if *bounds.field == "" {
		req.Query = &pattern
	} else {
		f, err := bounds.filter(pattern)
		if err != nil {
			return err
		}
		req.Filter = &f
	}
	if len(remaining) == 7 {
		req.Cursor = graph.NewTriple(remaining[4], remaining[5], remaining[6])
	}

	hx, err := c.open(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer hx.Close()

	n, err := hx.Count(context.Background(), dir, req)
	if err != nil {
		return fmt.Errorf("failed to count: %w", err)
	}
	fmt.Fprintln(c.Out, n)
	return nil
}

func (c *CLI) runSearch(args []string) error {
	fs, cfg := c.flags("search")
	hx, remaining, err := c.parse(fs, cfg, args, -1, "search <s> <p> <o> [<s> <p> <o> ...]")
	if err != nil {
		return err
	}
	defer hx.Close()

	if len(remaining) == 0 || len(remaining)%3 != 0 {
		return errors.New("usage: hexastore search <s> <p> <o> [<s> <p> <o> ...]")
	}

	vars := make(map[string]*graph.Variable)
	term := func(s string) graph.Term {
		name, ok := strings.CutPrefix(s, "?")
		if !ok {
			return graph.Lit(s)
		}
		v, ok := vars[name]
		if !ok {
			v = hx.V(name)
			vars[name] = v
		}
		return graph.Var(v)
	}

	var statements []graph.Statement
	for i := 0; i < len(remaining); i += 3 {
		statements = append(statements, graph.NewStatement(term(remaining[i]), term(remaining[i+1]), term(remaining[i+2])))
	}

	bindings, err := hx.Search(context.Background(), statements)
	if err != nil {
		return fmt.Errorf("failed to search: %w", err)
	}

	if cfg.table {
		rows := make([][]string, 0, len(bindings))
		for _, name := range bindings.Names() {
			rows = append(rows, []string{"?" + name, strings.Join(bindings.Sorted(name), ", ")})
		}
		return c.printTable([]string{"Variable", "Values"}, rows)
	}
	for _, name := range bindings.Names() {
		fmt.Fprintf(c.Out, "%s: %s\n", color.CyanString("?"+name), strings.Join(bindings.Sorted(name), ", "))
	}
	return nil
}

func (c *CLI) runDel(args []string) error {
	fs, cfg := c.flags("del")
	hx, remaining, err := c.parse(fs, cfg, args, 3, "del <subject> <predicate> <object> (use '*' for wildcard)")
	if err != nil {
		return err
	}
	defer hx.Close()

	n, err := hx.Delete(context.Background(), parsePattern(remaining))
	if err != nil {
		return fmt.Errorf("failed to delete triples: %w", err)
	}
	fmt.Fprintf(c.Out, "Deleted %d triples.\n", n/6)
	return nil
}

func (c *CLI) runDump(args []string) error {
	fs, cfg := c.flags("dump")
	hx, _, err := c.parse(fs, cfg, args, 0, "dump")
	if err != nil {
		return err
	}
	defer hx.Close()

	ctx := context.Background()
	page := &hexastore.Page{First: cfg.limit}
	for {
		triples, err := hx.Query(ctx, graph.Triple{}, page)
		if err != nil {
			return fmt.Errorf("failed to dump triples: %w", err)
		}
		if len(triples) == 0 {
			return nil
		}
		if err := c.printTriples(cfg, triples); err != nil {
			return err
		}
		last := triples[len(triples)-1]
		page = &hexastore.Page{First: cfg.limit, After: &last}
	}
}

func (c *CLI) runLoad(args []string) error {
	fs, cfg := c.flags("load")
	hx, remaining, err := c.parse(fs, cfg, args, 1, "load <file>")
	if err != nil {
		return err
	}
	defer hx.Close()

	file, err := os.Open(remaining[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var triples []graph.Triple
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) > 0 && parts[len(parts)-1] == "." {
			parts = parts[:len(parts)-1]
		}
		if len(parts) < 3 {
			fmt.Fprintln(c.Err, color.YellowString("Skipping incomplete line: %s", line))
			continue
		}
		// Basic N-Triples parsing (simplified)
		triples = append(triples, graph.NewTriple(parts[0], parts[1], strings.Join(parts[2:], " ")))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	n, err := hx.BatchSave(context.Background(), triples)
	if err != nil {
		return fmt.Errorf("failed to load triples: %w", err)
	}
	fmt.Fprintf(c.Out, "Loaded %d triples (%d new).\n", len(triples), n/6)
	return nil
}

func (c *CLI) printTriples(cfg *config, triples []graph.Triple) error {
	if cfg.table {
		rows := make([][]string, len(triples))
		for i, t := range triples {
			rows[i] = []string{t.Subject, t.Predicate, t.Object}
		}
		return c.printTable([]string{"Subject", "Predicate", "Object"}, rows)
	}
	for _, t := range triples {
		fmt.Fprintf(c.Out, "%s %s %s\n", t.Subject, t.Predicate, t.Object)
	}
	return nil
}

func (c *CLI) printTable(headers []string, rows [][]string) error {
	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(c.Out,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
