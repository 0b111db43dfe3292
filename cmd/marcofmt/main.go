// Command marcofmt is a thin smoke-testing harness for the marco engine,
// the same relationship the teacher's main.go has to its parser/transform/
// traversal package: it reads a Markdown file from disk, runs it through
// the engine, and prints the resulting HTML to stdout and its diagnostics
// to stderr.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ranrar/marco"
)

func main() {
	var (
		xhtml   = flag.Bool("xhtml", false, "emit XHTML-style self-closing tags")
		safe    = flag.Bool("safe", false, "drop dangerous URL schemes and raw HTML")
		sourpos = flag.Bool("sourcepos", false, "emit data-sourcepos attributes")
		noTable = flag.Bool("no-gfm-tables", false, "render GFM tables as plain paragraphs")
		noTasks = flag.Bool("no-task-lists", false, "render task list items as ordinary list items")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file.md>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nParses a Markdown file and prints its HTML rendering plus diagnostics.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Error: exactly one file must be specified\n")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(args[0], marco.RenderOptions{
		XHTML:           *xhtml,
		Safe:            *safe,
		SourcePositions: *sourpos,
		GFMTables:       !*noTable,
		TaskLists:       !*noTasks,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, opts marco.RenderOptions) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}

	engine := marco.New()
	html, diags := engine.ParseToHTMLCached(source, opts)

	fmt.Fprintln(os.Stdout, html)

	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s (%s) at %s\n", d.Level, d.Message, d.Rule, d.Span)
	}

	return nil
}
