// Command astro compiles a single .astro file to JS and writes the result to
// stdout. It is a thin convenience wrapper around the internal compile
// pipeline for local/offline use (fixture generation, quick checks) and is
// not part of the specified compiler core.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	astro "github.com/goastro/compiler/internal"
	"github.com/goastro/compiler/internal/handler"
	"github.com/goastro/compiler/internal/printer"
	"github.com/goastro/compiler/internal/transform"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("astro: ")

	scopedStyleStrategy := flag.String("scoped-style-strategy", "where", `CSS scoping strategy: "class", "attribute", or "where"`)
	sourcemap := flag.String("sourcemap", "", `value stored in TransformOptions.SourceMap; this command prints only the compiled JS and writes no source map`)
	compact := flag.Bool("compact", false, "omit insignificant whitespace from the rendered output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: astro [flags] <file.astro>")
		os.Exit(2)
	}

	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading %s: %v", path, err)
	}

	code := string(source)
	h := handler.NewHandler(code, path)
	hash := astro.HashFromSource(code)

	doc, err := astro.ParseWithHandler(strings.NewReader(code), h)
	if err != nil {
		log.Fatalf("parsing %s: %v", path, err)
	}

	transform.ExtractStyles(doc)
	opts := transform.TransformOptions{
		Scope:               hash,
		Filename:            path,
		SourceMap:           *sourcemap,
		Compact:             *compact,
		ScopedStyleStrategy: *scopedStyleStrategy,
	}
	transform.Transform(doc, opts, h)

	result := printer.PrintToJS(code, doc, len(doc.Styles), opts, h)

	for _, d := range h.Errors() {
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", path, d.Location.Line, d.Location.Column, d.Text)
	}
	if h.HasErrors() {
		os.Exit(1)
	}

	os.Stdout.Write(result.Output)
}
