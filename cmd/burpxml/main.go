// Command burpxml converts a Burp capture file to XML. It handles XML
// passthrough, zip-with-XML, SQLite project stores, and raw captured
// HTTP traffic with issue extraction.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/burpxml/burpxml/pkg/burpxml"
)

// tableList collects repeatable -table flags.
type tableList []string

func (t *tableList) String() string {
	return strings.Join(*t, ",")
}

func (t *tableList) Set(v string) error {
	*t = append(*t, v)
	return nil
}

func main() {
	var (
		output     = flag.String("o", "", "output XML path (default: <input>.xml)")
		limit      = flag.Int("limit", 0, "limit number of exported HTTP items (0 for unlimited)")
		issueLimit = flag.Int("issue-limit", 0, "limit number of exported issues (0 for unlimited)")
		brotli     = flag.Bool("brotli", false, "attempt brotli decoding for unrecognized payloads")
		verbose    = flag.Bool("v", false, "log conversion progress to stderr")
		tables     tableList
	)
	flag.Var(&tables, "table", "SQLite table to export (repeatable; default: all tables)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <input.burp>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)
	outputPath := *output
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}

	cfg := burpxml.DefaultConfig()
	cfg.Limit = *limit
	cfg.IssueLimit = *issueLimit
	cfg.Tables = tables
	cfg.AcceptBrotli = *brotli
	if *verbose {
		cfg.Logger = log.New(os.Stderr, "burpxml: ", log.LstdFlags)
	}

	if err := burpxml.Convert(context.Background(), inputPath, outputPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "burpxml: %v\n", err)
		os.Exit(1)
	}
}

// defaultOutputPath swaps the input's extension for .xml.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".xml"
}
