// Command actadump prints how one acta is cut and read: its header, every
// item with its filter verdict, and the fields extracted from kept items.
// It is a tuning aid for the pattern tables.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/goactas/internal/extract"
	"github.com/hyperifyio/goactas/internal/filter"
	"github.com/hyperifyio/goactas/internal/header"
	"github.com/hyperifyio/goactas/internal/pipeline"
	"github.com/hyperifyio/goactas/internal/record"
)

func main() {
	patterns := flag.String("patterns", os.Getenv("CONFIG_PATH"), "YAML pattern file overriding the built-in tables")
	asJSON := flag.Bool("json", false, "Print traces as JSON")
	showText := flag.Bool("text", false, "Print the extracted text before the items")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: actadump [-patterns file.yaml] [-json] [-text] <acta.pdf|.docx|.html|.txt>")
		os.Exit(2)
	}
	if err := dump(os.Stdout, flag.Arg(0), *patterns, *asJSON, *showText); err != nil {
		fmt.Fprintln(os.Stderr, "err:", err)
		os.Exit(1)
	}
}

func dump(w io.Writer, path, patterns string, asJSON, showText bool) error {
	cfg, err := pipeline.LoadConfig(patterns)
	if err != nil {
		return err
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	doc, err := extract.File(path)
	if err != nil {
		return err
	}
	traces, res := p.Trace(pipeline.Document{Source: filepath.Base(path), Text: doc.Text})

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Meta    header.Metadata  `json:"meta"`
			Stats   pipeline.Stats   `json:"stats"`
			Traces  []pipeline.Trace `json:"traces"`
			Records []record.Record  `json:"records"`
		}{res.Meta, res.Stats, traces, res.Records})
	}

	fmt.Fprintf(w, "file: %s (%s, %d pages, %d chars)\n", path, doc.Format, doc.Pages, len([]rune(doc.Text)))
	fmt.Fprintf(w, "acta: %q  year: %d\ndate: %q\n", res.Meta.Act, res.Meta.Year, res.Meta.Date)
	if showText {
		fmt.Fprintf(w, "\n%s\n", doc.Text)
	}
	for i, t := range traces {
		fmt.Fprintf(w, "\n%d. [%s] %s\n", i+1, t.Section, oneLine(t.Item, 140))
		if t.Verdict != filter.Keep {
			fmt.Fprintf(w, "   dropped: %s\n", t.Verdict)
			continue
		}
		if !t.Emitted {
			fmt.Fprintln(w, "   dropped: no title")
			continue
		}
		fmt.Fprintf(w, "   title (%s): %s\n", t.TitleStep, t.Fields.Title)
		for _, kv := range [][2]string{
			{"director", t.Fields.Director},
			{"status", t.Fields.Status},
			{"unit", t.Unit},
			{"destination", t.Fields.Destination},
			{"grade", t.Fields.Grade},
		} {
			if kv[1] != "" {
				fmt.Fprintf(w, "   %s: %s\n", kv[0], kv[1])
			}
		}
	}
	s := res.Stats
	fmt.Fprintf(w, "\nsections=%d blocks=%d items=%d filtered=%d untitled=%d records=%d\n",
		s.Sections, s.Blocks, s.Items, s.Filtered, s.Untitled, s.Records)
	return nil
}

func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "…"
	}
	return s
}
