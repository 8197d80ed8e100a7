// Package trace implements `skylos trace`: list every file that refers to a
// given symbol name, grouped by file, so a reviewer can follow a reference
// across the tree without re-running the full analysis.
package trace

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/skylos-dev/skylos/internal/walker"
)

func Run(args []string) int {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	name := fs.String("name", "", "symbol name to trace (simple or qualified)")
	jsonOut := fs.Bool("json", false, "JSON output")
	fs.Parse(args)

	if *name == "" {
		fmt.Fprintln(os.Stderr, "trace: --name is required")
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "trace: missing required path argument")
		return 2
	}
	root := fs.Arg(0)
	if _, err := os.Stat(root); err != nil {
		fmt.Fprintf(os.Stderr, "trace: cannot read %s: %v\n", root, err)
		return 2
	}

	results, err := walker.Walk(context.Background(), root, walker.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "trace: walk:", err)
		return 2
	}

	seen := make(map[string]bool)
	var files []string
	for _, fr := range results {
		for _, r := range fr.References {
			if r.Name != *name {
				continue
			}
			if !seen[r.File] {
				seen[r.File] = true
				files = append(files, r.File)
			}
		}
	}
	sort.Strings(files)

	var defFiles []string
	seenDef := make(map[string]bool)
	for _, fr := range results {
		for _, d := range fr.Definitions {
			if d.Name != *name && d.SimpleName != *name && d.FullName != *name {
				continue
			}
			key := fmt.Sprintf("%s:%d", d.File, d.Line)
			if !seenDef[key] {
				seenDef[key] = true
				defFiles = append(defFiles, key)
			}
		}
	}
	sort.Strings(defFiles)

	if *jsonOut {
		return printJSON(*name, defFiles, files)
	}
	return printText(*name, defFiles, files)
}

func printJSON(name string, definedAt, referencedIn []string) int {
	out := struct {
		Name         string   `json:"name"`
		DefinedAt    []string `json:"defined_at"`
		ReferencedIn []string `json:"referenced_in"`
	}{Name: name, DefinedAt: definedAt, ReferencedIn: referencedIn}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "trace: encode:", err)
		return 2
	}
	return 0
}

func printText(name string, definedAt, referencedIn []string) int {
	const (
		bold  = "\033[1m"
		cyan  = "\033[36m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	fmt.Fprintf(os.Stdout, "%s%s=== %s ===%s\n\n", bold, cyan, name, reset)

	fmt.Fprintf(os.Stdout, "%sDefined at%s  (%d)\n", bold, reset, len(definedAt))
	for _, loc := range definedAt {
		fmt.Fprintf(os.Stdout, "  %s\n", loc)
	}
	fmt.Fprintln(os.Stdout)

	fmt.Fprintf(os.Stdout, "%sReferenced in%s  (%d)\n", bold, reset, len(referencedIn))
	for _, file := range referencedIn {
		fmt.Fprintf(os.Stdout, "  %s%s%s\n", green, file, reset)
	}
	if len(definedAt) == 0 && len(referencedIn) == 0 {
		fmt.Fprintf(os.Stdout, "  (no definitions or references found)\n")
	}

	return 0
}
