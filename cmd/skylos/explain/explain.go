// Package explain implements `skylos explain`: look up one symbol by name
// across a tree and print why its confidence score came out the way it did.
package explain

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/skylos-dev/skylos/internal/model"
	"github.com/skylos-dev/skylos/internal/walker"
)

type explanation struct {
	Definition model.Definition `json:"definition"`
	Reasons    []string         `json:"reasons"`
}

func Run(args []string) int {
	fs := flag.NewFlagSet("explain", flag.ExitOnError)
	name := fs.String("name", "", "symbol name to explain (simple or qualified)")
	jsonOut := fs.Bool("json", false, "JSON output")
	fs.Parse(args)

	if *name == "" {
		fmt.Fprintln(os.Stderr, "explain: --name is required")
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "explain: missing required path argument")
		return 2
	}
	root := fs.Arg(0)
	if _, err := os.Stat(root); err != nil {
		fmt.Fprintf(os.Stderr, "explain: cannot read %s: %v\n", root, err)
		return 2
	}

	results, err := walker.Walk(context.Background(), root, walker.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "explain: walk:", err)
		return 2
	}

	refCount := make(map[string]int)
	for _, fr := range results {
		for _, r := range fr.References {
			refCount[r.Name]++
		}
	}

	var matches []model.Definition
	for _, fr := range results {
		for _, d := range fr.Definitions {
			if d.Name == *name || d.SimpleName == *name || d.FullName == *name {
				if count, ok := refCount[d.FullName]; ok {
					d.References = count
				} else if count, ok := refCount[d.SimpleName]; ok {
					d.References = count
				}
				matches = append(matches, d)
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		return matches[i].Line < matches[j].Line
	})

	if *jsonOut {
		return printJSON(matches)
	}
	return printText(matches, *name)
}

func printJSON(matches []model.Definition) int {
	out := make([]explanation, 0, len(matches))
	for _, d := range matches {
		out = append(out, explanation{Definition: d, Reasons: reasons(d)})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "explain: encode:", err)
		return 2
	}
	return 0
}

func printText(matches []model.Definition, name string) int {
	const (
		bold  = "\033[1m"
		cyan  = "\033[36m"
		gray  = "\033[90m"
		reset = "\033[0m"
	)

	if len(matches) == 0 {
		fmt.Printf("no definition named %q found\n", name)
		return 0
	}

	fmt.Fprintf(os.Stdout, "%s%s=== %s ===%s\n\n", bold, cyan, name, reset)
	for _, d := range matches {
		fmt.Fprintf(os.Stdout, "%s:%d  %s%s%s  confidence=%d  references=%d\n",
			d.File, d.Line, bold, d.Name, reset, d.Confidence, d.References)
		for _, r := range reasons(d) {
			fmt.Fprintf(os.Stdout, "  %s- %s%s\n", gray, r, reset)
		}
		fmt.Fprintln(os.Stdout)
	}
	return 0
}

// reasons reconstructs, from a definition's own recorded fields, which
// penalty rules plausibly produced its confidence score. The scoring rules
// compose a small fixed set of deltas, so the combination is recoverable
// from the final number together with the definition's own name and flags.
func reasons(d model.Definition) []string {
	var out []string

	if d.References > 0 {
		out = append(out, fmt.Sprintf("referenced %d time(s) elsewhere in the tree", d.References))
	} else {
		out = append(out, "no recorded references elsewhere in the tree")
	}

	if isDunder(d.SimpleName) {
		out = append(out, "dunder name: always treated as used, confidence forced to 0")
		return out
	}

	if d.Confidence == 0 {
		out = append(out, "confidence is 0: suppressed by pragma, a test-classified file or line, or a framework decorator with a 0-weight rule")
		return out
	}

	if d.Confidence == 20 {
		out = append(out, "confidence 20: line is decorated by a recognized framework construct")
		return out
	}

	remaining := 100 - d.Confidence
	if isPrivate(d.SimpleName) {
		remaining -= 30
		out = append(out, "leading-underscore name: -30 confidence")
	}
	if d.InInit && (d.DefType == model.DefFunction || d.DefType == model.DefClass) {
		remaining -= 20
		out = append(out, "function/class defined in an __init__ file: -20 confidence")
	}
	if remaining != 0 {
		out = append(out, fmt.Sprintf("unaccounted confidence delta of %d; no single rule explains the remainder", remaining))
	}

	return out
}

func isPrivate(name string) bool {
	return strings.HasPrefix(name, "_") && !isDunder(name)
}

func isDunder(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4
}
