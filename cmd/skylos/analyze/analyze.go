// Package analyze implements the `skylos analyze` subcommand: walk a
// directory of source files, score every definition's confidence, and
// render the unused-symbol and finding report as text or JSON.
package analyze

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/skylos-dev/skylos/internal/aggregator"
	"github.com/skylos-dev/skylos/internal/logging"
	"github.com/skylos-dev/skylos/internal/report"
	"github.com/skylos-dev/skylos/internal/walker"
)

func Run(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	confidence := fs.Int("confidence", 60, "confidence threshold 0-100; definitions at or above this are not reported")
	secrets := fs.Bool("secrets", false, "enable the hardcoded-secret scan")
	danger := fs.Bool("danger", false, "enable the dangerous-call-pattern scan")
	quality := fs.Bool("quality", false, "enable the excessive-nesting scan")
	jsonOut := fs.Bool("json", false, "JSON output")
	verbose := fs.Bool("verbose", false, "enable verbose debug logging")
	timings := fs.Bool("timings", false, "print walk/aggregate timing breakdown after output")
	fs.Parse(args)

	if *confidence < 0 || *confidence > 100 {
		fmt.Fprintf(os.Stderr, "analyze: --confidence must be between 0 and 100, got %d\n", *confidence)
		return 2
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "analyze: missing required path argument")
		return 2
	}
	root := fs.Arg(0)

	if _, err := os.Stat(root); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: cannot read %s: %v\n", root, err)
		return 2
	}

	// --verbose only ever turns logging on; a bare analyze run must not
	// silently mute SKYLOS_VERBOSE=1 set in the environment.
	if *verbose {
		logging.SetVerbose(true)
	}

	t0 := time.Now()
	results, err := walker.Walk(context.Background(), root, walker.Options{
		Secrets: *secrets,
		Danger:  *danger,
		Quality: *quality,
	})
	walkDur := time.Since(t0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "analyze: walk:", err)
		return 2
	}

	t1 := time.Now()
	result := aggregator.Aggregate(results, *confidence)
	aggDur := time.Since(t1)

	var writeErr error
	if *jsonOut {
		writeErr = report.WriteJSON(os.Stdout, result)
	} else {
		report.WriteText(os.Stdout, result)
	}
	if writeErr != nil {
		fmt.Fprintln(os.Stderr, "analyze: write output:", writeErr)
		return 2
	}

	if *timings {
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, "=== Timings ===")
		fmt.Fprintf(os.Stdout, "%-12s  %s  (%d files)\n", "walk", walkDur, len(results))
		fmt.Fprintf(os.Stdout, "%-12s  %s\n", "aggregate", aggDur)
	}

	return 0
}
