package main

import (
	"fmt"
	"os"

	"github.com/skylos-dev/skylos/cmd/skylos/analyze"
	"github.com/skylos-dev/skylos/cmd/skylos/explain"
	"github.com/skylos-dev/skylos/cmd/skylos/trace"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		os.Exit(analyze.Run(os.Args[1:]))
	}

	switch os.Args[1] {
	case "analyze":
		os.Exit(analyze.Run(os.Args[2:]))
	case "explain":
		os.Exit(explain.Run(os.Args[2:]))
	case "trace":
		os.Exit(trace.Run(os.Args[2:]))
	case "version":
		fmt.Println(version)
	case "-h", "--help", "help":
		usage()
	default:
		// No recognized subcommand name: treat the whole argument list as
		// analyze's own flags and positional path, so `skylos .` and
		// `skylos --json .` both work without naming the subcommand.
		os.Exit(analyze.Run(os.Args[1:]))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `skylos — static analyzer for unused code, hardcoded secrets, dangerous calls, and excessive nesting

Usage:
  skylos [analyze] [--confidence N] [--secrets] [--danger] [--quality] [--json] <path>
  skylos explain   [--json] --name <symbol> <path>
  skylos trace     [--json] --name <symbol> <path>
  skylos version`)
}
