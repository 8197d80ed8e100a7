// Package logging is the process-wide verbose logger: per-file I/O and
// parse failures are recovered and never fatal, so this is the only place
// they become visible, gated behind SKYLOS_VERBOSE or --verbose.
package logging

import (
	"io"
	"log"
	"os"
)

var (
	// Logger writes to stderr with a time prefix.
	Logger *log.Logger

	// Verbose controls whether Debugf/Infof/Warnf actually print.
	Verbose bool
)

func init() {
	Logger = log.New(os.Stderr, "", log.Ltime)
	Verbose = os.Getenv("SKYLOS_VERBOSE") == "1"
}

// SetVerbose raises verbosity at runtime; the CLI calls this when --verbose
// is passed. It never lowers it: SKYLOS_VERBOSE=1 in the environment must
// stay in effect even on a run that omits --verbose, so callers should only
// invoke this with true, never use it to turn logging back off.
func SetVerbose(enabled bool) {
	if enabled {
		Verbose = true
	}
}

// SetOutput redirects logger output; tests use this to capture messages.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

func Debugf(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[DEBUG] "+format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[INFO] "+format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[WARN] "+format, args...)
	}
}

// Errorf always prints, regardless of verbosity: it is reserved for
// aggregation-invariant violations, which should be impossible by
// construction.
func Errorf(format string, args ...interface{}) {
	Logger.Printf("[ERROR] "+format, args...)
}
