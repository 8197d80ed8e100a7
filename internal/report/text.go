package report

import (
	"fmt"
	"io"

	"github.com/skylos-dev/skylos/internal/model"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
)

func severityColor(level string) string {
	switch level {
	case model.SeverityCritical:
		return colorRed
	case model.SeverityHigh:
		return colorYellow
	default:
		return colorGreen
	}
}

// WriteText renders the header, summary block, and per-category numbered
// lists described in the external interface.
func WriteText(w io.Writer, r model.AnalysisResult) {
	fmt.Fprintf(w, "%s%sPython Static Analysis Results%s\n\n", colorBold, colorCyan, colorReset)

	writeSummary(w, r.Summary)

	for _, c := range categories(r) {
		if len(c.defs) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s%s:%s\n", colorBold, c.label, colorReset)
		for i, d := range c.defs {
			fmt.Fprintf(w, "  %d. %s  %s:%d\n", i+1, d.Name, d.File, d.Line)
		}
	}

	writeFindings(w, "Secrets", r.Secrets)
	writeFindings(w, "Danger", r.Danger)
	writeFindings(w, "Quality", r.Quality)
}

func writeSummary(w io.Writer, s model.Summary) {
	fmt.Fprintf(w, "%sSummary:%s\n", colorBold, colorReset)
	fmt.Fprintf(w, "  Total files scanned: %d\n", s.TotalFiles)
	printNonZero(w, "Unused functions", s.UnusedFunctions)
	printNonZero(w, "Unused classes", s.UnusedClasses)
	printNonZero(w, "Unused imports", s.UnusedImports)
	printNonZero(w, "Unused variables", s.UnusedVariables)
	printNonZero(w, "Secrets", s.Secrets)
	printNonZero(w, "Danger", s.Danger)
	printNonZero(w, "Quality", s.Quality)
}

func printNonZero(w io.Writer, label string, n int) {
	if n == 0 {
		return
	}
	fmt.Fprintf(w, "  %s: %d\n", label, n)
}

func writeFindings(w io.Writer, label string, findings []model.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s%s:%s\n", colorBold, label, colorReset)
	for i, f := range findings {
		color := severityColor(f.Severity)
		fmt.Fprintf(w, "  %d. [%s%s%s] %s  %s:%d  %s\n",
			i+1, color, f.Severity, colorReset, f.RuleID, f.File, f.Line, f.Message)
	}
}
