// Package secrets is a regex sweep for hardcoded credentials. It is a
// single-file pass with no AST dependency, which is what lets it still run
// on a file the parser rejected: failure containment means a file that
// fails to parse still contributes its secret findings.
package secrets

import (
	"bufio"
	"bytes"
	"regexp"

	"github.com/skylos-dev/skylos/internal/model"
)

// RuleID is the fixed identifier emitted for every secret finding.
const RuleID = "SKY-S101"

// patterns matches common hardcoded-credential shapes: assignments to
// names that look like secrets, and provider-specific key prefixes.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password|passwd)\s*[:=]\s*["'][A-Za-z0-9_\-/+=]{8,}["']`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`),
	regexp.MustCompile(`ghp_[0-9A-Za-z]{36}`),
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`-----BEGIN (RSA |EC |OPENSSH )?PRIVATE KEY-----`),
}

// Scan reports one finding per matching line, skipping lines in ignored
// (pragma-suppressed or already-classified) sets the caller passes in.
func Scan(file string, source []byte, ignored map[int]bool) []model.Finding {
	var findings []model.Finding
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if ignored[line] {
			continue
		}
		text := scanner.Bytes()
		for _, p := range patterns {
			if p.Match(text) {
				findings = append(findings, model.Finding{
					Message:  "possible hardcoded credential",
					RuleID:   RuleID,
					File:     file,
					Line:     line,
					Severity: model.SeverityHigh,
				})
				break
			}
		}
	}
	return findings
}
