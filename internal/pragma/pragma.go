// Package pragma scans source lines for the "pragma: no skylos" directive
// that suppresses findings on that line.
package pragma

import (
	"bufio"
	"bytes"
)

// Directive is the literal substring that marks a line as ignored. No
// tokenization is performed; a plain substring match is enough.
const Directive = "pragma: no skylos"

// Scan returns the set of 1-indexed lines containing Directive.
func Scan(source []byte) map[int]bool {
	ignored := make(map[int]bool)
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if bytes.Contains(scanner.Bytes(), []byte(Directive)) {
			ignored[line] = true
		}
	}
	return ignored
}
