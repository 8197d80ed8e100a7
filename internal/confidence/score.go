// Package confidence applies the per-definition penalty pass: starting from
// a definition's initial confidence of 100, successive rules lower it (or
// zero it outright) based on pragma suppression, test/framework
// association, and naming convention.
package confidence

import "strings"

// Signals bundles the per-file classification outputs the penalty pass
// needs for one definition: which lines are pragma-ignored, test-decorated,
// or framework-decorated, and whether the whole file is a test file.
type Signals struct {
	IgnoredLines   map[int]bool
	TestFile       bool
	TestLines      map[int]bool
	FrameworkLines map[int]bool
}

// Apply runs the penalty rule chain against one definition's simple name,
// line, and in_init flag, returning its final confidence. Pragma and
// test-file suppression short-circuit to 0 immediately; the remaining rules
// (framework decoration, private naming, dunder, in_init) all apply in
// sequence on top of each other rather than as mutually exclusive cases —
// a framework-decorated dunder or private name is still fully penalized.
func Apply(simpleName string, line int, inInit bool, defType string, s Signals) int {
	if s.IgnoredLines[line] {
		return 0
	}
	if s.TestFile || s.TestLines[line] {
		return 0
	}

	score := 100
	if s.FrameworkLines[line] {
		score = 20
	}
	if isPrivate(simpleName) {
		score = clamp(score - 30)
	}
	if isDunder(simpleName) {
		return 0
	}

	if inInit && (defType == "function" || defType == "class") {
		score = clamp(score - 20)
	}
	return score
}

// isPrivate reports a leading-underscore name that isn't also a dunder.
func isPrivate(name string) bool {
	return strings.HasPrefix(name, "_") && !isDunder(name)
}

func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
