// Package quality flags functions whose control-flow blocks nest too
// deeply to read at a glance. Unlike the other scanners it only needs to
// know about the control-flow statement shapes, not calls or names.
package quality

import (
	"strconv"

	"github.com/skylos-dev/skylos/internal/lineindex"
	"github.com/skylos-dev/skylos/internal/model"
	"github.com/skylos-dev/skylos/internal/pyast"
)

// RuleID is the fixed identifier emitted for every excessive-nesting finding.
const RuleID = "SKY-Q001"

// MaxDepth is the nesting depth a function's control-flow blocks may reach
// before being flagged; the function's own body starts at depth 0.
const MaxDepth = 4

// Scan walks every function definition in a module (including nested ones
// and methods) and reports one finding per function whose deepest
// control-flow nesting exceeds MaxDepth.
func Scan(file string, mod *pyast.Module, lines *lineindex.LineIndex, ignored map[int]bool) []model.Finding {
	var out []model.Finding
	if mod == nil {
		return out
	}
	s := &scanner{file: file, lines: lines, ignored: ignored}
	s.walkBody(mod.Body)
	return s.findings
}

type scanner struct {
	file     string
	lines    *lineindex.LineIndex
	ignored  map[int]bool
	findings []model.Finding
}

func (s *scanner) walkBody(body []pyast.Stmt) {
	for _, stmt := range body {
		s.walkStmt(stmt)
	}
}

func (s *scanner) walkStmt(stmt pyast.Stmt) {
	switch n := stmt.(type) {
	case *pyast.FunctionDef:
		s.checkFunction(n)
		s.walkBody(n.Body) // nested function defs are checked independently
	case *pyast.ClassDef:
		s.walkBody(n.Body)
	case *pyast.If:
		s.walkBody(n.Body)
		s.walkBody(n.Orelse)
	case *pyast.For:
		s.walkBody(n.Body)
		s.walkBody(n.Orelse)
	case *pyast.While:
		s.walkBody(n.Body)
		s.walkBody(n.Orelse)
	case *pyast.With:
		s.walkBody(n.Body)
	case *pyast.Try:
		s.walkBody(n.Body)
		for _, h := range n.Handlers {
			s.walkBody(h.Body)
		}
		s.walkBody(n.Orelse)
		s.walkBody(n.Finalbody)
	case *pyast.Other:
		s.walkBody(n.Body)
	}
}

func (s *scanner) checkFunction(fn *pyast.FunctionDef) {
	if depth(fn.Body, 0) > MaxDepth {
		line := s.lines.Line(int(fn.Start()))
		if s.ignored[line] {
			return
		}
		s.findings = append(s.findings, model.Finding{
			Message:  "function nests control-flow blocks more than " + strconv.Itoa(MaxDepth) + " levels deep",
			RuleID:   RuleID,
			File:     s.file,
			Line:     line,
			Severity: model.SeverityLow,
		})
	}
}

// depth returns the deepest control-flow nesting reached within body,
// starting from the given depth. A nested function/class introduces its
// own scope and is not counted toward the enclosing function's depth: it
// is measured separately when walkStmt reaches it.
func depth(body []pyast.Stmt, current int) int {
	max := current
	for _, stmt := range body {
		var d int
		switch n := stmt.(type) {
		case *pyast.If:
			d = maxOf(depth(n.Body, current+1), depth(n.Orelse, current+1))
		case *pyast.For:
			d = maxOf(depth(n.Body, current+1), depth(n.Orelse, current+1))
		case *pyast.While:
			d = maxOf(depth(n.Body, current+1), depth(n.Orelse, current+1))
		case *pyast.With:
			d = depth(n.Body, current+1)
		case *pyast.Try:
			d = depth(n.Body, current+1)
			for _, h := range n.Handlers {
				d = maxOf(d, depth(h.Body, current+1))
			}
			d = maxOf(d, depth(n.Orelse, current+1))
			d = maxOf(d, depth(n.Finalbody, current+1))
		default:
			d = current
		}
		if d > max {
			max = d
		}
	}
	return max
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}

