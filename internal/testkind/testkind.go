// Package testkind classifies files and definitions as test code so the
// confidence pass can zero out findings that would otherwise flag a test's
// own fixtures and test functions as dead code.
package testkind

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/skylos-dev/skylos/internal/lineindex"
	"github.com/skylos-dev/skylos/internal/pyast"
)

var testDirPattern = regexp.MustCompile(`(^|[/\\])tests?([/\\])`)

// IsTestFile reports whether file lives under a test(s) directory or is
// itself named *_test.<ext>.
func IsTestFile(file string) bool {
	if testDirPattern.MatchString(file) {
		return true
	}
	ext := filepath.Ext(file)
	return strings.HasSuffix(strings.TrimSuffix(file, ext), "_test")
}

// Result is one file's test classification.
type Result struct {
	IsTestFile bool
	TestLines  map[int]bool
}

// Classify walks a module, marking every function/class definition whose
// name or decorators mark it as test code.
func Classify(file string, mod *pyast.Module, lines *lineindex.LineIndex) *Result {
	r := &Result{IsTestFile: IsTestFile(file), TestLines: map[int]bool{}}
	if mod == nil {
		return r
	}
	walkBody(mod.Body, r, lines)
	return r
}

func walkBody(body []pyast.Stmt, r *Result, lines *lineindex.LineIndex) {
	for _, s := range body {
		walkStmt(s, r, lines)
	}
}

func walkStmt(s pyast.Stmt, r *Result, lines *lineindex.LineIndex) {
	switch n := s.(type) {
	case *pyast.FunctionDef:
		if isTestFuncName(n.Name) || hasTestDecorator(n.Decorators) {
			r.TestLines[lines.Line(int(n.Start()))] = true
		}
		walkBody(n.Body, r, lines)
	case *pyast.ClassDef:
		if isTestClassName(n.Name) {
			r.TestLines[lines.Line(int(n.Start()))] = true
		}
		walkBody(n.Body, r, lines)
	case *pyast.If:
		walkBody(n.Body, r, lines)
		walkBody(n.Orelse, r, lines)
	case *pyast.For:
		walkBody(n.Body, r, lines)
		walkBody(n.Orelse, r, lines)
	case *pyast.While:
		walkBody(n.Body, r, lines)
		walkBody(n.Orelse, r, lines)
	case *pyast.With:
		walkBody(n.Body, r, lines)
	case *pyast.Try:
		walkBody(n.Body, r, lines)
		for _, h := range n.Handlers {
			walkBody(h.Body, r, lines)
		}
		walkBody(n.Orelse, r, lines)
		walkBody(n.Finalbody, r, lines)
	case *pyast.Other:
		walkBody(n.Body, r, lines)
	}
}

func isTestFuncName(name string) bool {
	return strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test")
}

func isTestClassName(name string) bool {
	return strings.HasPrefix(name, "Test") || strings.HasSuffix(name, "Test")
}

func hasTestDecorator(decorators []pyast.Expr) bool {
	for _, d := range decorators {
		name := strings.ToLower(decoratorName(d))
		if strings.Contains(name, "pytest") || strings.Contains(name, "fixture") {
			return true
		}
	}
	return false
}

func decoratorName(e pyast.Expr) string {
	switch v := e.(type) {
	case *pyast.Name:
		return v.Id
	case *pyast.Attribute:
		return v.Attr
	case *pyast.Call:
		return decoratorName(v.Func)
	}
	return ""
}
