// Package framework classifies a file and its decorated lines against a
// small table of recognized web/ORM/task-queue framework names. Framework
// association lowers confidence rather than zeroing it outright: a
// Flask route handler wired up only through a decorator is still probably
// meant to be called.
package framework

import (
	"strings"

	"github.com/skylos-dev/skylos/internal/lineindex"
	"github.com/skylos-dev/skylos/internal/pyast"
)

// roots is the recognized framework module table. Case-sensitive by design:
// a project importing something merely named similarly in different casing
// is not claiming to be that framework.
var roots = []string{
	"flask", "fastapi", "django", "rest_framework", "pydantic",
	"celery", "starlette", "uvicorn",
}

// decoratorKeywords mark a function as framework-wired (route registration,
// request-method handlers, request validators, async task entry points).
var decoratorKeywords = []string{"route", "get", "post", "put", "delete", "validator", "task"}

// baseKeywords mark a class as framework-wired (views, ORM models, schemas).
var baseKeywords = []string{"view", "model", "schema"}

// Result is one file's framework classification.
type Result struct {
	IsFrameworkFile  bool
	DetectedNames    map[string]bool
	FrameworkLines   map[int]bool // lines whose def carries a recognized decorator/base
}

// Classify walks a module once, collecting import-based and
// decorator/base-based framework signals.
func Classify(mod *pyast.Module, lines *lineindex.LineIndex) *Result {
	r := &Result{DetectedNames: map[string]bool{}, FrameworkLines: map[int]bool{}}
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
	case *pyast.Import:
		for _, a := range n.Names {
			markImport(a.Name, r)
		}
	case *pyast.ImportFrom:
		markImportFrom(n.Module, r)
	case *pyast.FunctionDef:
		for _, d := range n.Decorators {
			if isFrameworkDecorator(decoratorName(d)) {
				r.FrameworkLines[lines.Line(int(n.Start()))] = true
				break
			}
		}
		walkBody(n.Body, r, lines)
	case *pyast.ClassDef:
		for _, b := range n.Bases {
			name, ok := b.(*pyast.Name)
			if ok && isFrameworkBase(name.Id) {
				r.FrameworkLines[lines.Line(int(n.Start()))] = true
				r.IsFrameworkFile = true
				break
			}
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

func markImport(moduleText string, r *Result) {
	for _, root := range roots {
		if strings.Contains(moduleText, root) {
			r.IsFrameworkFile = true
			r.DetectedNames[root] = true
		}
	}
}

func markImportFrom(module string, r *Result) {
	if module == "" {
		return
	}
	first := strings.SplitN(module, ".", 2)[0]
	for _, root := range roots {
		if first == root {
			r.IsFrameworkFile = true
			r.DetectedNames[root] = true
		}
	}
}

// decoratorName resolves a decorator expression to the name the spec
// matches keywords against: a bare name, the attribute segment of a dotted
// decorator, or (recursively) the callee of a decorator factory call.
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

func isFrameworkDecorator(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range decoratorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isFrameworkBase(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range baseKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
