// Package visitor implements the core definition/reference traversal: the
// single AST pass that emits qualified Definition records and the
// (name, file) References used by the aggregator to decide what's unused.
package visitor

import (
	"path/filepath"
	"strings"

	"github.com/skylos-dev/skylos/internal/lineindex"
	"github.com/skylos-dev/skylos/internal/model"
	"github.com/skylos-dev/skylos/internal/pyast"
)

// Visitor walks a single file's AST. It owns a class-name stack that grows
// and shrinks as class bodies are entered and left; nothing about it is
// shared across files, so per-file workers never need to coordinate.
type Visitor struct {
	file       string
	module     string
	lines      *lineindex.LineIndex
	classStack []string

	Defs []model.Definition
	Refs []model.Reference
}

// New builds a Visitor for one file. module is the bare file stem used as
// the first segment of every qualified name.
func New(file, module string, lines *lineindex.LineIndex) *Visitor {
	return &Visitor{file: file, module: module, lines: lines}
}

// Visit traverses the module body, populating Defs and Refs.
func (v *Visitor) Visit(mod *pyast.Module) {
	if mod == nil {
		return
	}
	v.visitBody(mod.Body)
}

func (v *Visitor) visitBody(body []pyast.Stmt) {
	for _, s := range body {
		v.visitStmt(s)
	}
}

func (v *Visitor) visitStmt(s pyast.Stmt) {
	switch n := s.(type) {
	case *pyast.FunctionDef:
		v.visitFunctionDef(n)
	case *pyast.ClassDef:
		v.visitClassDef(n)
	case *pyast.Import:
		v.visitImport(n)
	case *pyast.ImportFrom:
		v.visitImportFrom(n)
	case *pyast.Assign:
		v.visitAssign(n)
	case *pyast.If:
		v.visitExpr(n.Test)
		v.visitBody(n.Body)
		v.visitBody(n.Orelse)
	case *pyast.For:
		v.visitExpr(n.Iter)
		v.visitBody(n.Body)
		v.visitBody(n.Orelse)
	case *pyast.While:
		v.visitExpr(n.Test)
		v.visitBody(n.Body)
		v.visitBody(n.Orelse)
	case *pyast.With:
		for _, item := range n.Items {
			v.visitExpr(item.ContextExpr)
		}
		v.visitBody(n.Body)
	case *pyast.Try:
		v.visitBody(n.Body)
		for _, h := range n.Handlers {
			for _, t := range h.Type {
				v.visitExpr(t)
			}
			v.visitBody(h.Body)
		}
		v.visitBody(n.Orelse)
		v.visitBody(n.Finalbody)
	case *pyast.Return:
		v.visitExpr(n.Value)
	case *pyast.ExprStmt:
		v.visitExpr(n.Value)
	case *pyast.Other:
		for _, e := range n.Exprs {
			v.visitExpr(e)
		}
		v.visitBody(n.Body)
	}
}

func (v *Visitor) visitFunctionDef(n *pyast.FunctionDef) {
	defType := model.DefFunction
	if len(v.classStack) > 0 {
		defType = model.DefMethod
	}
	v.emitDef(n.Name, defType, n.Start(), nil)
	v.visitBody(n.Body)
}

func (v *Visitor) visitClassDef(n *pyast.ClassDef) {
	bases := baseNames(n.Bases)
	v.emitDef(n.Name, model.DefClass, n.Start(), bases)
	for _, b := range bases {
		v.addRef(b)
		v.addRef(v.qualify(b))
	}
	v.classStack = append(v.classStack, n.Name)
	v.visitBody(n.Body)
	v.classStack = v.classStack[:len(v.classStack)-1]
}

func baseNames(bases []pyast.Expr) []string {
	var out []string
	for _, b := range bases {
		switch e := b.(type) {
		case *pyast.Name:
			out = append(out, e.Id)
		case *pyast.Attribute:
			out = append(out, e.Attr)
		}
	}
	return out
}

func (v *Visitor) visitImport(n *pyast.Import) {
	for _, a := range n.Names {
		v.emitDef(boundName(a), model.DefImport, n.Start(), nil)
	}
}

func (v *Visitor) visitImportFrom(n *pyast.ImportFrom) {
	if n.Module == "__future__" {
		return
	}
	for _, a := range n.Names {
		v.emitDef(boundName(a), model.DefImport, n.Start(), nil)
	}
}

func boundName(a pyast.Alias) string {
	if a.AsName != "" {
		return a.AsName
	}
	return a.Name
}

func (v *Visitor) visitAssign(n *pyast.Assign) {
	if isAllExport(n) {
		v.recordAllExports(n.Value)
	}
	v.visitExpr(n.Value)
}

func isAllExport(n *pyast.Assign) bool {
	if len(n.Targets) != 1 {
		return false
	}
	name, ok := n.Targets[0].(*pyast.Name)
	return ok && name.Id == "__all__"
}

func (v *Visitor) recordAllExports(value pyast.Expr) {
	cmp, ok := value.(*pyast.Compound)
	if !ok {
		return
	}
	for _, c := range cmp.Children {
		if konst, ok := c.(*pyast.Constant); ok && konst.Kind == pyast.ConstStr {
			v.addRef(konst.Str)
		}
	}
}

func (v *Visitor) visitExpr(e pyast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *pyast.Name:
		v.addRef(n.Id)
	case *pyast.Call:
		v.visitExpr(n.Func)
		for _, a := range n.Args {
			v.visitExpr(a)
		}
		for _, k := range n.Keywords {
			v.visitExpr(k.Value)
		}
	case *pyast.Attribute:
		v.visitAttribute(n)
	case *pyast.Constant:
		if n.Kind == pyast.ConstStr {
			v.recordStringHeuristic(n.Str)
		}
	case *pyast.Compound:
		for _, c := range n.Children {
			v.visitExpr(c)
		}
	}
}

// visitAttribute handles self.x/cls.x specially (a qualified reference to
// the enclosing class's own member) and falls back to loose base/attr
// matching otherwise: base, base.attr, and bare attr are all recorded so a
// method call is counted as used even without receiver-type resolution.
func (v *Visitor) visitAttribute(n *pyast.Attribute) {
	if name, ok := n.Value.(*pyast.Name); ok {
		if (name.Id == "self" || name.Id == "cls") && len(v.classStack) > 0 {
			v.addRef(v.qualify(n.Attr))
		} else {
			v.addRef(name.Id)
			v.addRef(name.Id + "." + n.Attr)
			v.addRef(n.Attr)
		}
	}
	v.visitExpr(n.Value)
}

// recordStringHeuristic treats a bare identifier-shaped string literal as a
// reference, catching dynamic-dispatch idioms like getattr(self, "visit_Foo").
func (v *Visitor) recordStringHeuristic(s string) {
	if s == "" || strings.ContainsAny(s, " \t\n") || strings.Contains(s, ".") {
		return
	}
	v.addRef(s)
}

func (v *Visitor) addRef(name string) {
	if name == "" {
		return
	}
	v.Refs = append(v.Refs, model.Reference{Name: name, File: v.file})
}

func (v *Visitor) qualify(simple string) string {
	parts := make([]string, 0, len(v.classStack)+2)
	if v.module != "" {
		parts = append(parts, v.module)
	}
	parts = append(parts, v.classStack...)
	parts = append(parts, simple)
	return strings.Join(parts, ".")
}

func (v *Visitor) emitDef(simple string, defType model.DefType, pos pyast.Pos, baseClasses []string) {
	refs := 0
	exported := false
	if isImplicitlyUsed(simple) {
		refs = 1
		exported = true
	}
	v.Defs = append(v.Defs, model.Definition{
		Name:        simple,
		FullName:    v.qualify(simple),
		SimpleName:  simple,
		DefType:     defType,
		File:        v.file,
		Line:        v.lines.Line(int(pos)),
		Confidence:  100,
		References:  refs,
		IsExported:  exported,
		InInit:      IsInitFile(v.file),
		BaseClasses: baseClasses,
	})
}

func isImplicitlyUsed(simple string) bool {
	switch {
	case strings.HasPrefix(simple, "test_"),
		strings.HasPrefix(simple, "visit_"),
		strings.HasPrefix(simple, "leave_"),
		strings.HasPrefix(simple, "on_"),
		simple == "main", simple == "run", simple == "execute":
		return true
	}
	return isDunder(simple)
}

func isDunder(s string) bool {
	return len(s) > 4 && strings.HasPrefix(s, "__") && strings.HasSuffix(s, "__")
}

// IsInitFile reports whether file is a package-init module, shared by the
// visitor (to stamp Definition.InInit) and the confidence pass (for the
// init-file penalty).
func IsInitFile(file string) bool {
	return filepath.Base(file) == "__init__.py"
}
