package pyparse

import (
	"testing"

	"github.com/skylos-dev/skylos/internal/pyast"
)

func TestParseFunctionDef(t *testing.T) {
	mod, err := Parse([]byte("def greet(name):\n    return name\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(mod.Body) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(mod.Body))
	}
	fn, ok := mod.Body[0].(*pyast.FunctionDef)
	if !ok {
		t.Fatalf("expected *pyast.FunctionDef, got %T", mod.Body[0])
	}
	if fn.Name != "greet" {
		t.Errorf("Name = %q, want greet", fn.Name)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*pyast.Return); !ok {
		t.Errorf("expected *pyast.Return, got %T", fn.Body[0])
	}
}

func TestParseClassDefWithBase(t *testing.T) {
	mod, err := Parse([]byte("class Child(Parent):\n    pass\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cls, ok := mod.Body[0].(*pyast.ClassDef)
	if !ok {
		t.Fatalf("expected *pyast.ClassDef, got %T", mod.Body[0])
	}
	if cls.Name != "Child" {
		t.Errorf("Name = %q, want Child", cls.Name)
	}
	if len(cls.Bases) != 1 {
		t.Fatalf("expected 1 base, got %d", len(cls.Bases))
	}
	base, ok := cls.Bases[0].(*pyast.Name)
	if !ok || base.Id != "Parent" {
		t.Errorf("expected base Name(Parent), got %#v", cls.Bases[0])
	}
}

func TestParseImportAndImportFrom(t *testing.T) {
	mod, err := Parse([]byte("import os\nfrom sys import argv as args\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(mod.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(mod.Body))
	}
	imp, ok := mod.Body[0].(*pyast.Import)
	if !ok || len(imp.Names) != 1 || imp.Names[0].Name != "os" {
		t.Errorf("unexpected import: %#v", mod.Body[0])
	}
	impFrom, ok := mod.Body[1].(*pyast.ImportFrom)
	if !ok || impFrom.Module != "sys" {
		t.Fatalf("unexpected import-from: %#v", mod.Body[1])
	}
	if len(impFrom.Names) != 1 || impFrom.Names[0].Name != "argv" || impFrom.Names[0].AsName != "args" {
		t.Errorf("unexpected alias: %#v", impFrom.Names)
	}
}

func TestParseCallWithArgsAndKeywords(t *testing.T) {
	mod, err := Parse([]byte("func(1, key=2)\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stmt, ok := mod.Body[0].(*pyast.ExprStmt)
	if !ok {
		t.Fatalf("expected *pyast.ExprStmt, got %T", mod.Body[0])
	}
	call, ok := stmt.Value.(*pyast.Call)
	if !ok {
		t.Fatalf("expected *pyast.Call, got %T", stmt.Value)
	}
	fn, ok := call.Func.(*pyast.Name)
	if !ok || fn.Id != "func" {
		t.Errorf("unexpected callee: %#v", call.Func)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 positional arg, got %d", len(call.Args))
	}
	if len(call.Keywords) != 1 || call.Keywords[0].Arg != "key" {
		t.Fatalf("expected 1 keyword arg named key, got %#v", call.Keywords)
	}
}

func TestParseComparisonOperatorSeparatesOperandsFromTokens(t *testing.T) {
	mod, err := Parse([]byte("if __name__ == \"__main__\":\n    pass\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ifStmt, ok := mod.Body[0].(*pyast.If)
	if !ok {
		t.Fatalf("expected *pyast.If, got %T", mod.Body[0])
	}
	cmp, ok := ifStmt.Test.(*pyast.Compound)
	if !ok {
		t.Fatalf("expected *pyast.Compound, got %T", ifStmt.Test)
	}
	if cmp.Kind != "comparison_operator" {
		t.Errorf("Kind = %q, want comparison_operator", cmp.Kind)
	}
	if len(cmp.Children) != 2 {
		t.Fatalf("expected 2 named operand children, got %d", len(cmp.Children))
	}
	if len(cmp.Operators) != 1 || cmp.Operators[0] != "==" {
		t.Errorf("expected one '==' operator token, got %#v", cmp.Operators)
	}
	name, ok := cmp.Children[0].(*pyast.Name)
	if !ok || name.Id != "__name__" {
		t.Errorf("expected first operand Name(__name__), got %#v", cmp.Children[0])
	}
	konst, ok := cmp.Children[1].(*pyast.Constant)
	if !ok || konst.Kind != pyast.ConstStr || konst.Str != "__main__" {
		t.Errorf("expected second operand Constant(\"__main__\"), got %#v", cmp.Children[1])
	}
}

func TestParseAssign(t *testing.T) {
	mod, err := Parse([]byte("x = 1\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assign, ok := mod.Body[0].(*pyast.Assign)
	if !ok {
		t.Fatalf("expected *pyast.Assign, got %T", mod.Body[0])
	}
	if len(assign.Targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(assign.Targets))
	}
	target, ok := assign.Targets[0].(*pyast.Name)
	if !ok || target.Id != "x" {
		t.Errorf("unexpected target: %#v", assign.Targets[0])
	}
	konst, ok := assign.Value.(*pyast.Constant)
	if !ok || konst.Kind != pyast.ConstNum {
		t.Errorf("unexpected value: %#v", assign.Value)
	}
}
