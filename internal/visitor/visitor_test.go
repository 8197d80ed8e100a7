package visitor

import (
	"testing"

	"github.com/skylos-dev/skylos/internal/lineindex"
	"github.com/skylos-dev/skylos/internal/model"
	"github.com/skylos-dev/skylos/internal/pyast"
	"github.com/skylos-dev/skylos/internal/pyparse"
)

func parse(t *testing.T, src string) (*pyast.Module, *lineindex.LineIndex) {
	t.Helper()
	source := []byte(src)
	mod, err := pyparse.Parse(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return mod, lineindex.New(source)
}

func defByName(defs []model.Definition, name string) (model.Definition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return model.Definition{}, false
}

func TestVisitFunctionAndCallReference(t *testing.T) {
	src := "def used_function():\n    return 1\n\nresult = used_function()\n"
	mod, lines := parse(t, src)
	v := New("sample.py", "sample", lines)
	v.Visit(mod)

	def, ok := defByName(v.Defs, "used_function")
	if !ok {
		t.Fatalf("expected a definition for used_function, got %+v", v.Defs)
	}
	if def.DefType != model.DefFunction {
		t.Errorf("expected function def_type, got %s", def.DefType)
	}
	if def.FullName != "sample.used_function" {
		t.Errorf("expected qualified name sample.used_function, got %s", def.FullName)
	}

	found := false
	for _, r := range v.Refs {
		if r.Name == "used_function" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a reference to used_function, got %+v", v.Refs)
	}
}

func TestVisitClassQualifiesMethods(t *testing.T) {
	src := "class Greeter:\n    def hello(self):\n        return self.name\n"
	mod, lines := parse(t, src)
	v := New("sample.py", "sample", lines)
	v.Visit(mod)

	method, ok := defByName(v.Defs, "hello")
	if !ok {
		t.Fatalf("expected a definition for hello, got %+v", v.Defs)
	}
	if method.DefType != model.DefMethod {
		t.Errorf("expected method def_type inside a class, got %s", method.DefType)
	}
	if method.FullName != "sample.Greeter.hello" {
		t.Errorf("expected sample.Greeter.hello, got %s", method.FullName)
	}
}

func TestVisitClassBaseReferences(t *testing.T) {
	src := "class Parent:\n    pass\n\nclass Child(Parent):\n    pass\n"
	mod, lines := parse(t, src)
	v := New("sample.py", "sample", lines)
	v.Visit(mod)

	parentReferenced := false
	for _, r := range v.Refs {
		if r.Name == "Parent" || r.Name == "sample.Parent" {
			parentReferenced = true
		}
	}
	if !parentReferenced {
		t.Errorf("expected Parent to be referenced as a base class, got %+v", v.Refs)
	}
}

func TestVisitImportFromFutureSkipped(t *testing.T) {
	src := "from __future__ import annotations\n"
	mod, lines := parse(t, src)
	v := New("sample.py", "sample", lines)
	v.Visit(mod)

	if len(v.Defs) != 0 {
		t.Fatalf("expected no definitions from a __future__ import, got %+v", v.Defs)
	}
}

func TestImplicitUseSeedsDunderAndMain(t *testing.T) {
	src := "def __init__(self):\n    pass\n\ndef main():\n    pass\n\ndef plain():\n    pass\n"
	mod, lines := parse(t, src)
	v := New("sample.py", "sample", lines)
	v.Visit(mod)

	dunder, _ := defByName(v.Defs, "__init__")
	if dunder.References != 1 || !dunder.IsExported {
		t.Errorf("expected __init__ seeded as implicitly used, got %+v", dunder)
	}
	main, _ := defByName(v.Defs, "main")
	if main.References != 1 || !main.IsExported {
		t.Errorf("expected main seeded as implicitly used, got %+v", main)
	}
	plain, _ := defByName(v.Defs, "plain")
	if plain.References != 0 || plain.IsExported {
		t.Errorf("expected plain not seeded as used, got %+v", plain)
	}
}

func TestAllExportRecordsReference(t *testing.T) {
	src := "def helper():\n    pass\n\n__all__ = [\"helper\"]\n"
	mod, lines := parse(t, src)
	v := New("sample.py", "sample", lines)
	v.Visit(mod)

	exported := false
	for _, r := range v.Refs {
		if r.Name == "helper" {
			exported = true
		}
	}
	if !exported {
		t.Errorf("expected helper referenced via __all__, got %+v", v.Refs)
	}
}

func TestInInitFlagsPackageInitFile(t *testing.T) {
	src := "def public_function():\n    pass\n"
	mod, lines := parse(t, src)
	v := New("__init__.py", "pkg", lines)
	v.Visit(mod)

	def, ok := defByName(v.Defs, "public_function")
	if !ok || !def.InInit {
		t.Fatalf("expected public_function to be flagged in_init, got %+v", def)
	}
}

func TestForLoopAndWithTargetsAreNotReferences(t *testing.T) {
	src := "import config\n\nfor config in rows:\n    pass\n\nwith open(path) as config:\n    pass\n"
	mod, lines := parse(t, src)
	v := New("sample.py", "sample", lines)
	v.Visit(mod)

	for _, r := range v.Refs {
		if r.Name == "config" {
			t.Fatalf("expected a for/with binding target not to count as a reference to config, got %+v", v.Refs)
		}
	}
}

func TestStringLiteralHeuristicRecordsDynamicDispatch(t *testing.T) {
	src := "def visit_Foo(self):\n    pass\n\ngetattr(self, \"visit_Foo\")\n"
	mod, lines := parse(t, src)
	v := New("sample.py", "sample", lines)
	v.Visit(mod)

	found := false
	for _, r := range v.Refs {
		if r.Name == "visit_Foo" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected visit_Foo referenced via string literal heuristic, got %+v", v.Refs)
	}
}
