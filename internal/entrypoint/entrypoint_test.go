package entrypoint

import (
	"testing"

	"github.com/skylos-dev/skylos/internal/pyast"
)

func strConst(s string) *pyast.Constant {
	return &pyast.Constant{Kind: pyast.ConstStr, Str: s}
}

func nameDunderMainGuard(body []pyast.Stmt) *pyast.If {
	test := &pyast.Compound{
		Kind:      "comparison_operator",
		Children:  []pyast.Expr{&pyast.Name{Id: "__name__"}, strConst("__main__")},
		Operators: []string{"=="},
	}
	return &pyast.If{Test: test, Body: body}
}

func TestDetectFindsDirectCall(t *testing.T) {
	guard := nameDunderMainGuard([]pyast.Stmt{
		&pyast.ExprStmt{Value: &pyast.Call{Func: &pyast.Name{Id: "main"}}},
	})
	reached := Detect([]pyast.Stmt{guard})
	if !reached["main"] {
		t.Fatalf("expected main to be reached, got %v", reached)
	}
}

func TestDetectFindsAttributeCall(t *testing.T) {
	guard := nameDunderMainGuard([]pyast.Stmt{
		&pyast.ExprStmt{Value: &pyast.Call{
			Func: &pyast.Attribute{Value: &pyast.Name{Id: "app"}, Attr: "run"},
		}},
	})
	reached := Detect([]pyast.Stmt{guard})
	if !reached["run"] {
		t.Fatalf("expected run to be reached, got %v", reached)
	}
}

func TestDetectIgnoresNonMainGuard(t *testing.T) {
	test := &pyast.Compound{
		Kind:      "comparison_operator",
		Children:  []pyast.Expr{&pyast.Name{Id: "__name__"}, strConst("__other__")},
		Operators: []string{"=="},
	}
	body := []pyast.Stmt{&pyast.ExprStmt{Value: &pyast.Call{Func: &pyast.Name{Id: "main"}}}}
	reached := Detect([]pyast.Stmt{&pyast.If{Test: test, Body: body}})
	if len(reached) != 0 {
		t.Fatalf("expected no reached names, got %v", reached)
	}
}

func TestDetectHandlesReversedOperands(t *testing.T) {
	test := &pyast.Compound{
		Kind:      "comparison_operator",
		Children:  []pyast.Expr{strConst("__main__"), &pyast.Name{Id: "__name__"}},
		Operators: []string{"=="},
	}
	body := []pyast.Stmt{&pyast.ExprStmt{Value: &pyast.Call{Func: &pyast.Name{Id: "main"}}}}
	reached := Detect([]pyast.Stmt{&pyast.If{Test: test, Body: body}})
	if !reached["main"] {
		t.Fatalf("expected main to be reached with reversed operands, got %v", reached)
	}
}

func TestDetectWalksIfAndAssign(t *testing.T) {
	inner := &pyast.If{
		Test: &pyast.Call{Func: &pyast.Name{Id: "ready"}},
		Body: []pyast.Stmt{&pyast.Assign{Value: &pyast.Call{Func: &pyast.Name{Id: "build"}}}},
	}
	guard := nameDunderMainGuard([]pyast.Stmt{inner})
	reached := Detect([]pyast.Stmt{guard})
	if !reached["ready"] || !reached["build"] {
		t.Fatalf("expected ready and build to be reached, got %v", reached)
	}
}
