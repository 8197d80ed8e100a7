// Package entrypoint finds the names a module's "if __name__ == '__main__':"
// guard calls directly. Those names are treated as reachable even though
// nothing else in the project references them.
package entrypoint

import "github.com/skylos-dev/skylos/internal/pyast"

// Detect scans a module's top-level statements for a __main__ guard and
// returns the set of names called (directly or via attribute access) from
// inside it.
func Detect(body []pyast.Stmt) map[string]bool {
	reached := make(map[string]bool)
	for _, s := range body {
		ifs, ok := s.(*pyast.If)
		if !ok || !isMainGuard(ifs.Test) {
			continue
		}
		collectCallees(ifs.Body, reached)
	}
	return reached
}

func isMainGuard(test pyast.Expr) bool {
	cmp, ok := test.(*pyast.Compound)
	if !ok || cmp.Kind != "comparison_operator" || len(cmp.Children) != 2 {
		return false
	}
	a, b := cmp.Children[0], cmp.Children[1]
	return isNameDunderMain(a, b) || isNameDunderMain(b, a)
}

func isNameDunderMain(nameSide, strSide pyast.Expr) bool {
	name, ok := nameSide.(*pyast.Name)
	if !ok || name.Id != "__name__" {
		return false
	}
	konst, ok := strSide.(*pyast.Constant)
	if !ok || konst.Kind != pyast.ConstStr {
		return false
	}
	return konst.Str == "__main__"
}

// collectCallees walks only the statement kinds the guard body is expected
// to hold: expression statements, assignments, and the control-flow forms
// that can wrap a call (if/for/while). Anything else (try/with/def/class)
// inside a __main__ guard is unusual enough that we don't chase it.
func collectCallees(body []pyast.Stmt, out map[string]bool) {
	for _, s := range body {
		switch v := s.(type) {
		case *pyast.ExprStmt:
			extractCallees(v.Value, out)
		case *pyast.Assign:
			extractCallees(v.Value, out)
		case *pyast.If:
			extractCallees(v.Test, out)
			collectCallees(v.Body, out)
		case *pyast.For:
			extractCallees(v.Iter, out)
			collectCallees(v.Body, out)
		case *pyast.While:
			extractCallees(v.Test, out)
			collectCallees(v.Body, out)
		}
	}
}

func extractCallees(e pyast.Expr, out map[string]bool) {
	switch v := e.(type) {
	case nil:
		return
	case *pyast.Call:
		if name := calleeName(v.Func); name != "" {
			out[name] = true
		}
		extractCallees(v.Func, out)
		for _, a := range v.Args {
			extractCallees(a, out)
		}
		for _, k := range v.Keywords {
			extractCallees(k.Value, out)
		}
	case *pyast.Attribute:
		extractCallees(v.Value, out)
	case *pyast.Compound:
		for _, c := range v.Children {
			extractCallees(c, out)
		}
	}
}

func calleeName(e pyast.Expr) string {
	switch v := e.(type) {
	case *pyast.Name:
		return v.Id
	case *pyast.Attribute:
		return v.Attr
	}
	return ""
}
