package danger

import (
	"strings"

	"github.com/skylos-dev/skylos/internal/lineindex"
	"github.com/skylos-dev/skylos/internal/model"
	"github.com/skylos-dev/skylos/internal/pyast"
)

// builtinRules maps a bare builtin call name to its rule.
var builtinRules = map[string]string{
	"eval": RuleEval,
	"exec": RuleExec,
}

// attrRules maps "module.func" (the attribute access text, receiver module
// name dot method name) to its rule, for call shapes where the argument
// shape doesn't matter.
var attrRules = map[string]string{
	"os.system":        RuleOSSystem,
	"os.popen":         RuleOSPopen,
	"pickle.load":      RuleUnsafeDeserial,
	"pickle.loads":     RuleUnsafeDeserial,
	"marshal.loads":    RuleMarshalLoads,
	"hashlib.md5":      RuleWeakHash,
	"hashlib.sha1":     RuleWeakHash,
	"tempfile.mktemp":  RuleInsecureTemp,
}

// Scan walks a module's AST once, collecting dangerous-call findings.
func Scan(file string, mod *pyast.Module, lines *lineindex.LineIndex, ignored map[int]bool) []model.Finding {
	var out []model.Finding
	if mod == nil {
		return out
	}
	d := &detector{file: file, lines: lines, ignored: ignored}
	d.walkBody(mod.Body)
	return d.findings
}

type detector struct {
	file     string
	lines    *lineindex.LineIndex
	ignored  map[int]bool
	findings []model.Finding
}

func (d *detector) emit(ruleID string, pos pyast.Pos) {
	line := d.lines.Line(int(pos))
	if d.ignored[line] {
		return
	}
	r, ok := ruleCatalog[ruleID]
	if !ok {
		return
	}
	d.findings = append(d.findings, finding(r, d.file, line))
}

func (d *detector) walkBody(body []pyast.Stmt) {
	for _, s := range body {
		d.walkStmt(s)
	}
}

func (d *detector) walkStmt(s pyast.Stmt) {
	switch n := s.(type) {
	case *pyast.FunctionDef:
		d.walkBody(n.Body)
	case *pyast.ClassDef:
		d.walkBody(n.Body)
	case *pyast.If:
		d.walkExpr(n.Test)
		d.walkBody(n.Body)
		d.walkBody(n.Orelse)
	case *pyast.For:
		d.walkExpr(n.Iter)
		d.walkBody(n.Body)
		d.walkBody(n.Orelse)
	case *pyast.While:
		d.walkExpr(n.Test)
		d.walkBody(n.Body)
		d.walkBody(n.Orelse)
	case *pyast.With:
		for _, item := range n.Items {
			d.walkExpr(item.ContextExpr)
		}
		d.walkBody(n.Body)
	case *pyast.Try:
		d.walkBody(n.Body)
		for _, h := range n.Handlers {
			d.walkBody(h.Body)
		}
		d.walkBody(n.Orelse)
		d.walkBody(n.Finalbody)
	case *pyast.Return:
		d.walkExpr(n.Value)
	case *pyast.ExprStmt:
		d.walkExpr(n.Value)
	case *pyast.Assign:
		d.walkExpr(n.Value)
	case *pyast.Other:
		for _, e := range n.Exprs {
			d.walkExpr(e)
		}
		d.walkBody(n.Body)
	}
}

func (d *detector) walkExpr(e pyast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *pyast.Call:
		d.checkCall(n)
		d.walkExpr(n.Func)
		for _, a := range n.Args {
			d.walkExpr(a)
		}
		for _, k := range n.Keywords {
			d.walkExpr(k.Value)
		}
	case *pyast.Attribute:
		d.walkExpr(n.Value)
	case *pyast.Compound:
		for _, c := range n.Children {
			d.walkExpr(c)
		}
	}
}

func (d *detector) checkCall(call *pyast.Call) {
	switch fn := call.Func.(type) {
	case *pyast.Name:
		if ruleID, ok := builtinRules[fn.Id]; ok {
			d.emit(ruleID, call.Start())
		}
	case *pyast.Attribute:
		recv, ok := fn.Value.(*pyast.Name)
		if !ok {
			return
		}
		key := recv.Id + "." + fn.Attr
		if ruleID, ok := attrRules[key]; ok {
			d.emit(ruleID, call.Start())
			return
		}
		if fn.Attr == "load" && recv.Id == "yaml" && !hasSafeLoader(call) {
			d.emit(RuleUnsafeYAML, call.Start())
			return
		}
		if isSubprocessCall(recv.Id, fn.Attr) && hasShellTrue(call) {
			d.emit(RuleShellTrue, call.Start())
			return
		}
		if fn.Attr == "execute" && hasInterpolatedArg(call) {
			d.emit(RuleSQLInterp, call.Start())
		}
	}
}

func isSubprocessCall(receiver, method string) bool {
	if receiver != "subprocess" {
		return false
	}
	switch method {
	case "call", "run", "Popen", "check_call", "check_output":
		return true
	}
	return false
}

func hasShellTrue(call *pyast.Call) bool {
	for _, kw := range call.Keywords {
		if kw.Arg != "shell" {
			continue
		}
		if konst, ok := kw.Value.(*pyast.Constant); ok && konst.Kind == pyast.ConstBool {
			return true
		}
	}
	return false
}

// hasSafeLoader reports whether a yaml.load call passes a Loader keyword
// naming one of the safe loader classes.
func hasSafeLoader(call *pyast.Call) bool {
	for _, kw := range call.Keywords {
		if kw.Arg != "Loader" {
			continue
		}
		name := calleeText(kw.Value)
		if strings.Contains(name, "SafeLoader") || strings.Contains(name, "CSafeLoader") {
			return true
		}
	}
	return false
}

func calleeText(e pyast.Expr) string {
	switch v := e.(type) {
	case *pyast.Name:
		return v.Id
	case *pyast.Attribute:
		return v.Attr
	}
	return ""
}

// hasInterpolatedArg reports whether execute()'s first argument is built by
// string formatting rather than passed as a literal with parameters.
func hasInterpolatedArg(call *pyast.Call) bool {
	if len(call.Args) == 0 {
		return false
	}
	cmp, ok := call.Args[0].(*pyast.Compound)
	if !ok {
		return false
	}
	return cmp.Kind == "fstring" || cmp.Kind == "binary_operator"
}
