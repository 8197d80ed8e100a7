// Package pyparse is the external AST parser: it turns source bytes into the
// typed internal/pyast tree the analysis core consumes. The core never sees
// tree-sitter's concrete syntax tree directly, only the tagged-variant
// statements and expressions in pyast.
package pyparse

import (
	"fmt"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/skylos-dev/skylos/internal/pyast"
)

var (
	langOnce sync.Once
	language *tree_sitter.Language
	pool     *sync.Pool
)

func initLanguage() {
	langOnce.Do(func() {
		language = tree_sitter.NewLanguage(tree_sitter_python.Language())
		pool = &sync.Pool{
			New: func() any {
				p := tree_sitter.NewParser()
				if err := p.SetLanguage(language); err != nil {
					panic(fmt.Sprintf("pyparse: set language: %v", err))
				}
				return p
			},
		}
	})
}

// Parse converts source into a pyast.Module. Parser instances are pooled so
// the walker's per-file fan-out doesn't allocate a tree-sitter parser per
// file.
func Parse(source []byte) (*pyast.Module, error) {
	initLanguage()

	p, _ := pool.Get().(*tree_sitter.Parser)
	if p == nil {
		return nil, fmt.Errorf("pyparse: failed to acquire parser")
	}
	defer pool.Put(p)

	tree := p.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("pyparse: parse failed")
	}
	defer tree.Close()

	c := &converter{src: source}
	return &pyast.Module{Body: c.block(tree.RootNode())}, nil
}

type converter struct{ src []byte }

func (c *converter) text(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(c.src[n.StartByte():n.EndByte()])
}

func (c *converter) pos(n *tree_sitter.Node) pyast.Pos {
	if n == nil {
		return 0
	}
	return pyast.Pos(n.StartByte())
}

// block converts every named statement child of a "module" or "block" node.
func (c *converter) block(n *tree_sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	var out []pyast.Stmt
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if s := c.stmt(child); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (c *converter) stmt(n *tree_sitter.Node) pyast.Stmt {
	var s pyast.Stmt
	switch n.Kind() {
	case "function_definition":
		s = c.funcDef(n, nil)
	case "class_definition":
		s = c.classDef(n, nil)
	case "decorated_definition":
		s = c.decoratedDef(n)
	case "import_statement":
		s = c.importStmt(n)
	case "import_from_statement":
		s = c.importFromStmt(n)
	case "expression_statement":
		s = c.exprStmt(n)
	case "if_statement":
		s = c.ifStmt(n)
	case "for_statement":
		s = c.forStmt(n)
	case "while_statement":
		s = c.whileStmt(n)
	case "with_statement":
		s = c.withStmt(n)
	case "try_statement":
		s = c.tryStmt(n)
	case "return_statement":
		s = c.returnStmt(n)
	default:
		// pass/break/continue/global/nonlocal/raise/assert/delete/match and
		// anything the grammar adds later: keep any sub-expressions and
		// nested blocks reachable so references inside them aren't lost.
		s = c.otherStmt(n)
	}
	if s == nil {
		return nil
	}
	if p, ok := s.(pyast.Positioner); ok {
		p.SetPos(c.pos(n))
	}
	return s
}

func (c *converter) funcDef(n *tree_sitter.Node, decorators []pyast.Expr) pyast.Stmt {
	isAsync := false
	if first := n.Child(0); first != nil && first.Kind() == "async" {
		isAsync = true
	}
	name := c.text(n.ChildByFieldName("name"))
	body := c.block(n.ChildByFieldName("body"))
	return &pyast.FunctionDef{
		Name:       name,
		Async:      isAsync,
		Decorators: decorators,
		Body:       body,
	}
}

func (c *converter) classDef(n *tree_sitter.Node, decorators []pyast.Expr) pyast.Stmt {
	name := c.text(n.ChildByFieldName("name"))
	var bases []pyast.Expr
	if sc := n.ChildByFieldName("superclasses"); sc != nil {
		cnt := sc.NamedChildCount()
		for i := uint(0); i < cnt; i++ {
			child := sc.NamedChild(i)
			if child == nil || child.Kind() == "keyword_argument" {
				continue
			}
			bases = append(bases, c.expr(child))
		}
	}
	body := c.block(n.ChildByFieldName("body"))
	return &pyast.ClassDef{
		Name:       name,
		Bases:      bases,
		Decorators: decorators,
		Body:       body,
	}
}

func (c *converter) decoratedDef(n *tree_sitter.Node) pyast.Stmt {
	var decorators []pyast.Expr
	var inner *tree_sitter.Node
	cnt := n.NamedChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "decorator":
			if e := child.NamedChild(0); e != nil {
				decorators = append(decorators, c.expr(e))
			}
		case "function_definition":
			inner = child
		case "class_definition":
			inner = child
		}
	}
	if inner == nil {
		return nil
	}
	if inner.Kind() == "class_definition" {
		return c.classDef(inner, decorators)
	}
	return c.funcDef(inner, decorators)
}

func (c *converter) importStmt(n *tree_sitter.Node) pyast.Stmt {
	var names []pyast.Alias
	cnt := n.NamedChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		names = append(names, c.importAlias(child)...)
	}
	return &pyast.Import{Names: names}
}

func (c *converter) importAlias(n *tree_sitter.Node) []pyast.Alias {
	switch n.Kind() {
	case "aliased_import":
		return []pyast.Alias{{
			Name:   c.text(n.ChildByFieldName("name")),
			AsName: c.text(n.ChildByFieldName("alias")),
		}}
	case "dotted_name", "identifier":
		return []pyast.Alias{{Name: c.text(n)}}
	default:
		return nil
	}
}

func (c *converter) importFromStmt(n *tree_sitter.Node) pyast.Stmt {
	moduleNode := n.ChildByFieldName("module_name")
	module := c.text(moduleNode)
	if module == "__future__" {
		// Compiler directives, never real symbols.
		return &pyast.ImportFrom{Module: module}
	}

	var names []pyast.Alias
	cnt := n.NamedChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.NamedChild(i)
		if child == nil || child == moduleNode {
			continue
		}
		switch child.Kind() {
		case "wildcard_import":
			continue
		default:
			names = append(names, c.importAlias(child)...)
		}
	}
	return &pyast.ImportFrom{Module: module, Names: names}
}

func (c *converter) exprStmt(n *tree_sitter.Node) pyast.Stmt {
	inner := n.NamedChild(0)
	if inner == nil {
		return &pyast.ExprStmt{}
	}
	switch inner.Kind() {
	case "assignment":
		return c.assignment(inner)
	case "augmented_assignment":
		left := c.expr(inner.ChildByFieldName("left"))
		right := c.expr(inner.ChildByFieldName("right"))
		return &pyast.Assign{Targets: []pyast.Expr{left}, Value: right}
	default:
		return &pyast.ExprStmt{Value: c.expr(inner)}
	}
}

func (c *converter) assignment(n *tree_sitter.Node) pyast.Stmt {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	var targets []pyast.Expr
	if left != nil {
		targets = append(targets, c.exprAsTarget(left))
	}
	var value pyast.Expr
	if right != nil {
		value = c.expr(right)
	}
	return &pyast.Assign{Targets: targets, Value: value}
}

// exprAsTarget converts an assignment LHS. Tuple/list targets are flattened
// into a Compound so the visitor can still see any subscript/attribute
// targets buried inside (e.g. "a, obj.attr = ...").
func (c *converter) exprAsTarget(n *tree_sitter.Node) pyast.Expr {
	return c.expr(n)
}

func (c *converter) ifStmt(n *tree_sitter.Node) pyast.Stmt {
	return c.ifLike(n)
}

// ifLike handles if_statement and elif_clause uniformly; both carry
// condition/consequence/alternative fields in the grammar.
func (c *converter) ifLike(n *tree_sitter.Node) pyast.Stmt {
	test := c.expr(n.ChildByFieldName("condition"))
	body := c.block(n.ChildByFieldName("consequence"))
	var orelse []pyast.Stmt
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		switch alt.Kind() {
		case "elif_clause":
			orelse = []pyast.Stmt{c.ifLike(alt)}
		case "else_clause":
			orelse = c.block(alt.ChildByFieldName("body"))
		}
	}
	return &pyast.If{Test: test, Body: body, Orelse: orelse}
}

func (c *converter) forStmt(n *tree_sitter.Node) pyast.Stmt {
	target := c.expr(n.ChildByFieldName("left"))
	iter := c.expr(n.ChildByFieldName("right"))
	body := c.block(n.ChildByFieldName("body"))
	var orelse []pyast.Stmt
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		orelse = c.block(alt.ChildByFieldName("body"))
	}
	return &pyast.For{Target: target, Iter: iter, Body: body, Orelse: orelse}
}

func (c *converter) whileStmt(n *tree_sitter.Node) pyast.Stmt {
	test := c.expr(n.ChildByFieldName("condition"))
	body := c.block(n.ChildByFieldName("body"))
	var orelse []pyast.Stmt
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		orelse = c.block(alt.ChildByFieldName("body"))
	}
	return &pyast.While{Test: test, Body: body, Orelse: orelse}
}

func (c *converter) withStmt(n *tree_sitter.Node) pyast.Stmt {
	var items []pyast.WithItem
	cnt := n.NamedChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "with_clause" {
			ic := child.NamedChildCount()
			for j := uint(0); j < ic; j++ {
				wi := child.NamedChild(j)
				if wi == nil || wi.Kind() != "with_item" {
					continue
				}
				ctxExpr := wi.NamedChild(0)
				item := pyast.WithItem{}
				if ctxExpr != nil {
					if ctxExpr.Kind() == "as_pattern" {
						item.ContextExpr = c.expr(ctxExpr.NamedChild(0))
						if target := ctxExpr.NamedChild(1); target != nil {
							item.OptionalVar = c.expr(target)
						}
					} else {
						item.ContextExpr = c.expr(ctxExpr)
					}
				}
				items = append(items, item)
			}
		}
	}
	body := c.block(n.ChildByFieldName("body"))
	return &pyast.With{Items: items, Body: body}
}

func (c *converter) tryStmt(n *tree_sitter.Node) pyast.Stmt {
	body := c.block(n.ChildByFieldName("body"))
	var handlers []pyast.ExceptHandler
	var orelse, finalbody []pyast.Stmt
	star := false
	cnt := n.NamedChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "except_clause", "except_group_clause":
			if child.Kind() == "except_group_clause" {
				star = true
			}
			handlers = append(handlers, c.exceptHandler(child))
		case "else_clause":
			orelse = c.block(child.ChildByFieldName("body"))
		case "finally_clause":
			finalbody = c.block(child.ChildByFieldName("body"))
		}
	}
	return &pyast.Try{Body: body, Handlers: handlers, Orelse: orelse, Finalbody: finalbody, Star: star}
}

func (c *converter) exceptHandler(n *tree_sitter.Node) pyast.ExceptHandler {
	var types []pyast.Expr
	var name string
	cnt := n.NamedChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == "block" {
			continue
		}
		if child.Kind() == "as_pattern" {
			if t := child.NamedChild(0); t != nil {
				types = append(types, c.expr(t))
			}
			if alias := child.NamedChild(1); alias != nil {
				name = c.text(alias)
			}
			continue
		}
		types = append(types, c.expr(child))
	}
	return pyast.ExceptHandler{
		Type: types,
		Name: name,
		Body: c.block(n.ChildByFieldName("body")),
	}
}

func (c *converter) returnStmt(n *tree_sitter.Node) pyast.Stmt {
	if v := n.NamedChild(0); v != nil {
		return &pyast.Return{Value: c.expr(v)}
	}
	return &pyast.Return{}
}

func (c *converter) otherStmt(n *tree_sitter.Node) pyast.Stmt {
	var exprs []pyast.Expr
	var nested []pyast.Stmt
	cnt := n.NamedChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "block" {
			nested = append(nested, c.block(child)...)
			continue
		}
		if isStmtKind(child.Kind()) {
			if s := c.stmt(child); s != nil {
				nested = append(nested, s)
			}
			continue
		}
		exprs = append(exprs, c.expr(child))
	}
	return &pyast.Other{Exprs: exprs, Body: nested}
}

func isStmtKind(kind string) bool {
	switch kind {
	case "function_definition", "class_definition", "decorated_definition",
		"import_statement", "import_from_statement", "expression_statement",
		"if_statement", "for_statement", "while_statement", "with_statement",
		"try_statement", "return_statement":
		return true
	}
	return false
}

// ---- expressions ----

func (c *converter) expr(n *tree_sitter.Node) pyast.Expr {
	if n == nil {
		return nil
	}
	var e pyast.Expr
	switch n.Kind() {
	case "identifier":
		e = &pyast.Name{Id: c.text(n), Ctx: pyast.Load}
	case "attribute":
		e = &pyast.Attribute{
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  c.text(n.ChildByFieldName("attribute")),
			Ctx:   pyast.Load,
		}
	case "call":
		e = c.call(n)
	case "string":
		e = c.stringLiteral(n)
	case "integer", "float":
		e = &pyast.Constant{Kind: pyast.ConstNum}
	case "true", "false":
		e = &pyast.Constant{Kind: pyast.ConstBool}
	case "none":
		e = &pyast.Constant{Kind: pyast.ConstNone}
	case "ellipsis":
		e = &pyast.Constant{Kind: pyast.ConstEllipsis}
	case "comparison_operator":
		e = c.comparisonOp(n)
	case "parenthesized_expression":
		if inner := n.NamedChild(0); inner != nil {
			return c.expr(inner)
		}
		e = &pyast.Compound{Kind: n.Kind()}
	default:
		e = c.genericExpr(n)
	}
	if p, ok := e.(pyast.Positioner); ok {
		p.SetPos(c.pos(n))
	}
	return e
}

// comparisonOp walks every child (not just named ones) so the anonymous
// operator tokens ("==", "is not", ...) are captured alongside the named
// operand expressions. The entry-point detector relies on Operators to
// recognize "__name__ == \"__main__\"" without re-parsing source text.
func (c *converter) comparisonOp(n *tree_sitter.Node) *pyast.Compound {
	var children []pyast.Expr
	var operators []string
	cnt := n.ChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.IsNamed() {
			children = append(children, c.expr(child))
			continue
		}
		operators = append(operators, c.text(child))
	}
	return &pyast.Compound{Kind: "comparison_operator", Children: children, Operators: operators}
}

func (c *converter) call(n *tree_sitter.Node) pyast.Expr {
	fn := c.expr(n.ChildByFieldName("function"))
	var args []pyast.Expr
	var kwargs []pyast.Keyword
	if argList := n.ChildByFieldName("arguments"); argList != nil {
		cnt := argList.NamedChildCount()
		for i := uint(0); i < cnt; i++ {
			child := argList.NamedChild(i)
			if child == nil {
				continue
			}
			if child.Kind() == "keyword_argument" {
				kwargs = append(kwargs, pyast.Keyword{
					Arg:   c.text(child.ChildByFieldName("name")),
					Value: c.expr(child.ChildByFieldName("value")),
				})
				continue
			}
			args = append(args, c.expr(child))
		}
	}
	return &pyast.Call{Func: fn, Args: args, Keywords: kwargs}
}

// stringLiteral handles both plain strings and f-strings. tree-sitter-python
// models f-strings as a "string" node containing "string_content" and
// "interpolation" children; interpolation wraps a live expression that must
// still be visited for references.
func (c *converter) stringLiteral(n *tree_sitter.Node) pyast.Expr {
	var pieces []pyast.Expr
	isFString := false
	cnt := n.NamedChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "interpolation" {
			isFString = true
			if e := child.ChildByFieldName("expression"); e != nil {
				pieces = append(pieces, c.expr(e))
			} else if e := child.NamedChild(0); e != nil {
				pieces = append(pieces, c.expr(e))
			}
		}
	}
	if isFString {
		return &pyast.Compound{Kind: "fstring", Children: pieces}
	}
	raw := c.text(n)
	return &pyast.Constant{Kind: pyast.ConstStr, Str: unquote(raw)}
}

func unquote(raw string) string {
	s := raw
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2 {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// genericExpr is the fallback for every expression kind the visitor doesn't
// need to inspect structurally (binary/boolean/compare/unary operators,
// subscripts, slices, conditional expressions, comprehensions, generators,
// lambdas, yields, awaits, literal containers, keyword/positional splats,
// walrus assignments). It recurses into every named child so no nested name
// load is ever dropped.
func (c *converter) genericExpr(n *tree_sitter.Node) pyast.Expr {
	var children []pyast.Expr
	cnt := n.NamedChildCount()
	for i := uint(0); i < cnt; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "block" {
			// e.g. lambda bodies never have blocks, but comprehension
			// clauses sometimes nest statements in error-recovery trees.
			continue
		}
		children = append(children, c.expr(child))
	}
	return &pyast.Compound{Kind: n.Kind(), Children: children}
}
