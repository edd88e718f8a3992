// Package transform implements the query-rewriting operations:
// pruning unused LEFT JOINs and CTEs, locating the upstream
// SELECT that exposes a given column, injecting EXISTS/IN predicates and
// ORDER BY items, converting DML statements into row-producing SELECTs,
// building JSON-aggregation CTE chains, composing/decomposing CTE chains,
// and diffing two DDL scripts. Most operations here take and return
// ast.Node (or a concrete subtype); none of it touches lexer/parser
// directly except where a transformer is explicitly handed raw SQL to
// parse (the EXISTS/IN injectors and the DDL diff).
package transform

import "github.com/sqlrefine/sqlrefine/ast"

// lower ASCII-folds s for case-insensitive name comparisons, mirroring the
// private helper the collector package carries in tablesource.go.
func lower(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			b[i] = ch + 32
		}
	}
	return string(b)
}

func containsFold(items []string, want string) bool {
	w := lower(want)
	for _, it := range items {
		if lower(it) == w {
			return true
		}
	}
	return false
}

// andNode AND-joins two optional condition expressions, passing either
// through unchanged when the other is nil.
func andNode(a, b ast.Node) ast.Node {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return ast.NewBinaryExpression(a, "AND", b)
	}
}

// simpleSelectCollector gathers every *ast.SimpleSelect reachable from a
// root, including ones nested in CTE bodies and subqueries, the way
// collector.CTECollector gathers CommonTables.
type simpleSelectCollector struct {
	ast.Tracker
	result []*ast.SimpleSelect
}

func collectSimpleSelects(root ast.Node) []*ast.SimpleSelect {
	c := &simpleSelectCollector{}
	c.Reset()
	ast.Walk(c, root)
	return c.result
}

func (c *simpleSelectCollector) VisitNode(n ast.Node) {
	if n == nil || !c.Enter(n) {
		return
	}
	if sel, ok := n.(*ast.SimpleSelect); ok {
		c.result = append(c.result, sel)
	}
	ast.WalkChildren(c, n)
}

// countStarItem builds the `count(*)` projection the DML-to-SELECT
// converters emit when the source statement carries no RETURNING clause.
func countStarItem() *ast.SelectItem {
	return ast.NewSelectItem(ast.NewFunctionCall("count", []ast.Node{ast.NewRawString("*")}), "")
}
