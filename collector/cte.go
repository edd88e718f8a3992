// Package collector implements the read-only AST walks:
// CTE collection, table-source collection, selectable-column collection
// (with upstream resolution), column-reference collection, parameter
// detection, and schema derivation. Each collector embeds ast.Tracker so
// re-entering an already-visited node during a walk is a no-op, per the
// ast.Visitor protocol.
package collector

import "github.com/sqlrefine/sqlrefine/ast"

// CTECollector performs a DFS returning every ast.CommonTable reachable
// from the root, including CTEs nested inside other CTEs' bodies, in
// source order. Re-encountering the same node (by identity) is skipped.
type CTECollector struct {
	ast.Tracker
	result []*ast.CommonTable
}

// CollectCTEs returns every CommonTable reachable from root.
func CollectCTEs(root ast.Node) []*ast.CommonTable {
	c := &CTECollector{}
	c.Reset()
	ast.Walk(c, root)
	return c.result
}

func (c *CTECollector) VisitNode(n ast.Node) {
	if n == nil || !c.Enter(n) {
		return
	}
	if ct, ok := n.(*ast.CommonTable); ok {
		c.result = append(c.result, ct)
	}
	if wc, ok := n.(*ast.WithClause); ok {
		for _, t := range wc.Tables {
			c.VisitNode(t)
		}
		return
	}
	ast.WalkChildren(c, n)
}
