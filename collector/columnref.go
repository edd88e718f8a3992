package collector

import "github.com/sqlrefine/sqlrefine/ast"

// ColumnRefCollector returns every ast.ColumnReference instance reachable
// from the root, with multiplicity, including references inside CTE
// bodies and subqueries. Unlike SelectableColumnCollector it performs no
// deduplication — it exists for bulk rewrites (renaming an alias
// everywhere it's used) where every occurrence must be visited.
type ColumnRefCollector struct {
	ast.Tracker
	result []*ast.ColumnReference
}

// CollectColumnReferences returns every ColumnReference under root, in
// document order, counted with multiplicity.
func CollectColumnReferences(root ast.Node) []*ast.ColumnReference {
	c := &ColumnRefCollector{}
	c.Reset()
	ast.Walk(c, root)
	return c.result
}

func (c *ColumnRefCollector) VisitNode(n ast.Node) {
	if n == nil || !c.Enter(n) {
		return
	}
	if cr, ok := n.(*ast.ColumnReference); ok {
		c.result = append(c.result, cr)
		return // leaf: no children
	}
	ast.WalkChildren(c, n)
}

// CountNamespaceUses counts how many ColumnReference instances under root
// use any of the given namespace names (case-insensitive), used by the
// unused-LEFT-JOIN pruner to test whether a joined alias is
// referenced anywhere in the query.
func CountNamespaceUses(root ast.Node, namespaces ...string) int {
	want := map[string]bool{}
	for _, ns := range namespaces {
		want[lower(ns)] = true
	}
	count := 0
	for _, cr := range CollectColumnReferences(root) {
		if want[lower(cr.Namespace())] {
			count++
		}
	}
	return count
}
