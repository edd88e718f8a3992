package collector

import "github.com/sqlrefine/sqlrefine/ast"

// ParameterCollector returns the set of parameter names referenced
// anywhere in the tree, as held in ast.ParameterValue.Name (without the
// leading `:` or `$`).
type ParameterCollector struct {
	ast.Tracker
	seen   map[string]bool
	result []string
}

// CollectParameters returns every distinct parameter name referenced
// under root, in first-seen order.
func CollectParameters(root ast.Node) []string {
	c := &ParameterCollector{seen: map[string]bool{}}
	c.Reset()
	ast.Walk(c, root)
	return c.result
}

func (c *ParameterCollector) VisitNode(n ast.Node) {
	if n == nil || !c.Enter(n) {
		return
	}
	if pv, ok := n.(*ast.ParameterValue); ok {
		if !c.seen[pv.Name] {
			c.seen[pv.Name] = true
			c.result = append(c.result, pv.Name)
		}
		return
	}
	ast.WalkChildren(c, n)
}
