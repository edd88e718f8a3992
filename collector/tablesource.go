package collector

import "github.com/sqlrefine/sqlrefine/ast"

// TableSourceCollector performs a DFS returning every ast.TableSource
// reachable from the root. SkipCTEBacked, when true, omits table sources
// whose name matches a CTE defined anywhere under the root — used by
// transformers that only care about references to real base tables.
type TableSourceCollector struct {
	ast.Tracker
	SkipCTEBacked bool
	cteNames      map[string]bool
	result        []*ast.TableSource
}

// CollectTableSources returns every TableSource reachable from root. When
// skipCTEBacked is true, references whose name matches any CTE defined
// under root are excluded, whether or not that CTE's WITH clause encloses
// the reference.
func CollectTableSources(root ast.Node, skipCTEBacked bool) []*ast.TableSource {
	c := &TableSourceCollector{SkipCTEBacked: skipCTEBacked, cteNames: map[string]bool{}}
	c.Reset()
	if skipCTEBacked {
		for _, ct := range CollectCTEs(root) {
			c.cteNames[lower(ct.Name)] = true
		}
	}
	ast.Walk(c, root)
	return c.result
}

func (c *TableSourceCollector) VisitNode(n ast.Node) {
	if n == nil || !c.Enter(n) {
		return
	}
	if ts, ok := n.(*ast.TableSource); ok {
		if !(c.SkipCTEBacked && c.cteNames[lower(ts.Name.Name)]) {
			c.result = append(c.result, ts)
		}
	}
	ast.WalkChildren(c, n)
}

func lower(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			b[i] = ch + 32
		}
	}
	return string(b)
}
