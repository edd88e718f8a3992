package transform

import (
	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/collector"
	"github.com/sqlrefine/sqlrefine/internal/obs"
)

// PruneUnusedCTEs removes, from every WithClause in the tree, any CTE not
// reachable from its owning query's main body, directly or through
// another CTE it depends on. Recursive WITH clauses are
// left untouched entirely — a recursive CTE's self-reference makes
// "unused" ill-defined in the same sense. Runs to a fixed point: dropping
// one CTE can orphan another that only it referenced.
func PruneUnusedCTEs(root ast.Node) ast.Node {
	for {
		changed := false
		for _, sel := range collectSimpleSelects(root) {
			if pruneWithClause(sel) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return root
}

func pruneWithClause(sel *ast.SimpleSelect) bool {
	wc := sel.With
	if wc == nil || wc.Recursive || len(wc.Tables) == 0 {
		return false
	}

	names := map[string]bool{}
	for _, ct := range wc.Tables {
		names[lower(ct.Name)] = true
	}

	deps := map[string]map[string]bool{}
	for _, ct := range wc.Tables {
		set := map[string]bool{}
		for _, ts := range collector.CollectTableSources(ct.Query, false) {
			if n := lower(ts.Name.Name); names[n] {
				set[n] = true
			}
		}
		deps[lower(ct.Name)] = set
	}

	// Detach the WithClause before scanning the main body so a CTE's own
	// self-reference (or a sibling CTE's) inside ct.Query isn't mistaken
	// for a main-body reference.
	sel.With = nil
	mainRefs := map[string]bool{}
	for _, ts := range collector.CollectTableSources(sel, false) {
		if n := lower(ts.Name.Name); names[n] {
			mainRefs[n] = true
		}
	}
	sel.With = wc

	reachable := map[string]bool{}
	var queue []string
	for n := range mainRefs {
		reachable[n] = true
		queue = append(queue, n)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dep := range deps[cur] {
			if !reachable[dep] {
				reachable[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	kept := wc.Tables[:0:0]
	changed := false
	for _, ct := range wc.Tables {
		if reachable[lower(ct.Name)] {
			kept = append(kept, ct)
			continue
		}
		changed = true
		obs.L().Debugw("unused cte pruned", "name", ct.Name)
	}
	wc.Tables = kept
	if len(wc.Tables) == 0 {
		sel.With = nil
	}
	return changed
}
