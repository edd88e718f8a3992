package transform

import "github.com/sqlrefine/sqlrefine/ast"

type upstreamEnv struct {
	ctes map[string]*ast.CommonTable
}

func newUpstreamEnv() *upstreamEnv { return &upstreamEnv{ctes: map[string]*ast.CommonTable{}} }

func (e *upstreamEnv) extend(wc *ast.WithClause) *upstreamEnv {
	if wc == nil {
		return e
	}
	next := &upstreamEnv{ctes: map[string]*ast.CommonTable{}}
	for k, v := range e.ctes {
		next.ctes[k] = v
	}
	for _, ct := range wc.Tables {
		next.ctes[lower(ct.Name)] = ct
	}
	return next
}

// FindUpstreamSelects searches the FROM tree of root (descending through
// subqueries and CTE bodies) for every highest SELECT whose output
// exposes all of the given columns. A SELECT satisfying
// the request is a match and the search does not descend past it; one
// that doesn't satisfy it is skipped in favor of whatever its own FROM
// sources can provide. Binary set-ops descend independently into each arm
// and union the matches, since either arm may satisfy the request through
// a different path.
func FindUpstreamSelects(root ast.Node, columns ...string) []*ast.SimpleSelect {
	return findUpstream(root, columns, newUpstreamEnv())
}

func findUpstream(n ast.Node, columns []string, env *upstreamEnv) []*ast.SimpleSelect {
	switch q := n.(type) {
	case *ast.BinarySelect:
		left := findUpstream(q.Left, columns, env)
		right := findUpstream(q.Right, columns, env)
		return append(left, right...)
	case *ast.SimpleSelect:
		env = env.extend(q.With)
		if satisfiesColumns(q, columns) {
			return []*ast.SimpleSelect{q}
		}
		var out []*ast.SimpleSelect
		if q.From != nil {
			out = append(out, descendSourceUpstream(q.From.Source, columns, env)...)
			for _, j := range q.From.Joins {
				out = append(out, descendSourceUpstream(j.Source, columns, env)...)
			}
		}
		return out
	}
	return nil
}

func descendSourceUpstream(se *ast.SourceExpression, columns []string, env *upstreamEnv) []*ast.SimpleSelect {
	if se == nil {
		return nil
	}
	switch ds := se.Datasource.(type) {
	case *ast.TableSource:
		if ct, ok := env.ctes[lower(ds.Name.Name)]; ok {
			return findUpstream(ct.Query, columns, env)
		}
		return nil
	case *ast.SubQuerySource:
		return findUpstream(ds.Query, columns, env)
	case *ast.ParenSource:
		if ds.Inner == nil {
			return nil
		}
		out := descendSourceUpstream(ds.Inner.Source, columns, env)
		for _, j := range ds.Inner.Joins {
			out = append(out, descendSourceUpstream(j.Source, columns, env)...)
		}
		return out
	}
	return nil
}

// satisfiesColumns reports whether sel's own output list already names
// every requested column, case-insensitively. A `*`/`alias.*` wildcard
// item is treated as satisfying any request, since without a schema
// resolver there's no way to statically rule it out.
func satisfiesColumns(sel *ast.SimpleSelect, columns []string) bool {
	if sel.Select == nil {
		return false
	}
	have := map[string]bool{}
	for _, item := range sel.Select.Items {
		if item.Wildcard {
			return true
		}
		alias := item.Alias
		if alias == "" {
			if cr, ok := item.Value.(*ast.ColumnReference); ok {
				alias = cr.Column
			}
		}
		if alias != "" {
			have[lower(alias)] = true
		}
	}
	for _, c := range columns {
		if !have[lower(c)] {
			return false
		}
	}
	return true
}
