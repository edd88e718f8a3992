package collector

import (
	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/internal/sqlerr"
)

// Mode selects how SchemaCollector reacts to a source or column it
// cannot resolve.
type Mode int

const (
	// ModeCollect fails loudly: an unresolved wildcard is a SchemaError. A
	// table the resolver knows no columns for is not an error by itself.
	ModeCollect Mode = iota
	// ModeAnalyze is tolerant: unresolved wildcards and columns are
	// recorded in Result.Unresolved instead of raising an error.
	ModeAnalyze
)

// SchemaResult is the output of CollectSchema: a table-name to
// column-name mapping, plus anything ModeAnalyze could not resolve.
type SchemaResult struct {
	Tables      map[string][]string
	Unresolved  []string
}

// CollectSchema derives a {table -> columns} map implied by query: for
// every SELECT reachable from root, the selectable columns it exposes
// are attributed to its table alias (or real table name, for bare table
// sources). Subqueries and CTEs contribute their own derived shape as an
// independent pseudo-table keyed by their alias.
//
// resolver, if non-nil, is consulted so wildcard expansion can see real
// base-table columns; without it, wildcards over bare tables are
// unresolved under ModeAnalyze and an error under ModeCollect.
func CollectSchema(root ast.Node, mode Mode, resolver TableColumnResolver) (*SchemaResult, error) {
	res := &SchemaResult{Tables: map[string][]string{}}
	err := collectSchemaQuery(root, mode, resolver, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func collectSchemaQuery(query ast.Node, mode Mode, resolver TableColumnResolver, res *SchemaResult) error {
	switch q := query.(type) {
	case *ast.BinarySelect:
		if err := collectSchemaQuery(q.Left, mode, resolver, res); err != nil {
			return err
		}
		return collectSchemaQuery(q.Right, mode, resolver, res)
	case *ast.SimpleSelect:
		return collectSchemaSimple(q, mode, resolver, res)
	}
	return nil
}

func collectSchemaSimple(sel *ast.SimpleSelect, mode Mode, resolver TableColumnResolver, res *SchemaResult) error {
	opts := Options{Dedup: DedupColumnName, Upstream: true, Resolver: resolver}
	cols, err := CollectSelectable(sel, opts)
	if err != nil {
		if mode == ModeCollect {
			return &sqlerr.SchemaError{Message: err.Error()}
		}
		res.Unresolved = append(res.Unresolved, err.Error())
	}

	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Alias)
	}

	outer := ""
	if sel.With != nil {
		for _, ct := range sel.With.Tables {
			if err := collectSchemaQuery(ct.Query, mode, resolver, res); err != nil {
				return err
			}
			res.Tables[lower(ct.Name)] = schemaOf(ct.Query, mode, resolver, res)
		}
	}
	_ = outer
	if len(names) > 0 {
		res.Tables["$output"] = names
	}

	if sel.From != nil {
		if err := descendSource(sel.From.Source, mode, resolver, res); err != nil {
			return err
		}
		for _, j := range sel.From.Joins {
			if err := descendSource(j.Source, mode, resolver, res); err != nil {
				return err
			}
		}
	}
	return nil
}

func descendSource(se *ast.SourceExpression, mode Mode, resolver TableColumnResolver, res *SchemaResult) error {
	switch ds := se.Datasource.(type) {
	case *ast.SubQuerySource:
		if err := collectSchemaQuery(ds.Query, mode, resolver, res); err != nil {
			return err
		}
		res.Tables[lower(se.Name())] = schemaOf(ds.Query, mode, resolver, res)
	case *ast.ParenSource:
		if ds.Inner != nil {
			if err := descendSource(ds.Inner.Source, mode, resolver, res); err != nil {
				return err
			}
			for _, j := range ds.Inner.Joins {
				if err := descendSource(j.Source, mode, resolver, res); err != nil {
					return err
				}
			}
		}
	case *ast.TableSource:
		if resolver != nil {
			if cols := resolver(ds.Name.Name); cols != nil {
				res.Tables[lower(ds.Name.Name)] = cols
			}
		}
	}
	return nil
}

func schemaOf(query ast.Node, mode Mode, resolver TableColumnResolver, res *SchemaResult) []string {
	cols, err := CollectSelectable(query, Options{Dedup: DedupColumnName, Upstream: true, Resolver: resolver})
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Alias)
	}
	return names
}

type sqlErrWrap struct{ msg string }

func (e *sqlErrWrap) Error() string { return e.msg }
