package collector

import (
	"fmt"

	"github.com/sqlrefine/sqlrefine/ast"
)

// DedupMode selects how the selectable-column collector treats duplicate
// output names.
type DedupMode int

const (
	// DedupColumnName compares bare column names only (optionally
	// normalizing case and underscores).
	DedupColumnName DedupMode = iota
	// DedupFullName compares "table.column" (or alias) as a unit.
	DedupFullName
)

// TableColumnResolver answers "what columns does this table expose" for a
// real (non-CTE) table source, used when expanding a `*` wildcard in
// upstream mode. Returns nil if the table is unknown to the resolver.
type TableColumnResolver func(tableName string) []string

// Selectable is one {alias, value} pair exposed by a SELECT's output
// list, as collected by SelectableColumnCollector.
type Selectable struct {
	Alias string
	Value ast.Node
	// SourceAlias is the FROM-side alias the value originated from, when
	// known (used by upstream expansion to qualify generated references).
	SourceAlias string
}

// Options configures one CollectSelectable call.
type Options struct {
	Dedup            DedupMode
	NormalizeCase    bool
	NormalizeUnderscore bool
	// Upstream, when true, expands `*` wildcards by resolving FROM
	// sources recursively: CTEs and subqueries are descended into, real
	// tables are expanded via Resolver.
	Upstream bool
	Resolver TableColumnResolver
}

type selectableEnv struct {
	ctes map[string]*ast.CommonTable
}

func newEnv() *selectableEnv { return &selectableEnv{ctes: map[string]*ast.CommonTable{}} }

func (e *selectableEnv) extend(wc *ast.WithClause) *selectableEnv {
	if wc == nil {
		return e
	}
	next := &selectableEnv{ctes: map[string]*ast.CommonTable{}}
	for k, v := range e.ctes {
		next.ctes[k] = v
	}
	for _, ct := range wc.Tables {
		next.ctes[lower(ct.Name)] = ct
	}
	return next
}

// CollectSelectable returns the {alias, value} pairs a query exposes,
// deduplicated per opts.Dedup. query is typically *ast.SimpleSelect;
// *ast.BinarySelect delegates to its left arm (both sides must agree in
// arity per the binary set-op invariant, so either side's output shape
// is representative).
func CollectSelectable(query ast.Node, opts Options) ([]Selectable, error) {
	return collectSelectable(query, opts, newEnv())
}

func collectSelectable(query ast.Node, opts Options, env *selectableEnv) ([]Selectable, error) {
	switch q := query.(type) {
	case *ast.BinarySelect:
		return collectSelectable(q.Left, opts, env)
	case *ast.ValuesQuery:
		return nil, nil
	case *ast.SimpleSelect:
		return collectSimpleSelect(q, opts, env)
	}
	return nil, fmt.Errorf("collector: unsupported query kind %T", query)
}

func collectSimpleSelect(sel *ast.SimpleSelect, opts Options, env *selectableEnv) ([]Selectable, error) {
	env = env.extend(sel.With)
	if sel.Select == nil {
		return nil, nil
	}
	var out []Selectable
	seen := map[string]bool{}
	add := func(s Selectable) {
		key := dedupKey(s, opts)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}

	for _, item := range sel.Select.Items {
		if item.Wildcard {
			expanded, err := expandWildcard(sel, item, opts, env)
			if err != nil {
				return nil, err
			}
			for _, s := range expanded {
				add(s)
			}
			continue
		}
		alias := item.Alias
		if alias == "" {
			alias = deriveAlias(item.Value)
		}
		src := ""
		if cr, ok := item.Value.(*ast.ColumnReference); ok {
			src = cr.Namespace()
		}
		add(Selectable{Alias: alias, Value: item.Value, SourceAlias: src})
	}
	return out, nil
}

func deriveAlias(v ast.Node) string {
	switch t := v.(type) {
	case *ast.ColumnReference:
		return t.Column
	case *ast.FunctionCall:
		return t.Name
	}
	return ""
}

func dedupKey(s Selectable, opts Options) string {
	name := s.Alias
	if opts.Dedup == DedupFullName && s.SourceAlias != "" {
		name = s.SourceAlias + "." + name
	}
	if opts.NormalizeCase {
		name = lower(name)
	}
	if opts.NormalizeUnderscore {
		name = stripUnderscores(name)
	}
	return name
}

func stripUnderscores(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b = append(b, s[i])
		}
	}
	return string(b)
}

// expandWildcard resolves a `*` or `alias.*` select item into its
// constituent {alias, value} pairs by walking the FROM-side sources.
func expandWildcard(sel *ast.SimpleSelect, item *ast.SelectItem, opts Options, env *selectableEnv) ([]Selectable, error) {
	if !opts.Upstream {
		return nil, fmt.Errorf("collector: wildcard expansion requires upstream mode")
	}
	if sel.From == nil {
		return nil, nil
	}
	var sources []*ast.SourceExpression
	sources = append(sources, sel.From.Source)
	for _, j := range sel.From.Joins {
		sources = append(sources, j.Source)
	}

	var out []Selectable
	for _, se := range sources {
		if item.WildcardTable != "" && lower(se.Name()) != lower(item.WildcardTable) {
			continue
		}
		cols, err := expandSource(se, opts, env)
		if err != nil {
			return nil, err
		}
		out = append(out, cols...)
	}
	return out, nil
}

func expandSource(se *ast.SourceExpression, opts Options, env *selectableEnv) ([]Selectable, error) {
	alias := se.Name()
	switch ds := se.Datasource.(type) {
	case *ast.TableSource:
		if ct, ok := env.ctes[lower(ds.Name.Name)]; ok {
			inner, err := collectSelectable(ct.Query, opts, env)
			if err != nil {
				return nil, err
			}
			return requalify(inner, alias), nil
		}
		if opts.Resolver == nil {
			return nil, fmt.Errorf("collector: no resolver for table %q", ds.Name.Name)
		}
		cols := opts.Resolver(ds.Name.Name)
		out := make([]Selectable, 0, len(cols))
		for _, col := range cols {
			out = append(out, Selectable{
				Alias:       col,
				Value:       ast.NewColumnReference([]string{alias}, col),
				SourceAlias: alias,
			})
		}
		return out, nil
	case *ast.SubQuerySource:
		inner, err := collectSelectable(ds.Query, opts, env)
		if err != nil {
			return nil, err
		}
		return requalify(inner, alias), nil
	}
	return nil, nil
}

// requalify rewrites each selectable's SourceAlias to the outer alias the
// source is exposed as, so a double-nested subquery's columns appear
// correctly qualified from the outer query's point of view.
func requalify(in []Selectable, outerAlias string) []Selectable {
	out := make([]Selectable, len(in))
	for i, s := range in {
		out[i] = Selectable{
			Alias:       s.Alias,
			Value:       ast.NewColumnReference([]string{outerAlias}, s.Alias),
			SourceAlias: outerAlias,
		}
	}
	return out
}
