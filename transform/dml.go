package transform

import (
	"fmt"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/collector"
	"github.com/sqlrefine/sqlrefine/format"
	"github.com/sqlrefine/sqlrefine/internal/sqlerr"
)

// ValidateGenerated renders n under opts and confirms it parses: via
// format.ValidatePostgres, or via format.ValidateMySQLQuery when
// opts.IdentifierEscape is EscapeBacktick. The UpdateToSelect/DeleteToSelect/
// InsertToSelect/MergeToSelect family, like the DDL diff generator,
// synthesizes SQL text a caller may execute rather than just display, so
// callers that care opt into this check the same way DiffOptions.Validate
// does for migration statements.
func ValidateGenerated(n ast.Node, opts format.Options) error {
	validate := format.ValidatePostgres
	if opts.IdentifierEscape == format.EscapeBacktick {
		validate = format.ValidateMySQLQuery
	}
	if err := validate(format.Format(n, opts)); err != nil {
		return fmt.Errorf("dml-to-select: generated statement failed validation: %w", err)
	}
	return nil
}

// UpdateToSelect converts u into the SELECT that produces the rows it
// would affect: target cross-joined with any explicit
// FROM, the original WHERE preserved, and a projection built from
// RETURNING (each column substituted with its SET expression when the
// column is assigned, else qualified back to the target) or count(*) when
// there's no RETURNING.
func UpdateToSelect(u *ast.Update) (*ast.SimpleSelect, error) {
	sel := ast.NewSimpleSelect()
	from := ast.NewFromClause(u.Target)
	if u.From != nil {
		from.Joins = append(from.Joins, crossJoinsFrom(u.From)...)
	}
	sel.From = from
	sel.Where = u.Where

	sc := ast.NewSelectClause()
	if u.Returning == nil {
		sc.Items = append(sc.Items, countStarItem())
	} else {
		targetName := u.Target.Name()
		for _, item := range u.Returning.Items {
			sc.Items = append(sc.Items, rewriteReturningItem(item, targetName, u.Set))
		}
	}
	sel.Select = sc
	return sel, nil
}

// DeleteToSelect converts d the same way UpdateToSelect does, minus any
// SET substitution (a DELETE doesn't change column values).
func DeleteToSelect(d *ast.Delete) (*ast.SimpleSelect, error) {
	sel := ast.NewSimpleSelect()
	from := ast.NewFromClause(d.Target)
	if d.Using != nil {
		from.Joins = append(from.Joins, crossJoinsFrom(d.Using)...)
	}
	sel.From = from
	sel.Where = d.Where

	sc := ast.NewSelectClause()
	if d.Returning == nil {
		sc.Items = append(sc.Items, countStarItem())
	} else {
		targetName := d.Target.Name()
		for _, item := range d.Returning.Items {
			sc.Items = append(sc.Items, rewriteReturningItem(item, targetName, nil))
		}
	}
	sel.Select = sc
	return sel, nil
}

func crossJoinsFrom(from *ast.FromClause) []*ast.JoinClause {
	out := []*ast.JoinClause{ast.NewJoinClause(ast.JoinCross, from.Source)}
	return append(out, from.Joins...)
}

func rewriteReturningItem(item *ast.SelectItem, targetName string, set *ast.SetClause) *ast.SelectItem {
	col, ok := item.Value.(*ast.ColumnReference)
	if !ok {
		return item
	}
	alias := item.Alias
	if alias == "" {
		alias = col.Column
	}
	if set != nil {
		if si := findSetItem(set, col.Column); si != nil {
			return ast.NewSelectItem(si.Value, alias)
		}
	}
	return ast.NewSelectItem(ast.NewColumnReference([]string{targetName}, col.Column), alias)
}

func findSetItem(set *ast.SetClause, column string) *ast.SetItem {
	for _, si := range set.Items {
		if lower(si.Column) == lower(column) {
			return si
		}
	}
	return nil
}

// InsertToSelect converts a VALUES-sourced ins into a row-producing
// query. Without RETURNING this is a count(*) over the
// rows; with RETURNING, each row becomes one SELECT substituting the
// RETURNING columns with that row's literal/expression values, UNION
// ALL'd together when there's more than one row.
func InsertToSelect(ins *ast.Insert) (ast.Node, error) {
	if ins.Source != ast.InsertSourceValues || ins.Values == nil {
		return nil, fmt.Errorf("transform: InsertToSelect only supports VALUES-sourced INSERT")
	}
	if ins.Returning == nil {
		sel := ast.NewSimpleSelect()
		sel.From = ast.NewFromClause(ast.NewSourceExpression("ins_rows", ins.Values))
		sc := ast.NewSelectClause()
		sc.Items = append(sc.Items, countStarItem())
		sel.Select = sc
		return sel, nil
	}
	if len(ins.Columns) == 0 {
		return nil, &sqlerr.SemanticError{Message: "InsertToSelect requires an explicit column list to map RETURNING"}
	}
	colIndex := map[string]int{}
	for i, c := range ins.Columns {
		colIndex[lower(c)] = i
	}

	var rows []ast.Node
	for _, row := range ins.Values.Rows {
		sc := ast.NewSelectClause()
		for _, item := range ins.Returning.Items {
			col, ok := item.Value.(*ast.ColumnReference)
			if !ok {
				sc.Items = append(sc.Items, item)
				continue
			}
			alias := item.Alias
			if alias == "" {
				alias = col.Column
			}
			idx, found := colIndex[lower(col.Column)]
			if !found || idx >= len(row) {
				return nil, &sqlerr.ResolutionError{Name: col.Column, Message: "RETURNING column not in INSERT column list"}
			}
			sc.Items = append(sc.Items, ast.NewSelectItem(row[idx], alias))
		}
		s := ast.NewSimpleSelect()
		s.Select = sc
		rows = append(rows, s)
	}
	return foldUnionAll(rows), nil
}

func foldUnionAll(queries []ast.Node) ast.Node {
	if len(queries) == 0 {
		return nil
	}
	result := queries[0]
	for _, q := range queries[1:] {
		result = ast.NewBinarySelect(result, ast.SetOpUnionAll, q)
	}
	return result
}

// MergeToSelect converts m into a count(*) SELECT over the UNION ALL of
// one row-producing SELECT per WHEN clause: MATCHED
// branches inner-join target to source on the MERGE's ON condition;
// NOT MATCHED [BY TARGET] branches read from source alone, guarded by a
// NOT EXISTS against target; NOT MATCHED BY SOURCE branches read from
// target alone, guarded by a NOT EXISTS against source. Each branch's own
// clause condition and action-level WHERE are AND'd in.
func MergeToSelect(m *ast.Merge) (*ast.SimpleSelect, error) {
	var branches []ast.Node
	for _, w := range m.Whens {
		sel := ast.NewSimpleSelect()
		sc := ast.NewSelectClause()
		sc.Items = append(sc.Items, ast.NewSelectItem(ast.NewLiteralValue(ast.LiteralNumber, "1"), ""))
		sel.Select = sc

		var where ast.Node
		switch w.Match {
		case ast.MergeMatched:
			from := ast.NewFromClause(m.Target)
			jc := ast.NewJoinClause(ast.JoinInner, m.Source)
			jc.ConditionKind = ast.JoinCondOn
			jc.On = m.On
			from.Joins = append(from.Joins, jc)
			sel.From = from
			where = w.Condition
		case ast.MergeNotMatchedByTarget:
			sel.From = ast.NewFromClause(m.Source)
			where = andNode(ast.NewInlineQuery("NOT EXISTS", matchProbe(m.Target, m.On)), w.Condition)
		case ast.MergeNotMatchedBySource:
			sel.From = ast.NewFromClause(m.Target)
			where = andNode(ast.NewInlineQuery("NOT EXISTS", matchProbe(m.Source, m.On)), w.Condition)
		}
		where = andNode(where, actionWhere(w.Action))
		sel.Where = ast.NewWhereClause(where)
		branches = append(branches, sel)
	}

	union := foldUnionAll(branches)
	outer := ast.NewSimpleSelect()
	outer.From = ast.NewFromClause(ast.NewSourceExpression("merge_rows", ast.NewSubQuerySource(union)))
	sc := ast.NewSelectClause()
	sc.Items = append(sc.Items, countStarItem())
	outer.Select = sc
	return outer, nil
}

func actionWhere(a ast.MergeAction) ast.Node {
	if a.Where == nil {
		return nil
	}
	return a.Where.Condition
}

// matchProbe builds `SELECT 1 FROM side WHERE on` for use inside a
// NOT EXISTS guard.
func matchProbe(side *ast.SourceExpression, on ast.Node) *ast.SimpleSelect {
	sel := ast.NewSimpleSelect()
	sc := ast.NewSelectClause()
	sc.Items = append(sc.Items, ast.NewSelectItem(ast.NewLiteralValue(ast.LiteralNumber, "1"), ""))
	sel.Select = sc
	sel.From = ast.NewFromClause(side)
	sel.Where = ast.NewWhereClause(on)
	return sel
}

// FixtureTable supplies VALUES rows to shadow a concrete table reference
// during DML-to-SELECT testing fixture feature.
type FixtureTable struct {
	Name    string
	Columns []string
	Rows    [][]ast.Node
}

// MissingFixtureStrategy controls ApplyFixtures' behavior when a table the
// generated SELECT references has no matching fixture.
type MissingFixtureStrategy int

const (
	MissingFixtureError MissingFixtureStrategy = iota
	MissingFixtureSkip
)

// ApplyFixtures prepends a VALUES-backed CommonTable per fixture to
// query's WITH clause, shadowing the concrete table it names wherever
// query references it. Tables already defined by an existing WITH clause
// are left alone. strategy governs references with no matching fixture:
// MissingFixtureError (default) reports every uncovered table name,
// MissingFixtureSkip leaves them unshadowed.
func ApplyFixtures(query ast.Node, fixtures []FixtureTable, strategy MissingFixtureStrategy) (ast.Node, error) {
	sel, ok := query.(*ast.SimpleSelect)
	if !ok {
		return query, nil
	}
	existing := map[string]bool{}
	if sel.With != nil {
		for _, ct := range sel.With.Tables {
			existing[lower(ct.Name)] = true
		}
	}
	byName := map[string]FixtureTable{}
	for _, f := range fixtures {
		byName[lower(f.Name)] = f
	}

	seen := map[string]bool{}
	var shadow []*ast.CommonTable
	var missing []string
	for _, ts := range collector.CollectTableSources(sel, false) {
		name := lower(ts.Name.Name)
		if existing[name] || seen[name] {
			continue
		}
		seen[name] = true
		f, ok := byName[name]
		if !ok {
			missing = append(missing, ts.Name.Name)
			continue
		}
		shadow = append(shadow, buildFixtureCTE(f))
	}
	if len(missing) > 0 && strategy == MissingFixtureError {
		return nil, &sqlerr.SchemaError{Message: "missing fixtures for referenced tables", Tables: missing}
	}
	if len(shadow) == 0 {
		return sel, nil
	}
	wc := sel.With
	if wc == nil {
		wc = ast.NewWithClause()
	}
	wc.Tables = append(append([]*ast.CommonTable{}, shadow...), wc.Tables...)
	sel.With = wc
	return sel, nil
}

func buildFixtureCTE(f FixtureTable) *ast.CommonTable {
	vq := ast.NewValuesQuery()
	vq.Rows = f.Rows
	ct := ast.NewCommonTable(f.Name, vq)
	ct.Columns = f.Columns
	return ct
}
