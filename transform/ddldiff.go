package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/format"
	"github.com/sqlrefine/sqlrefine/parser"
)

// TableModel is the CREATE TABLE + CREATE INDEX shape of one table,
// folded from however many statements a script uses to describe it.
type TableModel struct {
	Name        string
	Columns     []*ast.ColumnDefinition
	Constraints []*ast.TableConstraint
	Indexes     []*ast.CreateIndex
}

// BuildTableModels groups a parsed script's CREATE TABLE/CREATE INDEX
// statements by table name.
func BuildTableModels(stmts []ast.Node) map[string]*TableModel {
	models := map[string]*TableModel{}
	get := func(name string) *TableModel {
		key := lower(name)
		m := models[key]
		if m == nil {
			m = &TableModel{Name: name}
			models[key] = m
		}
		return m
	}
	for _, n := range stmts {
		switch t := n.(type) {
		case *ast.CreateTable:
			m := get(t.Table.Name)
			m.Columns = append(m.Columns, t.Columns...)
			m.Constraints = append(m.Constraints, t.Constraints...)
		case *ast.CreateIndex:
			m := get(t.Table.Name)
			m.Indexes = append(m.Indexes, t)
		}
	}
	return models
}

// DiffOptions configures one Diff call.
type DiffOptions struct {
	// CheckNames, when true, treats a constraint/index's explicit name as
	// its identity; otherwise identity is structural (kind, columns,
	// referenced table/columns, check expression text).
	CheckNames bool
	// DropExtraColumns/Constraints/Indexes emit DROP statements for
	// members present in the current script but absent from expected.
	// Unnamed constraints/indexes can't be dropped by name and are
	// skipped regardless of these flags.
	DropExtraColumns     bool
	DropExtraConstraints bool
	DropExtraIndexes     bool
	// EmitDropTables emits DROP TABLE for tables present in current but
	// absent from expected (after RenameMap is applied).
	EmitDropTables bool
	// RenameMap maps a current-script table name to the name it's
	// expected to have, so a rename isn't reported as DROP + CREATE.
	RenameMap map[string]string
	// Validate, when true, checks each statement DiffFormatted renders
	// before returning it, with format.ValidatePostgres, or with
	// format.ValidateMySQL when the format options use EscapeBacktick, since this
	// generator (unlike a plain Format call) synthesizes migration SQL a
	// caller may hand straight to a database.
	Validate bool
}

// Diff parses currentSQL and expectedSQL as DDL scripts and returns the
// statements that would bring current's tables up to expected's shape,
//: for each expected table absent from current, a CREATE
// TABLE (columns only) plus one ALTER TABLE ADD CONSTRAINT per constraint
// plus each CREATE INDEX; for a table present in both, a column/
// constraint/index-level comparison emitting only what's missing (and,
// opt-in, DROPs for what's extra).
func Diff(currentSQL, expectedSQL string, opts DiffOptions) ([]ast.Node, error) {
	curStmts, err := parseScript(currentSQL)
	if err != nil {
		return nil, err
	}
	expStmts, err := parseScript(expectedSQL)
	if err != nil {
		return nil, err
	}

	curModels := applyRenames(BuildTableModels(curStmts), opts.RenameMap)
	expModels := BuildTableModels(expStmts)

	var out []ast.Node
	var names []string
	for name := range expModels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		exp := expModels[name]
		cur, ok := curModels[name]
		if !ok {
			out = append(out, buildCreateTableStatements(exp)...)
			continue
		}
		out = append(out, diffTable(cur, exp, opts)...)
	}

	if opts.EmitDropTables {
		var extra []string
		for name := range curModels {
			if _, ok := expModels[name]; !ok {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		for _, name := range extra {
			out = append(out, ast.NewDropTable([]*ast.QualifiedName{ast.NewQualifiedName(nil, curModels[name].Name)}))
		}
	}
	return out, nil
}

// DiffFormatted runs Diff and renders each resulting statement under
// opts, one statement per line, joined by ";\n".
func DiffFormatted(currentSQL, expectedSQL string, diffOpts DiffOptions, fmtOpts format.Options) (string, error) {
	stmts, err := Diff(currentSQL, expectedSQL, diffOpts)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = format.Format(s, fmtOpts)
	}
	out := strings.Join(parts, ";\n")
	if diffOpts.Validate {
		validate := format.ValidatePostgres
		if fmtOpts.IdentifierEscape == format.EscapeBacktick {
			validate = format.ValidateMySQL
		}
		for _, p := range parts {
			if err := validate(p); err != nil {
				return "", fmt.Errorf("ddl diff: generated statement failed validation: %w", err)
			}
		}
	}
	return out, nil
}

func parseScript(sql string) ([]ast.Node, error) {
	stmts, err := parser.SplitStatements(sql)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Node, 0, len(stmts))
	for _, s := range stmts {
		n, err := parser.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func applyRenames(models map[string]*TableModel, renameMap map[string]string) map[string]*TableModel {
	if len(renameMap) == 0 {
		return models
	}
	out := make(map[string]*TableModel, len(models))
	for key, m := range models {
		newName, ok := renameMap[m.Name]
		if !ok {
			out[key] = m
			continue
		}
		renamed := *m
		renamed.Name = newName
		out[lower(newName)] = &renamed
	}
	return out
}

func buildCreateTableStatements(exp *TableModel) []ast.Node {
	ct := ast.NewCreateTable(ast.NewQualifiedName(nil, exp.Name))
	ct.Columns = exp.Columns
	out := []ast.Node{ct}
	for _, tc := range exp.Constraints {
		at := ast.NewAlterTable(ast.NewQualifiedName(nil, exp.Name), ast.AlterAddConstraint)
		at.Constraint = tc
		out = append(out, at)
	}
	for _, idx := range exp.Indexes {
		out = append(out, idx)
	}
	return out
}

func diffTable(cur, exp *TableModel, opts DiffOptions) []ast.Node {
	var out []ast.Node
	tableName := ast.NewQualifiedName(nil, exp.Name)

	curCols := map[string]*ast.ColumnDefinition{}
	for _, c := range cur.Columns {
		curCols[lower(c.Name)] = c
	}
	expCols := map[string]bool{}
	for _, c := range exp.Columns {
		expCols[lower(c.Name)] = true
		if _, ok := curCols[lower(c.Name)]; !ok {
			at := ast.NewAlterTable(tableName, ast.AlterAddColumn)
			at.Column = c
			out = append(out, at)
		}
	}
	if opts.DropExtraColumns {
		for _, c := range cur.Columns {
			if !expCols[lower(c.Name)] {
				at := ast.NewAlterTable(tableName, ast.AlterDropColumn)
				at.DropName = c.Name
				out = append(out, at)
			}
		}
	}

	curConstraints := map[string]*ast.TableConstraint{}
	for _, tc := range cur.Constraints {
		curConstraints[constraintSignature(tc, opts.CheckNames)] = tc
	}
	expConstraintSigs := map[string]bool{}
	for _, tc := range exp.Constraints {
		sig := constraintSignature(tc, opts.CheckNames)
		expConstraintSigs[sig] = true
		if _, ok := curConstraints[sig]; !ok {
			at := ast.NewAlterTable(tableName, ast.AlterAddConstraint)
			at.Constraint = tc
			out = append(out, at)
		}
	}
	if opts.DropExtraConstraints {
		for _, tc := range cur.Constraints {
			if tc.Name == "" {
				continue
			}
			if !expConstraintSigs[constraintSignature(tc, opts.CheckNames)] {
				at := ast.NewAlterTable(tableName, ast.AlterDropConstraint)
				at.DropName = tc.Name
				out = append(out, at)
			}
		}
	}

	curIndexes := map[string]*ast.CreateIndex{}
	for _, idx := range cur.Indexes {
		curIndexes[indexSignature(idx, opts.CheckNames)] = idx
	}
	expIndexSigs := map[string]bool{}
	for _, idx := range exp.Indexes {
		sig := indexSignature(idx, opts.CheckNames)
		expIndexSigs[sig] = true
		if _, ok := curIndexes[sig]; !ok {
			out = append(out, idx)
		}
	}
	if opts.DropExtraIndexes {
		for _, idx := range cur.Indexes {
			if idx.Name == "" {
				continue
			}
			if !expIndexSigs[indexSignature(idx, opts.CheckNames)] {
				out = append(out, ast.NewDropIndex([]string{idx.Name}))
			}
		}
	}

	return out
}

func constraintSignature(tc *ast.TableConstraint, checkNames bool) string {
	if checkNames && tc.Name != "" {
		return "name:" + lower(tc.Name)
	}
	checkText := ""
	if tc.CheckExpr != nil {
		checkText = format.FormatDefault(tc.CheckExpr)
	}
	return fmt.Sprintf("%d|%s|%s|%s|%s", tc.Kind, lowerJoin(tc.Columns), checkText, lower(tc.RefTable), lowerJoin(tc.RefColumns))
}

func indexSignature(idx *ast.CreateIndex, checkNames bool) string {
	if checkNames && idx.Name != "" {
		return "name:" + lower(idx.Name)
	}
	cols := make([]string, len(idx.Columns))
	for i, ic := range idx.Columns {
		dir := "asc"
		if ic.Direction == ast.SortDesc {
			dir = "desc"
		}
		cols[i] = format.FormatDefault(ic.Expr) + ":" + dir
	}
	whereText := ""
	if idx.Where != nil {
		whereText = format.FormatDefault(idx.Where)
	}
	return fmt.Sprintf("%v|%s|%s|%s|%s", idx.Unique, lower(idx.Using), strings.Join(cols, ","), lowerJoin(idx.Include), whereText)
}

func lowerJoin(items []string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = lower(s)
	}
	return strings.Join(out, ",")
}

