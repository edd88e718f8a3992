package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/format"
	"github.com/sqlrefine/sqlrefine/parser"
)

func parseAs[T ast.Node](t *testing.T, sql string) T {
	t.Helper()
	n, err := parser.Parse(sql)
	require.NoError(t, err)
	typed, ok := n.(T)
	require.True(t, ok, "expected %T, got %T", *new(T), n)
	return typed
}

func TestValidateGeneratedUsesPostgresByDefault(t *testing.T) {
	sel := parseAs[*ast.SimpleSelect](t, "SELECT id FROM t WHERE id = 1")
	require.NoError(t, ValidateGenerated(sel, format.DefaultOptions()))
}

func TestValidateGeneratedUsesMySQLQueryValidatorWhenBacktickEscaped(t *testing.T) {
	sel := parseAs[*ast.SimpleSelect](t, "SELECT id FROM t WHERE id = 1")
	opts := format.Build(format.WithIdentifierEscape(format.EscapeBacktick))
	require.NoError(t, ValidateGenerated(sel, opts), "backtick-escaped output must be routed through ValidateMySQLQuery and still pass")
}

func TestUpdateToSelectSubstitutesSetValuesInReturning(t *testing.T) {
	u := parseAs[*ast.Update](t, "UPDATE t SET a = 1 WHERE id = 2 RETURNING a, id")

	sel, err := UpdateToSelect(u)
	require.NoError(t, err)
	rendered := format.FormatDefault(sel)
	assert.Contains(t, rendered, "1 AS a")
	assert.Contains(t, rendered, "t.id AS id")
	assert.Contains(t, rendered, "WHERE id = 2")
}

func TestUpdateToSelectCountsWithoutReturning(t *testing.T) {
	u := parseAs[*ast.Update](t, "UPDATE t SET a = 1 WHERE id = 2")

	sel, err := UpdateToSelect(u)
	require.NoError(t, err)
	rendered := format.FormatDefault(sel)
	assert.Contains(t, rendered, "count(*)")
}

func TestDeleteToSelectPreservesWhereNoSetSubstitution(t *testing.T) {
	d := parseAs[*ast.Delete](t, "DELETE FROM t WHERE id = 1 RETURNING id")

	sel, err := DeleteToSelect(d)
	require.NoError(t, err)
	rendered := format.FormatDefault(sel)
	assert.Contains(t, rendered, "t.id AS id")
	assert.Contains(t, rendered, "WHERE id = 1")
}

func TestInsertToSelectCountsWithoutReturning(t *testing.T) {
	ins := parseAs[*ast.Insert](t, "INSERT INTO t (a, b) VALUES (1, 2)")

	out, err := InsertToSelect(ins)
	require.NoError(t, err)
	assert.Contains(t, format.FormatDefault(out), "count(*)")
}

func TestInsertToSelectUnionsRowsWithReturning(t *testing.T) {
	ins := parseAs[*ast.Insert](t, "INSERT INTO t (a, b) VALUES (1, 2), (3, 4) RETURNING a")

	out, err := InsertToSelect(ins)
	require.NoError(t, err)
	bs, ok := out.(*ast.BinarySelect)
	require.True(t, ok, "more than one row with RETURNING folds into a UNION ALL chain")
	assert.Equal(t, ast.SetOpUnionAll, bs.Op)
}

func TestInsertToSelectRequiresColumnListForReturning(t *testing.T) {
	ins := &ast.Insert{}
	ins.Source = ast.InsertSourceValues
	vq := ast.NewValuesQuery()
	vq.Rows = [][]ast.Node{{ast.NewLiteralValue(ast.LiteralNumber, "1")}}
	ins.Values = vq
	ins.Returning = ast.NewReturningClause()
	ins.Returning.Items = append(ins.Returning.Items, ast.NewSelectItem(ast.NewColumnReference(nil, "a"), ""))

	_, err := InsertToSelect(ins)
	require.Error(t, err)
}

func TestMergeToSelectBuildsUnionedBranches(t *testing.T) {
	m := parseAs[*ast.Merge](t, "MERGE INTO t USING s ON t.id = s.id WHEN MATCHED THEN UPDATE SET a = s.a WHEN NOT MATCHED THEN INSERT (a) VALUES (s.a)")

	sel, err := MergeToSelect(m)
	require.NoError(t, err)
	rendered := format.FormatDefault(sel)
	assert.Contains(t, rendered, "count(*)")
	assert.Contains(t, rendered, "NOT EXISTS")
}

func TestApplyFixturesShadowsReferencedTable(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users")
	require.NoError(t, err)

	out, err := ApplyFixtures(n, []FixtureTable{
		{Name: "users", Columns: []string{"id"}, Rows: [][]ast.Node{{ast.NewLiteralValue(ast.LiteralNumber, "1")}}},
	}, MissingFixtureError)
	require.NoError(t, err)

	sel := out.(*ast.SimpleSelect)
	require.NotNil(t, sel.With)
	require.Len(t, sel.With.Tables, 1)
	assert.Equal(t, "users", sel.With.Tables[0].Name)
}

func TestApplyFixturesErrorsOnMissingFixtureByDefault(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users")
	require.NoError(t, err)

	_, err = ApplyFixtures(n, nil, MissingFixtureError)
	require.Error(t, err)
}

func TestApplyFixturesSkipStrategyLeavesTableUnshadowed(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users")
	require.NoError(t, err)

	out, err := ApplyFixtures(n, nil, MissingFixtureSkip)
	require.NoError(t, err)
	sel := out.(*ast.SimpleSelect)
	assert.Nil(t, sel.With)
}
