package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/lexer"
)

func TestParseSimpleSelect(t *testing.T) {
	n, err := Parse("SELECT id, name FROM users WHERE id = 1")
	require.NoError(t, err)

	sel, ok := n.(*ast.SimpleSelect)
	require.True(t, ok)
	require.NotNil(t, sel.From)
	require.Len(t, sel.Select.Items, 2)
	assert.NotNil(t, sel.Where)
}

func TestParseWithClauseAndJoin(t *testing.T) {
	n, err := Parse(`WITH a AS (SELECT 1 AS x) SELECT u.id FROM users u LEFT JOIN profiles p ON p.user_id = u.id`)
	require.NoError(t, err)

	sel, ok := n.(*ast.SimpleSelect)
	require.True(t, ok)
	require.NotNil(t, sel.With)
	require.Len(t, sel.With.Tables, 1)
	assert.Equal(t, "a", sel.With.Tables[0].Name)
	require.Len(t, sel.From.Joins, 1)
	assert.Equal(t, ast.JoinLeft, sel.From.Joins[0].Kind)
}

func TestParseSetOperation(t *testing.T) {
	n, err := Parse("SELECT 1 AS x UNION ALL SELECT 2 AS x")
	require.NoError(t, err)

	bs, ok := n.(*ast.BinarySelect)
	require.True(t, ok)
	assert.Equal(t, ast.SetOpUnionAll, bs.Op)
}

func TestParseInsertUpdateDeleteMerge(t *testing.T) {
	cases := []struct {
		name string
		sql  string
	}{
		{"insert", "INSERT INTO t (a, b) VALUES (1, 2) RETURNING a"},
		{"update", "UPDATE t SET a = 1 WHERE id = 2 RETURNING a"},
		{"delete", "DELETE FROM t WHERE id = 1 RETURNING id"},
		{"merge", "MERGE INTO t USING s ON t.id = s.id WHEN MATCHED THEN UPDATE SET a = s.a WHEN NOT MATCHED THEN INSERT (a) VALUES (s.a)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Parse(tc.sql)
			require.NoError(t, err)
			require.NotNil(t, n)
		})
	}
}

func TestParseCreateTableAndIndex(t *testing.T) {
	n, err := Parse("CREATE TABLE users (id int PRIMARY KEY, name text NOT NULL)")
	require.NoError(t, err)
	ct, ok := n.(*ast.CreateTable)
	require.True(t, ok)
	assert.Len(t, ct.Columns, 2)

	n2, err := Parse("CREATE UNIQUE INDEX idx_users_name ON users (name)")
	require.NoError(t, err)
	ci, ok := n2.(*ast.CreateIndex)
	require.True(t, ok)
	assert.True(t, ci.Unique)
}

func TestParseExplain(t *testing.T) {
	n, err := Parse("EXPLAIN ANALYZE SELECT 1")
	require.NoError(t, err)
	ex, ok := n.(*ast.Explain)
	require.True(t, ok)
	assert.True(t, ex.Analyze)
	assert.False(t, ex.Verbose)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := Parse("SELECT 1 FROM t GARBAGE")
	require.Error(t, err)
}

func TestParseRejectsUnrecognizedStatement(t *testing.T) {
	_, err := Parse("VACUUM t")
	require.Error(t, err)
}

func TestParseTokensReusesTokenStream(t *testing.T) {
	toks, err := lexer.Tokenize("SELECT 1")
	require.NoError(t, err)

	n1, err := ParseTokens(toks)
	require.NoError(t, err)
	n2, err := ParseTokens(toks)
	require.NoError(t, err)

	assert.NotSame(t, n1, n2, "every ParseTokens call must build an independently owned tree from the shared tokens")
}

func TestSplitStatements(t *testing.T) {
	stmts, err := SplitStatements("SELECT 1; SELECT 2, (SELECT 3); SELECT 'a;b'")
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Equal(t, "SELECT 1", stmts[0])
	assert.Contains(t, stmts[2], "'a;b'")
}

func TestSplitStatementsIgnoresNestedSemicolons(t *testing.T) {
	stmts, err := SplitStatements("SELECT (SELECT 1; fake) AS x")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
}
