package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/format"
)

func TestDiffEmitsCreateTableForMissingTable(t *testing.T) {
	stmts, err := Diff("", "CREATE TABLE users (id int PRIMARY KEY, name text NOT NULL)", DiffOptions{})
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	_, ok := stmts[0].(*ast.CreateTable)
	assert.True(t, ok)
}

func TestDiffAddsMissingColumn(t *testing.T) {
	current := "CREATE TABLE users (id int PRIMARY KEY)"
	expected := "CREATE TABLE users (id int PRIMARY KEY, email text)"

	stmts, err := Diff(current, expected, DiffOptions{})
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	at, ok := stmts[0].(*ast.AlterTable)
	require.True(t, ok)
	assert.Equal(t, ast.AlterAddColumn, at.Action)
	assert.Equal(t, "email", at.Column.Name)
}

func TestDiffDropsExtraColumnOnlyWhenRequested(t *testing.T) {
	current := "CREATE TABLE users (id int PRIMARY KEY, legacy text)"
	expected := "CREATE TABLE users (id int PRIMARY KEY)"

	stmts, err := Diff(current, expected, DiffOptions{})
	require.NoError(t, err)
	assert.Empty(t, stmts, "no DropExtraColumns means a column absent from expected is silently left alone")

	stmts2, err := Diff(current, expected, DiffOptions{DropExtraColumns: true})
	require.NoError(t, err)
	require.Len(t, stmts2, 1)
	at := stmts2[0].(*ast.AlterTable)
	assert.Equal(t, ast.AlterDropColumn, at.Action)
	assert.Equal(t, "legacy", at.DropName)
}

func TestDiffHonorsRenameMap(t *testing.T) {
	current := "CREATE TABLE old_users (id int PRIMARY KEY)"
	expected := "CREATE TABLE new_users (id int PRIMARY KEY)"

	stmts, err := Diff(current, expected, DiffOptions{RenameMap: map[string]string{"old_users": "new_users"}})
	require.NoError(t, err)
	assert.Empty(t, stmts, "renaming old_users to new_users means the table is considered already present")
}

func TestDiffEmitsDropTableWhenRequested(t *testing.T) {
	current := "CREATE TABLE gone (id int)"
	expected := ""

	stmts, err := Diff(current, expected, DiffOptions{EmitDropTables: true})
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	_, ok := stmts[0].(*ast.DropTable)
	assert.True(t, ok)
}

func TestDiffFormattedJoinsStatements(t *testing.T) {
	out, err := DiffFormatted("", "CREATE TABLE t (id int)", DiffOptions{}, format.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE")
}

func TestDiffFormattedValidatesAgainstMySQLWhenBacktickEscaped(t *testing.T) {
	fmtOpts := format.Build(format.WithIdentifierEscape(format.EscapeBacktick))
	out, err := DiffFormatted("", "CREATE TABLE orders (id int PRIMARY KEY)", DiffOptions{Validate: true}, fmtOpts)
	require.NoError(t, err, "a well-formed CREATE TABLE must pass TiDB's parser the same as it passes pg_query")
	assert.Contains(t, out, "CREATE TABLE")
}
