package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/parser"
)

func TestFormatDefaultRoundTripsSimpleSelect(t *testing.T) {
	n, err := parser.Parse("SELECT id, name FROM users WHERE id = 1")
	require.NoError(t, err)
	out := FormatDefault(n)
	assert.Equal(t, `SELECT id, name FROM users WHERE id = 1`, out)
}

func TestFormatWithClauseSpacing(t *testing.T) {
	n, err := parser.Parse("WITH a AS (SELECT 1 AS x) SELECT x FROM a")
	require.NoError(t, err)
	out := FormatDefault(n)
	assert.Equal(t, `WITH a AS (SELECT 1 AS x) SELECT x FROM a`, out)
}

func TestFormatJoin(t *testing.T) {
	n, err := parser.Parse("SELECT u.id FROM users u LEFT JOIN profiles p ON p.user_id = u.id")
	require.NoError(t, err)
	out := FormatDefault(n)
	assert.Equal(t, "SELECT u.id FROM users u\n  LEFT JOIN profiles p ON p.user_id = u.id", out)
}

func TestFormatKeywordCaseLower(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users")
	require.NoError(t, err)
	out := Format(n, Build(WithKeywordCase(KeywordLower)))
	assert.Equal(t, `select id from users`, out)
}

func TestFormatOnelineViaNewline(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users\nWHERE id = 1")
	require.NoError(t, err)
	opts := Build(WithNewline(" "))
	out := Format(n, opts)
	assert.Equal(t, `SELECT id FROM users WHERE id = 1`, out)
}

func TestFormatCTEOnelineStyle(t *testing.T) {
	n, err := parser.Parse("WITH a AS (SELECT 1 AS x, 2 AS y) SELECT x FROM a")
	require.NoError(t, err)

	standard := Format(n, Build(WithCommaBreak(BreakAfter)))
	assert.Contains(t, standard, "\n", "BreakAfter should push the CTE body's second column onto its own line")

	oneline := Format(n, Build(WithCommaBreak(BreakAfter), WithWithClauseStyle(WithCTEOneline)))
	assert.NotContains(t, oneline, "\n", "WithCTEOneline collapses the CTE body regardless of the ambient comma-break policy")
	assert.Equal(t, "WITH a AS (SELECT 1 AS x, 2 AS y) SELECT x FROM a", oneline)
}

func TestFormatCommentExportModeNone(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users -- trailing note")
	require.NoError(t, err)
	out := Format(n, Build(WithCommentExportMode(CommentNone)))
	assert.NotContains(t, out, "trailing note")
}

func TestFormatIdentifierEscapeBacktick(t *testing.T) {
	n, err := parser.Parse(`SELECT "weird col" FROM t`)
	require.NoError(t, err)
	out := Format(n, Build(WithIdentifierEscape(EscapeBacktick)))
	assert.Contains(t, out, "`weird col`")
}

func TestDefaultOptionsIndentIncrementContainers(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.IndentIncrementContainers[ContainerCommonTableBody])
	assert.True(t, opts.IndentIncrementContainers[ContainerJoinList])
}
