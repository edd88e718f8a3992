package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/format"
	"github.com/sqlrefine/sqlrefine/parser"
)

func TestFindUpstreamSelectsThroughSubquery(t *testing.T) {
	n, err := parser.Parse("SELECT x FROM (SELECT id AS x, name FROM users) t")
	require.NoError(t, err)

	matches := FindUpstreamSelects(n, "name")
	require.Len(t, matches, 1)
	assert.Contains(t, format.FormatDefault(matches[0]), "FROM users")
}

func TestFindUpstreamSelectsThroughCTE(t *testing.T) {
	n, err := parser.Parse("WITH base AS (SELECT id, email FROM users) SELECT id FROM base")
	require.NoError(t, err)

	matches := FindUpstreamSelects(n, "email")
	require.Len(t, matches, 1)
	assert.Contains(t, format.FormatDefault(matches[0]), "FROM users")
}

func TestFindUpstreamSelectsWildcardAlwaysSatisfies(t *testing.T) {
	n, err := parser.Parse("SELECT x FROM (SELECT * FROM users) t")
	require.NoError(t, err)

	matches := FindUpstreamSelects(n, "anything_at_all")
	require.Len(t, matches, 1)
}

func TestFindUpstreamSelectsReturnsRootWhenSatisfiedDirectly(t *testing.T) {
	n, err := parser.Parse("SELECT id, name FROM users")
	require.NoError(t, err)

	matches := FindUpstreamSelects(n, "name")
	require.Len(t, matches, 1, "the outer SELECT already exposes name, so the search stops there without descending")
}

func TestFindUpstreamSelectsAcrossSetOperation(t *testing.T) {
	n, err := parser.Parse("SELECT x FROM (SELECT id AS x FROM a) t1 UNION ALL SELECT x FROM (SELECT id AS x FROM b) t2")
	require.NoError(t, err)

	matches := FindUpstreamSelects(n, "x")
	assert.Len(t, matches, 2, "each arm of the UNION ALL satisfies the request at the outer level")
}
