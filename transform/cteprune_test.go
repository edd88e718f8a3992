package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/parser"
)

func TestPruneUnusedCTEsDropsUnreferenced(t *testing.T) {
	n, err := parser.Parse(`WITH used AS (SELECT 1 AS x), unused AS (SELECT 2 AS y) SELECT x FROM used`)
	require.NoError(t, err)

	out := PruneUnusedCTEs(n)
	sel := out.(*ast.SimpleSelect)
	require.NotNil(t, sel.With)
	require.Len(t, sel.With.Tables, 1)
	assert.Equal(t, "used", sel.With.Tables[0].Name)
}

func TestPruneUnusedCTEsKeepsTransitiveDependency(t *testing.T) {
	n, err := parser.Parse(`WITH base AS (SELECT 1 AS x), derived AS (SELECT x FROM base) SELECT x FROM derived`)
	require.NoError(t, err)

	out := PruneUnusedCTEs(n)
	sel := out.(*ast.SimpleSelect)
	require.NotNil(t, sel.With)
	assert.Len(t, sel.With.Tables, 2, "base is only reachable through derived, not from the main body directly")
}

func TestPruneUnusedCTEsDropsWithClauseWhenAllUnused(t *testing.T) {
	n, err := parser.Parse(`WITH unused AS (SELECT 1 AS x) SELECT 2 AS y`)
	require.NoError(t, err)

	out := PruneUnusedCTEs(n)
	sel := out.(*ast.SimpleSelect)
	assert.Nil(t, sel.With)
}

func TestPruneUnusedCTEsLeavesRecursiveUntouched(t *testing.T) {
	n, err := parser.Parse(`WITH RECURSIVE unused AS (SELECT 1 AS x) SELECT 2 AS y`)
	require.NoError(t, err)

	out := PruneUnusedCTEs(n)
	sel := out.(*ast.SimpleSelect)
	require.NotNil(t, sel.With)
	assert.Len(t, sel.With.Tables, 1, "recursive WITH clauses are never pruned")
}
