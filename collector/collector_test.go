package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/parser"
)

func TestCollectCTEsOrderAndDedup(t *testing.T) {
	n, err := parser.Parse(`WITH a AS (SELECT 1 AS x), b AS (SELECT 2 AS y) SELECT x FROM a, b`)
	require.NoError(t, err)

	ctes := CollectCTEs(n)
	require.Len(t, ctes, 2)
	assert.Equal(t, "a", ctes[0].Name)
	assert.Equal(t, "b", ctes[1].Name)
}

func TestCollectTableSourcesSkipsCTEBacked(t *testing.T) {
	n, err := parser.Parse(`WITH a AS (SELECT 1 AS x) SELECT a.x FROM a JOIN real_table r ON r.x = a.x`)
	require.NoError(t, err)

	all := CollectTableSources(n, false)
	assert.Len(t, all, 2, "both `a` and `real_table` are TableSource nodes syntactically")

	skipCTE := CollectTableSources(n, true)
	require.Len(t, skipCTE, 1)
	assert.Equal(t, "real_table", skipCTE[0].Name.Name)
}

func TestCollectColumnReferences(t *testing.T) {
	n, err := parser.Parse(`SELECT a.x, b.y FROM t WHERE a.x = b.y AND a.x > 1`)
	require.NoError(t, err)

	refs := CollectColumnReferences(n)
	assert.Len(t, refs, 5)
}

func TestCollectColumnReferencesDescendsIntoSubqueriesAndWindows(t *testing.T) {
	n, err := parser.Parse(`SELECT count(*) OVER (PARTITION BY p.region ORDER BY p.id) FROM (SELECT region, id FROM profiles) p`)
	require.NoError(t, err)

	refs := CollectColumnReferences(n)
	var names, bare []string
	for _, r := range refs {
		names = append(names, r.Column)
		if r.Namespace() == "" {
			bare = append(bare, r.Column)
		}
	}
	assert.Contains(t, names, "region", "PARTITION BY expression inside OVER(...) must be visited")
	assert.Contains(t, names, "id", "ORDER BY expression inside OVER(...) must be visited")
	assert.Contains(t, bare, "region", "column referenced only inside a FROM subquery must be visited")
}

func TestCountNamespaceUses(t *testing.T) {
	n, err := parser.Parse(`SELECT u.id FROM users u LEFT JOIN profiles p ON p.user_id = u.id`)
	require.NoError(t, err)

	assert.Equal(t, 2, CountNamespaceUses(n, "u", "users"))
	assert.Equal(t, 1, CountNamespaceUses(n, "p", "profiles"))
}

func TestCollectParameters(t *testing.T) {
	n, err := parser.Parse(`SELECT * FROM t WHERE id = :id AND flag = $1`)
	require.NoError(t, err)

	params := CollectParameters(n)
	assert.ElementsMatch(t, []string{"id", "1"}, params)
}

func TestCollectSelectableDedupModes(t *testing.T) {
	n, err := parser.Parse(`SELECT a.id, b.id FROM t1 a, t2 b`)
	require.NoError(t, err)

	byName, err := CollectSelectable(n, Options{Dedup: DedupColumnName})
	require.NoError(t, err)
	assert.Len(t, byName, 1, "both items project to alias \"id\" so column-name dedup folds them into one")

	byFull, err := CollectSelectable(n, Options{Dedup: DedupFullName})
	require.NoError(t, err)
	assert.Len(t, byFull, 2, "table-qualified dedup keeps a.id and b.id distinct")
}

func TestCollectSelectableWildcardRequiresUpstream(t *testing.T) {
	n, err := parser.Parse(`SELECT * FROM t`)
	require.NoError(t, err)

	_, err = CollectSelectable(n, Options{})
	require.Error(t, err)
}

func TestCollectSelectableUpstreamWildcardWithResolver(t *testing.T) {
	n, err := parser.Parse(`SELECT * FROM users u`)
	require.NoError(t, err)

	resolver := func(table string) []string {
		if table == "users" {
			return []string{"id", "email"}
		}
		return nil
	}
	cols, err := CollectSelectable(n, Options{Upstream: true, Resolver: resolver})
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Alias)
	assert.Equal(t, "email", cols[1].Alias)
}

func TestCollectSchemaStrictErrorsOnUnresolvedWildcard(t *testing.T) {
	n, err := parser.Parse(`SELECT * FROM t`)
	require.NoError(t, err)

	_, err = CollectSchema(n, ModeCollect, nil)
	require.Error(t, err)
}

func TestCollectSchemaToleratesUnresolvedInAnalyzeMode(t *testing.T) {
	n, err := parser.Parse(`SELECT * FROM t`)
	require.NoError(t, err)

	res, err := CollectSchema(n, ModeAnalyze, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Unresolved)
}

func TestCollectSchemaWithResolver(t *testing.T) {
	n, err := parser.Parse(`SELECT id, name FROM users`)
	require.NoError(t, err)

	resolver := func(table string) []string {
		if table == "users" {
			return []string{"id", "name", "email"}
		}
		return nil
	}
	res, err := CollectSchema(n, ModeCollect, resolver)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, res.Tables["$output"])
	assert.Equal(t, []string{"id", "name", "email"}, res.Tables["users"])
}
