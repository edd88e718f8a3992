package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/parser"
)

type fakeSchema struct {
	columns    map[string][]string
	uniqueKeys map[string][][]string
}

func (f fakeSchema) Columns(table string) []string     { return f.columns[table] }
func (f fakeSchema) UniqueKeys(table string) [][]string { return f.uniqueKeys[table] }

func TestPruneLeftJoinsRemovesUnusedSingleKeyJoin(t *testing.T) {
	n, err := parser.Parse("SELECT u.id FROM users u LEFT JOIN profiles p ON p.user_id = u.id")
	require.NoError(t, err)

	schema := fakeSchema{
		columns:    map[string][]string{"profiles": {"user_id", "bio"}},
		uniqueKeys: map[string][][]string{"profiles": {{"user_id"}}},
	}
	out := PruneLeftJoins(n, schema)

	sel := out.(*ast.SimpleSelect)
	assert.Len(t, sel.From.Joins, 0, "the join is unreferenced outside its own ON clause and keyed on a singleton unique column, so it is safe to drop")
}

func TestPruneLeftJoinsKeepsJoinReferencedElsewhere(t *testing.T) {
	n, err := parser.Parse("SELECT u.id, p.bio FROM users u LEFT JOIN profiles p ON p.user_id = u.id")
	require.NoError(t, err)

	schema := fakeSchema{
		columns:    map[string][]string{"profiles": {"user_id", "bio"}},
		uniqueKeys: map[string][][]string{"profiles": {{"user_id"}}},
	}
	out := PruneLeftJoins(n, schema)

	sel := out.(*ast.SimpleSelect)
	require.Len(t, sel.From.Joins, 1, "p.bio is selected, so the join is still needed")
}

func TestPruneLeftJoinsKeepsJoinWithoutUniqueKey(t *testing.T) {
	n, err := parser.Parse("SELECT u.id FROM users u LEFT JOIN profiles p ON p.user_id = u.id")
	require.NoError(t, err)

	schema := fakeSchema{
		columns:    map[string][]string{"profiles": {"user_id", "bio"}},
		uniqueKeys: map[string][][]string{"profiles": {}},
	}
	out := PruneLeftJoins(n, schema)

	sel := out.(*ast.SimpleSelect)
	require.Len(t, sel.From.Joins, 1, "without a singleton unique key on user_id, dropping the join could change cardinality")
}

func TestPruneLeftJoinsKeepsJoinReferencedOnlyInsideWindowPartition(t *testing.T) {
	n, err := parser.Parse("SELECT count(*) OVER (PARTITION BY p.region) FROM users u LEFT JOIN profiles p ON p.user_id = u.id")
	require.NoError(t, err)

	schema := fakeSchema{
		columns:    map[string][]string{"profiles": {"user_id", "region"}},
		uniqueKeys: map[string][][]string{"profiles": {{"user_id"}}},
	}
	out := PruneLeftJoins(n, schema)

	sel := out.(*ast.SimpleSelect)
	require.Len(t, sel.From.Joins, 1, "p.region is referenced inside OVER (PARTITION BY ...), so the join is still needed")
}

func TestPruneLeftJoinsIgnoresInnerJoin(t *testing.T) {
	n, err := parser.Parse("SELECT u.id FROM users u JOIN profiles p ON p.user_id = u.id")
	require.NoError(t, err)

	schema := fakeSchema{
		columns:    map[string][]string{"profiles": {"user_id", "bio"}},
		uniqueKeys: map[string][][]string{"profiles": {{"user_id"}}},
	}
	out := PruneLeftJoins(n, schema)

	sel := out.(*ast.SimpleSelect)
	require.Len(t, sel.From.Joins, 1, "an inner JOIN can filter rows, so it is never a pruning candidate")
}
