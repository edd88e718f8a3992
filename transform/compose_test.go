package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/format"
	"github.com/sqlrefine/sqlrefine/parser"
)

func TestDecomposeSplitsNamedEntriesAndRoot(t *testing.T) {
	n, err := parser.Parse("WITH a AS (SELECT 1 AS x), b AS (SELECT x FROM a) SELECT x FROM b")
	require.NoError(t, err)

	entries, err := Decompose(n)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byName := map[string]int{}
	for i, e := range entries {
		byName[e.Name] = i
	}
	require.Contains(t, byName, "a")
	require.Contains(t, byName, "b")
	require.Contains(t, byName, "")

	assert.ElementsMatch(t, []string{"a"}, entries[byName["b"]].Dependencies)
	assert.ElementsMatch(t, []string{"b"}, entries[byName[""]].Dependencies)
}

func TestComposeRoundTripsAndReordersByDependency(t *testing.T) {
	n, err := parser.Parse("WITH a AS (SELECT 1 AS x), b AS (SELECT x FROM a) SELECT x FROM b")
	require.NoError(t, err)

	entries, err := Decompose(n)
	require.NoError(t, err)

	// Shuffle so b appears before a; Compose must still topologically sort
	// so a (b's dependency) comes first in the rebuilt WITH clause.
	reordered := []CTEEntry{entries[1], entries[0], entries[2]}

	out, err := Compose(reordered)
	require.NoError(t, err)
	rendered := format.FormatDefault(out)
	assert.Less(t, indexOf(rendered, "a AS"), indexOf(rendered, "b AS"))
}

func TestComposeRejectsMissingRootEntry(t *testing.T) {
	n, err := parser.Parse("SELECT 1")
	require.NoError(t, err)
	_, err = Compose([]CTEEntry{{Name: "a", Query: n}})
	require.Error(t, err)
}

func TestComposeFormatForcesCTEOneline(t *testing.T) {
	n, err := parser.Parse("WITH a AS (SELECT 1 AS x, 2 AS y) SELECT x FROM a")
	require.NoError(t, err)
	entries, err := Decompose(n)
	require.NoError(t, err)

	out, err := ComposeFormat(entries, format.Build(format.WithCommaBreak(format.BreakAfter)))
	require.NoError(t, err)
	assert.NotContains(t, out, "\n")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
