package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/format"
	"github.com/sqlrefine/sqlrefine/parser"
)

func TestInjectSortAppendsOrderByItem(t *testing.T) {
	n, err := parser.Parse("SELECT id, name FROM users")
	require.NoError(t, err)

	out, err := InjectSort(n, []SortInstruction{{Column: "name", Desc: true, NullsLast: true}})
	require.NoError(t, err)

	sel := out.(*ast.SimpleSelect)
	require.NotNil(t, sel.OrderBy)
	require.Len(t, sel.OrderBy.Items, 1)
	item := sel.OrderBy.Items[0]
	assert.Equal(t, ast.SortDesc, item.Direction)
	assert.Equal(t, ast.NullsLast, item.Nulls)

	assert.Contains(t, format.FormatDefault(out), "ORDER BY name DESC NULLS LAST")
}

func TestInjectSortRejectsNoDirectionFlags(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users")
	require.NoError(t, err)

	_, err = InjectSort(n, []SortInstruction{{Column: "id"}})
	require.Error(t, err)
}

func TestInjectSortRejectsConflictingDirections(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users")
	require.NoError(t, err)

	_, err = InjectSort(n, []SortInstruction{{Column: "id", Asc: true, Desc: true}})
	require.Error(t, err)
}

func TestInjectSortRejectsUnresolvedColumn(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users")
	require.NoError(t, err)

	_, err = InjectSort(n, []SortInstruction{{Column: "missing", Asc: true}})
	require.Error(t, err)
}

func TestClearSortRemovesMatchingColumnsAndDropsEmptyClause(t *testing.T) {
	n, err := parser.Parse("SELECT id, name FROM users ORDER BY name, id")
	require.NoError(t, err)
	sel := n.(*ast.SimpleSelect)
	require.NotNil(t, sel.OrderBy)
	require.Len(t, sel.OrderBy.Items, 2)

	out, err := ClearSort(n, "name")
	require.NoError(t, err)
	sel2 := out.(*ast.SimpleSelect)
	require.NotNil(t, sel2.OrderBy)
	require.Len(t, sel2.OrderBy.Items, 1)

	out3, err := ClearSort(out, "id")
	require.NoError(t, err)
	sel3 := out3.(*ast.SimpleSelect)
	assert.Nil(t, sel3.OrderBy, "removing every ORDER BY item drops the clause entirely")
}
