package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/format"
	"github.com/sqlrefine/sqlrefine/parser"
)

func TestBuildJSONAggregationNestsObjectAndArrayEntities(t *testing.T) {
	n, err := parser.Parse(`SELECT p.id AS id, p.title AS title, a.name AS author_name,
		c.id AS comment_id, c.body AS comment_body
		FROM posts p
		JOIN authors a ON a.id = p.author_id
		JOIN comments c ON c.post_id = p.id`)
	require.NoError(t, err)
	base := n.(*ast.SimpleSelect)

	entities := []EntityMapping{
		{ID: "post", ParentID: ""},
		{
			ID: "author", ParentID: "post", Relation: RelationObject, Name: "author",
			Columns: []ColumnMapping{{Key: "name", Source: ast.NewColumnReference(nil, "author_name")}},
		},
		{
			ID: "comment", ParentID: "post", Relation: RelationArray, Name: "comment",
			Columns: []ColumnMapping{
				{Key: "id", Source: ast.NewColumnReference(nil, "comment_id")},
				{Key: "body", Source: ast.NewColumnReference(nil, "comment_body")},
			},
		},
	}

	out, err := BuildJSONAggregation(base, entities)
	require.NoError(t, err)

	sel, ok := out.(*ast.SimpleSelect)
	require.True(t, ok)
	require.NotNil(t, sel.GroupBy)

	rendered := format.FormatDefault(sel)
	assert.Contains(t, rendered, "jsonb_agg")
	assert.Contains(t, rendered, "jsonb_build_object")
	assert.Contains(t, rendered, "author_json")
	assert.Contains(t, rendered, "comments_json")

	var aliases []string
	for _, item := range sel.Select.Items {
		aliases = append(aliases, item.Alias)
	}
	assert.Contains(t, aliases, "id")
	assert.Contains(t, aliases, "title")
	assert.Contains(t, aliases, "author_json")
	assert.Contains(t, aliases, "comments_json")
	assert.NotContains(t, aliases, "comment_id", "columns folded into the array's JSON object are excluded from the pass-through projection")
}

func TestBuildJSONAggregationNoEntitiesReturnsBaseUnchanged(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM posts")
	require.NoError(t, err)
	base := n.(*ast.SimpleSelect)

	out, err := BuildJSONAggregation(base, nil)
	require.NoError(t, err)
	assert.Same(t, base, out)
}

func TestBuildJSONAggregationRequiresRootEntity(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM posts")
	require.NoError(t, err)
	base := n.(*ast.SimpleSelect)

	_, err = BuildJSONAggregation(base, []EntityMapping{
		{ID: "orphan", ParentID: "missing_parent", Relation: RelationObject, Name: "orphan"},
	})
	require.Error(t, err)
}

func TestBuildJSONAggregationHonorsExplicitColumnName(t *testing.T) {
	n, err := parser.Parse("SELECT p.id AS id, a.name AS author_name FROM posts p JOIN authors a ON a.id = p.author_id")
	require.NoError(t, err)
	base := n.(*ast.SimpleSelect)

	out, err := BuildJSONAggregation(base, []EntityMapping{
		{ID: "post", ParentID: ""},
		{
			ID: "author", ParentID: "post", Relation: RelationObject, Name: "author", ColumnName: "author_info",
			Columns: []ColumnMapping{{Key: "name", Source: ast.NewColumnReference(nil, "author_name")}},
		},
	})
	require.NoError(t, err)
	rendered := format.FormatDefault(out)
	assert.Contains(t, rendered, "author_info")
	assert.NotContains(t, rendered, "author_json")
}
