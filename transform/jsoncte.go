package transform

import (
	"fmt"

	"github.com/jinzhu/inflection"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/collector"
)

// RelationKind classifies how a nested entity relates to its parent in a
// JSON-aggregation CTE chain: one object per parent row, or one array of
// objects grouped under it.
type RelationKind int

const (
	RelationObject RelationKind = iota
	RelationArray
)

// ColumnMapping is one {key, source expression} pair fed into a
// jsonb_build_object call.
type ColumnMapping struct {
	Key    string
	Source ast.Node
}

// EntityMapping describes one node of the entity tree a JSON-aggregation
// CTE chain is built from. The entity with ParentID == "" is the root and
// is never itself aggregated — it's the shape the base query already
// produces. ColumnName overrides the default column name generated via
// jinzhu/inflection (singular for objects, plural for arrays); leaving it
// empty uses that default rather than a hand-rolled name-guessing
// heuristic.
type EntityMapping struct {
	ID         string
	ParentID   string
	Relation   RelationKind
	Name       string
	ColumnName string
	Columns    []ColumnMapping
}

// BuildJSONAggregation wraps base in a chain of nested subqueries that fold
// nested entities into JSON columns: object entities compress
// their columns into a single jsonb_build_object column; array entities
// additionally GROUP BY every other column and aggregate with jsonb_agg,
// processed from the deepest level up so a shallower array can aggregate
// a deeper one's already-folded JSON column. Each pass puts the previous
// query in FROM as a derived table (aliased base_rows for the object pass,
// cte_array_depth_N for array depth N); the result carries no WITH clause.
func BuildJSONAggregation(base *ast.SimpleSelect, entities []EntityMapping) (ast.Node, error) {
	if len(entities) == 0 {
		return base, nil
	}

	byID := map[string]*EntityMapping{}
	children := map[string][]*EntityMapping{}
	var root *EntityMapping
	for i := range entities {
		e := &entities[i]
		byID[e.ID] = e
		if e.ParentID == "" {
			root = e
		} else {
			children[e.ParentID] = append(children[e.ParentID], e)
		}
	}
	if root == nil {
		return nil, fmt.Errorf("transform: entity mapping has no root entity (empty ParentID)")
	}

	depth := map[string]int{root.ID: 0}
	maxDepth := 0
	queue := []*EntityMapping{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range children[cur.ID] {
			depth[c.ID] = depth[cur.ID] + 1
			if depth[c.ID] > maxDepth {
				maxDepth = depth[c.ID]
			}
			queue = append(queue, c)
		}
	}

	generated := map[string]string{}
	genColumnName := func(e *EntityMapping) string {
		if e.ColumnName != "" {
			return e.ColumnName
		}
		if e.Relation == RelationArray {
			return inflection.Plural(e.Name) + "_json"
		}
		return inflection.Singular(e.Name) + "_json"
	}

	current := ast.Node(base)

	var objectEntities []*EntityMapping
	for i := range entities {
		e := &entities[i]
		if e.ParentID != "" && e.Relation == RelationObject {
			objectEntities = append(objectEntities, e)
		}
	}
	if len(objectEntities) > 0 {
		sel, ok := current.(*ast.SimpleSelect)
		if !ok {
			return nil, fmt.Errorf("transform: BuildJSONAggregation requires a SimpleSelect base")
		}
		wrapped := ast.NewSimpleSelect()
		wrapped.From = ast.NewFromClause(ast.NewSourceExpression("base_rows", ast.NewSubQuerySource(sel)))
		sc := ast.NewSelectClause()
		compressed := map[string]bool{}
		for _, e := range objectEntities {
			name := genColumnName(e)
			generated[e.ID] = name
			sc.Items = append(sc.Items, ast.NewSelectItem(buildJSONObjectCall(e.Columns), name))
			for _, cm := range e.Columns {
				if cr, ok := cm.Source.(*ast.ColumnReference); ok {
					compressed[lower(cr.Column)] = true
				}
			}
		}
		cols, err := collectBaseSelectable(sel)
		if err != nil {
			return nil, err
		}
		for _, s := range cols {
			if compressed[lower(s.Alias)] {
				continue
			}
			sc.Items = append(sc.Items, ast.NewSelectItem(ast.NewColumnReference(nil, s.Alias), s.Alias))
		}
		wrapped.Select = sc
		current = wrapped
	}

	for d := maxDepth; d >= 1; d-- {
		var atDepth []*EntityMapping
		for i := range entities {
			e := &entities[i]
			if e.ParentID != "" && e.Relation == RelationArray && depth[e.ID] == d {
				atDepth = append(atDepth, e)
			}
		}
		if len(atDepth) == 0 {
			continue
		}
		sel, ok := current.(*ast.SimpleSelect)
		if !ok {
			return nil, fmt.Errorf("transform: BuildJSONAggregation requires a SimpleSelect base at depth %d", d)
		}
		alias := fmt.Sprintf("cte_array_depth_%d", d)
		wrapped := ast.NewSimpleSelect()
		wrapped.From = ast.NewFromClause(ast.NewSourceExpression(alias, ast.NewSubQuerySource(sel)))
		sc := ast.NewSelectClause()
		gb := ast.NewGroupByClause()

		excluded := map[string]bool{}
		for _, e := range atDepth {
			name := genColumnName(e)
			generated[e.ID] = name
			sc.Items = append(sc.Items, ast.NewSelectItem(
				ast.NewFunctionCall("jsonb_agg", []ast.Node{buildJSONObjectCall(e.Columns)}), name))
			for _, cm := range e.Columns {
				if cr, ok := cm.Source.(*ast.ColumnReference); ok {
					excluded[lower(cr.Column)] = true
				}
			}
			for _, oe := range objectEntities {
				if isDescendant(oe.ID, e.ID, byID) {
					if gc, ok := generated[oe.ID]; ok {
						excluded[lower(gc)] = true
					}
				}
			}
		}
		for eid, gc := range generated {
			if e := byID[eid]; e.Relation == RelationArray && depth[eid] >= d {
				excluded[lower(gc)] = true
			}
		}

		cols, err := collectBaseSelectable(sel)
		if err != nil {
			return nil, err
		}
		for _, s := range cols {
			name := lower(s.Alias)
			if excluded[name] {
				continue
			}
			sc.Items = append(sc.Items, ast.NewSelectItem(ast.NewColumnReference(nil, s.Alias), s.Alias))
			gb.Items = append(gb.Items, ast.NewColumnReference(nil, s.Alias))
		}
		wrapped.Select = sc
		if len(gb.Items) > 0 {
			wrapped.GroupBy = gb
		}
		current = wrapped
	}

	return current, nil
}

func buildJSONObjectCall(cols []ColumnMapping) *ast.FunctionCall {
	args := make([]ast.Node, 0, len(cols)*2)
	for _, cm := range cols {
		args = append(args, ast.NewLiteralValue(ast.LiteralString, "'"+cm.Key+"'"), cm.Source)
	}
	return ast.NewFunctionCall("jsonb_build_object", args)
}

func collectBaseSelectable(sel *ast.SimpleSelect) ([]collector.Selectable, error) {
	return collector.CollectSelectable(sel, collector.Options{Dedup: collector.DedupColumnName})
}

func isDescendant(id, ancestorID string, byID map[string]*EntityMapping) bool {
	cur := byID[id]
	for cur != nil && cur.ParentID != "" {
		if cur.ParentID == ancestorID {
			return true
		}
		cur = byID[cur.ParentID]
	}
	return false
}
