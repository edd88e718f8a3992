package transform

import (
	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/collector"
	"github.com/sqlrefine/sqlrefine/internal/obs"
)

// SchemaProvider answers the two schema questions the LEFT JOIN pruner
// needs: which columns a table has, and which
// column sets form a unique key on it. Callers that already have a
// TableColumnResolver (collector.TableColumnResolver) typically back both
// from the same metadata source — see schemastore.MongoProvider.
type SchemaProvider interface {
	Columns(table string) []string
	UniqueKeys(table string) [][]string
}

func isSingletonUniqueKey(keys [][]string, column string) bool {
	for _, k := range keys {
		if len(k) == 1 && lower(k[0]) == lower(column) {
			return true
		}
	}
	return false
}

// PruneLeftJoins removes every LEFT JOIN, anywhere in the tree, that is
// safe to drop: a non-lateral join to a plain table, joined
// on a single equality against a column that forms the table's singleton
// unique key, with no reference to the joined side anywhere else in its
// owning SELECT and no unqualified column reference that would collide
// with the dropped column. Runs to a fixed point, since removing one join
// can make another one's ON-clause column usage drop to zero.
func PruneLeftJoins(root ast.Node, schema SchemaProvider) ast.Node {
	for {
		changed := false
		for _, sel := range collectSimpleSelects(root) {
			if pruneJoinsInSelect(sel, schema) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return root
}

func pruneJoinsInSelect(sel *ast.SimpleSelect, schema SchemaProvider) bool {
	if sel.From == nil || len(sel.From.Joins) == 0 {
		return false
	}
	changed := false
	kept := sel.From.Joins[:0:0]
	for _, j := range sel.From.Joins {
		if removableLeftJoin(sel, j, schema) {
			changed = true
			obs.L().Debugw("left join pruned", "alias", j.Source.Name())
			continue
		}
		kept = append(kept, j)
	}
	sel.From.Joins = kept
	return changed
}

func removableLeftJoin(sel *ast.SimpleSelect, j *ast.JoinClause, schema SchemaProvider) bool {
	if j.Kind != ast.JoinLeft || j.Lateral {
		return false
	}
	ts, ok := j.Source.Datasource.(*ast.TableSource)
	if !ok {
		return false
	}
	if j.ConditionKind != ast.JoinCondOn || j.On == nil {
		return false
	}
	be, ok := j.On.(*ast.BinaryExpression)
	if !ok || be.Operator != "=" {
		return false
	}
	leftCR, leftOK := be.Left.(*ast.ColumnReference)
	rightCR, rightOK := be.Right.(*ast.ColumnReference)
	if !leftOK || !rightOK {
		return false
	}

	joinAlias := lower(j.Source.Name())
	tableName := lower(ts.Name.Name)
	isJoinSide := func(cr *ast.ColumnReference) bool {
		ns := lower(cr.Namespace())
		return ns == joinAlias || ns == tableName
	}

	var joinedCol, otherCol *ast.ColumnReference
	switch {
	case isJoinSide(leftCR) && !isJoinSide(rightCR):
		joinedCol, otherCol = leftCR, rightCR
	case isJoinSide(rightCR) && !isJoinSide(leftCR):
		joinedCol, otherCol = rightCR, leftCR
	default:
		// either neither side references the joined table, or both do —
		// not the single-equality shape this requires.
		return false
	}
	_ = otherCol

	// No reference to the joined side anywhere outside this join's own ON
	// clause: CountNamespaceUses counts every occurrence including the one
	// in joinedCol itself, so a removable join has exactly one use.
	if collector.CountNamespaceUses(sel, j.Source.Name(), ts.Name.Name) > 1 {
		return false
	}

	if !containsFold(schema.Columns(ts.Name.Name), joinedCol.Column) {
		return false
	}
	if !isSingletonUniqueKey(schema.UniqueKeys(ts.Name.Name), joinedCol.Column) {
		return false
	}

	// The joined column name must not collide with an unqualified
	// reference elsewhere, which could silently start resolving to a
	// different column once the join disappears.
	for _, cr := range collector.CollectColumnReferences(sel) {
		if cr.Namespace() == "" && lower(cr.Column) == lower(joinedCol.Column) {
			return false
		}
	}
	return true
}
