package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "SimpleSelect", KindSimpleSelect.String())
	assert.Equal(t, "Unknown", Kind(-1).String())
}

func TestCommentsClone(t *testing.T) {
	c := Comments{{Text: "hi", Position: CommentLeading}}
	clone := c.Clone()
	clone[0].Text = "changed"
	assert.Equal(t, "hi", c[0].Text, "Clone must deep-copy so mutating the clone never touches the original")

	var empty Comments
	assert.Nil(t, empty.Clone())
}

func TestNodeCommentsRoundTrip(t *testing.T) {
	sel := NewSimpleSelect()
	assert.Empty(t, sel.GetComments())

	sel.SetComments(Comments{{Text: "note"}})
	assert.Equal(t, "note", sel.GetComments()[0].Text)
}

func TestTrackerEnterIsOncePerNode(t *testing.T) {
	var tr Tracker
	n := NewSimpleSelect()

	assert.True(t, tr.Enter(n), "first visit must report true")
	assert.False(t, tr.Enter(n), "second visit of the same node must report false")

	tr.Reset()
	assert.True(t, tr.Enter(n), "after Reset the same node is fresh again")
}

// countingVisitor counts the nodes it enters for the first time and walks
// their children, so a test can check how many distinct nodes a walk sees.
type countingVisitor struct {
	Tracker
	visits int
}

func (c *countingVisitor) VisitNode(n Node) {
	if n == nil || !c.Enter(n) {
		return
	}
	c.visits++
	WalkChildren(c, n)
}

func TestWalkChildrenDoesNotRevisitSharedNode(t *testing.T) {
	shared := NewWhereClause(NewLiteralValue(LiteralNumber, "1"))
	sel := NewSimpleSelect()
	sel.Where = shared

	v := &countingVisitor{}
	Walk(v, sel)
	// sel + shared where-clause + its literal operand == 3, each visited once.
	assert.Equal(t, 3, v.visits)

	// Walking again from the same visitor (without Reset) is a no-op: the
	// tracker already marked every node as seen.
	Walk(v, sel)
	assert.Equal(t, 3, v.visits)
}

func TestWalkChildrenDescendsIntoSubQuerySourceAndOverClause(t *testing.T) {
	inner := NewSimpleSelect()
	innerSC := NewSelectClause()
	innerSC.Items = append(innerSC.Items, NewSelectItem(NewColumnReference(nil, "region"), ""))
	inner.Select = innerSC
	sub := NewSourceExpression("p", NewSubQuerySource(inner))

	over := NewOverClause()
	over.PartitionBy = append(over.PartitionBy, NewColumnReference([]string{"p"}, "region"))
	fc := NewFunctionCall("count", nil)
	fc.Args = append(fc.Args, NewColumnReference(nil, "*"))
	fc.Over = over

	outer := NewSimpleSelect()
	sc := NewSelectClause()
	sc.Items = append(sc.Items, NewSelectItem(fc, ""))
	outer.Select = sc
	outer.From = NewFromClause(sub)

	v := &countingVisitor{}
	Walk(v, outer)

	var refs []*ColumnReference
	for seen := range v.Tracker.seen {
		if cr, ok := seen.(*ColumnReference); ok {
			refs = append(refs, cr)
		}
	}
	assert.Len(t, refs, 3, "the OVER's PARTITION BY column, the count(*) argument and the FROM subquery's own column must all be descended into")
}

func TestWalkChildrenDescendsIntoInsertOnConflict(t *testing.T) {
	ins := NewInsert()
	ins.Table = NewQualifiedName(nil, "t")
	oc := NewOnConflictClause()
	set := NewSetClause()
	set.Items = append(set.Items, NewSetItem("x", NewColumnReference(nil, "excluded_x")))
	oc.DoUpdate = set
	ins.OnConflict = oc

	v := &countingVisitor{}
	Walk(v, ins)

	found := false
	for seen := range v.Tracker.seen {
		if _, ok := seen.(*SetItem); ok {
			found = true
		}
	}
	assert.True(t, found, "ON CONFLICT DO UPDATE SET items must be reachable from a generic walk")
}
