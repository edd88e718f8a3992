package ast

// SetOp enumerates the operator of a BinarySelect.
type SetOp int

const (
	SetOpUnion SetOp = iota
	SetOpUnionAll
	SetOpIntersect
	SetOpIntersectAll
	SetOpExcept
	SetOpExceptAll
)

// SimpleSelect is a single SELECT statement with all of its optional
// clauses. Every slot is nilable; an empty SELECT (no FROM, no WHERE) is a
// valid tree boundary behaviors.
type SimpleSelect struct {
	base
	With      *WithClause
	Distinct  bool
	Select    *SelectClause
	From      *FromClause
	Where     *WhereClause
	GroupBy   *GroupByClause
	Having    *HavingClause
	Windows   *WindowsClause
	OrderBy   *OrderByClause
	Limit     *LimitClause
	Offset    *OffsetClause
	Fetch     *FetchClause
	For       *ForClause
	Returning *ReturningClause
}

func NewSimpleSelect() *SimpleSelect {
	return &SimpleSelect{base: base{kind: KindSimpleSelect}}
}
func (n *SimpleSelect) Accept(v Visitor) { v.VisitNode(n) }

// BinarySelect represents a UNION/INTERSECT/EXCEPT combination. Spec
// invariant: Left and Right must agree in output column arity.
type BinarySelect struct {
	base
	Left  Node // *SimpleSelect, *BinarySelect, or *ValuesQuery
	Op    SetOp
	Right Node
}

func NewBinarySelect(left Node, op SetOp, right Node) *BinarySelect {
	return &BinarySelect{base: base{kind: KindBinarySelect}, Left: left, Op: op, Right: right}
}
func (n *BinarySelect) Accept(v Visitor) { v.VisitNode(n) }

// ValuesQuery is a standalone VALUES (...) , (...) construct, usable both
// as a top-level statement and as a source (fixture CTEs, INSERT VALUES).
type ValuesQuery struct {
	base
	Rows [][]Node // each row is a slice of value expressions
}

func NewValuesQuery() *ValuesQuery { return &ValuesQuery{base: base{kind: KindValuesQuery}} }
func (n *ValuesQuery) Accept(v Visitor) { v.VisitNode(n) }

// InsertSource distinguishes how an Insert supplies rows.
type InsertSource int

const (
	InsertSourceValues InsertSource = iota
	InsertSourceSelect
	InsertSourceDefault
)

type Insert struct {
	base
	Table     *QualifiedName
	Columns   []string
	Source    InsertSource
	Values    *ValuesQuery // when Source == InsertSourceValues
	Select    Node         // when Source == InsertSourceSelect: *SimpleSelect or *BinarySelect
	OnConflict *OnConflictClause
	Returning *ReturningClause
}

func NewInsert() *Insert { return &Insert{base: base{kind: KindInsert}} }
func (n *Insert) Accept(v Visitor) { v.VisitNode(n) }

// OnConflictClause models ON CONFLICT (...) DO NOTHING|UPDATE SET ...
type OnConflictClause struct {
	base
	Columns    []string
	DoNothing  bool
	DoUpdate   *SetClause
	Where      *WhereClause
}

func NewOnConflictClause() *OnConflictClause {
	return &OnConflictClause{base: base{kind: KindOnConflict}}
}
func (n *OnConflictClause) Accept(v Visitor) { v.VisitNode(n) }

type Update struct {
	base
	Target    *SourceExpression
	Set       *SetClause
	From      *FromClause
	Where     *WhereClause
	Returning *ReturningClause
}

func NewUpdate() *Update { return &Update{base: base{kind: KindUpdate}} }
func (n *Update) Accept(v Visitor) { v.VisitNode(n) }

type Delete struct {
	base
	Target    *SourceExpression
	Using     *FromClause
	Where     *WhereClause
	Returning *ReturningClause
}

func NewDelete() *Delete { return &Delete{base: base{kind: KindDelete}} }
func (n *Delete) Accept(v Visitor) { v.VisitNode(n) }

// MergeMatchKind classifies a MERGE WHEN branch.
type MergeMatchKind int

const (
	MergeMatched MergeMatchKind = iota
	MergeNotMatchedByTarget
	MergeNotMatchedBySource
)

// MergeAction is one DML action inside a WHEN branch: UPDATE SET, INSERT,
// or DELETE.
type MergeAction struct {
	InsertColumns []string
	InsertValues  []Node
	Set           *SetClause
	IsDelete      bool
	Where         *WhereClause // action-level AND condition
}

// MergeWhen is one WHEN [NOT] MATCHED [BY SOURCE] branch.
type MergeWhen struct {
	Match     MergeMatchKind
	Condition Node // optional extra AND condition beyond the branch's match kind
	Action    MergeAction
}

// Actions returns the child nodes reachable from this branch, used by the
// generic Walk.
func (w *MergeWhen) Actions() []Node {
	out := []Node{}
	if w.Condition != nil {
		out = append(out, w.Condition)
	}
	if w.Action.Set != nil {
		out = append(out, w.Action.Set)
	}
	for _, v := range w.Action.InsertValues {
		out = append(out, v)
	}
	if w.Action.Where != nil {
		out = append(out, w.Action.Where)
	}
	return out
}

type Merge struct {
	base
	Target *SourceExpression
	Source *SourceExpression
	On     Node
	Whens  []*MergeWhen
}

func NewMerge() *Merge { return &Merge{base: base{kind: KindMerge}} }
func (n *Merge) Accept(v Visitor) { v.VisitNode(n) }

type Explain struct {
	base
	Analyze   bool
	Verbose   bool
	Statement Node
}

func NewExplain() *Explain { return &Explain{base: base{kind: KindExplain}} }
func (n *Explain) Accept(v Visitor) { v.VisitNode(n) }
