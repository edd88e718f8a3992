package ast

// WithClause carries a possibly-recursive chain of CommonTable definitions.
// CTE names must be unique within one WithClause.
type WithClause struct {
	base
	Recursive bool
	Tables    []*CommonTable
}

func NewWithClause() *WithClause { return &WithClause{base: base{kind: KindWithClause}} }
func (n *WithClause) Accept(v Visitor) { v.VisitNode(n) }

type CommonTable struct {
	base
	Name    string
	Columns []string // optional explicit column list: WITH x(a,b) AS (...)
	Query   Node      // *SimpleSelect, *BinarySelect, or *ValuesQuery
}

func NewCommonTable(name string, query Node) *CommonTable {
	return &CommonTable{base: base{kind: KindCommonTable}, Name: name, Query: query}
}
func (n *CommonTable) Accept(v Visitor) { v.VisitNode(n) }

type SelectClause struct {
	base
	Items []*SelectItem
}

func NewSelectClause() *SelectClause { return &SelectClause{base: base{kind: KindSelectClause}} }
func (n *SelectClause) Accept(v Visitor) { v.VisitNode(n) }

// SelectItem is one projected expression, optionally aliased. A bare `*`
// or `alias.*` wildcard is represented with Wildcard set and Value nil.
type SelectItem struct {
	base
	Value         Node
	Alias         string
	Wildcard      bool
	WildcardTable string
}

func NewSelectItem(value Node, alias string) *SelectItem {
	return &SelectItem{base: base{kind: KindSelectItem}, Value: value, Alias: alias}
}
func (n *SelectItem) Accept(v Visitor) { v.VisitNode(n) }

type FromClause struct {
	base
	Source *SourceExpression
	Joins  []*JoinClause
}

func NewFromClause(source *SourceExpression) *FromClause {
	return &FromClause{base: base{kind: KindFromClause}, Source: source}
}
func (n *FromClause) Accept(v Visitor) { v.VisitNode(n) }

// JoinKind enumerates the supported JOIN variants.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

// JoinConditionKind distinguishes ON / USING / no condition (CROSS, NATURAL).
type JoinConditionKind int

const (
	JoinCondOn JoinConditionKind = iota
	JoinCondUsing
	JoinCondNone
)

type JoinClause struct {
	base
	Kind          JoinKind
	Lateral       bool
	Source        *SourceExpression
	ConditionKind JoinConditionKind
	On            Node
	Using         []string
}

func NewJoinClause(kind JoinKind, source *SourceExpression) *JoinClause {
	return &JoinClause{base: base{kind: KindJoinClause}, Kind: kind, Source: source}
}
func (n *JoinClause) Accept(v Visitor) { v.VisitNode(n) }

type WhereClause struct {
	base
	Condition Node
}

func NewWhereClause(cond Node) *WhereClause {
	return &WhereClause{base: base{kind: KindWhereClause}, Condition: cond}
}
func (n *WhereClause) Accept(v Visitor) { v.VisitNode(n) }

type GroupByClause struct {
	base
	Items []Node
}

func NewGroupByClause() *GroupByClause { return &GroupByClause{base: base{kind: KindGroupByClause}} }
func (n *GroupByClause) Accept(v Visitor) { v.VisitNode(n) }

type HavingClause struct {
	base
	Condition Node
}

func NewHavingClause(cond Node) *HavingClause {
	return &HavingClause{base: base{kind: KindHavingClause}, Condition: cond}
}
func (n *HavingClause) Accept(v Visitor) { v.VisitNode(n) }

// WindowsClause is the top-level WINDOW name AS (...) list.
type WindowsClause struct {
	base
	Names []string
	Defs  []*WindowFrameExpression
}

func NewWindowsClause() *WindowsClause { return &WindowsClause{base: base{kind: KindWindowsClause}} }
func (n *WindowsClause) Accept(v Visitor) { v.VisitNode(n) }

// NullsPosition controls NULLS FIRST/LAST; NullsUnspecified emits nothing.
type NullsPosition int

const (
	NullsUnspecified NullsPosition = iota
	NullsFirst
	NullsLast
)

type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

type OrderByClause struct {
	base
	Items []*OrderByItem
}

func NewOrderByClause() *OrderByClause { return &OrderByClause{base: base{kind: KindOrderByClause}} }
func (n *OrderByClause) Accept(v Visitor) { v.VisitNode(n) }

type OrderByItem struct {
	base
	Value     Node
	Direction SortDirection
	Nulls     NullsPosition
}

func NewOrderByItem(value Node) *OrderByItem {
	return &OrderByItem{base: base{kind: KindOrderByItem}, Value: value}
}
func (n *OrderByItem) Accept(v Visitor) { v.VisitNode(n) }

type LimitClause struct {
	base
	Count Node
}

func NewLimitClause(count Node) *LimitClause {
	return &LimitClause{base: base{kind: KindLimitClause}, Count: count}
}
func (n *LimitClause) Accept(v Visitor) { v.VisitNode(n) }

type OffsetClause struct {
	base
	Count Node
}

func NewOffsetClause(count Node) *OffsetClause {
	return &OffsetClause{base: base{kind: KindOffsetClause}, Count: count}
}
func (n *OffsetClause) Accept(v Visitor) { v.VisitNode(n) }

// FetchMode distinguishes FETCH FIRST n ROWS ONLY vs WITH TIES.
type FetchMode int

const (
	FetchOnly FetchMode = iota
	FetchWithTies
)

type FetchClause struct {
	base
	Count Node
	Mode  FetchMode
}

func NewFetchClause(count Node, mode FetchMode) *FetchClause {
	return &FetchClause{base: base{kind: KindFetchClause}, Count: count, Mode: mode}
}
func (n *FetchClause) Accept(v Visitor) { v.VisitNode(n) }

// ForLockKind enumerates FOR UPDATE/SHARE row locking strength.
type ForLockKind int

const (
	ForUpdate ForLockKind = iota
	ForNoKeyUpdate
	ForShare
	ForKeyShare
)

type ForClause struct {
	base
	Lock    ForLockKind
	Of      []string
	NoWait  bool
	SkipLocked bool
}

func NewForClause(lock ForLockKind) *ForClause {
	return &ForClause{base: base{kind: KindForClause}, Lock: lock}
}
func (n *ForClause) Accept(v Visitor) { v.VisitNode(n) }

type ReturningClause struct {
	base
	Items []*SelectItem
}

func NewReturningClause() *ReturningClause {
	return &ReturningClause{base: base{kind: KindReturningClause}}
}
func (n *ReturningClause) Accept(v Visitor) { v.VisitNode(n) }

type SetClause struct {
	base
	Items []*SetItem
}

func NewSetClause() *SetClause { return &SetClause{base: base{kind: KindSetClause}} }
func (n *SetClause) Accept(v Visitor) { v.VisitNode(n) }

type SetItem struct {
	base
	Column string
	Value  Node
}

func NewSetItem(column string, value Node) *SetItem {
	return &SetItem{base: base{kind: KindSetItem}, Column: column, Value: value}
}
func (n *SetItem) Accept(v Visitor) { v.VisitNode(n) }
