package ast

// QualifiedName is a possibly multi-part identifier: schema.table.column,
// or just a bare name. Namespaces holds every part before the last.
type QualifiedName struct {
	base
	Namespaces []string
	Name       string
	Quoted     bool
}

func NewQualifiedName(namespaces []string, name string) *QualifiedName {
	return &QualifiedName{base: base{kind: KindQualifiedName}, Namespaces: namespaces, Name: name}
}
func (n *QualifiedName) Accept(v Visitor) { v.VisitNode(n) }

// String renders dotted form, namespaces first, unquoted (formatter owns
// quoting policy; this is for diagnostics and map keys).
func (n *QualifiedName) String() string {
	s := n.Name
	for i := len(n.Namespaces) - 1; i >= 0; i-- {
		s = n.Namespaces[i] + "." + s
	}
	return s
}

// ColumnReference is `[namespace.[namespace.]]column`, e.g. `u.id` or
// just `id`. Namespaces is typically zero or one element (table alias)
// but DB/schema-qualified forms may carry more.
type ColumnReference struct {
	base
	Namespaces []string
	Column     string
}

func NewColumnReference(namespaces []string, column string) *ColumnReference {
	return &ColumnReference{base: base{kind: KindColumnReference}, Namespaces: namespaces, Column: column}
}
func (n *ColumnReference) Accept(v Visitor) { v.VisitNode(n) }

// Namespace returns the immediate qualifier (table alias), or "" if the
// reference is unqualified.
func (n *ColumnReference) Namespace() string {
	if len(n.Namespaces) == 0 {
		return ""
	}
	return n.Namespaces[len(n.Namespaces)-1]
}

// LiteralKind classifies a LiteralValue's underlying type for the formatter
// (string literals get quoted, numbers/bools/null do not).
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBool
	LiteralNull
)

type LiteralValue struct {
	base
	LKind LiteralKind
	Text  string // formatter-ready text, e.g. "'x'" already escaped, or "42"
}

func NewLiteralValue(kind LiteralKind, text string) *LiteralValue {
	return &LiteralValue{base: base{kind: KindLiteralValue}, LKind: kind, Text: text}
}
func (n *LiteralValue) Accept(v Visitor) { v.VisitNode(n) }

// ParameterValue is a named bind parameter, `:name` or `$name` on input.
// Name holds the text after the sigil; the formatter always re-emits it
// with a `:` sigil.
type ParameterValue struct {
	base
	Name string
}

func NewParameterValue(name string) *ParameterValue {
	return &ParameterValue{base: base{kind: KindParameterValue}, Name: name}
}
func (n *ParameterValue) Accept(v Visitor) { v.VisitNode(n) }

type BinaryExpression struct {
	base
	Left     Node
	Operator string
	Right    Node
}

func NewBinaryExpression(left Node, op string, right Node) *BinaryExpression {
	return &BinaryExpression{base: base{kind: KindBinaryExpression}, Left: left, Operator: op, Right: right}
}
func (n *BinaryExpression) Accept(v Visitor) { v.VisitNode(n) }

type UnaryExpression struct {
	base
	Operator string
	Postfix  bool // true for "x IS NULL" style trailing operators
	Expr     Node
}

func NewUnaryExpression(op string, expr Node) *UnaryExpression {
	return &UnaryExpression{base: base{kind: KindUnaryExpression}, Operator: op, Expr: expr}
}
func (n *UnaryExpression) Accept(v Visitor) { v.VisitNode(n) }

type FunctionCall struct {
	base
	Name     string
	Distinct bool
	Args     []Node
	Over     *OverClause
}

func NewFunctionCall(name string, args []Node) *FunctionCall {
	return &FunctionCall{base: base{kind: KindFunctionCall}, Name: name, Args: args}
}
func (n *FunctionCall) Accept(v Visitor) { v.VisitNode(n) }

// OverClause is the OVER (...) window specification attached to a
// FunctionCall.
type OverClause struct {
	base
	WindowName  string // OVER window_name form; empty if inline spec used
	PartitionBy []Node
	OrderBy     *OrderByClause
	Frame       *WindowFrameExpression
}

func NewOverClause() *OverClause { return &OverClause{base: base{kind: KindOverClause}} }
func (n *OverClause) Accept(v Visitor) { v.VisitNode(n) }

// WindowFrameExpression models ROWS/RANGE/GROUPS BETWEEN ... AND ...
type WindowFrameExpression struct {
	base
	Unit  string // ROWS, RANGE, GROUPS
	Start string // e.g. "UNBOUNDED PRECEDING", "1 PRECEDING", "CURRENT ROW"
	End   string // e.g. "CURRENT ROW", "1 FOLLOWING", "UNBOUNDED FOLLOWING"
}

func NewWindowFrameExpression(unit, start, end string) *WindowFrameExpression {
	return &WindowFrameExpression{base: base{kind: KindWindowFrameExpression}, Unit: unit, Start: start, End: end}
}
func (n *WindowFrameExpression) Accept(v Visitor) { v.VisitNode(n) }

type CaseExpression struct {
	base
	Operand Node // non-nil for "simple" CASE x WHEN ...
	Whens   []*CaseWhen
	Else    Node
}

func NewCaseExpression() *CaseExpression { return &CaseExpression{base: base{kind: KindCaseExpression}} }
func (n *CaseExpression) Accept(v Visitor) { v.VisitNode(n) }

type CaseWhen struct {
	base
	Condition Node
	Result    Node
}

func NewCaseWhen(cond, result Node) *CaseWhen {
	return &CaseWhen{base: base{kind: KindCaseWhen}, Condition: cond, Result: result}
}
func (n *CaseWhen) Accept(v Visitor) { v.VisitNode(n) }

type CastExpression struct {
	base
	Expr     Node
	TypeName string
}

func NewCastExpression(expr Node, typeName string) *CastExpression {
	return &CastExpression{base: base{kind: KindCastExpression}, Expr: expr, TypeName: typeName}
}
func (n *CastExpression) Accept(v Visitor) { v.VisitNode(n) }

type BetweenExpression struct {
	base
	Negate bool
	Expr   Node
	Low    Node
	High   Node
}

func NewBetweenExpression(expr, low, high Node) *BetweenExpression {
	return &BetweenExpression{base: base{kind: KindBetweenExpression}, Expr: expr, Low: low, High: high}
}
func (n *BetweenExpression) Accept(v Visitor) { v.VisitNode(n) }

// InlineQuery wraps a SELECT used as a scalar/row value expression, e.g.
// `col = (SELECT ...)`, `EXISTS (SELECT ...)`, `IN (SELECT ...)`.
type InlineQuery struct {
	base
	Keyword string // "", "EXISTS", "NOT EXISTS", "ANY", "ALL"
	Query   Node
}

func NewInlineQuery(keyword string, query Node) *InlineQuery {
	return &InlineQuery{base: base{kind: KindInlineQuery}, Keyword: keyword, Query: query}
}
func (n *InlineQuery) Accept(v Visitor) { v.VisitNode(n) }

// ArrayExpression is ARRAY[expr, expr, ...].
type ArrayExpression struct {
	base
	Items []Node
}

func NewArrayExpression(items []Node) *ArrayExpression {
	return &ArrayExpression{base: base{kind: KindArrayExpression}, Items: items}
}
func (n *ArrayExpression) Accept(v Visitor) { v.VisitNode(n) }

// ArrayQueryExpression is ARRAY(SELECT ...).
type ArrayQueryExpression struct {
	base
	Query Node
}

func NewArrayQueryExpression(query Node) *ArrayQueryExpression {
	return &ArrayQueryExpression{base: base{kind: KindArrayQueryExpression}, Query: query}
}
func (n *ArrayQueryExpression) Accept(v Visitor) { v.VisitNode(n) }

// ValueList is a parenthesized comma list used by IN (...) and multi-column
// predicates: `(a, b) IN ((1,2),(3,4))`.
type ValueList struct {
	base
	Items []Node
}

func NewValueList(items []Node) *ValueList {
	return &ValueList{base: base{kind: KindValueList}, Items: items}
}
func (n *ValueList) Accept(v Visitor) { v.VisitNode(n) }

type ParenExpression struct {
	base
	Expr Node
}

func NewParenExpression(expr Node) *ParenExpression {
	return &ParenExpression{base: base{kind: KindParenExpression}, Expr: expr}
}
func (n *ParenExpression) Accept(v Visitor) { v.VisitNode(n) }

// Tuple is a bare row constructor `(a, b, c)` used on the left of a
// multi-column comparison or inside a VALUES row.
type Tuple struct {
	base
	Items []Node
}

func NewTuple(items []Node) *Tuple { return &Tuple{base: base{kind: KindTuple}, Items: items} }
func (n *Tuple) Accept(v Visitor) { v.VisitNode(n) }

// RawString carries formatter-opaque text, used for fragments the parser
// intentionally doesn't decompose further (rare dialect-specific clauses).
type RawString struct {
	base
	Text string
}

func NewRawString(text string) *RawString {
	return &RawString{base: base{kind: KindRawString}, Text: text}
}
func (n *RawString) Accept(v Visitor) { v.VisitNode(n) }

// IdentifierString is a bare or quoted identifier used as a value position
// (e.g. inside ARRAY[...] of identifiers, or a type name argument).
type IdentifierString struct {
	base
	Name   string
	Quoted bool
}

func NewIdentifierString(name string, quoted bool) *IdentifierString {
	return &IdentifierString{base: base{kind: KindIdentifierString}, Name: name, Quoted: quoted}
}
func (n *IdentifierString) Accept(v Visitor) { v.VisitNode(n) }
