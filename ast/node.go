// Package ast defines the typed SQL abstract syntax tree: every node variant
// from a literal value up through a full statement, plus the visitor
// dispatch protocol used by collectors, transformers and the formatter.
package ast

// Kind is the stable tag used for visitor dispatch. Every node reports
// exactly one Kind; switches over Kind drive both the lowering stage of the
// formatter and every collector/transformer walk.
type Kind int

const (
	KindUnknown Kind = iota

	// Queries
	KindSimpleSelect
	KindBinarySelect
	KindValuesQuery
	KindInsert
	KindUpdate
	KindDelete
	KindMerge
	KindCreateTable
	KindCreateIndex
	KindAlterTable
	KindDropTable
	KindDropIndex
	KindExplain

	// Clauses
	KindWithClause
	KindCommonTable
	KindSelectClause
	KindSelectItem
	KindFromClause
	KindJoinClause
	KindWhereClause
	KindGroupByClause
	KindHavingClause
	KindOrderByClause
	KindOrderByItem
	KindWindowsClause
	KindLimitClause
	KindOffsetClause
	KindFetchClause
	KindForClause
	KindReturningClause
	KindSetClause
	KindSetItem
	KindOnConflict

	// Sources
	KindSourceExpression
	KindTableSource
	KindSubQuerySource
	KindFunctionSource
	KindParenSource

	// Value expressions
	KindColumnReference
	KindLiteralValue
	KindParameterValue
	KindBinaryExpression
	KindUnaryExpression
	KindFunctionCall
	KindCaseExpression
	KindCaseWhen
	KindCastExpression
	KindBetweenExpression
	KindInlineQuery
	KindArrayExpression
	KindArrayQueryExpression
	KindValueList
	KindWindowFrameExpression
	KindOverClause
	KindParenExpression
	KindTuple
	KindRawString
	KindIdentifierString
	KindQualifiedName

	// DDL fragments
	KindColumnDefinition
	KindColumnConstraint
	KindTableConstraint
	KindIndexColumn
)

var kindNames = map[Kind]string{
	KindUnknown:               "Unknown",
	KindSimpleSelect:          "SimpleSelect",
	KindBinarySelect:          "BinarySelect",
	KindValuesQuery:           "ValuesQuery",
	KindInsert:                "Insert",
	KindUpdate:                "Update",
	KindDelete:                "Delete",
	KindMerge:                 "Merge",
	KindCreateTable:           "CreateTable",
	KindCreateIndex:           "CreateIndex",
	KindAlterTable:            "AlterTable",
	KindDropTable:             "DropTable",
	KindDropIndex:             "DropIndex",
	KindExplain:               "Explain",
	KindWithClause:            "WithClause",
	KindCommonTable:           "CommonTable",
	KindSelectClause:          "SelectClause",
	KindSelectItem:            "SelectItem",
	KindFromClause:            "FromClause",
	KindJoinClause:            "JoinClause",
	KindWhereClause:           "WhereClause",
	KindGroupByClause:         "GroupByClause",
	KindHavingClause:          "HavingClause",
	KindOrderByClause:         "OrderByClause",
	KindOrderByItem:           "OrderByItem",
	KindWindowsClause:         "WindowsClause",
	KindLimitClause:           "LimitClause",
	KindOffsetClause:          "OffsetClause",
	KindFetchClause:           "FetchClause",
	KindForClause:             "ForClause",
	KindReturningClause:       "ReturningClause",
	KindSetClause:             "SetClause",
	KindSetItem:               "SetItem",
	KindOnConflict:            "OnConflict",
	KindSourceExpression:      "SourceExpression",
	KindTableSource:           "TableSource",
	KindSubQuerySource:        "SubQuerySource",
	KindFunctionSource:        "FunctionSource",
	KindParenSource:          "ParenSource",
	KindColumnReference:       "ColumnReference",
	KindLiteralValue:          "LiteralValue",
	KindParameterValue:        "ParameterValue",
	KindBinaryExpression:      "BinaryExpression",
	KindUnaryExpression:       "UnaryExpression",
	KindFunctionCall:          "FunctionCall",
	KindCaseExpression:        "CaseExpression",
	KindCaseWhen:              "CaseWhen",
	KindCastExpression:        "CastExpression",
	KindBetweenExpression:     "BetweenExpression",
	KindInlineQuery:           "InlineQuery",
	KindArrayExpression:       "ArrayExpression",
	KindArrayQueryExpression:  "ArrayQueryExpression",
	KindValueList:             "ValueList",
	KindWindowFrameExpression: "WindowFrameExpression",
	KindOverClause:            "OverClause",
	KindParenExpression:       "ParenExpression",
	KindTuple:                 "Tuple",
	KindRawString:             "RawString",
	KindIdentifierString:      "IdentifierString",
	KindQualifiedName:         "QualifiedName",
	KindColumnDefinition:      "ColumnDefinition",
	KindColumnConstraint:      "ColumnConstraint",
	KindTableConstraint:       "TableConstraint",
	KindIndexColumn:           "IndexColumn",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// CommentPosition classifies where a comment attaches relative to its node.
type CommentPosition int

const (
	CommentLeading CommentPosition = iota
	CommentInline
	CommentTrailing
)

// Comment is a single comment attached to a node.
type Comment struct {
	Text     string
	Position CommentPosition
	// Header marks a comment eligible for header-only export modes.
	Header bool
}

// Comments is the owned comment list every node carries. Transformers that
// clone a node must deep-copy this slice rather than share it.
type Comments []Comment

func (c Comments) Clone() Comments {
	if len(c) == 0 {
		return nil
	}
	out := make(Comments, len(c))
	copy(out, c)
	return out
}

// Node is implemented by every AST variant. Pos is a best-effort source
// offset used for diagnostics; synthesized nodes (e.g. fixture CTEs) report 0.
type Node interface {
	Kind() Kind
	Pos() int
	GetComments() Comments
	SetComments(Comments)
	Accept(v Visitor)
}

// base is embedded by every concrete node to provide comment storage and the
// position field without repeating boilerplate across ~40 variants.
type base struct {
	kind     Kind
	position int
	comments Comments
}

func (b *base) Kind() Kind             { return b.kind }
func (b *base) Pos() int               { return b.position }
func (b *base) GetComments() Comments  { return b.comments }
func (b *base) SetComments(c Comments) { b.comments = c }
