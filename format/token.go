package format

// TokenType classifies one PrintToken leaf or container.
type TokenType int

const (
	TokKeyword TokenType = iota
	TokOperator
	TokComma
	TokParenOpen
	TokParenClose
	TokIdentifier
	TokLiteral
	TokSpace
	TokComment
	TokCommentNewline
	TokRaw      // opaque pre-rendered text, e.g. a parameter sigil + name
	TokContainer
	TokQuotedIdentifier // an identifier that must go through Options.IdentifierEscape
)

// ContainerType enumerates every syntactic region the printer treats
// specially container enumeration.
type ContainerType int

const (
	ContainerNone ContainerType = iota
	ContainerRoot
	ContainerSelectClause
	ContainerFromClause
	ContainerJoinList
	ContainerJoinClause
	ContainerWithClause
	ContainerCommonTable
	ContainerCommonTableBody
	ContainerValues
	ContainerValuesRow
	ContainerParenExpression
	ContainerCaseExpression
	ContainerCaseWhen
	ContainerBetweenExpression
	ContainerInlineQuery
	ContainerCommentBlock
	ContainerMergeWhenClause
	ContainerInsertClause
	ContainerInsertColumns
	ContainerWhereClause
	ContainerGroupByClause
	ContainerOrderByClause
	ContainerReturningClause
	ContainerSetClause
	ContainerWindowsClause
	ContainerOverClause
	ContainerFunctionArgs
	ContainerArray
	ContainerDDL
	ContainerBoolChain // an AND/OR chain; andBreak/orBreak apply unless nested under ContainerCaseWhen
)

// PrintToken is the ephemeral node of the print-token tree the lowering
// stage builds: a leaf carries Text directly; a container carries Inner
// children and a ContainerType the printer dispatches on. Built fresh per
// Format call and discarded after printing — no global state.
type PrintToken struct {
	Type      TokenType
	Text      string
	Container ContainerType
	Inner     []*PrintToken
	Header    bool // comment eligible for header-only export modes
}

func kw(text string) *PrintToken      { return &PrintToken{Type: TokKeyword, Text: text} }
func op(text string) *PrintToken      { return &PrintToken{Type: TokOperator, Text: text} }
func comma() *PrintToken              { return &PrintToken{Type: TokComma, Text: ","} }
func parenOpen() *PrintToken          { return &PrintToken{Type: TokParenOpen, Text: "("} }
func parenClose() *PrintToken         { return &PrintToken{Type: TokParenClose, Text: ")"} }
func ident(text string) *PrintToken   { return &PrintToken{Type: TokIdentifier, Text: text} }
func qident(text string) *PrintToken  { return &PrintToken{Type: TokQuotedIdentifier, Text: text} }
func lit(text string) *PrintToken     { return &PrintToken{Type: TokLiteral, Text: text} }
func sp() *PrintToken                 { return &PrintToken{Type: TokSpace, Text: " "} }
func raw(text string) *PrintToken     { return &PrintToken{Type: TokRaw, Text: text} }
func comment(text string, header bool) *PrintToken {
	return &PrintToken{Type: TokComment, Text: text, Header: header}
}

func container(ct ContainerType, inner ...*PrintToken) *PrintToken {
	return &PrintToken{Type: TokContainer, Container: ct, Inner: inner}
}

func (t *PrintToken) push(children ...*PrintToken) *PrintToken {
	for _, c := range children {
		if c != nil {
			t.Inner = append(t.Inner, c)
		}
	}
	return t
}

// containsParen reports whether any descendant of t is a parenthesis
// token. The line printer does not call it.
func containsParen(t *PrintToken) bool {
	for _, c := range t.Inner {
		if c.Type == TokParenOpen || c.Type == TokParenClose {
			return true
		}
		if c.Type == TokContainer && containsParen(c) {
			return true
		}
	}
	return false
}
