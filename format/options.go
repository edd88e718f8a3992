// Package format implements the two-stage formatter: a
// lowering stage that turns any AST node into a PrintToken tree carrying
// semantic hints, and a line printer that renders that tree into text
// under a configurable policy. Modeled on reverse-rendering emitters
// (one function per AST shape, switch-dispatched on kind) but split into
// lowering + printing so policy lives in one place instead of being
// repeated at every call site.
package format

// KeywordCase controls how keyword tokens are cased on output.
type KeywordCase int

const (
	KeywordAsIs KeywordCase = iota
	KeywordUpper
	KeywordLower
)

// CommaBreak controls newline placement around a comma in one context.
type CommaBreak int

const (
	BreakNone CommaBreak = iota
	BreakBefore
	BreakAfter
)

// WithClauseStyle controls how a WITH clause's CTEs are laid out.
type WithClauseStyle int

const (
	WithStandard WithClauseStyle = iota
	WithCTEOneline
	WithFullOneline
)

// IdentifierEscape selects the quoting style for identifiers that need it.
type IdentifierEscape int

const (
	EscapeQuote IdentifierEscape = iota // "ident"
	EscapeBacktick
	EscapeBracket // [ident]
	EscapeNone
	EscapeCustom // use Options.IdentifierEscapeStart/End
)

// CommentExportMode selects which attached comments are re-emitted.
type CommentExportMode int

const (
	CommentNone CommentExportMode = iota
	CommentFull
	CommentHeaderOnly
	CommentTopHeaderOnly
)

// CommentStyle selects line-comment vs. merged-block rendering.
type CommentStyle int

const (
	CommentBlockStyle CommentStyle = iota
	CommentSmart
)

// Options is the complete line-printer policy. Values are copied, never
// shared, so a caller can derive a variant with a few fields changed
// (e.g. the CTE composer's oneline override) without mutating the original.
type Options struct {
	IndentChar string // "space" or "tab" rendered as literal unit; any literal string is accepted
	IndentSize int

	Newline string // "\n", "\r\n", "\r", any literal, or " " for oneline mode

	KeywordCase KeywordCase

	CommaBreak       CommaBreak
	CTECommaBreak    CommaBreak
	ValuesCommaBreak CommaBreak

	AndBreak CommaBreak // only Before/After/None are meaningful
	OrBreak  CommaBreak

	WithClauseStyle WithClauseStyle

	ParenthesesOneLine   bool
	BetweenOneLine       bool
	ValuesOneLine        bool
	JoinOneLine          bool
	CaseOneLine          bool
	SubqueryOneLine      bool
	InsertColumnsOneLine bool
	WhenOneLine          bool

	// IndentNestedParentheses is not read by the line printer: parenthesized
	// groups are laid out the same whether it is set or not.
	IndentNestedParentheses bool

	IdentifierEscape      IdentifierEscape
	IdentifierEscapeStart string
	IdentifierEscapeEnd   string

	CommentExportMode CommentExportMode
	CommentStyle      CommentStyle

	// IndentIncrementContainers names which container types raise the
	// indent level when entered. Defaults to the containers that read
	// naturally indented: CTE bodies, subqueries, parenthesized groups,
	// CASE branches, JOIN lists.
	IndentIncrementContainers map[ContainerType]bool
}

// DefaultOptions returns the baseline policy: two-space indent, LF
// newlines, keywords left in the upper case the lowering stage writes
// them in (KeywordAsIs), commas and AND/OR kept on the same line, CTEs
// kept together after WITH separated by ", ", each JOIN on its own
// indented line, and every compaction flag off so nothing is forced onto
// one line that wasn't already short.
func DefaultOptions() Options {
	return Options{
		IndentChar:      "space",
		IndentSize:      2,
		Newline:         "\n",
		KeywordCase:     KeywordAsIs,
		WithClauseStyle: WithStandard,
		IdentifierEscape: EscapeQuote,
		CommentExportMode: CommentFull,
		CommentStyle:      CommentBlockStyle,
		IndentIncrementContainers: map[ContainerType]bool{
			ContainerCommonTableBody: true,
			ContainerInlineQuery:     true,
			ContainerParenExpression: true,
			ContainerCaseExpression:  true,
			ContainerJoinList:        true,
		},
	}
}

// Option mutates an Options value; constructors below follow the
// familiar functional-option shape (WithX returning a closure) used for
// connection wiring, generalized here to formatter policy.
type Option func(*Options)

func WithIndent(char string, size int) Option {
	return func(o *Options) { o.IndentChar = char; o.IndentSize = size }
}

func WithNewline(nl string) Option { return func(o *Options) { o.Newline = nl } }

func WithKeywordCase(c KeywordCase) Option { return func(o *Options) { o.KeywordCase = c } }

func WithCommaBreak(c CommaBreak) Option { return func(o *Options) { o.CommaBreak = c } }

func WithCTECommaBreak(c CommaBreak) Option { return func(o *Options) { o.CTECommaBreak = c } }

func WithValuesCommaBreak(c CommaBreak) Option { return func(o *Options) { o.ValuesCommaBreak = c } }

func WithAndBreak(c CommaBreak) Option { return func(o *Options) { o.AndBreak = c } }

func WithOrBreak(c CommaBreak) Option { return func(o *Options) { o.OrBreak = c } }

func WithWithClauseStyle(s WithClauseStyle) Option {
	return func(o *Options) { o.WithClauseStyle = s }
}

func WithIdentifierEscape(e IdentifierEscape) Option {
	return func(o *Options) { o.IdentifierEscape = e }
}

func WithCommentExportMode(m CommentExportMode) Option {
	return func(o *Options) { o.CommentExportMode = m }
}

func WithCommentStyle(s CommentStyle) Option { return func(o *Options) { o.CommentStyle = s } }

func WithOneLineContainers(paren, between, values, join, caseExpr, subquery, insertCols, when bool) Option {
	return func(o *Options) {
		o.ParenthesesOneLine = paren
		o.BetweenOneLine = between
		o.ValuesOneLine = values
		o.JoinOneLine = join
		o.CaseOneLine = caseExpr
		o.SubqueryOneLine = subquery
		o.InsertColumnsOneLine = insertCols
		o.WhenOneLine = when
	}
}

func WithIndentNestedParentheses(b bool) Option {
	return func(o *Options) { o.IndentNestedParentheses = b }
}

// Build applies opts on top of DefaultOptions.
func Build(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// oneLine returns a derived copy of o with Newline forced to a single
// space, for nested one-line rendering.
func (o Options) oneLine() Options {
	next := o
	next.Newline = " "
	return next
}

func (o Options) indentUnit() string {
	if o.IndentChar == "tab" {
		return "\t"
	}
	if o.IndentChar == "space" {
		n := o.IndentSize
		if n <= 0 {
			n = 2
		}
		b := make([]byte, n)
		for i := range b {
			b[i] = ' '
		}
		return string(b)
	}
	return o.IndentChar
}
