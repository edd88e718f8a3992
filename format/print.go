package format

import "strings"

// line is one buffered output line: an indent level plus its text so far.
// Lines are joined by Options.Newline (or collapsed to a single line in
// oneline mode) only at Render time.
type line struct {
	level int
	text  string
}

// printer renders one PrintToken tree under one fixed Options value. A
// fresh printer is constructed for every Format call and,
// again internally whenever a container demands oneline rendering that
// the ambient options don't already provide.
type printer struct {
	opts          Options
	lines         []line
	skipNextSpace bool
}

func newPrinter(opts Options) *printer {
	return &printer{opts: opts, lines: []line{{}}}
}

func (p *printer) isOneLine() bool { return p.opts.Newline == " " }

func (p *printer) cur() *line { return &p.lines[len(p.lines)-1] }

func (p *printer) appendText(s string) {
	if s == "" {
		return
	}
	p.cur().text += s
}

// appendNewline finalizes the current line (trimming trailing whitespace)
// and starts a new one at level. In oneline mode this degrades to a
// single space, which is how forced sub-printer rendering
// collapses a subtree without a second code path.
func (p *printer) appendNewline(level int) {
	c := p.cur()
	c.text = strings.TrimRight(c.text, " \t")
	if p.isOneLine() {
		if c.text != "" && !strings.HasSuffix(c.text, " ") {
			c.text += " "
		}
		return
	}
	p.lines = append(p.lines, line{level: level})
}

// Render joins buffered lines with the configured newline, applying
// per-line indentation. Oneline-mode printers only ever produce one line.
func (p *printer) Render() string {
	if p.isOneLine() {
		return strings.TrimSpace(p.cur().text)
	}
	unit := p.opts.indentUnit()
	var sb strings.Builder
	for i, ln := range p.lines {
		if i > 0 {
			sb.WriteString(p.opts.Newline)
		}
		text := strings.TrimRight(ln.text, " \t")
		if text == "" {
			continue
		}
		sb.WriteString(strings.Repeat(unit, ln.level))
		sb.WriteString(text)
	}
	return sb.String()
}

// ctx carries the small amount of context that can't live on the token
// itself: which comma-break style currently applies (reset on descent
// into most containers, set by the few that own a dedicated style), and
// whether we're inside a CASE branch (AND/OR breaks never apply there).
type ctx struct {
	commaBreak CommaBreak
	inCase     bool
}

func applyCase(text string, kc KeywordCase) string {
	switch kc {
	case KeywordUpper:
		return strings.ToUpper(text)
	case KeywordLower:
		return strings.ToLower(text)
	default:
		return text
	}
}

func (o Options) quoteIdent(name string) string {
	switch o.IdentifierEscape {
	case EscapeBacktick:
		return "`" + name + "`"
	case EscapeBracket:
		return "[" + name + "]"
	case EscapeNone:
		return name
	case EscapeCustom:
		return o.IdentifierEscapeStart + name + o.IdentifierEscapeEnd
	default:
		return `"` + name + `"`
	}
}

func onelineFlagFor(ct ContainerType, o Options) bool {
	switch ct {
	case ContainerParenExpression:
		return o.ParenthesesOneLine
	case ContainerBetweenExpression:
		return o.BetweenOneLine
	case ContainerValues, ContainerValuesRow:
		return o.ValuesOneLine
	case ContainerJoinClause:
		return o.JoinOneLine
	case ContainerCaseExpression:
		return o.CaseOneLine
	case ContainerInlineQuery:
		return o.SubqueryOneLine
	case ContainerInsertColumns:
		return o.InsertColumnsOneLine
	case ContainerMergeWhenClause:
		return o.WhenOneLine
	case ContainerCommonTableBody:
		return o.WithClauseStyle != WithStandard
	}
	return false
}

func (p *printer) printToken(t *PrintToken, level int, c ctx) {
	if t == nil {
		return
	}
	switch t.Type {
	case TokKeyword:
		p.appendText(applyCase(t.Text, p.opts.KeywordCase))
	case TokOperator, TokRaw, TokLiteral, TokIdentifier:
		p.appendText(t.Text)
	case TokQuotedIdentifier:
		p.appendText(p.opts.quoteIdent(t.Text))
	case TokSpace:
		if p.skipNextSpace {
			p.skipNextSpace = false
			return
		}
		p.appendText(" ")
	case TokComma:
		p.printComma(level, c)
	case TokParenOpen:
		p.appendText("(")
	case TokParenClose:
		p.appendText(")")
	case TokComment:
		p.printComment(t, level)
	case TokContainer:
		p.printContainer(t, level, c)
	}
}

func (p *printer) printComma(level int, c ctx) {
	switch c.commaBreak {
	case BreakBefore:
		p.appendNewline(level)
		p.appendText(",")
	case BreakAfter:
		p.appendText(",")
		p.appendNewline(level)
		p.skipNextSpace = true
	default:
		p.appendText(",")
	}
}

// printComment emits one comment token honoring CommentExportMode. Line
// comments (`--`) force a newline afterward so a following token never
// gets pulled onto the commented line.
func (p *printer) printComment(t *PrintToken, level int) {
	switch p.opts.CommentExportMode {
	case CommentNone:
		return
	case CommentHeaderOnly, CommentTopHeaderOnly:
		if !t.Header {
			return
		}
	}
	p.appendText(t.Text)
	if strings.HasPrefix(strings.TrimSpace(t.Text), "--") {
		p.appendNewline(level)
	} else {
		p.appendText(" ")
	}
}

func (p *printer) printContainer(t *PrintToken, level int, c ctx) {
	if !p.isOneLine() && onelineFlagFor(t.Container, p.opts) {
		sub := newPrinter(p.opts.oneLine())
		sub.printContainerBody(t, 0, c)
		p.appendText(sub.Render())
		return
	}
	p.printContainerBody(t, level, c)
}

func (p *printer) printContainerBody(t *PrintToken, level int, c ctx) {
	o := p.opts
	childLevel := level
	if o.IndentIncrementContainers[t.Container] {
		childLevel = level + 1
	}
	child := c
	child.commaBreak = BreakNone

	switch t.Container {
	case ContainerSelectClause, ContainerGroupByClause, ContainerOrderByClause,
		ContainerReturningClause, ContainerSetClause:
		child.commaBreak = o.CommaBreak
		p.printChildren(t.Inner, childLevel, child)
	case ContainerWithClause:
		if o.WithClauseStyle == WithFullOneline {
			child.commaBreak = BreakNone
		} else {
			child.commaBreak = o.CTECommaBreak
		}
		p.printChildren(t.Inner, childLevel, child)
	case ContainerValues, ContainerValuesRow:
		child.commaBreak = o.ValuesCommaBreak
		p.printChildren(t.Inner, childLevel, child)
	case ContainerJoinList:
		suppress := o.WithClauseStyle == WithFullOneline
		for _, j := range t.Inner {
			if suppress {
				p.appendText(" ")
			} else {
				p.appendNewline(childLevel)
			}
			p.printToken(j, childLevel, child)
		}
	case ContainerCaseExpression:
		child.inCase = true
		p.printChildren(t.Inner, childLevel, child)
	case ContainerRoot, ContainerInlineQuery:
		child.inCase = false
		p.printChildren(t.Inner, childLevel, child)
	case ContainerBoolChain:
		p.printBoolChain(t, level, c)
		return
	default:
		p.printChildren(t.Inner, childLevel, child)
	}
}

func (p *printer) printChildren(toks []*PrintToken, level int, c ctx) {
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if p.opts.CommentStyle == CommentSmart && isCommentBlock(t) {
			run := 1
			for i+run < len(toks) && isCommentBlock(toks[i+run]) {
				run++
			}
			if run > 1 {
				p.printMergedComments(toks[i:i+run], level)
				i += run - 1
				continue
			}
		}
		p.printToken(t, level, c)
	}
}

func isCommentBlock(t *PrintToken) bool {
	return t.Type == TokContainer && t.Container == ContainerCommentBlock
}

func (p *printer) printMergedComments(blocks []*PrintToken, level int) {
	mode := p.opts.CommentExportMode
	if mode == CommentNone {
		return
	}
	var lines []string
	for _, b := range blocks {
		for _, inner := range b.Inner {
			if inner.Type != TokComment {
				continue
			}
			if (mode == CommentHeaderOnly || mode == CommentTopHeaderOnly) && !inner.Header {
				continue
			}
			lines = append(lines, strings.TrimSpace(trimCommentMarkers(inner.Text)))
		}
	}
	if len(lines) == 0 {
		return
	}
	p.appendText("/* " + strings.Join(lines, "\n   ") + " */")
	p.appendNewline(level)
}

func trimCommentMarkers(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "--")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

// printBoolChain renders an AND/OR chain: left, then the operator on the
// same line or broken per AndBreak/OrBreak, then right. Never breaks
// inside a CASE branch regardless of the configured style.
func (p *printer) printBoolChain(t *PrintToken, level int, c ctx) {
	left, opTok, right := t.Inner[0], t.Inner[1], t.Inner[2]
	var style CommaBreak
	if opTok.Text == "AND" {
		style = p.opts.AndBreak
	} else {
		style = p.opts.OrBreak
	}
	p.printToken(left, level, c)
	switch {
	case c.inCase || style == BreakNone:
		p.appendText(" ")
		p.printToken(opTok, level, c)
		p.appendText(" ")
	case style == BreakBefore:
		p.appendNewline(level)
		p.printToken(opTok, level, c)
		p.appendText(" ")
	default: // BreakAfter
		p.appendText(" ")
		p.printToken(opTok, level, c)
		p.appendNewline(level)
	}
	p.printToken(right, level, c)
}

// Print renders a lowered token tree to text under opts. This is the
// line-printer entry point; Format (format.go) composes Lower+Print.
func Print(root *PrintToken, opts Options) string {
	p := newPrinter(opts)
	p.printToken(root, 0, ctx{})
	return p.Render()
}
