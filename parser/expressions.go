package parser

import (
	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/lexer"
)

// precedence table for binary operators, low to high. OR binds loosest.
// Prefix NOT (parseUnary) binds between AND and the comparisons; unary
// sign binds tightest, before primaries.
var binaryPrecedence = map[string]int{
	"OR": 1,
	"AND": 2,
	"=": 4, "!=": 4, "<>": 4, "<": 4, ">": 4, "<=": 4, ">=": 4,
	"LIKE": 4, "ILIKE": 4, "IN": 4, "IS": 4,
	"||": 5,
	"+": 6, "-": 6,
	"*": 7, "/": 7, "%": 7,
	"->": 8, "->>": 8, "::": 9,
}

// parseExpr parses a value expression using precedence climbing; minPrec
// is the minimum operator precedence this call is allowed to consume.
func (p *sqlParser) parseExpr(minPrec int) (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, prec, ok := p.peekBinaryOp()
		if !ok || prec < minPrec {
			return left, nil
		}

		switch op {
		case "BETWEEN":
			left, err = p.parseBetweenTail(left, false)
		case "NOT":
			left, err = p.parseNotTail(left)
		case "IS":
			left, err = p.parseIsTail(left)
		case "::":
			p.c.next()
			var tname string
			tname, err = p.parseTypeName()
			if err == nil {
				left = ast.NewCastExpression(left, tname)
			}
		default:
			p.c.next()
			var right ast.Node
			right, err = p.parseExprRHS(op, prec)
			if err == nil {
				left = ast.NewBinaryExpression(left, op, right)
			}
		}
		if err != nil {
			return nil, err
		}
	}
}

// parseExprRHS parses the right operand, handling IN's special
// "(subquery)" / "(value list)" shape inline.
func (p *sqlParser) parseExprRHS(op string, prec int) (ast.Node, error) {
	if op == "IN" {
		return p.parseInRHS()
	}
	return p.parseExpr(prec + 1)
}

func (p *sqlParser) parseInRHS() (ast.Node, error) {
	if _, err := p.c.expectPunct("("); err != nil {
		return nil, err
	}
	if isSelectStart(p.c) {
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
		return ast.NewInlineQuery("", q), nil
	}
	var items []ast.Node
	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	if _, err := p.c.expectPunct(")"); err != nil {
		return nil, err
	}
	return ast.NewValueList(items), nil
}

func (p *sqlParser) parseBetweenTail(left ast.Node, negate bool) (ast.Node, error) {
	p.c.next() // BETWEEN
	low, err := p.parseExpr(6) // above AND's precedence so AND terminates low
	if err != nil {
		return nil, err
	}
	if !p.c.consumeKeyword("AND") {
		return nil, p.c.errorf("expected AND in BETWEEN")
	}
	high, err := p.parseExpr(6)
	if err != nil {
		return nil, err
	}
	be := ast.NewBetweenExpression(left, low, high)
	be.Negate = negate
	return be, nil
}

func (p *sqlParser) parseNotTail(left ast.Node) (ast.Node, error) {
	p.c.next() // NOT
	switch {
	case p.c.consumeKeyword("BETWEEN"):
		return p.parseBetweenTailNoConsume(left, true)
	case p.c.consumeKeyword("IN"):
		rhs, err := p.parseInRHS()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression("NOT IN", ast.NewBinaryExpression(left, "IN", rhs)), nil
	case p.c.consumeKeyword("LIKE"):
		right, err := p.parseExpr(5)
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(left, "NOT LIKE", right), nil
	}
	return nil, p.c.errorf("unexpected NOT in expression")
}

func (p *sqlParser) parseBetweenTailNoConsume(left ast.Node, negate bool) (ast.Node, error) {
	low, err := p.parseExpr(6)
	if err != nil {
		return nil, err
	}
	if !p.c.consumeKeyword("AND") {
		return nil, p.c.errorf("expected AND in BETWEEN")
	}
	high, err := p.parseExpr(6)
	if err != nil {
		return nil, err
	}
	be := ast.NewBetweenExpression(left, low, high)
	be.Negate = negate
	return be, nil
}

func (p *sqlParser) parseIsTail(left ast.Node) (ast.Node, error) {
	p.c.next() // IS
	negate := p.c.consumeKeyword("NOT")
	if p.c.isKeyword("NULL") {
		p.c.next()
		op := "IS NULL"
		if negate {
			op = "IS NOT NULL"
		}
		return ast.NewUnaryExpression(op, left), nil
	}
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	op := "IS"
	if negate {
		op = "IS NOT"
	}
	return ast.NewBinaryExpression(left, op, right), nil
}

// peekBinaryOp inspects the current token and reports whether it begins a
// binary operator, its canonical text, and its precedence.
func (p *sqlParser) peekBinaryOp() (string, int, bool) {
	t := p.c.peek()
	switch t.Kind {
	case lexer.KindKeyword:
		switch upperTok(t.Value) {
		case "AND", "OR", "LIKE", "ILIKE", "IN", "IS", "BETWEEN":
			return upperTok(t.Value), binaryPrecedence[upperTok(t.Value)], true
		case "NOT":
			if p.c.peekN(1).Is("BETWEEN", "IN", "LIKE") {
				return "NOT", 4, true
			}
			return "", 0, false
		}
		return "", 0, false
	case lexer.KindPunctuation:
		if prec, ok := binaryPrecedence[t.Value]; ok {
			return t.Value, prec, true
		}
	}
	return "", 0, false
}

func (p *sqlParser) parseUnary() (ast.Node, error) {
	switch {
	case p.c.consumeKeyword("NOT"):
		e, err := p.parseExpr(3)
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression("NOT", e), nil
	case p.c.isPunct("-") || p.c.isPunct("+"):
		op := p.c.next().Value
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(op, e), nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary then any trailing array/json operators
// that bind tighter than the precedence table handles structurally
// (currently just delegates; reserved for future postfix forms).
func (p *sqlParser) parsePostfix() (ast.Node, error) {
	return p.parsePrimary()
}

func (p *sqlParser) parsePrimary() (ast.Node, error) {
	t := p.c.peek()
	switch t.Kind {
	case lexer.KindStringLiteral:
		p.c.next()
		return ast.NewLiteralValue(ast.LiteralString, t.Value), nil
	case lexer.KindNumberLiteral:
		p.c.next()
		return ast.NewLiteralValue(ast.LiteralNumber, t.Value), nil
	case lexer.KindBoolLiteral:
		p.c.next()
		return ast.NewLiteralValue(ast.LiteralBool, t.Value), nil
	case lexer.KindNullLiteral:
		p.c.next()
		return ast.NewLiteralValue(ast.LiteralNull, t.Value), nil
	case lexer.KindParameter:
		p.c.next()
		return ast.NewParameterValue(t.Value[1:]), nil
	case lexer.KindPunctuation:
		if t.Value == "(" {
			return p.parseParenOrTuple()
		}
	case lexer.KindKeyword:
		switch upperTok(t.Value) {
		case "CASE":
			return p.parseCase()
		case "CAST":
			return p.parseCast()
		case "ARRAY":
			return p.parseArray()
		case "EXISTS":
			p.c.next()
			return p.parseExistsBody("EXISTS")
		case "NOT":
			if p.c.peekN(1).Is("EXISTS") {
				p.c.next()
				p.c.next()
				return p.parseExistsBody("NOT EXISTS")
			}
		case "TRUE", "FALSE":
			p.c.next()
			return ast.NewLiteralValue(ast.LiteralBool, t.Value), nil
		}
	}
	// identifier / qualified name / function call
	return p.parseIdentifierLed()
}

func (p *sqlParser) parseExistsBody(keyword string) (ast.Node, error) {
	if _, err := p.c.expectPunct("("); err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if _, err := p.c.expectPunct(")"); err != nil {
		return nil, err
	}
	return ast.NewInlineQuery(keyword, q), nil
}

func (p *sqlParser) parseParenOrTuple() (ast.Node, error) {
	p.c.next() // (
	if isSelectStart(p.c) {
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
		return ast.NewInlineQuery("", q), nil
	}
	var items []ast.Node
	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	if _, err := p.c.expectPunct(")"); err != nil {
		return nil, err
	}
	if len(items) == 1 {
		return ast.NewParenExpression(items[0]), nil
	}
	return ast.NewTuple(items), nil
}

func (p *sqlParser) parseCase() (ast.Node, error) {
	p.c.next() // CASE
	ce := ast.NewCaseExpression()
	if !p.c.isKeyword("WHEN") {
		operand, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		ce.Operand = operand
	}
	for p.c.consumeKeyword("WHEN") {
		cond, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if !p.c.consumeKeyword("THEN") {
			return nil, p.c.errorf("expected THEN")
		}
		result, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		ce.Whens = append(ce.Whens, ast.NewCaseWhen(cond, result))
	}
	if p.c.consumeKeyword("ELSE") {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		ce.Else = e
	}
	if !p.c.consumeKeyword("END") {
		return nil, p.c.errorf("expected END")
	}
	return ce, nil
}

func (p *sqlParser) parseCast() (ast.Node, error) {
	p.c.next() // CAST
	if _, err := p.c.expectPunct("("); err != nil {
		return nil, err
	}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if !p.c.consumeKeyword("AS") {
		return nil, p.c.errorf("expected AS in CAST")
	}
	tname, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.c.expectPunct(")"); err != nil {
		return nil, err
	}
	return ast.NewCastExpression(e, tname), nil
}

func (p *sqlParser) parseTypeName() (string, error) {
	t := p.c.next()
	if t.Kind != lexer.KindIdentifier && t.Kind != lexer.KindKeyword {
		return "", p.c.errorf("expected type name")
	}
	name := t.Value
	if p.c.isPunct("(") {
		p.c.next()
		for !p.c.isPunct(")") {
			if p.c.atEOF() {
				return "", p.c.errorf("unterminated type modifier")
			}
			p.c.next()
		}
		p.c.next()
		name += "(...)"
	}
	for p.c.isPunct("[") {
		p.c.next()
		if _, err := p.c.expectPunct("]"); err != nil {
			return "", err
		}
		name += "[]"
	}
	return name, nil
}

func (p *sqlParser) parseArray() (ast.Node, error) {
	p.c.next() // ARRAY
	if p.c.isPunct("(") {
		p.c.next()
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
		return ast.NewArrayQueryExpression(q), nil
	}
	if _, err := p.c.expectPunct("["); err != nil {
		return nil, err
	}
	var items []ast.Node
	if !p.c.isPunct("]") {
		for {
			e, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			items = append(items, e)
			if p.c.consumePunct(",") {
				continue
			}
			break
		}
	}
	if _, err := p.c.expectPunct("]"); err != nil {
		return nil, err
	}
	return ast.NewArrayExpression(items), nil
}

// parseIdentifierLed parses a qualified name, then decides whether it's a
// function call (followed by '(') or a bare column reference.
func (p *sqlParser) parseIdentifierLed() (ast.Node, error) {
	parts, err := p.parseDottedIdent()
	if err != nil {
		return nil, err
	}
	if len(parts) == 1 && parts[0] == "*" {
		return ast.NewColumnReference(nil, "*"), nil
	}
	if p.c.isPunct("(") {
		return p.parseFunctionCallTail(parts)
	}
	name := parts[len(parts)-1]
	ns := parts[:len(parts)-1]
	return ast.NewColumnReference(ns, name), nil
}

func (p *sqlParser) parseDottedIdent() ([]string, error) {
	var parts []string
	for {
		if p.c.isPunct("*") {
			p.c.next()
			parts = append(parts, "*")
			break
		}
		t := p.c.peek()
		if t.Kind != lexer.KindIdentifier && t.Kind != lexer.KindQuotedIdentifier && t.Kind != lexer.KindKeyword {
			return nil, p.c.errorf("expected identifier")
		}
		p.c.next()
		parts = append(parts, unquoteIdent(t))
		if p.c.isPunct(".") {
			p.c.next()
			continue
		}
		break
	}
	return parts, nil
}

func (p *sqlParser) parseFunctionCallTail(parts []string) (ast.Node, error) {
	p.c.next() // (
	name := parts[len(parts)-1]
	if len(parts) > 1 {
		name = joinDots(parts)
	}
	fc := ast.NewFunctionCall(name, nil)
	if p.c.consumeKeyword("DISTINCT") {
		fc.Distinct = true
	}
	if !p.c.isPunct(")") {
		if p.c.isPunct("*") {
			p.c.next()
			fc.Args = append(fc.Args, ast.NewColumnReference(nil, "*"))
		} else {
			for {
				e, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				fc.Args = append(fc.Args, e)
				if p.c.consumePunct(",") {
					continue
				}
				break
			}
		}
	}
	if _, err := p.c.expectPunct(")"); err != nil {
		return nil, err
	}
	if p.c.consumeKeyword("OVER") {
		over, err := p.parseOverClause()
		if err != nil {
			return nil, err
		}
		fc.Over = over
	}
	return fc, nil
}

func (p *sqlParser) parseOverClause() (*ast.OverClause, error) {
	oc := ast.NewOverClause()
	if !p.c.isPunct("(") {
		t := p.c.peek()
		if t.Kind == lexer.KindIdentifier {
			p.c.next()
			oc.WindowName = t.Value
			return oc, nil
		}
		return nil, p.c.errorf("expected window specification")
	}
	p.c.next()
	if p.c.consumeKeyword("PARTITION") {
		if !p.c.consumeKeyword("BY") {
			return nil, p.c.errorf("expected BY after PARTITION")
		}
		for {
			e, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			oc.PartitionBy = append(oc.PartitionBy, e)
			if p.c.consumePunct(",") {
				continue
			}
			break
		}
	}
	if p.c.isKeyword("ORDER") {
		ob, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		oc.OrderBy = ob
	}
	if p.c.isKeyword("ROWS", "RANGE", "GROUPS") {
		frame, err := p.parseWindowFrame()
		if err != nil {
			return nil, err
		}
		oc.Frame = frame
	}
	if _, err := p.c.expectPunct(")"); err != nil {
		return nil, err
	}
	return oc, nil
}

func (p *sqlParser) parseWindowFrame() (*ast.WindowFrameExpression, error) {
	unit := p.c.next().Value
	var start string
	var err error
	end := "CURRENT ROW"
	if !p.c.consumeKeyword("BETWEEN") {
		start, err = p.parseFrameBound()
		if err != nil {
			return nil, err
		}
	} else {
		start, err = p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		if !p.c.consumeKeyword("AND") {
			return nil, p.c.errorf("expected AND in window frame")
		}
		end, err = p.parseFrameBound()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewWindowFrameExpression(upperTok(unit), start, end), nil
}

func (p *sqlParser) parseFrameBound() (string, error) {
	if p.c.consumeKeyword("UNBOUNDED") {
		if p.c.consumeKeyword("PRECEDING") {
			return "UNBOUNDED PRECEDING", nil
		}
		if p.c.consumeKeyword("FOLLOWING") {
			return "UNBOUNDED FOLLOWING", nil
		}
		return "", p.c.errorf("expected PRECEDING or FOLLOWING")
	}
	if p.c.consumeKeyword("CURRENT") {
		if !p.c.consumeKeyword("ROW") {
			return "", p.c.errorf("expected ROW after CURRENT")
		}
		return "CURRENT ROW", nil
	}
	t := p.c.next()
	if p.c.consumeKeyword("PRECEDING") {
		return t.Value + " PRECEDING", nil
	}
	if p.c.consumeKeyword("FOLLOWING") {
		return t.Value + " FOLLOWING", nil
	}
	return "", p.c.errorf("expected PRECEDING or FOLLOWING")
}

func unquoteIdent(t lexer.Token) string {
	if t.Kind == lexer.KindQuotedIdentifier && len(t.Value) >= 2 {
		return t.Value[1 : len(t.Value)-1]
	}
	return t.Value
}

func joinDots(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "." + p
	}
	return out
}

func upperTok(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}
