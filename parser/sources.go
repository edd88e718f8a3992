package parser

import (
	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/lexer"
)

func (p *sqlParser) parseFromClause() (*ast.FromClause, error) {
	src, err := p.parseSourceExpression()
	if err != nil {
		return nil, err
	}
	fc := ast.NewFromClause(src)
	for {
		if !p.isJoinStart() {
			break
		}
		j, err := p.parseJoinClause()
		if err != nil {
			return nil, err
		}
		fc.Joins = append(fc.Joins, j)
	}
	return fc, nil
}

func (p *sqlParser) isJoinStart() bool {
	return p.c.isKeyword("JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS", "LATERAL") ||
		p.c.isPunct(",")
}

func (p *sqlParser) parseSourceExpression() (*ast.SourceExpression, error) {
	var ds ast.Node
	switch {
	case p.c.isKeyword("LATERAL"):
		p.c.next()
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
		ds = ast.NewSubQuerySource(q)
	case p.c.isPunct("("):
		p.c.next()
		if isSelectStart(p.c) {
			q, err := p.parseQuery()
			if err != nil {
				return nil, err
			}
			if _, err := p.c.expectPunct(")"); err != nil {
				return nil, err
			}
			ds = ast.NewSubQuerySource(q)
		} else {
			inner, err := p.parseFromClause()
			if err != nil {
				return nil, err
			}
			if _, err := p.c.expectPunct(")"); err != nil {
				return nil, err
			}
			ds = ast.NewParenSource(inner)
		}
	default:
		parts, err := p.parseDottedIdent()
		if err != nil {
			return nil, err
		}
		if p.c.isPunct("(") {
			p.c.next()
			var args []ast.Node
			if !p.c.isPunct(")") {
				for {
					e, err := p.parseExpr(0)
					if err != nil {
						return nil, err
					}
					args = append(args, e)
					if p.c.consumePunct(",") {
						continue
					}
					break
				}
			}
			if _, err := p.c.expectPunct(")"); err != nil {
				return nil, err
			}
			ds = ast.NewFunctionSource(joinDots(parts), args)
		} else {
			name := parts[len(parts)-1]
			ns := parts[:len(parts)-1]
			ds = ast.NewTableSource(ast.NewQualifiedName(ns, name))
		}
	}

	se := ast.NewSourceExpression("", ds)
	if alias, cols, ok := p.tryParseSourceAlias(); ok {
		se.Alias = alias
		se.ColumnAliases = cols
	}
	return se, nil
}

// tryParseSourceAlias consumes an optional `[AS] alias [(col, ...)]`.
func (p *sqlParser) tryParseSourceAlias() (string, []string, bool) {
	hadAs := p.c.consumeKeyword("AS")
	t := p.c.peek()
	if t.Kind != lexer.KindIdentifier && t.Kind != lexer.KindQuotedIdentifier {
		return "", nil, false
	}
	if !hadAs && p.isJoinStart() {
		return "", nil, false
	}
	name, _ := p.parseIdentName()
	var cols []string
	if p.c.consumePunct("(") {
		for {
			cn, err := p.parseIdentName()
			if err != nil {
				break
			}
			cols = append(cols, cn)
			if p.c.consumePunct(",") {
				continue
			}
			break
		}
		p.c.consumePunct(")")
	}
	return name, cols, true
}

func (p *sqlParser) parseJoinClause() (*ast.JoinClause, error) {
	lateral := false
	kind := ast.JoinInner
	switch {
	case p.c.consumePunct(","):
		kind = ast.JoinCross
	case p.c.consumeKeyword("JOIN"):
		kind = ast.JoinInner
	case p.c.consumeKeyword("INNER"):
		if !p.c.consumeKeyword("JOIN") {
			return nil, p.c.errorf("expected JOIN after INNER")
		}
		kind = ast.JoinInner
	case p.c.consumeKeyword("LEFT"):
		p.c.consumeKeyword("OUTER")
		if !p.c.consumeKeyword("JOIN") {
			return nil, p.c.errorf("expected JOIN after LEFT")
		}
		kind = ast.JoinLeft
	case p.c.consumeKeyword("RIGHT"):
		p.c.consumeKeyword("OUTER")
		if !p.c.consumeKeyword("JOIN") {
			return nil, p.c.errorf("expected JOIN after RIGHT")
		}
		kind = ast.JoinRight
	case p.c.consumeKeyword("FULL"):
		p.c.consumeKeyword("OUTER")
		if !p.c.consumeKeyword("JOIN") {
			return nil, p.c.errorf("expected JOIN after FULL")
		}
		kind = ast.JoinFull
	case p.c.consumeKeyword("CROSS"):
		if !p.c.consumeKeyword("JOIN") {
			return nil, p.c.errorf("expected JOIN after CROSS")
		}
		kind = ast.JoinCross
	case p.c.consumeKeyword("LATERAL"):
		lateral = true
		if !p.c.consumeKeyword("JOIN") {
			return nil, p.c.errorf("expected JOIN after LATERAL")
		}
	default:
		return nil, p.c.errorf("expected join keyword")
	}

	src, err := p.parseSourceExpression()
	if err != nil {
		return nil, err
	}
	jc := ast.NewJoinClause(kind, src)
	jc.Lateral = lateral

	switch {
	case p.c.consumeKeyword("ON"):
		cond, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		jc.ConditionKind = ast.JoinCondOn
		jc.On = cond
	case p.c.consumeKeyword("USING"):
		if _, err := p.c.expectPunct("("); err != nil {
			return nil, err
		}
		for {
			n, err := p.parseIdentName()
			if err != nil {
				return nil, err
			}
			jc.Using = append(jc.Using, n)
			if p.c.consumePunct(",") {
				continue
			}
			break
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
		jc.ConditionKind = ast.JoinCondUsing
	default:
		jc.ConditionKind = ast.JoinCondNone
	}
	return jc, nil
}
