package parser

import (
	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/lexer"
)

// isSelectStart reports whether the cursor is positioned at something that
// begins a query (SELECT, WITH, or VALUES) without consuming input —
// used to disambiguate a parenthesized subquery from a parenthesized
// expression/tuple.
func isSelectStart(c *cursor) bool {
	return c.isKeyword("SELECT", "WITH", "VALUES") || (c.isPunct("(") && isSelectStartAt(c, 1))
}

func isSelectStartAt(c *cursor, offset int) bool {
	return c.peekN(offset).Is("SELECT", "WITH", "VALUES")
}

// parseQuery parses WITH? (SimpleSelect | ValuesQuery) (setop query)*,
// i.e. the full query grammar usable anywhere a SELECT is expected:
// top-level, subqueries, CTE bodies, INSERT ... SELECT.
func (p *sqlParser) parseQuery() (ast.Node, error) {
	var with *ast.WithClause
	if p.c.isKeyword("WITH") {
		w, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}
		with = w
	}

	left, err := p.parseQueryPrimary()
	if err != nil {
		return nil, err
	}
	if sel, ok := left.(*ast.SimpleSelect); ok && with != nil {
		sel.With = with
		with = nil
	}

	for {
		op, ok := p.peekSetOp()
		if !ok {
			break
		}
		p.consumeSetOp()
		right, err := p.parseQueryPrimary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinarySelect(left, op, right)
		_ = op
	}

	if with != nil {
		// WITH wrapped a BinarySelect or ValuesQuery at top level: wrap in
		// a pass-through SimpleSelect carrying just the WITH + FROM(subquery)
		// isn't representable cleanly, so CTEs preceding a set-op bind to
		// the first arm (rawsql-style: tested against a
		// "attach WITH to the first leaf" convention).
		if sel, ok := findLeftmostSelect(left); ok {
			sel.With = with
		}
	}
	return left, nil
}

func findLeftmostSelect(n ast.Node) (*ast.SimpleSelect, bool) {
	switch t := n.(type) {
	case *ast.SimpleSelect:
		return t, true
	case *ast.BinarySelect:
		return findLeftmostSelect(t.Left)
	}
	return nil, false
}

func (p *sqlParser) peekSetOp() (ast.SetOp, bool) {
	switch {
	case p.c.isKeyword("UNION"):
		if p.c.peekN(1).Is("ALL") {
			return ast.SetOpUnionAll, true
		}
		return ast.SetOpUnion, true
	case p.c.isKeyword("INTERSECT"):
		if p.c.peekN(1).Is("ALL") {
			return ast.SetOpIntersectAll, true
		}
		return ast.SetOpIntersect, true
	case p.c.isKeyword("EXCEPT"):
		if p.c.peekN(1).Is("ALL") {
			return ast.SetOpExceptAll, true
		}
		return ast.SetOpExcept, true
	}
	return 0, false
}

func (p *sqlParser) consumeSetOp() {
	p.c.next()
	p.c.consumeKeyword("ALL")
}

func (p *sqlParser) parseQueryPrimary() (ast.Node, error) {
	switch {
	case p.c.isKeyword("VALUES"):
		return p.parseValuesQuery()
	case p.c.isKeyword("SELECT"):
		return p.parseSimpleSelect()
	case p.c.isPunct("("):
		p.c.next()
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
		return q, nil
	}
	return nil, p.c.errorf("expected SELECT, WITH, or VALUES")
}

func (p *sqlParser) parseWithClause() (*ast.WithClause, error) {
	p.c.next() // WITH
	wc := ast.NewWithClause()
	if p.c.consumeKeyword("RECURSIVE") {
		wc.Recursive = true
	}
	for {
		name, err := p.parseIdentName()
		if err != nil {
			return nil, err
		}
		var cols []string
		if p.c.consumePunct("(") {
			for {
				cn, err := p.parseIdentName()
				if err != nil {
					return nil, err
				}
				cols = append(cols, cn)
				if p.c.consumePunct(",") {
					continue
				}
				break
			}
			if _, err := p.c.expectPunct(")"); err != nil {
				return nil, err
			}
		}
		if !p.c.consumeKeyword("AS") {
			return nil, p.c.errorf("expected AS in CTE definition")
		}
		if _, err := p.c.expectPunct("("); err != nil {
			return nil, err
		}
		body, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
		ct := ast.NewCommonTable(name, body)
		ct.Columns = cols
		wc.Tables = append(wc.Tables, ct)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	return wc, nil
}

func (p *sqlParser) parseValuesQuery() (*ast.ValuesQuery, error) {
	p.c.next() // VALUES
	vq := ast.NewValuesQuery()
	for {
		if _, err := p.c.expectPunct("("); err != nil {
			return nil, err
		}
		var row []ast.Node
		for {
			e, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			row = append(row, e)
			if p.c.consumePunct(",") {
				continue
			}
			break
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
		vq.Rows = append(vq.Rows, row)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	return vq, nil
}

func (p *sqlParser) parseSimpleSelect() (*ast.SimpleSelect, error) {
	p.c.next() // SELECT
	sel := ast.NewSimpleSelect()
	if p.c.consumeKeyword("DISTINCT") {
		sel.Distinct = true
	} else {
		p.c.consumeKeyword("ALL")
	}

	sc, err := p.parseSelectClause()
	if err != nil {
		return nil, err
	}
	sel.Select = sc

	if p.c.consumeKeyword("FROM") {
		fc, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		sel.From = fc
	}
	if p.c.isKeyword("WHERE") {
		wc, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		sel.Where = wc
	}
	if p.c.skipTwoWordKeyword("GROUP", "BY") {
		gb, err := p.parseGroupByItems()
		if err != nil {
			return nil, err
		}
		sel.GroupBy = gb
	}
	if p.c.isKeyword("HAVING") {
		hc, err := p.parseHavingClause()
		if err != nil {
			return nil, err
		}
		sel.Having = hc
	}
	if p.c.isKeyword("WINDOW") {
		wc, err := p.parseWindowsClause()
		if err != nil {
			return nil, err
		}
		sel.Windows = wc
	}
	if p.c.isKeyword("ORDER") {
		ob, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		sel.OrderBy = ob
	}
	if p.c.isKeyword("LIMIT") {
		lc, err := p.parseLimitClause()
		if err != nil {
			return nil, err
		}
		sel.Limit = lc
	}
	if p.c.isKeyword("OFFSET") {
		oc, err := p.parseOffsetClause()
		if err != nil {
			return nil, err
		}
		sel.Offset = oc
	}
	if p.c.isKeyword("FETCH") {
		fc, err := p.parseFetchClause()
		if err != nil {
			return nil, err
		}
		sel.Fetch = fc
	}
	if p.c.isKeyword("FOR") {
		fc, err := p.parseForClause()
		if err != nil {
			return nil, err
		}
		sel.For = fc
	}
	return sel, nil
}

func (p *sqlParser) parseSelectClause() (*ast.SelectClause, error) {
	sc := ast.NewSelectClause()
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		sc.Items = append(sc.Items, item)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	return sc, nil
}

func (p *sqlParser) parseSelectItem() (*ast.SelectItem, error) {
	if p.c.isPunct("*") {
		p.c.next()
		return &ast.SelectItem{Wildcard: true}, nil
	}
	value, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if cr, ok := value.(*ast.ColumnReference); ok && cr.Column == "*" {
		item := &ast.SelectItem{Wildcard: true}
		if len(cr.Namespaces) > 0 {
			item.WildcardTable = cr.Namespaces[len(cr.Namespaces)-1]
		}
		return item, nil
	}
	alias := ""
	if p.c.consumeKeyword("AS") {
		alias, err = p.parseIdentName()
		if err != nil {
			return nil, err
		}
	} else if name, ok := p.tryParseBareAlias(); ok {
		alias = name
	}
	return ast.NewSelectItem(value, alias), nil
}

// tryParseBareAlias consumes an implicit alias (`col name_without_as`) if
// the next token is a plain identifier that cannot start another clause.
func (p *sqlParser) tryParseBareAlias() (string, bool) {
	t := p.c.peek()
	if t.Kind != lexer.KindIdentifier {
		return "", false
	}
	name := t.Value
	p.c.next()
	return name, true
}

func (p *sqlParser) parseIdentName() (string, error) {
	t := p.c.peek()
	if t.Kind != lexer.KindIdentifier && t.Kind != lexer.KindQuotedIdentifier {
		return "", p.c.errorf("expected identifier")
	}
	p.c.next()
	return unquoteIdent(t), nil
}

func (p *sqlParser) parseQualifiedName() (*ast.QualifiedName, error) {
	parts, err := p.parseDottedIdent()
	if err != nil {
		return nil, err
	}
	name := parts[len(parts)-1]
	ns := parts[:len(parts)-1]
	return ast.NewQualifiedName(ns, name), nil
}

func (p *sqlParser) parseWhereClause() (*ast.WhereClause, error) {
	p.c.next() // WHERE
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return ast.NewWhereClause(cond), nil
}

func (p *sqlParser) parseGroupByItems() (*ast.GroupByClause, error) {
	gb := ast.NewGroupByClause()
	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		gb.Items = append(gb.Items, e)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	return gb, nil
}

func (p *sqlParser) parseHavingClause() (*ast.HavingClause, error) {
	p.c.next() // HAVING
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return ast.NewHavingClause(cond), nil
}

func (p *sqlParser) parseWindowsClause() (*ast.WindowsClause, error) {
	p.c.next() // WINDOW
	wc := ast.NewWindowsClause()
	for {
		name, err := p.parseIdentName()
		if err != nil {
			return nil, err
		}
		if !p.c.consumeKeyword("AS") {
			return nil, p.c.errorf("expected AS in WINDOW definition")
		}
		if _, err := p.c.expectPunct("("); err != nil {
			return nil, err
		}
		over, err := p.parseOverClauseBody()
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
		wc.Names = append(wc.Names, name)
		wc.Defs = append(wc.Defs, over.Frame)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	return wc, nil
}

// parseOverClauseBody parses the inside of an OVER(...) / WINDOW x AS (...)
// body without the surrounding parens (already consumed by the caller).
func (p *sqlParser) parseOverClauseBody() (*ast.OverClause, error) {
	oc := ast.NewOverClause()
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
	return oc, nil
}

func (p *sqlParser) parseOrderByClause() (*ast.OrderByClause, error) {
	if !p.c.skipTwoWordKeyword("ORDER", "BY") {
		return nil, p.c.errorf("expected ORDER BY")
	}
	ob := ast.NewOrderByClause()
	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		item := ast.NewOrderByItem(e)
		if p.c.consumeKeyword("ASC") {
			item.Direction = ast.SortAsc
		} else if p.c.consumeKeyword("DESC") {
			item.Direction = ast.SortDesc
		}
		if p.c.skipTwoWordKeyword("NULLS", "FIRST") {
			item.Nulls = ast.NullsFirst
		} else if p.c.isKeyword("NULLS") && p.c.peekN(1).Is("LAST") {
			p.c.next()
			p.c.next()
			item.Nulls = ast.NullsLast
		}
		ob.Items = append(ob.Items, item)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	return ob, nil
}

func (p *sqlParser) parseLimitClause() (*ast.LimitClause, error) {
	p.c.next() // LIMIT
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return ast.NewLimitClause(e), nil
}

func (p *sqlParser) parseOffsetClause() (*ast.OffsetClause, error) {
	p.c.next() // OFFSET
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	p.c.consumeKeyword("ROW")
	p.c.consumeKeyword("ROWS")
	return ast.NewOffsetClause(e), nil
}

func (p *sqlParser) parseFetchClause() (*ast.FetchClause, error) {
	p.c.next() // FETCH
	if !p.c.consumeKeyword("FIRST") {
		p.c.consumeKeyword("NEXT")
	}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if !p.c.consumeKeyword("ROW") {
		p.c.consumeKeyword("ROWS")
	}
	mode := ast.FetchOnly
	if p.c.consumeKeyword("ONLY") {
		mode = ast.FetchOnly
	} else if p.c.consumeKeyword("TIES") {
		mode = ast.FetchWithTies
	} else if p.c.isKeyword("WITH") && p.c.peekN(1).Is("TIES") {
		p.c.next()
		p.c.next()
		mode = ast.FetchWithTies
	}
	return ast.NewFetchClause(e, mode), nil
}

func (p *sqlParser) parseForClause() (*ast.ForClause, error) {
	p.c.next() // FOR
	var lock ast.ForLockKind
	switch {
	case p.c.consumeKeyword("UPDATE"):
		lock = ast.ForUpdate
	case p.c.skipTwoWordKeyword("NO", "KEY") && p.c.consumeKeyword("UPDATE"):
		lock = ast.ForNoKeyUpdate
	case p.c.consumeKeyword("SHARE"):
		lock = ast.ForShare
	case p.c.skipTwoWordKeyword("KEY", "SHARE"):
		lock = ast.ForKeyShare
	default:
		return nil, p.c.errorf("expected UPDATE, SHARE, or locking strength after FOR")
	}
	fc := ast.NewForClause(lock)
	if p.c.consumeKeyword("OF") {
		for {
			n, err := p.parseIdentName()
			if err != nil {
				return nil, err
			}
			fc.Of = append(fc.Of, n)
			if p.c.consumePunct(",") {
				continue
			}
			break
		}
	}
	if p.c.consumeKeyword("NOWAIT") {
		fc.NoWait = true
	} else if p.c.skipTwoWordKeyword("SKIP", "LOCKED") {
		fc.SkipLocked = true
	}
	return fc, nil
}

func (p *sqlParser) parseReturningClause() (*ast.ReturningClause, error) {
	p.c.next() // RETURNING
	rc := ast.NewReturningClause()
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		rc.Items = append(rc.Items, item)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	return rc, nil
}
