package parser

import (
	"github.com/sqlrefine/sqlrefine/ast"
)

func (p *sqlParser) parseInsert() (*ast.Insert, error) {
	p.c.next() // INSERT
	if !p.c.consumeKeyword("INTO") {
		return nil, p.c.errorf("expected INTO after INSERT")
	}
	table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	ins := ast.NewInsert()
	ins.Table = table

	if p.c.consumePunct("(") {
		for {
			n, err := p.parseIdentName()
			if err != nil {
				return nil, err
			}
			ins.Columns = append(ins.Columns, n)
			if p.c.consumePunct(",") {
				continue
			}
			break
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
	}

	switch {
	case p.c.consumeKeyword("DEFAULT"):
		if !p.c.consumeKeyword("VALUES") {
			return nil, p.c.errorf("expected VALUES after DEFAULT")
		}
		ins.Source = ast.InsertSourceDefault
	case p.c.isKeyword("VALUES"):
		vq, err := p.parseValuesQuery()
		if err != nil {
			return nil, err
		}
		ins.Source = ast.InsertSourceValues
		ins.Values = vq
	case isSelectStart(p.c):
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		ins.Source = ast.InsertSourceSelect
		ins.Select = q
	default:
		return nil, p.c.errorf("expected VALUES, SELECT, or DEFAULT VALUES")
	}

	if p.c.isKeyword("ON") && p.c.peekN(1).Is("CONFLICT") {
		oc, err := p.parseOnConflict()
		if err != nil {
			return nil, err
		}
		ins.OnConflict = oc
	}

	if p.c.isKeyword("RETURNING") {
		rc, err := p.parseReturningClause()
		if err != nil {
			return nil, err
		}
		ins.Returning = rc
	}
	return ins, nil
}

func (p *sqlParser) parseOnConflict() (*ast.OnConflictClause, error) {
	p.c.next() // ON
	p.c.next() // CONFLICT
	oc := ast.NewOnConflictClause()
	if p.c.consumePunct("(") {
		for {
			n, err := p.parseIdentName()
			if err != nil {
				return nil, err
			}
			oc.Columns = append(oc.Columns, n)
			if p.c.consumePunct(",") {
				continue
			}
			break
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	if !p.c.consumeKeyword("DO") {
		return nil, p.c.errorf("expected DO in ON CONFLICT")
	}
	if p.c.consumeKeyword("NOTHING") {
		oc.DoNothing = true
		return oc, nil
	}
	if !p.c.consumeKeyword("UPDATE") {
		return nil, p.c.errorf("expected NOTHING or UPDATE after DO")
	}
	if !p.c.consumeKeyword("SET") {
		return nil, p.c.errorf("expected SET")
	}
	sc, err := p.parseSetItems()
	if err != nil {
		return nil, err
	}
	oc.DoUpdate = sc
	if p.c.isKeyword("WHERE") {
		wc, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		oc.Where = wc
	}
	return oc, nil
}

func (p *sqlParser) parseUpdate() (*ast.Update, error) {
	p.c.next() // UPDATE
	table, err := p.parseSourceExpression()
	if err != nil {
		return nil, err
	}
	upd := ast.NewUpdate()
	upd.Target = table

	if !p.c.consumeKeyword("SET") {
		return nil, p.c.errorf("expected SET")
	}
	sc, err := p.parseSetItems()
	if err != nil {
		return nil, err
	}
	upd.Set = sc

	if p.c.consumeKeyword("FROM") {
		fc, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		upd.From = fc
	}
	if p.c.isKeyword("WHERE") {
		wc, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		upd.Where = wc
	}
	if p.c.isKeyword("RETURNING") {
		rc, err := p.parseReturningClause()
		if err != nil {
			return nil, err
		}
		upd.Returning = rc
	}
	return upd, nil
}

func (p *sqlParser) parseSetItems() (*ast.SetClause, error) {
	sc := ast.NewSetClause()
	for {
		name, err := p.parseIdentName()
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expectPunct("="); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		sc.Items = append(sc.Items, ast.NewSetItem(name, val))
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	return sc, nil
}

func (p *sqlParser) parseDelete() (*ast.Delete, error) {
	p.c.next() // DELETE
	if !p.c.consumeKeyword("FROM") {
		return nil, p.c.errorf("expected FROM after DELETE")
	}
	target, err := p.parseSourceExpression()
	if err != nil {
		return nil, err
	}
	del := ast.NewDelete()
	del.Target = target

	if p.c.consumeKeyword("USING") {
		fc, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		del.Using = fc
	}
	if p.c.isKeyword("WHERE") {
		wc, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		del.Where = wc
	}
	if p.c.isKeyword("RETURNING") {
		rc, err := p.parseReturningClause()
		if err != nil {
			return nil, err
		}
		del.Returning = rc
	}
	return del, nil
}

func (p *sqlParser) parseMerge() (*ast.Merge, error) {
	p.c.next() // MERGE
	if !p.c.consumeKeyword("INTO") {
		return nil, p.c.errorf("expected INTO after MERGE")
	}
	target, err := p.parseSourceExpression()
	if err != nil {
		return nil, err
	}
	if !p.c.consumeKeyword("USING") {
		return nil, p.c.errorf("expected USING after MERGE target")
	}
	source, err := p.parseSourceExpression()
	if err != nil {
		return nil, err
	}
	if !p.c.consumeKeyword("ON") {
		return nil, p.c.errorf("expected ON in MERGE")
	}
	on, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	m := ast.NewMerge()
	m.Target = target
	m.Source = source
	m.On = on

	for p.c.isKeyword("WHEN") {
		w, err := p.parseMergeWhen()
		if err != nil {
			return nil, err
		}
		m.Whens = append(m.Whens, w)
	}
	return m, nil
}

func (p *sqlParser) parseMergeWhen() (*ast.MergeWhen, error) {
	p.c.next() // WHEN
	w := &ast.MergeWhen{}
	negated := p.c.consumeKeyword("NOT")
	if !p.c.consumeKeyword("MATCHED") {
		return nil, p.c.errorf("expected MATCHED in WHEN clause")
	}
	switch {
	case negated && p.c.skipTwoWordKeyword("BY", "SOURCE"):
		w.Match = ast.MergeNotMatchedBySource
	case negated && p.c.skipTwoWordKeyword("BY", "TARGET"):
		w.Match = ast.MergeNotMatchedByTarget
	case negated:
		w.Match = ast.MergeNotMatchedByTarget
	default:
		w.Match = ast.MergeMatched
	}

	if p.c.consumeKeyword("AND") {
		cond, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		w.Condition = cond
	}
	if !p.c.consumeKeyword("THEN") {
		return nil, p.c.errorf("expected THEN in WHEN clause")
	}

	switch {
	case p.c.consumeKeyword("UPDATE"):
		if !p.c.consumeKeyword("SET") {
			return nil, p.c.errorf("expected SET after UPDATE")
		}
		sc, err := p.parseSetItems()
		if err != nil {
			return nil, err
		}
		w.Action.Set = sc
	case p.c.consumeKeyword("DELETE"):
		w.Action.IsDelete = true
	case p.c.consumeKeyword("INSERT"):
		if p.c.consumePunct("(") {
			for {
				n, err := p.parseIdentName()
				if err != nil {
					return nil, err
				}
				w.Action.InsertColumns = append(w.Action.InsertColumns, n)
				if p.c.consumePunct(",") {
					continue
				}
				break
			}
			if _, err := p.c.expectPunct(")"); err != nil {
				return nil, err
			}
		}
		if !p.c.consumeKeyword("VALUES") {
			return nil, p.c.errorf("expected VALUES in WHEN ... THEN INSERT")
		}
		if _, err := p.c.expectPunct("("); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			w.Action.InsertValues = append(w.Action.InsertValues, e)
			if p.c.consumePunct(",") {
				continue
			}
			break
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
	default:
		return nil, p.c.errorf("expected UPDATE, DELETE, or INSERT action")
	}
	return w, nil
}
