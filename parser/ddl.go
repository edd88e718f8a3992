package parser

import (
	"strings"

	"github.com/sqlrefine/sqlrefine/ast"
)

func (p *sqlParser) parseCreateTable() (*ast.CreateTable, error) {
	p.c.next() // CREATE
	p.c.next() // TABLE
	ifNotExists := p.c.skipTwoWordKeyword("IF", "NOT") && p.c.consumeKeyword("EXISTS")
	table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	ct := ast.NewCreateTable(table)
	ct.IfNotExists = ifNotExists

	if _, err := p.c.expectPunct("("); err != nil {
		return nil, err
	}
	for {
		if p.c.isKeyword("PRIMARY", "UNIQUE", "CHECK", "FOREIGN", "CONSTRAINT") {
			tc, err := p.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			ct.Constraints = append(ct.Constraints, tc)
		} else {
			cd, err := p.parseColumnDefinition()
			if err != nil {
				return nil, err
			}
			ct.Columns = append(ct.Columns, cd)
		}
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	if _, err := p.c.expectPunct(")"); err != nil {
		return nil, err
	}
	return ct, nil
}

func (p *sqlParser) parseColumnDefinition() (*ast.ColumnDefinition, error) {
	name, err := p.parseIdentName()
	if err != nil {
		return nil, err
	}
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	cd := ast.NewColumnDefinition(name, typeName)
	for {
		cc, ok, err := p.tryParseColumnConstraint()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cd.Constraints = append(cd.Constraints, cc)
	}
	return cd, nil
}

func (p *sqlParser) tryParseColumnConstraint() (*ast.ColumnConstraint, bool, error) {
	name := ""
	if p.c.consumeKeyword("CONSTRAINT") {
		n, err := p.parseIdentName()
		if err != nil {
			return nil, false, err
		}
		name = n
	}
	switch {
	case p.c.skipTwoWordKeyword("NOT", "NULL"):
		cc := ast.NewColumnConstraint(ast.ColConstraintNotNull)
		cc.Name = name
		return cc, true, nil
	case p.c.consumeKeyword("NULL"):
		cc := ast.NewColumnConstraint(ast.ColConstraintNull)
		cc.Name = name
		return cc, true, nil
	case p.c.skipTwoWordKeyword("PRIMARY", "KEY"):
		cc := ast.NewColumnConstraint(ast.ColConstraintPrimaryKey)
		cc.Name = name
		return cc, true, nil
	case p.c.consumeKeyword("UNIQUE"):
		cc := ast.NewColumnConstraint(ast.ColConstraintUnique)
		cc.Name = name
		return cc, true, nil
	case p.c.consumeKeyword("DEFAULT"):
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, false, err
		}
		cc := ast.NewColumnConstraint(ast.ColConstraintDefault)
		cc.Name = name
		cc.DefaultExpr = e
		return cc, true, nil
	case p.c.consumeKeyword("CHECK"):
		if _, err := p.c.expectPunct("("); err != nil {
			return nil, false, err
		}
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, false, err
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, false, err
		}
		cc := ast.NewColumnConstraint(ast.ColConstraintCheck)
		cc.Name = name
		cc.CheckExpr = e
		return cc, true, nil
	case p.c.consumeKeyword("REFERENCES"):
		refTable, err := p.parseIdentName()
		if err != nil {
			return nil, false, err
		}
		refCol := ""
		if p.c.consumePunct("(") {
			refCol, err = p.parseIdentName()
			if err != nil {
				return nil, false, err
			}
			if _, err := p.c.expectPunct(")"); err != nil {
				return nil, false, err
			}
		}
		cc := ast.NewColumnConstraint(ast.ColConstraintReferences)
		cc.Name = name
		cc.RefTable = refTable
		cc.RefColumn = refCol
		return cc, true, nil
	}
	if name != "" {
		return nil, false, p.c.errorf("expected constraint after CONSTRAINT name")
	}
	return nil, false, nil
}

func (p *sqlParser) parseTableConstraint() (*ast.TableConstraint, error) {
	name := ""
	if p.c.consumeKeyword("CONSTRAINT") {
		n, err := p.parseIdentName()
		if err != nil {
			return nil, err
		}
		name = n
	}
	switch {
	case p.c.skipTwoWordKeyword("PRIMARY", "KEY"):
		tc := ast.NewTableConstraint(ast.TblConstraintPrimaryKey, name)
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		tc.Columns = cols
		return tc, nil
	case p.c.consumeKeyword("UNIQUE"):
		tc := ast.NewTableConstraint(ast.TblConstraintUnique, name)
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		tc.Columns = cols
		return tc, nil
	case p.c.consumeKeyword("CHECK"):
		if _, err := p.c.expectPunct("("); err != nil {
			return nil, err
		}
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.c.expectPunct(")"); err != nil {
			return nil, err
		}
		tc := ast.NewTableConstraint(ast.TblConstraintCheck, name)
		tc.CheckExpr = e
		return tc, nil
	case p.c.skipTwoWordKeyword("FOREIGN", "KEY"):
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		if !p.c.consumeKeyword("REFERENCES") {
			return nil, p.c.errorf("expected REFERENCES")
		}
		refTable, err := p.parseIdentName()
		if err != nil {
			return nil, err
		}
		refCols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		tc := ast.NewTableConstraint(ast.TblConstraintForeignKey, name)
		tc.Columns = cols
		tc.RefTable = refTable
		tc.RefColumns = refCols
		return tc, nil
	}
	return nil, p.c.errorf("expected table constraint")
}

func (p *sqlParser) parseParenIdentList() ([]string, error) {
	if _, err := p.c.expectPunct("("); err != nil {
		return nil, err
	}
	var out []string
	for {
		n, err := p.parseIdentName()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	if _, err := p.c.expectPunct(")"); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *sqlParser) parseCreateIndex() (*ast.CreateIndex, error) {
	p.c.next() // CREATE
	unique := p.c.consumeKeyword("UNIQUE")
	p.c.next() // INDEX
	ifNotExists := p.c.skipTwoWordKeyword("IF", "NOT") && p.c.consumeKeyword("EXISTS")
	name, err := p.parseIdentName()
	if err != nil {
		return nil, err
	}
	if !p.c.consumeKeyword("ON") {
		return nil, p.c.errorf("expected ON after index name")
	}
	table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	ci := ast.NewCreateIndex(name, table)
	ci.Unique = unique
	ci.IfNotExists = ifNotExists

	if p.c.consumeKeyword("USING") {
		method, err := p.parseIdentName()
		if err != nil {
			return nil, err
		}
		ci.Using = strings.ToLower(method)
	}
	if _, err := p.c.expectPunct("("); err != nil {
		return nil, err
	}
	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		ic := ast.NewIndexColumn(e)
		if p.c.consumeKeyword("ASC") {
			ic.Direction = ast.SortAsc
		} else if p.c.consumeKeyword("DESC") {
			ic.Direction = ast.SortDesc
		}
		if p.c.skipTwoWordKeyword("NULLS", "FIRST") {
			ic.Nulls = ast.NullsFirst
		} else if p.c.isKeyword("NULLS") && p.c.peekN(1).Is("LAST") {
			p.c.next()
			p.c.next()
			ic.Nulls = ast.NullsLast
		}
		ci.Columns = append(ci.Columns, ic)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	if _, err := p.c.expectPunct(")"); err != nil {
		return nil, err
	}
	if p.c.consumeKeyword("INCLUDE") {
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		ci.Include = cols
	}
	if p.c.isKeyword("WHERE") {
		p.c.next()
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		ci.Where = e
	}
	return ci, nil
}

func (p *sqlParser) parseAlterTable() (*ast.AlterTable, error) {
	p.c.next() // ALTER
	p.c.next() // TABLE
	ifExists := p.c.skipTwoWordKeyword("IF", "EXISTS")
	table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	var at *ast.AlterTable
	switch {
	case p.c.consumeKeyword("ADD"):
		p.c.consumeKeyword("COLUMN")
		if p.c.isKeyword("CONSTRAINT", "PRIMARY", "UNIQUE", "CHECK", "FOREIGN") {
			tc, err := p.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			at = ast.NewAlterTable(table, ast.AlterAddConstraint)
			at.Constraint = tc
		} else {
			cd, err := p.parseColumnDefinition()
			if err != nil {
				return nil, err
			}
			at = ast.NewAlterTable(table, ast.AlterAddColumn)
			at.Column = cd
		}
	case p.c.consumeKeyword("DROP"):
		switch {
		case p.c.consumeKeyword("COLUMN"):
			at = ast.NewAlterTable(table, ast.AlterDropColumn)
			at.IfExists = p.c.skipTwoWordKeyword("IF", "EXISTS")
			name, err := p.parseIdentName()
			if err != nil {
				return nil, err
			}
			at.DropName = name
			at.Cascade = p.c.consumeKeyword("CASCADE")
		case p.c.consumeKeyword("CONSTRAINT"):
			at = ast.NewAlterTable(table, ast.AlterDropConstraint)
			at.IfExists = p.c.skipTwoWordKeyword("IF", "EXISTS")
			name, err := p.parseIdentName()
			if err != nil {
				return nil, err
			}
			at.DropName = name
			at.Cascade = p.c.consumeKeyword("CASCADE")
		default:
			return nil, p.c.errorf("expected COLUMN or CONSTRAINT after DROP")
		}
	case p.c.consumeKeyword("RENAME"):
		switch {
		case p.c.consumeKeyword("COLUMN"):
			oldName, err := p.parseIdentName()
			if err != nil {
				return nil, err
			}
			if !p.c.consumeKeyword("TO") {
				return nil, p.c.errorf("expected TO")
			}
			newName, err := p.parseIdentName()
			if err != nil {
				return nil, err
			}
			at = ast.NewAlterTable(table, ast.AlterRenameColumn)
			at.DropName = oldName
			at.NewName = newName
		case p.c.consumeKeyword("TO"):
			newName, err := p.parseIdentName()
			if err != nil {
				return nil, err
			}
			at = ast.NewAlterTable(table, ast.AlterRenameTable)
			at.NewName = newName
		default:
			return nil, p.c.errorf("expected COLUMN or TO after RENAME")
		}
	default:
		return nil, p.c.errorf("expected ADD, DROP, or RENAME in ALTER TABLE")
	}
	at.IfExists = at.IfExists || ifExists
	return at, nil
}

func (p *sqlParser) parseDropTable() (*ast.DropTable, error) {
	p.c.next() // DROP
	p.c.next() // TABLE
	ifExists := p.c.skipTwoWordKeyword("IF", "EXISTS")
	var tables []*ast.QualifiedName
	for {
		t, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	dt := ast.NewDropTable(tables)
	dt.IfExists = ifExists
	dt.Cascade = p.c.consumeKeyword("CASCADE")
	return dt, nil
}

func (p *sqlParser) parseDropIndex() (*ast.DropIndex, error) {
	p.c.next() // DROP
	p.c.next() // INDEX
	ifExists := p.c.skipTwoWordKeyword("IF", "EXISTS")
	var names []string
	for {
		n, err := p.parseIdentName()
		if err != nil {
			return nil, err
		}
		names = append(names, n)
		if p.c.consumePunct(",") {
			continue
		}
		break
	}
	di := ast.NewDropIndex(names)
	di.IfExists = ifExists
	return di, nil
}
