package format

import "github.com/sqlrefine/sqlrefine/ast"

func lowerCreateTable(t *ast.CreateTable) *PrintToken {
	c := container(ContainerDDL, kw("CREATE TABLE"))
	if t.IfNotExists {
		c.push(sp(), kw("IF NOT EXISTS"))
	}
	c.push(sp(), lowerQualifiedIdent(t.Table), sp(), parenOpen())
	first := true
	for _, col := range t.Columns {
		if !first {
			c.push(comma(), sp())
		}
		first = false
		c.push(lowerColumnDefinition(col))
	}
	for _, tc := range t.Constraints {
		if !first {
			c.push(comma(), sp())
		}
		first = false
		c.push(lowerTableConstraint(tc))
	}
	c.push(parenClose())
	return c
}

func lowerColumnDefinition(col *ast.ColumnDefinition) *PrintToken {
	c := container(ContainerNone, ident(col.Name), sp(), ident(col.TypeName))
	for _, cc := range col.Constraints {
		c.push(sp(), lowerColumnConstraint(cc))
	}
	return c
}

var colConstraintKeyword = map[ast.ColumnConstraintKind]string{
	ast.ColConstraintNotNull:  "NOT NULL",
	ast.ColConstraintNull:     "NULL",
	ast.ColConstraintPrimaryKey: "PRIMARY KEY",
	ast.ColConstraintUnique:   "UNIQUE",
}

func lowerColumnConstraint(cc *ast.ColumnConstraint) *PrintToken {
	c := container(ContainerNone)
	if cc.Name != "" {
		c.push(kw("CONSTRAINT"), sp(), ident(cc.Name), sp())
	}
	switch cc.Kind {
	case ast.ColConstraintDefault:
		c.push(kw("DEFAULT"), sp(), lowerExpr(cc.DefaultExpr))
	case ast.ColConstraintCheck:
		c.push(kw("CHECK"), sp(), parenOpen(), lowerExpr(cc.CheckExpr), parenClose())
	case ast.ColConstraintReferences:
		c.push(kw("REFERENCES"), sp(), ident(cc.RefTable), sp(), parenOpen(), ident(cc.RefColumn), parenClose())
	default:
		c.push(kw(colConstraintKeyword[cc.Kind]))
	}
	return c
}

var tblConstraintKeyword = map[ast.TableConstraintKind]string{
	ast.TblConstraintPrimaryKey: "PRIMARY KEY",
	ast.TblConstraintUnique:     "UNIQUE",
}

func lowerTableConstraint(tc *ast.TableConstraint) *PrintToken {
	c := container(ContainerNone)
	if tc.Name != "" {
		c.push(kw("CONSTRAINT"), sp(), ident(tc.Name), sp())
	}
	switch tc.Kind {
	case ast.TblConstraintCheck:
		c.push(kw("CHECK"), sp(), parenOpen(), lowerExpr(tc.CheckExpr), parenClose())
		return c
	case ast.TblConstraintForeignKey:
		c.push(kw("FOREIGN KEY"), sp(), parenOpen())
		pushIdentList(c, tc.Columns)
		c.push(parenClose(), sp(), kw("REFERENCES"), sp(), ident(tc.RefTable), sp(), parenOpen())
		pushIdentList(c, tc.RefColumns)
		c.push(parenClose())
		return c
	default:
		c.push(kw(tblConstraintKeyword[tc.Kind]), sp(), parenOpen())
		pushIdentList(c, tc.Columns)
		c.push(parenClose())
		return c
	}
}

func pushIdentList(c *PrintToken, names []string) {
	for i, n := range names {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(ident(n))
	}
}

func lowerCreateIndex(ci *ast.CreateIndex) *PrintToken {
	c := container(ContainerDDL, kw("CREATE"))
	if ci.Unique {
		c.push(sp(), kw("UNIQUE"))
	}
	c.push(sp(), kw("INDEX"))
	if ci.IfNotExists {
		c.push(sp(), kw("IF NOT EXISTS"))
	}
	if ci.Name != "" {
		c.push(sp(), ident(ci.Name))
	}
	c.push(sp(), kw("ON"), sp(), lowerQualifiedIdent(ci.Table))
	if ci.Using != "" {
		c.push(sp(), kw("USING"), sp(), ident(ci.Using))
	}
	c.push(sp(), parenOpen())
	for i, col := range ci.Columns {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(lowerIndexColumn(col))
	}
	c.push(parenClose())
	if len(ci.Include) > 0 {
		c.push(sp(), kw("INCLUDE"), sp(), parenOpen())
		pushIdentList(c, ci.Include)
		c.push(parenClose())
	}
	if ci.Where != nil {
		c.push(sp(), kw("WHERE"), sp(), lowerExpr(ci.Where))
	}
	return c
}

func lowerIndexColumn(ic *ast.IndexColumn) *PrintToken {
	c := container(ContainerNone, lowerExpr(ic.Expr))
	if ic.Direction == ast.SortDesc {
		c.push(sp(), kw("DESC"))
	}
	switch ic.Nulls {
	case ast.NullsFirst:
		c.push(sp(), kw("NULLS FIRST"))
	case ast.NullsLast:
		c.push(sp(), kw("NULLS LAST"))
	}
	return c
}

var alterActionKeyword = map[ast.AlterAction]string{
	ast.AlterAddColumn:      "ADD COLUMN",
	ast.AlterDropColumn:     "DROP COLUMN",
	ast.AlterAddConstraint:  "ADD CONSTRAINT",
	ast.AlterDropConstraint: "DROP CONSTRAINT",
}

func lowerAlterTable(a *ast.AlterTable) *PrintToken {
	c := container(ContainerDDL, kw("ALTER TABLE"), sp(), lowerQualifiedIdent(a.Table), sp())
	switch a.Action {
	case ast.AlterAddColumn:
		c.push(kw("ADD COLUMN"), sp(), lowerColumnDefinition(a.Column))
	case ast.AlterDropColumn:
		c.push(kw("DROP COLUMN"))
		if a.IfExists {
			c.push(sp(), kw("IF EXISTS"))
		}
		c.push(sp(), ident(a.DropName))
		if a.Cascade {
			c.push(sp(), kw("CASCADE"))
		}
	case ast.AlterAddConstraint:
		c.push(kw("ADD"), sp(), lowerTableConstraint(a.Constraint))
	case ast.AlterDropConstraint:
		c.push(kw("DROP CONSTRAINT"))
		if a.IfExists {
			c.push(sp(), kw("IF EXISTS"))
		}
		c.push(sp(), ident(a.DropName))
		if a.Cascade {
			c.push(sp(), kw("CASCADE"))
		}
	case ast.AlterRenameTable:
		c.push(kw("RENAME TO"), sp(), ident(a.NewName))
	case ast.AlterRenameColumn:
		c.push(kw("RENAME COLUMN"), sp(), ident(a.DropName), sp(), kw("TO"), sp(), ident(a.NewName))
	}
	return c
}

func lowerDropTable(d *ast.DropTable) *PrintToken {
	c := container(ContainerDDL, kw("DROP TABLE"))
	if d.IfExists {
		c.push(sp(), kw("IF EXISTS"))
	}
	c.push(sp())
	for i, t := range d.Tables {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(lowerQualifiedIdent(t))
	}
	if d.Cascade {
		c.push(sp(), kw("CASCADE"))
	}
	return c
}

func lowerDropIndex(d *ast.DropIndex) *PrintToken {
	c := container(ContainerDDL, kw("DROP INDEX"))
	if d.IfExists {
		c.push(sp(), kw("IF EXISTS"))
	}
	c.push(sp())
	pushIdentList(c, d.Names)
	return c
}
