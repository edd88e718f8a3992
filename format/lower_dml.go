package format

import "github.com/sqlrefine/sqlrefine/ast"

func lowerInsert(ins *ast.Insert) *PrintToken {
	c := container(ContainerInsertClause, kw("INSERT INTO"), sp(), lowerQualifiedIdent(ins.Table))
	if len(ins.Columns) > 0 {
		cols := container(ContainerInsertColumns, parenOpen())
		for i, col := range ins.Columns {
			if i > 0 {
				cols.push(comma(), sp())
			}
			cols.push(ident(col))
		}
		cols.push(parenClose())
		c.push(sp(), cols)
	}
	c.push(sp())
	switch ins.Source {
	case ast.InsertSourceValues:
		if ins.Values != nil {
			c.push(Lower(ins.Values))
		}
	case ast.InsertSourceSelect:
		c.push(Lower(ins.Select))
	case ast.InsertSourceDefault:
		c.push(kw("DEFAULT VALUES"))
	}
	if ins.OnConflict != nil {
		c.push(sp(), lowerOnConflict(ins.OnConflict))
	}
	if ins.Returning != nil {
		c.push(sp(), Lower(ins.Returning))
	}
	return c
}

func lowerOnConflict(oc *ast.OnConflictClause) *PrintToken {
	c := container(ContainerNone, kw("ON CONFLICT"))
	if len(oc.Columns) > 0 {
		c.push(sp(), parenOpen())
		for i, col := range oc.Columns {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(ident(col))
		}
		c.push(parenClose())
	}
	switch {
	case oc.DoNothing:
		c.push(sp(), kw("DO NOTHING"))
	case oc.DoUpdate != nil:
		c.push(sp(), kw("DO UPDATE"), sp(), Lower(oc.DoUpdate))
		if oc.Where != nil {
			c.push(sp(), Lower(oc.Where))
		}
	}
	return c
}

func lowerUpdate(u *ast.Update) *PrintToken {
	c := container(ContainerNone, kw("UPDATE"), sp(), Lower(u.Target))
	if u.Set != nil {
		c.push(sp(), Lower(u.Set))
	}
	if u.From != nil {
		c.push(sp(), Lower(u.From))
	}
	if u.Where != nil {
		c.push(sp(), Lower(u.Where))
	}
	if u.Returning != nil {
		c.push(sp(), Lower(u.Returning))
	}
	return c
}

func lowerDelete(d *ast.Delete) *PrintToken {
	c := container(ContainerNone, kw("DELETE FROM"), sp(), Lower(d.Target))
	if d.Using != nil {
		c.push(sp(), kw("USING"), sp(), Lower(d.Using))
	}
	if d.Where != nil {
		c.push(sp(), Lower(d.Where))
	}
	if d.Returning != nil {
		c.push(sp(), Lower(d.Returning))
	}
	return c
}

var mergeMatchKeyword = map[ast.MergeMatchKind]string{
	ast.MergeMatched:           "WHEN MATCHED",
	ast.MergeNotMatchedByTarget: "WHEN NOT MATCHED",
	ast.MergeNotMatchedBySource: "WHEN NOT MATCHED BY SOURCE",
}

func lowerMerge(m *ast.Merge) *PrintToken {
	c := container(ContainerNone, kw("MERGE INTO"), sp(), Lower(m.Target),
		sp(), kw("USING"), sp(), Lower(m.Source), sp(), kw("ON"), sp(), lowerExpr(m.On))
	for _, w := range m.Whens {
		c.push(sp(), lowerMergeWhen(w))
	}
	return c
}

func lowerMergeWhen(w *ast.MergeWhen) *PrintToken {
	c := container(ContainerMergeWhenClause, kw(mergeMatchKeyword[w.Match]))
	if w.Condition != nil {
		c.push(sp(), kw("AND"), sp(), lowerExpr(w.Condition))
	}
	c.push(sp(), kw("THEN"), sp())
	a := w.Action
	switch {
	case a.IsDelete:
		c.push(kw("DELETE"))
	case a.Set != nil:
		c.push(kw("UPDATE"), sp(), Lower(a.Set))
	default:
		c.push(kw("INSERT"))
		if len(a.InsertColumns) > 0 {
			c.push(sp(), parenOpen())
			for i, col := range a.InsertColumns {
				if i > 0 {
					c.push(comma(), sp())
				}
				c.push(ident(col))
			}
			c.push(parenClose())
		}
		c.push(sp(), kw("VALUES"), sp(), parenOpen())
		for i, v := range a.InsertValues {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(lowerExpr(v))
		}
		c.push(parenClose())
	}
	if a.Where != nil {
		c.push(sp(), kw("AND"), sp(), lowerExpr(a.Where.Condition))
	}
	return c
}

func lowerExplain(e *ast.Explain) *PrintToken {
	c := container(ContainerNone, kw("EXPLAIN"))
	if e.Analyze {
		c.push(sp(), kw("ANALYZE"))
	}
	if e.Verbose {
		c.push(sp(), kw("VERBOSE"))
	}
	c.push(sp(), Lower(e.Statement))
	return c
}
