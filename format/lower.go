package format

import (
	"github.com/sqlrefine/sqlrefine/ast"
)

// Lower turns any AST node into a PrintToken tree, the formatter's first
// stage. Comments attached to n become a sibling
// CommentBlock immediately before n's own tokens unless classified as
// inline/trailing, in which case they follow. Lowering never consults
// Options — that's the line printer's job — so the same token tree can
// be rendered under different policies without re-lowering.
func Lower(n ast.Node) *PrintToken {
	return withComments(n, lowerNode(n))
}

func withComments(n ast.Node, body *PrintToken) *PrintToken {
	if n == nil {
		return body
	}
	comments := n.GetComments()
	if len(comments) == 0 {
		return body
	}
	out := container(ContainerNone)
	var trailing []*PrintToken
	for _, c := range comments {
		tok := comment(c.Text, c.Header)
		switch c.Position {
		case ast.CommentTrailing, ast.CommentInline:
			trailing = append(trailing, tok)
		default:
			out.push(container(ContainerCommentBlock, tok))
		}
	}
	out.push(body)
	for _, t := range trailing {
		out.push(container(ContainerCommentBlock, t))
	}
	return out
}

func lowerNode(n ast.Node) *PrintToken {
	if n == nil {
		return container(ContainerNone)
	}
	switch t := n.(type) {
	// Queries
	case *ast.SimpleSelect:
		return lowerSimpleSelect(t)
	case *ast.BinarySelect:
		return lowerBinarySelect(t)
	case *ast.ValuesQuery:
		return lowerValuesQuery(t)
	case *ast.Insert:
		return lowerInsert(t)
	case *ast.Update:
		return lowerUpdate(t)
	case *ast.Delete:
		return lowerDelete(t)
	case *ast.Merge:
		return lowerMerge(t)
	case *ast.Explain:
		return lowerExplain(t)
	case *ast.CreateTable:
		return lowerCreateTable(t)
	case *ast.CreateIndex:
		return lowerCreateIndex(t)
	case *ast.AlterTable:
		return lowerAlterTable(t)
	case *ast.DropTable:
		return lowerDropTable(t)
	case *ast.DropIndex:
		return lowerDropIndex(t)

	// Clauses
	case *ast.WithClause:
		return lowerWithClause(t)
	case *ast.CommonTable:
		return lowerCommonTable(t)
	case *ast.WhereClause:
		return container(ContainerWhereClause, kw("WHERE"), sp(), lowerExpr(t.Condition))
	case *ast.HavingClause:
		return container(ContainerWhereClause, kw("HAVING"), sp(), lowerExpr(t.Condition))
	case *ast.GroupByClause:
		return lowerGroupBy(t)
	case *ast.OrderByClause:
		return lowerOrderBy(t)
	case *ast.OrderByItem:
		return lowerOrderByItem(t)
	case *ast.LimitClause:
		return container(ContainerNone, kw("LIMIT"), sp(), lowerExpr(t.Count))
	case *ast.OffsetClause:
		return container(ContainerNone, kw("OFFSET"), sp(), lowerExpr(t.Count))
	case *ast.FetchClause:
		return lowerFetchClause(t)
	case *ast.ForClause:
		return lowerForClause(t)
	case *ast.ReturningClause:
		return lowerReturning(t)
	case *ast.SetClause:
		return lowerSetClause(t)
	case *ast.SetItem:
		return container(ContainerNone, ident(t.Column), sp(), op("="), sp(), lowerExpr(t.Value))
	case *ast.WindowsClause:
		return lowerWindowsClause(t)

	// Sources
	case *ast.SourceExpression:
		return lowerSourceExpression(t)
	case *ast.TableSource:
		return lowerQualifiedIdent(t.Name)
	case *ast.FromClause:
		return lowerFromClause(t)
	case *ast.JoinClause:
		return lowerJoinClause(t)

	// SELECT clause / items
	case *ast.SelectClause:
		return lowerSelectClause(t)
	case *ast.SelectItem:
		return lowerSelectItem(t)

	// Value expressions
	default:
		return lowerExpr(n)
	}
}

// ---- Queries ----

func lowerSimpleSelect(sel *ast.SimpleSelect) *PrintToken {
	c := container(ContainerRoot)
	if sel.With != nil {
		c.push(Lower(sel.With), sp())
	}
	kwSelect := kw("SELECT")
	if sel.Distinct {
		c.push(kwSelect, sp(), kw("DISTINCT"))
	} else {
		c.push(kwSelect)
	}
	c.push(sp())
	if sel.Select != nil {
		c.push(Lower(sel.Select))
	}
	if sel.From != nil {
		c.push(sp(), Lower(sel.From))
	}
	if sel.Where != nil {
		c.push(sp(), Lower(sel.Where))
	}
	if sel.GroupBy != nil {
		c.push(sp(), Lower(sel.GroupBy))
	}
	if sel.Having != nil {
		c.push(sp(), Lower(sel.Having))
	}
	if sel.Windows != nil {
		c.push(sp(), Lower(sel.Windows))
	}
	if sel.OrderBy != nil {
		c.push(sp(), Lower(sel.OrderBy))
	}
	if sel.Limit != nil {
		c.push(sp(), Lower(sel.Limit))
	}
	if sel.Offset != nil {
		c.push(sp(), Lower(sel.Offset))
	}
	if sel.Fetch != nil {
		c.push(sp(), Lower(sel.Fetch))
	}
	if sel.For != nil {
		c.push(sp(), Lower(sel.For))
	}
	if sel.Returning != nil {
		c.push(sp(), Lower(sel.Returning))
	}
	return c
}

var setOpText = map[ast.SetOp]string{
	ast.SetOpUnion:        "UNION",
	ast.SetOpUnionAll:     "UNION ALL",
	ast.SetOpIntersect:    "INTERSECT",
	ast.SetOpIntersectAll: "INTERSECT ALL",
	ast.SetOpExcept:       "EXCEPT",
	ast.SetOpExceptAll:    "EXCEPT ALL",
}

func lowerBinarySelect(b *ast.BinarySelect) *PrintToken {
	return container(ContainerRoot,
		Lower(b.Left), sp(), kw(setOpText[b.Op]), sp(), Lower(b.Right))
}

func lowerValuesQuery(v *ast.ValuesQuery) *PrintToken {
	c := container(ContainerValues, kw("VALUES"), sp())
	for i, row := range v.Rows {
		if i > 0 {
			c.push(comma(), sp())
		}
		row := row
		rowTok := container(ContainerValuesRow, parenOpen())
		for j, item := range row {
			if j > 0 {
				rowTok.push(comma(), sp())
			}
			rowTok.push(lowerExpr(item))
		}
		rowTok.push(parenClose())
		c.push(rowTok)
	}
	return c
}

// ---- WITH / CTE ----

func lowerWithClause(w *ast.WithClause) *PrintToken {
	c := container(ContainerWithClause, kw("WITH"))
	if w.Recursive {
		c.push(sp(), kw("RECURSIVE"))
	}
	c.push(sp())
	for i, ct := range w.Tables {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(Lower(ct))
	}
	return c
}

func lowerCommonTable(ct *ast.CommonTable) *PrintToken {
	c := container(ContainerCommonTable, ident(ct.Name))
	if len(ct.Columns) > 0 {
		c.push(parenOpen())
		for i, col := range ct.Columns {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(ident(col))
		}
		c.push(parenClose())
	}
	c.push(sp(), kw("AS"), sp())
	body := container(ContainerCommonTableBody, parenOpen(), Lower(ct.Query), parenClose())
	c.push(body)
	return c
}

// ---- SELECT clause / items ----

func lowerSelectClause(sc *ast.SelectClause) *PrintToken {
	c := container(ContainerSelectClause)
	for i, item := range sc.Items {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(Lower(item))
	}
	return c
}

func lowerSelectItem(item *ast.SelectItem) *PrintToken {
	if item.Wildcard {
		if item.WildcardTable != "" {
			return container(ContainerNone, ident(item.WildcardTable), op("."), op("*"))
		}
		return container(ContainerNone, op("*"))
	}
	c := container(ContainerNone, lowerExpr(item.Value))
	if item.Alias != "" {
		c.push(sp(), kw("AS"), sp(), ident(item.Alias))
	}
	return c
}

// ---- FROM / JOIN / sources ----

func lowerFromClause(f *ast.FromClause) *PrintToken {
	c := container(ContainerFromClause, kw("FROM"), sp(), Lower(f.Source))
	if len(f.Joins) > 0 {
		joins := container(ContainerJoinList)
		for _, j := range f.Joins {
			joins.push(Lower(j))
		}
		c.push(joins)
	}
	return c
}

var joinKeyword = map[ast.JoinKind]string{
	ast.JoinInner: "INNER JOIN",
	ast.JoinLeft:  "LEFT JOIN",
	ast.JoinRight: "RIGHT JOIN",
	ast.JoinFull:  "FULL JOIN",
	ast.JoinCross: "CROSS JOIN",
}

func lowerJoinClause(j *ast.JoinClause) *PrintToken {
	c := container(ContainerJoinClause)
	if j.Lateral {
		c.push(kw("LATERAL"), sp())
	}
	c.push(kw(joinKeyword[j.Kind]), sp(), Lower(j.Source))
	switch j.ConditionKind {
	case ast.JoinCondOn:
		c.push(sp(), kw("ON"), sp(), lowerExpr(j.On))
	case ast.JoinCondUsing:
		c.push(sp(), kw("USING"), sp(), parenOpen())
		for i, col := range j.Using {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(ident(col))
		}
		c.push(parenClose())
	}
	return c
}

func lowerSourceExpression(se *ast.SourceExpression) *PrintToken {
	c := container(ContainerNone, lowerNode(se.Datasource))
	if se.Alias != "" {
		c.push(sp(), ident(se.Alias))
	}
	if len(se.ColumnAliases) > 0 {
		c.push(parenOpen())
		for i, a := range se.ColumnAliases {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(ident(a))
		}
		c.push(parenClose())
	}
	return c
}

func lowerQualifiedIdent(qn *ast.QualifiedName) *PrintToken {
	c := container(ContainerNone)
	for _, ns := range qn.Namespaces {
		c.push(identOrQuoted(ns, false), op("."))
	}
	c.push(identOrQuoted(qn.Name, qn.Quoted))
	return c
}

func identOrQuoted(name string, quoted bool) *PrintToken {
	if quoted {
		return qident(name)
	}
	return ident(name)
}

func lowerSubQuerySourceInner(s *ast.SubQuerySource) *PrintToken {
	return container(ContainerInlineQuery, parenOpen(), Lower(s.Query), parenClose())
}

func lowerFunctionSourceInner(f *ast.FunctionSource) *PrintToken {
	c := container(ContainerFunctionArgs, ident(f.Name), parenOpen())
	for i, a := range f.Args {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(lowerExpr(a))
	}
	c.push(parenClose())
	return c
}

func lowerParenSourceInner(p *ast.ParenSource) *PrintToken {
	return container(ContainerParenExpression, parenOpen(), Lower(p.Inner), parenClose())
}

// ---- WHERE-family bool chains ----

func isAndOr(op string) bool { return op == "AND" || op == "OR" }

// ---- GROUP BY / ORDER BY / WINDOW / LIMIT family ----

func lowerGroupBy(g *ast.GroupByClause) *PrintToken {
	c := container(ContainerGroupByClause, kw("GROUP BY"), sp())
	for i, item := range g.Items {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(lowerExpr(item))
	}
	return c
}

func lowerOrderBy(o *ast.OrderByClause) *PrintToken {
	c := container(ContainerOrderByClause, kw("ORDER BY"), sp())
	for i, item := range o.Items {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(Lower(item))
	}
	return c
}

func lowerOrderByItem(it *ast.OrderByItem) *PrintToken {
	c := container(ContainerNone, lowerExpr(it.Value))
	if it.Direction == ast.SortDesc {
		c.push(sp(), kw("DESC"))
	}
	switch it.Nulls {
	case ast.NullsFirst:
		c.push(sp(), kw("NULLS FIRST"))
	case ast.NullsLast:
		c.push(sp(), kw("NULLS LAST"))
	}
	return c
}

func lowerFetchClause(f *ast.FetchClause) *PrintToken {
	c := container(ContainerNone, kw("FETCH FIRST"), sp(), lowerExpr(f.Count), sp(), kw("ROWS"), sp())
	if f.Mode == ast.FetchWithTies {
		c.push(kw("WITH TIES"))
	} else {
		c.push(kw("ONLY"))
	}
	return c
}

var forLockKeyword = map[ast.ForLockKind]string{
	ast.ForUpdate:       "FOR UPDATE",
	ast.ForNoKeyUpdate:  "FOR NO KEY UPDATE",
	ast.ForShare:        "FOR SHARE",
	ast.ForKeyShare:     "FOR KEY SHARE",
}

func lowerForClause(f *ast.ForClause) *PrintToken {
	c := container(ContainerNone, kw(forLockKeyword[f.Lock]))
	if len(f.Of) > 0 {
		c.push(sp(), kw("OF"), sp())
		for i, name := range f.Of {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(ident(name))
		}
	}
	if f.NoWait {
		c.push(sp(), kw("NOWAIT"))
	}
	if f.SkipLocked {
		c.push(sp(), kw("SKIP LOCKED"))
	}
	return c
}

func lowerReturning(r *ast.ReturningClause) *PrintToken {
	c := container(ContainerReturningClause, kw("RETURNING"), sp())
	for i, item := range r.Items {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(Lower(item))
	}
	return c
}

func lowerWindowsClause(w *ast.WindowsClause) *PrintToken {
	c := container(ContainerWindowsClause, kw("WINDOW"), sp())
	for i, name := range w.Names {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(ident(name), sp(), kw("AS"), sp(), parenOpen())
		if i < len(w.Defs) && w.Defs[i] != nil {
			c.push(lowerExpr(w.Defs[i]))
		}
		c.push(parenClose())
	}
	return c
}

func lowerSetClause(s *ast.SetClause) *PrintToken {
	c := container(ContainerSetClause, kw("SET"), sp())
	for i, item := range s.Items {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(Lower(item))
	}
	return c
}

// ---- Value expressions ----

func lowerExpr(n ast.Node) *PrintToken {
	if n == nil {
		return container(ContainerNone)
	}
	switch t := n.(type) {
	case *ast.QualifiedName:
		return withComments(n, lowerQualifiedIdent(t))
	case *ast.ColumnReference:
		c := container(ContainerNone)
		for _, ns := range t.Namespaces {
			c.push(ident(ns), op("."))
		}
		plain := t.Column != ""
		for i := 0; i < len(t.Column); i++ {
			ch := t.Column[i]
			if !(ch == '_' || ch == '*' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9') {
				plain = false
			}
		}
		c.push(identOrQuoted(t.Column, !plain))
		return withComments(n, c)
	case *ast.LiteralValue:
		return withComments(n, lit(t.Text))
	case *ast.ParameterValue:
		return withComments(n, raw(":"+t.Name))
	case *ast.BinaryExpression:
		return withComments(n, lowerBinaryExpression(t))
	case *ast.UnaryExpression:
		return withComments(n, lowerUnaryExpression(t))
	case *ast.FunctionCall:
		return withComments(n, lowerFunctionCall(t))
	case *ast.CaseExpression:
		return withComments(n, lowerCaseExpression(t))
	case *ast.CastExpression:
		return withComments(n, container(ContainerNone,
			kw("CAST"), parenOpen(), lowerExpr(t.Expr), sp(), kw("AS"), sp(), ident(t.TypeName), parenClose()))
	case *ast.BetweenExpression:
		return withComments(n, lowerBetween(t))
	case *ast.InlineQuery:
		return withComments(n, lowerInlineQuery(t))
	case *ast.ArrayExpression:
		c := container(ContainerArray, kw("ARRAY"), op("["))
		for i, item := range t.Items {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(lowerExpr(item))
		}
		c.push(op("]"))
		return withComments(n, c)
	case *ast.ArrayQueryExpression:
		return withComments(n, container(ContainerInlineQuery, kw("ARRAY"), parenOpen(), Lower(t.Query), parenClose()))
	case *ast.ValueList:
		c := container(ContainerNone, parenOpen())
		for i, item := range t.Items {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(lowerExpr(item))
		}
		c.push(parenClose())
		return withComments(n, c)
	case *ast.WindowFrameExpression:
		return withComments(n, container(ContainerNone,
			kw(t.Unit), sp(), kw("BETWEEN"), sp(), raw(t.Start), sp(), kw("AND"), sp(), raw(t.End)))
	case *ast.ParenExpression:
		return withComments(n, container(ContainerParenExpression, parenOpen(), lowerExpr(t.Expr), parenClose()))
	case *ast.Tuple:
		c := container(ContainerNone, parenOpen())
		for i, item := range t.Items {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(lowerExpr(item))
		}
		c.push(parenClose())
		return withComments(n, c)
	case *ast.RawString:
		return withComments(n, raw(t.Text))
	case *ast.IdentifierString:
		return withComments(n, identOrQuoted(t.Name, t.Quoted))
	case *ast.SubQuerySource:
		return withComments(n, lowerSubQuerySourceInner(t))
	case *ast.FunctionSource:
		return withComments(n, lowerFunctionSourceInner(t))
	case *ast.ParenSource:
		return withComments(n, lowerParenSourceInner(t))
	case *ast.ValuesQuery:
		return Lower(t)
	case *ast.SimpleSelect, *ast.BinarySelect:
		return Lower(t)
	}
	return lowerNode(n)
}

func lowerBinaryExpression(b *ast.BinaryExpression) *PrintToken {
	opText := b.Operator
	if isAndOr(opUpper(opText)) {
		return container(ContainerBoolChain, lowerExpr(b.Left), kw(opUpper(opText)), lowerExpr(b.Right))
	}
	return container(ContainerNone, lowerExpr(b.Left), sp(), op(opText), sp(), lowerExpr(b.Right))
}

func opUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}

func lowerUnaryExpression(u *ast.UnaryExpression) *PrintToken {
	if u.Postfix {
		return container(ContainerNone, lowerExpr(u.Expr), sp(), kw(u.Operator))
	}
	return container(ContainerNone, kw(u.Operator), sp(), lowerExpr(u.Expr))
}

func lowerFunctionCall(f *ast.FunctionCall) *PrintToken {
	c := container(ContainerFunctionArgs, ident(f.Name), parenOpen())
	if f.Distinct {
		c.push(kw("DISTINCT"), sp())
	}
	for i, a := range f.Args {
		if i > 0 {
			c.push(comma(), sp())
		}
		c.push(lowerExpr(a))
	}
	c.push(parenClose())
	if f.Over != nil {
		c.push(sp(), lowerOverClause(f.Over))
	}
	return c
}

func lowerOverClause(o *ast.OverClause) *PrintToken {
	c := container(ContainerOverClause, kw("OVER"), sp())
	if o.WindowName != "" {
		c.push(ident(o.WindowName))
		return c
	}
	c.push(parenOpen())
	first := true
	if len(o.PartitionBy) > 0 {
		c.push(kw("PARTITION BY"), sp())
		for i, p := range o.PartitionBy {
			if i > 0 {
				c.push(comma(), sp())
			}
			c.push(lowerExpr(p))
		}
		first = false
	}
	if o.OrderBy != nil {
		if !first {
			c.push(sp())
		}
		c.push(Lower(o.OrderBy))
		first = false
	}
	if o.Frame != nil {
		if !first {
			c.push(sp())
		}
		c.push(lowerExpr(o.Frame))
	}
	c.push(parenClose())
	return c
}

func lowerCaseExpression(ce *ast.CaseExpression) *PrintToken {
	c := container(ContainerCaseExpression, kw("CASE"))
	if ce.Operand != nil {
		c.push(sp(), lowerExpr(ce.Operand))
	}
	for _, w := range ce.Whens {
		c.push(sp(), lowerCaseWhen(w))
	}
	if ce.Else != nil {
		c.push(sp(), kw("ELSE"), sp(), lowerExpr(ce.Else))
	}
	c.push(sp(), kw("END"))
	return c
}

func lowerCaseWhen(w *ast.CaseWhen) *PrintToken {
	return container(ContainerCaseWhen,
		kw("WHEN"), sp(), lowerExpr(w.Condition), sp(), kw("THEN"), sp(), lowerExpr(w.Result))
}

func lowerBetween(b *ast.BetweenExpression) *PrintToken {
	c := container(ContainerBetweenExpression, lowerExpr(b.Expr), sp())
	if b.Negate {
		c.push(kw("NOT"), sp())
	}
	c.push(kw("BETWEEN"), sp(), lowerExpr(b.Low), sp(), kw("AND"), sp(), lowerExpr(b.High))
	return c
}

func lowerInlineQuery(iq *ast.InlineQuery) *PrintToken {
	c := container(ContainerInlineQuery)
	if iq.Keyword != "" {
		c.push(kw(iq.Keyword), sp())
	}
	c.push(parenOpen(), Lower(iq.Query), parenClose())
	return c
}
