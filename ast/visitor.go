package ast

// Visitor is implemented by every walk over the tree: collectors,
// rewriting transformers and the formatter's lowering stage. VisitNode is
// the single dispatch entry point; per-kind behavior lives in the
// concrete visitor's own methods, keyed off n.Kind() in a type switch.
//
// Every concrete visitor embeds Tracker (below) so that re-entering an
// already-visited node is a no-op: well-formed trees never cycle, but the
// walk must not hang if one somehow does.
type Visitor interface {
	VisitNode(n Node)
}

// Tracker carries the visited-node set every Visitor embeds. It never
// shrinks during a single walk; Reset clears it for a fresh root
// invocation.
type Tracker struct {
	seen map[Node]bool
}

// Enter records n as visited and reports whether this is the first visit.
// Callers use it as: `if !t.Enter(n) { return }` at the top of VisitNode.
func (t *Tracker) Enter(n Node) bool {
	if t.seen == nil {
		t.seen = make(map[Node]bool)
	}
	if t.seen[n] {
		return false
	}
	t.seen[n] = true
	return true
}

// Reset clears the visited set, called by collect/transform entry points
// on root invocation so a reused visitor instance starts clean.
func (t *Tracker) Reset() {
	t.seen = nil
}

// Walk dispatches n to v through n.Accept. It does not descend by itself:
// each VisitNode decides whether to go further, typically by calling
// WalkChildren(v, n) once it has recorded what it needs from n.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	n.Accept(v)
}

// children enumerates a node's child slots for generic traversal. Not all
// node kinds need it (leaves return nil); it underlies WalkChildren, used
// by visitors that want default recursive behavior without hand-writing a
// case for every kind.
func children(n Node) []Node {
	switch t := n.(type) {
	case *SimpleSelect:
		out := []Node{}
		if t.With != nil {
			out = append(out, t.With)
		}
		if t.Select != nil {
			out = append(out, t.Select)
		}
		if t.From != nil {
			out = append(out, t.From)
		}
		if t.Where != nil {
			out = append(out, t.Where)
		}
		if t.GroupBy != nil {
			out = append(out, t.GroupBy)
		}
		if t.Having != nil {
			out = append(out, t.Having)
		}
		if t.Windows != nil {
			out = append(out, t.Windows)
		}
		if t.OrderBy != nil {
			out = append(out, t.OrderBy)
		}
		if t.Limit != nil {
			out = append(out, t.Limit)
		}
		if t.Offset != nil {
			out = append(out, t.Offset)
		}
		if t.Fetch != nil {
			out = append(out, t.Fetch)
		}
		if t.For != nil {
			out = append(out, t.For)
		}
		if t.Returning != nil {
			out = append(out, t.Returning)
		}
		return out
	case *BinarySelect:
		return []Node{t.Left, t.Right}
	case *WithClause:
		out := make([]Node, 0, len(t.Tables))
		for _, ct := range t.Tables {
			out = append(out, ct)
		}
		return out
	case *CommonTable:
		return []Node{t.Query}
	case *SelectClause:
		out := make([]Node, 0, len(t.Items))
		for _, it := range t.Items {
			out = append(out, it)
		}
		return out
	case *SelectItem:
		return []Node{t.Value}
	case *FromClause:
		out := []Node{}
		if t.Source != nil {
			out = append(out, t.Source)
		}
		for _, j := range t.Joins {
			out = append(out, j)
		}
		return out
	case *JoinClause:
		out := []Node{t.Source}
		if t.On != nil {
			out = append(out, t.On)
		}
		return out
	case *SourceExpression:
		return []Node{t.Datasource}
	case *TableSource:
		return []Node{t.Name}
	case *SubQuerySource:
		return []Node{t.Query}
	case *FunctionSource:
		out := make([]Node, 0, len(t.Args))
		for _, a := range t.Args {
			out = append(out, a)
		}
		return out
	case *ParenSource:
		return []Node{t.Inner}
	case *ValuesQuery:
		out := []Node{}
		for _, row := range t.Rows {
			for _, v := range row {
				out = append(out, v)
			}
		}
		return out
	case *WhereClause:
		return []Node{t.Condition}
	case *GroupByClause:
		out := make([]Node, 0, len(t.Items))
		for _, e := range t.Items {
			out = append(out, e)
		}
		return out
	case *HavingClause:
		return []Node{t.Condition}
	case *OrderByClause:
		out := make([]Node, 0, len(t.Items))
		for _, it := range t.Items {
			out = append(out, it)
		}
		return out
	case *OrderByItem:
		return []Node{t.Value}
	case *ReturningClause:
		out := make([]Node, 0, len(t.Items))
		for _, it := range t.Items {
			out = append(out, it)
		}
		return out
	case *LimitClause:
		return []Node{t.Count}
	case *OffsetClause:
		return []Node{t.Count}
	case *FetchClause:
		return []Node{t.Count}
	case *ForClause:
		return nil
	case *BinaryExpression:
		return []Node{t.Left, t.Right}
	case *UnaryExpression:
		return []Node{t.Expr}
	case *FunctionCall:
		out := make([]Node, 0, len(t.Args)+1)
		for _, a := range t.Args {
			out = append(out, a)
		}
		if t.Over != nil {
			out = append(out, t.Over)
		}
		return out
	case *OverClause:
		out := make([]Node, 0, len(t.PartitionBy)+2)
		for _, e := range t.PartitionBy {
			out = append(out, e)
		}
		if t.OrderBy != nil {
			out = append(out, t.OrderBy)
		}
		if t.Frame != nil {
			out = append(out, t.Frame)
		}
		return out
	case *WindowFrameExpression:
		return nil
	case *WindowsClause:
		out := make([]Node, 0, len(t.Defs))
		for _, d := range t.Defs {
			out = append(out, d)
		}
		return out
	case *CaseExpression:
		out := []Node{}
		if t.Operand != nil {
			out = append(out, t.Operand)
		}
		for _, w := range t.Whens {
			out = append(out, w)
		}
		if t.Else != nil {
			out = append(out, t.Else)
		}
		return out
	case *CaseWhen:
		return []Node{t.Condition, t.Result}
	case *CastExpression:
		return []Node{t.Expr}
	case *BetweenExpression:
		return []Node{t.Expr, t.Low, t.High}
	case *InlineQuery:
		return []Node{t.Query}
	case *ArrayExpression:
		out := make([]Node, 0, len(t.Items))
		for _, e := range t.Items {
			out = append(out, e)
		}
		return out
	case *ArrayQueryExpression:
		return []Node{t.Query}
	case *ValueList:
		out := make([]Node, 0, len(t.Items))
		for _, e := range t.Items {
			out = append(out, e)
		}
		return out
	case *ParenExpression:
		return []Node{t.Expr}
	case *Tuple:
		out := make([]Node, 0, len(t.Items))
		for _, e := range t.Items {
			out = append(out, e)
		}
		return out
	case *ColumnReference:
		return nil
	case *QualifiedName:
		return nil
	case *Insert:
		out := []Node{t.Table}
		if t.Values != nil {
			out = append(out, t.Values)
		}
		if t.Select != nil {
			out = append(out, t.Select)
		}
		if t.OnConflict != nil {
			out = append(out, t.OnConflict)
		}
		if t.Returning != nil {
			out = append(out, t.Returning)
		}
		return out
	case *OnConflictClause:
		out := []Node{}
		if t.DoUpdate != nil {
			out = append(out, t.DoUpdate)
		}
		if t.Where != nil {
			out = append(out, t.Where)
		}
		return out
	case *Update:
		out := []Node{t.Target}
		if t.Set != nil {
			out = append(out, t.Set)
		}
		if t.From != nil {
			out = append(out, t.From)
		}
		if t.Where != nil {
			out = append(out, t.Where)
		}
		if t.Returning != nil {
			out = append(out, t.Returning)
		}
		return out
	case *Delete:
		out := []Node{t.Target}
		if t.Using != nil {
			out = append(out, t.Using)
		}
		if t.Where != nil {
			out = append(out, t.Where)
		}
		if t.Returning != nil {
			out = append(out, t.Returning)
		}
		return out
	case *Merge:
		out := []Node{t.Target, t.Source}
		for _, w := range t.Whens {
			out = append(out, w.Actions()...)
		}
		return out
	case *SetClause:
		out := make([]Node, 0, len(t.Items))
		for _, it := range t.Items {
			out = append(out, it)
		}
		return out
	case *SetItem:
		return []Node{t.Value}
	case *Explain:
		return []Node{t.Statement}
	case *CreateTable:
		out := []Node{t.Table}
		for _, c := range t.Columns {
			out = append(out, c)
		}
		for _, c := range t.Constraints {
			out = append(out, c)
		}
		return out
	case *ColumnDefinition:
		out := make([]Node, 0, len(t.Constraints))
		for _, c := range t.Constraints {
			out = append(out, c)
		}
		return out
	case *ColumnConstraint:
		out := []Node{}
		if t.DefaultExpr != nil {
			out = append(out, t.DefaultExpr)
		}
		if t.CheckExpr != nil {
			out = append(out, t.CheckExpr)
		}
		return out
	case *TableConstraint:
		if t.CheckExpr != nil {
			return []Node{t.CheckExpr}
		}
		return nil
	case *CreateIndex:
		out := []Node{t.Table}
		for _, c := range t.Columns {
			out = append(out, c)
		}
		if t.Where != nil {
			out = append(out, t.Where)
		}
		return out
	case *IndexColumn:
		return []Node{t.Expr}
	case *AlterTable:
		out := []Node{t.Table}
		if t.Column != nil {
			out = append(out, t.Column)
		}
		if t.Constraint != nil {
			out = append(out, t.Constraint)
		}
		return out
	case *DropTable:
		out := make([]Node, 0, len(t.Tables))
		for _, tn := range t.Tables {
			out = append(out, tn)
		}
		return out
	case *DropIndex:
		return nil
	}
	return nil
}

// WalkChildren visits every child slot of n with v, skipping nils. Used by
// visitors implementing the default "recurse into everything" behavior.
func WalkChildren(v Visitor, n Node) {
	for _, c := range children(n) {
		if c != nil {
			Walk(v, c)
		}
	}
}
