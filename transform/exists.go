package transform

import (
	"fmt"
	"strings"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/collector"
	"github.com/sqlrefine/sqlrefine/format"
	"github.com/sqlrefine/sqlrefine/internal/sqlerr"
	"github.com/sqlrefine/sqlrefine/parser"
)

// PredicateMode selects what shape of predicate an Instruction builds.
type PredicateMode int

const (
	ModeExists PredicateMode = iota
	ModeNotExists
	ModeIn
	ModeNotIn
)

// Instruction describes one predicate to inject. SQL
// carries $c0, $c1, ... placeholders that are substituted, in order, with
// AnchorColumns resolved against the target query. Params additionally
// binds named parameters (:name) appearing in SQL to literal/expression
// values. ModeIn and ModeNotIn use AnchorColumns[0] directly as the left
// operand of `col IN (subquery)`; SQL's placeholders, if any, still
// resolve against the same anchor list.
type Instruction struct {
	Mode          PredicateMode
	AnchorColumns []string
	SQL           string
	Params        map[string]ast.Node
}

// Options configures one Inject call's error handling.
type Options struct {
	// Strict, when true, aborts the whole batch on the first instruction
	// that fails to resolve or validate. When false (default) a failing
	// instruction is skipped and the rest of the batch still applies.
	Strict bool
}

// Inject applies instructions to query's target SELECT, AND-ing each
// resulting predicate into its WHERE clause. query must itself be an
// *ast.SimpleSelect; any other node type is rejected with an error and is
// not converted.
func Inject(query ast.Node, instructions []Instruction, opts Options) (ast.Node, error) {
	target, err := asSimpleSelect(query)
	if err != nil {
		return nil, err
	}
	for _, instr := range instructions {
		pred, err := buildPredicate(query, target, instr)
		if err != nil {
			if opts.Strict {
				return nil, err
			}
			continue
		}
		target.Where = ast.NewWhereClause(andNode(whereCondition(target.Where), pred))
	}
	return query, nil
}

func asSimpleSelect(query ast.Node) (*ast.SimpleSelect, error) {
	sel, ok := query.(*ast.SimpleSelect)
	if !ok {
		return nil, fmt.Errorf("transform: Inject requires a SimpleSelect target, got %T", query)
	}
	return sel, nil
}

func whereCondition(wc *ast.WhereClause) ast.Node {
	if wc == nil {
		return nil
	}
	return wc.Condition
}

func buildPredicate(root ast.Node, target *ast.SimpleSelect, instr Instruction) (ast.Node, error) {
	if len(instr.AnchorColumns) == 0 {
		return nil, &sqlerr.SemanticError{Message: "instruction has no anchor columns"}
	}
	anchors := make([]ast.Node, len(instr.AnchorColumns))
	for i, name := range instr.AnchorColumns {
		expr, err := resolveAnchorColumn(root, target, name)
		if err != nil {
			return nil, err
		}
		anchors[i] = expr
	}

	if instr.Mode == ModeIn || instr.Mode == ModeNotIn {
		sub, err := buildSubquery(instr, anchors, true)
		if err != nil {
			return nil, err
		}
		keyword := "IN"
		if instr.Mode == ModeNotIn {
			keyword = "NOT IN"
		}
		return ast.NewBinaryExpression(anchors[0], keyword, ast.NewInlineQuery("", sub)), nil
	}

	sub, err := buildSubquery(instr, anchors, false)
	if err != nil {
		return nil, err
	}
	keyword := "EXISTS"
	if instr.Mode == ModeNotExists {
		keyword = "NOT EXISTS"
	}
	return ast.NewInlineQuery(keyword, sub), nil
}

// resolveAnchorColumn turns an anchor name into a value expression. A
// dotted name (`o.customer_id`) is used as-is, already qualified to a
// FROM-side alias. A bare name is resolved against target's own
// selectable columns, falling back to the upstream-select finder so an
// anchor that target merely passes through (without re-projecting it)
// still resolves.
func resolveAnchorColumn(root ast.Node, target *ast.SimpleSelect, name string) (ast.Node, error) {
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		return ast.NewColumnReference([]string{name[:dot]}, name[dot+1:]), nil
	}
	cols, err := collector.CollectSelectable(target, collector.Options{Dedup: collector.DedupColumnName})
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		if lower(c.Alias) == lower(name) {
			return c.Value, nil
		}
	}
	for _, sel := range FindUpstreamSelects(root, name) {
		cols, err := collector.CollectSelectable(sel, collector.Options{Dedup: collector.DedupColumnName})
		if err != nil {
			continue
		}
		for _, c := range cols {
			if lower(c.Alias) == lower(name) {
				return c.Value, nil
			}
		}
	}
	return nil, &sqlerr.ResolutionError{Name: name, Message: "anchor column not found in target or upstream"}
}

// buildSubquery interpolates anchors into instr.SQL's $cN placeholders,
// validates the result, parses it, and binds instr.Params
// onto the parsed query's WHERE/HAVING/SELECT expressions.
func buildSubquery(instr Instruction, anchors []ast.Node, firstAnchorIsLHS bool) (ast.Node, error) {
	sql := strings.TrimSpace(instr.SQL)
	if sql == "" {
		return nil, &sqlerr.SemanticError{Message: "instruction SQL is empty"}
	}
	if strings.Contains(strings.ToUpper(sql), "LATERAL") {
		return nil, &sqlerr.SemanticError{Message: "LATERAL is not permitted inside an injected subquery"}
	}

	interpolated := sql
	for i, expr := range anchors {
		placeholder := fmt.Sprintf("$c%d", i)
		used := strings.Contains(interpolated, placeholder)
		if !used && !(i == 0 && firstAnchorIsLHS) {
			return nil, &sqlerr.SemanticError{Message: fmt.Sprintf("placeholder %s unused in instruction SQL", placeholder)}
		}
		if used {
			interpolated = strings.ReplaceAll(interpolated, placeholder, format.FormatDefault(expr))
		}
	}
	if idx := strings.Index(interpolated, "$c"); idx >= 0 {
		return nil, &sqlerr.SemanticError{Message: "instruction SQL references a placeholder beyond the supplied anchors"}
	}

	stmts, err := parser.SplitStatements(interpolated)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, &sqlerr.SemanticError{Message: "instruction SQL must contain exactly one statement"}
	}

	node, err := parser.Parse(interpolated)
	if err != nil {
		return nil, err
	}
	sel, ok := node.(*ast.SimpleSelect)
	if !ok {
		return nil, &sqlerr.SemanticError{Message: "instruction SQL must be a SELECT"}
	}
	if len(instr.Params) > 0 {
		bindParams(sel, instr.Params)
	}
	return sel, nil
}

func bindParams(sel *ast.SimpleSelect, params map[string]ast.Node) {
	if sel.Where != nil {
		sel.Where.Condition = rewriteParams(sel.Where.Condition, params)
	}
	if sel.Having != nil {
		sel.Having.Condition = rewriteParams(sel.Having.Condition, params)
	}
	if sel.Select != nil {
		for _, item := range sel.Select.Items {
			item.Value = rewriteParams(item.Value, params)
		}
	}
}

// rewriteParams replaces every ParameterValue in n whose Name matches an
// entry in params, rebuilding the minimal set of container nodes along
// the way. Covers the expression shapes an injected predicate fragment
// realistically uses; it is not a full-tree generic rewrite.
func rewriteParams(n ast.Node, params map[string]ast.Node) ast.Node {
	switch t := n.(type) {
	case nil:
		return nil
	case *ast.ParameterValue:
		if v, ok := params[t.Name]; ok {
			return v
		}
		return t
	case *ast.BinaryExpression:
		t.Left = rewriteParams(t.Left, params)
		t.Right = rewriteParams(t.Right, params)
		return t
	case *ast.UnaryExpression:
		t.Expr = rewriteParams(t.Expr, params)
		return t
	case *ast.FunctionCall:
		for i, a := range t.Args {
			t.Args[i] = rewriteParams(a, params)
		}
		return t
	case *ast.CaseExpression:
		t.Operand = rewriteParams(t.Operand, params)
		for _, w := range t.Whens {
			w.Condition = rewriteParams(w.Condition, params)
			w.Result = rewriteParams(w.Result, params)
		}
		t.Else = rewriteParams(t.Else, params)
		return t
	case *ast.CastExpression:
		t.Expr = rewriteParams(t.Expr, params)
		return t
	case *ast.BetweenExpression:
		t.Expr = rewriteParams(t.Expr, params)
		t.Low = rewriteParams(t.Low, params)
		t.High = rewriteParams(t.High, params)
		return t
	case *ast.ParenExpression:
		t.Expr = rewriteParams(t.Expr, params)
		return t
	case *ast.ValueList:
		for i, e := range t.Items {
			t.Items[i] = rewriteParams(e, params)
		}
		return t
	case *ast.Tuple:
		for i, e := range t.Items {
			t.Items[i] = rewriteParams(e, params)
		}
		return t
	default:
		return n
	}
}
