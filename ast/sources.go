package ast

// SourceExpression pairs a datasource with its alias, the unit every FROM
// item and JOIN side is built from.
type SourceExpression struct {
	base
	Alias      string
	ColumnAliases []string
	Datasource Node // *TableSource, *SubQuerySource, *FunctionSource, *ParenSource, *ValuesQuery
}

func NewSourceExpression(alias string, ds Node) *SourceExpression {
	return &SourceExpression{base: base{kind: KindSourceExpression}, Alias: alias, Datasource: ds}
}
func (n *SourceExpression) Accept(v Visitor) { v.VisitNode(n) }

// Name returns the alias if set, else the underlying table/function name —
// the identifier other nodes reference this source by.
func (n *SourceExpression) Name() string {
	if n.Alias != "" {
		return n.Alias
	}
	switch ds := n.Datasource.(type) {
	case *TableSource:
		return ds.Name.Name
	case *FunctionSource:
		return ds.Name
	}
	return ""
}

type TableSource struct {
	base
	Name *QualifiedName
}

func NewTableSource(name *QualifiedName) *TableSource {
	return &TableSource{base: base{kind: KindTableSource}, Name: name}
}
func (n *TableSource) Accept(v Visitor) { v.VisitNode(n) }

type SubQuerySource struct {
	base
	Query Node // *SimpleSelect, *BinarySelect, or *ValuesQuery
}

func NewSubQuerySource(query Node) *SubQuerySource {
	return &SubQuerySource{base: base{kind: KindSubQuerySource}, Query: query}
}
func (n *SubQuerySource) Accept(v Visitor) { v.VisitNode(n) }

type FunctionSource struct {
	base
	Name string
	Args []Node
}

func NewFunctionSource(name string, args []Node) *FunctionSource {
	return &FunctionSource{base: base{kind: KindFunctionSource}, Name: name, Args: args}
}
func (n *FunctionSource) Accept(v Visitor) { v.VisitNode(n) }

// ParenSource is a parenthesized join tree used to force grouping:
// FROM (a JOIN b ON ...) JOIN c ON ...
type ParenSource struct {
	base
	Inner *FromClause
}

func NewParenSource(inner *FromClause) *ParenSource {
	return &ParenSource{base: base{kind: KindParenSource}, Inner: inner}
}
func (n *ParenSource) Accept(v Visitor) { v.VisitNode(n) }
