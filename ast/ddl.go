package ast

// ColumnDefinition is one column in a CREATE TABLE.
type ColumnDefinition struct {
	base
	Name        string
	TypeName    string
	Constraints []*ColumnConstraint
}

func NewColumnDefinition(name, typeName string) *ColumnDefinition {
	return &ColumnDefinition{base: base{kind: KindColumnDefinition}, Name: name, TypeName: typeName}
}
func (n *ColumnDefinition) Accept(v Visitor) { v.VisitNode(n) }

// ColumnConstraintKind enumerates inline column-level constraints.
type ColumnConstraintKind int

const (
	ColConstraintNotNull ColumnConstraintKind = iota
	ColConstraintNull
	ColConstraintPrimaryKey
	ColConstraintUnique
	ColConstraintDefault
	ColConstraintCheck
	ColConstraintReferences
)

type ColumnConstraint struct {
	base
	Kind           ColumnConstraintKind
	Name           string // optional CONSTRAINT name
	DefaultExpr    Node
	CheckExpr      Node
	RefTable       string
	RefColumn      string
}

func NewColumnConstraint(kind ColumnConstraintKind) *ColumnConstraint {
	return &ColumnConstraint{base: base{kind: KindColumnConstraint}, Kind: kind}
}
func (n *ColumnConstraint) Accept(v Visitor) { v.VisitNode(n) }

// TableConstraintKind enumerates table-level constraints.
type TableConstraintKind int

const (
	TblConstraintPrimaryKey TableConstraintKind = iota
	TblConstraintUnique
	TblConstraintCheck
	TblConstraintForeignKey
)

type TableConstraint struct {
	base
	Kind       TableConstraintKind
	Name       string
	Columns    []string
	CheckExpr  Node
	RefTable   string
	RefColumns []string
}

func NewTableConstraint(kind TableConstraintKind, name string) *TableConstraint {
	return &TableConstraint{base: base{kind: KindTableConstraint}, Kind: kind, Name: name}
}
func (n *TableConstraint) Accept(v Visitor) { v.VisitNode(n) }

type CreateTable struct {
	base
	IfNotExists bool
	Table       *QualifiedName
	Columns     []*ColumnDefinition
	Constraints []*TableConstraint
}

func NewCreateTable(table *QualifiedName) *CreateTable {
	return &CreateTable{base: base{kind: KindCreateTable}, Table: table}
}
func (n *CreateTable) Accept(v Visitor) { v.VisitNode(n) }

// IndexColumn is one column (or expression) of a CREATE INDEX column list,
// with its own ASC/DESC and NULLS FIRST/LAST.
type IndexColumn struct {
	base
	Expr      Node
	Direction SortDirection
	Nulls     NullsPosition
}

func NewIndexColumn(expr Node) *IndexColumn {
	return &IndexColumn{base: base{kind: KindIndexColumn}, Expr: expr}
}
func (n *IndexColumn) Accept(v Visitor) { v.VisitNode(n) }

type CreateIndex struct {
	base
	IfNotExists bool
	Unique      bool
	Name        string
	Table       *QualifiedName
	Using       string // USING method, e.g. "btree", "gin"
	Columns     []*IndexColumn
	Include     []string
	Where       Node
}

func NewCreateIndex(name string, table *QualifiedName) *CreateIndex {
	return &CreateIndex{base: base{kind: KindCreateIndex}, Name: name, Table: table}
}
func (n *CreateIndex) Accept(v Visitor) { v.VisitNode(n) }

// AlterAction enumerates one ALTER TABLE sub-operation.
type AlterAction int

const (
	AlterAddColumn AlterAction = iota
	AlterDropColumn
	AlterAddConstraint
	AlterDropConstraint
	AlterRenameTable
	AlterRenameColumn
)

type AlterTable struct {
	base
	Table        *QualifiedName
	Action       AlterAction
	Column       *ColumnDefinition
	Constraint   *TableConstraint
	DropName     string // column or constraint name for DROP actions
	IfExists     bool
	Cascade      bool
	NewName      string
}

func NewAlterTable(table *QualifiedName, action AlterAction) *AlterTable {
	return &AlterTable{base: base{kind: KindAlterTable}, Table: table, Action: action}
}
func (n *AlterTable) Accept(v Visitor) { v.VisitNode(n) }

type DropTable struct {
	base
	IfExists bool
	Tables   []*QualifiedName
	Cascade  bool
}

func NewDropTable(tables []*QualifiedName) *DropTable {
	return &DropTable{base: base{kind: KindDropTable}, Tables: tables}
}
func (n *DropTable) Accept(v Visitor) { v.VisitNode(n) }

type DropIndex struct {
	base
	IfExists bool
	Names    []string
}

func NewDropIndex(names []string) *DropIndex {
	return &DropIndex{base: base{kind: KindDropIndex}, Names: names}
}
func (n *DropIndex) Accept(v Visitor) { v.VisitNode(n) }
