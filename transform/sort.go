package transform

import (
	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/collector"
	"github.com/sqlrefine/sqlrefine/internal/sqlerr"
)

// SortInstruction is one ORDER BY item to append.
// Instructions are applied in slice order, which fixes the resulting
// ORDER BY's column order since map iteration would not.
type SortInstruction struct {
	Column     string
	Asc        bool
	Desc       bool
	NullsFirst bool
	NullsLast  bool
}

// InjectSort appends one OrderByItem per instruction to query's ORDER BY,
// creating the clause if absent. Each column name is resolved against the
// query's own selectable columns (no upstream search, unlike the EXISTS
// injector's anchors). Asc is the default when neither Asc nor Desc is
// set; nulls ordering is omitted unless explicitly requested.
func InjectSort(query ast.Node, instructions []SortInstruction) (ast.Node, error) {
	sel, err := asSimpleSelect(query)
	if err != nil {
		return nil, err
	}
	for _, instr := range instructions {
		if err := validateSortInstruction(instr); err != nil {
			return nil, err
		}
		value, err := resolveSortColumn(sel, instr.Column)
		if err != nil {
			return nil, err
		}
		item := ast.NewOrderByItem(value)
		if instr.Desc {
			item.Direction = ast.SortDesc
		}
		switch {
		case instr.NullsFirst:
			item.Nulls = ast.NullsFirst
		case instr.NullsLast:
			item.Nulls = ast.NullsLast
		}
		if sel.OrderBy == nil {
			sel.OrderBy = ast.NewOrderByClause()
		}
		sel.OrderBy.Items = append(sel.OrderBy.Items, item)
	}
	return sel, nil
}

func validateSortInstruction(instr SortInstruction) error {
	if instr.Asc && instr.Desc {
		return &sqlerr.SemanticError{Message: "sort instruction for " + instr.Column + " sets both asc and desc"}
	}
	if instr.NullsFirst && instr.NullsLast {
		return &sqlerr.SemanticError{Message: "sort instruction for " + instr.Column + " sets both nullsFirst and nullsLast"}
	}
	if !instr.Asc && !instr.Desc && !instr.NullsFirst && !instr.NullsLast {
		return &sqlerr.SemanticError{Message: "sort instruction for " + instr.Column + " sets no direction or nulls flag"}
	}
	return nil
}

func resolveSortColumn(sel *ast.SimpleSelect, name string) (ast.Node, error) {
	cols, err := collector.CollectSelectable(sel, collector.Options{Dedup: collector.DedupColumnName})
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		if lower(c.Alias) == lower(name) {
			return c.Value, nil
		}
	}
	return nil, &sqlerr.ResolutionError{Name: name, Message: "sort column not found in this SELECT's output"}
}

// ClearSort removes any ORDER BY items previously appended for the given
// column names, matching by plain column name for ColumnReference values.
func ClearSort(query ast.Node, columns ...string) (ast.Node, error) {
	sel, err := asSimpleSelect(query)
	if err != nil {
		return nil, err
	}
	if sel.OrderBy == nil {
		return sel, nil
	}
	want := map[string]bool{}
	for _, c := range columns {
		want[lower(c)] = true
	}
	kept := sel.OrderBy.Items[:0:0]
	for _, item := range sel.OrderBy.Items {
		if cr, ok := item.Value.(*ast.ColumnReference); ok && want[lower(cr.Column)] {
			continue
		}
		kept = append(kept, item)
	}
	sel.OrderBy.Items = kept
	if len(sel.OrderBy.Items) == 0 {
		sel.OrderBy = nil
	}
	return sel, nil
}
