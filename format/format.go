// Package format implements the SQL pretty-printer: lowering an AST into
// an intermediate PrintToken tree (lower.go, lower_dml.go, lower_ddl.go)
// and rendering that tree to text under a caller-chosen policy (print.go,
// options.go). Format is the package's single entry point for callers
// that just want text back.
package format

import "github.com/sqlrefine/sqlrefine/ast"

// ============================================
// FORMAT ENTRY POINT
// ============================================

// Format renders n as SQL text under opts. It is the composition of the
// two formatter stages: Lower builds the intermediate token tree, Print
// walks it to produce text.
func Format(n ast.Node, opts Options) string {
	return Print(Lower(n), opts)
}

// FormatDefault renders n under DefaultOptions.
func FormatDefault(n ast.Node) string {
	return Format(n, DefaultOptions())
}
