package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/format"
	"github.com/sqlrefine/sqlrefine/parser"
)

func TestInjectExistsBuildsCorrelatedSubquery(t *testing.T) {
	n, err := parser.Parse("SELECT o.id FROM orders o")
	require.NoError(t, err)

	out, err := Inject(n, []Instruction{{
		Mode:          ModeExists,
		AnchorColumns: []string{"o.id"},
		SQL:           "SELECT 1 FROM payments WHERE payments.order_id = $c0",
	}}, Options{})
	require.NoError(t, err)

	sel := out.(*ast.SimpleSelect)
	require.NotNil(t, sel.Where)
	rendered := format.FormatDefault(sel)
	assert.Contains(t, rendered, "EXISTS")
	assert.Contains(t, rendered, "payments.order_id = o.id")
}

func TestInjectNotInBuildsPredicate(t *testing.T) {
	n, err := parser.Parse("SELECT id FROM users")
	require.NoError(t, err)

	out, err := Inject(n, []Instruction{{
		Mode:          ModeNotIn,
		AnchorColumns: []string{"id"},
		SQL:           "SELECT user_id FROM banned",
	}}, Options{})
	require.NoError(t, err)

	rendered := format.FormatDefault(out)
	assert.Contains(t, rendered, "NOT IN")
}

func TestInjectRejectsLateralSubquery(t *testing.T) {
	n, err := parser.Parse("SELECT o.id FROM orders o")
	require.NoError(t, err)

	_, err = Inject(n, []Instruction{{
		Mode:          ModeExists,
		AnchorColumns: []string{"o.id"},
		SQL:           "SELECT 1 FROM LATERAL payments WHERE payments.order_id = $c0",
	}}, Options{Strict: true})
	require.Error(t, err)
}

func TestInjectStrictAbortsOnFirstFailure(t *testing.T) {
	n, err := parser.Parse("SELECT o.id FROM orders o")
	require.NoError(t, err)

	_, err = Inject(n, []Instruction{{
		Mode:          ModeExists,
		AnchorColumns: []string{"missing_column"},
		SQL:           "SELECT 1 FROM payments WHERE payments.order_id = $c0",
	}}, Options{Strict: true})
	require.Error(t, err)
}

func TestInjectNonStrictSkipsFailingInstruction(t *testing.T) {
	n, err := parser.Parse("SELECT o.id FROM orders o")
	require.NoError(t, err)

	out, err := Inject(n, []Instruction{{
		Mode:          ModeExists,
		AnchorColumns: []string{"missing_column"},
		SQL:           "SELECT 1 FROM payments WHERE payments.order_id = $c0",
	}}, Options{Strict: false})
	require.NoError(t, err)

	sel := out.(*ast.SimpleSelect)
	assert.Nil(t, sel.Where, "a failing instruction is skipped entirely in non-strict mode")
}

func TestInjectBindsNamedParams(t *testing.T) {
	n, err := parser.Parse("SELECT o.id FROM orders o")
	require.NoError(t, err)

	out, err := Inject(n, []Instruction{{
		Mode:          ModeExists,
		AnchorColumns: []string{"o.id"},
		SQL:           "SELECT 1 FROM payments WHERE payments.order_id = $c0 AND payments.status = :status",
		Params: map[string]ast.Node{
			"status": ast.NewLiteralValue(ast.LiteralString, "'paid'"),
		},
	}}, Options{})
	require.NoError(t, err)

	rendered := format.FormatDefault(out)
	assert.Contains(t, rendered, "'paid'")
	assert.NotContains(t, rendered, ":status")
}
