package eval

import (
	"testing"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefersRunLIFOOnNormalExit(t *testing.T) {
	e := newTestEvaluator()
	e.Env.Define("log", value.NewArray(nil, value.Flux))

	appendCall := func(n int64) ast.Stmt {
		return &ast.ExprStmt{X: &ast.MethodCallExpr{
			Receiver: &ast.Identifier{Name: "log"},
			Method:   "push",
			Args:     []ast.Expr{&ast.IntLit{Value: n}},
		}}
	}

	body := &ast.BlockExpr{
		Stmts: []ast.Stmt{
			&ast.DeferStmt{Body: &ast.BlockExpr{Stmts: []ast.Stmt{appendCall(1)}}},
			&ast.DeferStmt{Body: &ast.BlockExpr{Stmts: []ast.Stmt{appendCall(2)}}},
		},
		Tail: &ast.IntLit{Value: 0},
	}

	res := e.evalBlockBody(body)
	require.True(t, res.IsOk())

	logVal, _ := e.Env.Get("log")
	assert.Equal(t, []int64{2, 1}, intsOf(logVal.(*value.Array).Elements))
}

func TestDeferRunsOnErrorAndPreservesOriginalError(t *testing.T) {
	e := newTestEvaluator()
	e.Env.Define("ran", value.NewBool(false, value.Flux))

	body := &ast.BlockExpr{
		Stmts: []ast.Stmt{
			&ast.DeferStmt{Body: &ast.BlockExpr{Stmts: []ast.Stmt{
				&ast.AssignStmt{Target: ast.AssignIdent, Ident: "ran", Value: &ast.BoolLit{Value: true}},
			}}},
		},
		Tail: &ast.BinaryExpr{Op: ast.OpDiv, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 0}},
	}

	res := e.evalBlockBody(body)
	require.True(t, res.IsErr())
	assert.Equal(t, KindDivisionByZero, res.Err().Kind)

	ranVal, _ := e.Env.Get("ran")
	assert.True(t, ranVal.(*value.Bool).Value, "the defer still runs even though the block failed")
}
