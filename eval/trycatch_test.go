package eval

import (
	"errors"
	"testing"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryCatchRunsCatchOnError(t *testing.T) {
	e := newTestEvaluator()
	n := &ast.TryCatchExpr{
		Try:      &ast.BlockExpr{Tail: &ast.BinaryExpr{Op: ast.OpDiv, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 0}}},
		CatchVar: "msg",
		Catch:    &ast.BlockExpr{Tail: &ast.Identifier{Name: "msg"}},
	}
	res := e.evalTryCatch(n)
	require.True(t, res.IsOk())
	_, isString := res.Value().(*value.String)
	assert.True(t, isString, "the catch variable is bound to the error message as a String")
}

func TestTryCatchSkipsCatchOnSuccess(t *testing.T) {
	e := newTestEvaluator()
	n := &ast.TryCatchExpr{
		Try:      &ast.BlockExpr{Tail: &ast.IntLit{Value: 42}},
		CatchVar: "msg",
		Catch:    &ast.BlockExpr{Tail: &ast.IntLit{Value: -1}},
	}
	res := e.evalTryCatch(n)
	require.True(t, res.IsOk())
	assert.Equal(t, int64(42), res.Value().(*value.Int).Value)
}

func TestTryCatchDoesNotCatchPanic(t *testing.T) {
	e := newTestEvaluator()
	e.Env.Define("boom", value.NewNativeClosure(func(rt *value.Runtime, args []value.Value) value.Value {
		rt.Err = errors.New("PANIC:deliberate")
		return value.NewUnit(value.Flux)
	}, value.Flux))

	n := &ast.TryCatchExpr{
		Try:      &ast.BlockExpr{Tail: &ast.CallExpr{Callee: &ast.Identifier{Name: "boom"}}},
		CatchVar: "msg",
		Catch:    &ast.BlockExpr{Tail: strLit("caught")},
	}
	res := e.evalTryCatch(n)
	require.True(t, res.IsErr(), "a panic-kind error propagates straight through, bypassing catch")
	assert.Equal(t, KindPanic, res.Err().Kind)
}

func TestTryPropagateOkUnwrapsValue(t *testing.T) {
	e := newTestEvaluator()
	m := value.NewMap(value.Flux)
	m.Entries["tag"] = value.NewString("ok", value.Flux)
	m.Entries["value"] = value.NewInt(9, value.Flux)
	e.Env.Define("r", m)

	res := e.evalTryPropagate(&ast.TryPropagateExpr{Operand: &ast.Identifier{Name: "r"}})
	require.True(t, res.IsOk())
	assert.Equal(t, int64(9), res.Value().(*value.Int).Value)
}

func TestTryPropagateErrSignalsReturn(t *testing.T) {
	e := newTestEvaluator()
	m := value.NewMap(value.Flux)
	m.Entries["tag"] = value.NewString("err", value.Flux)
	e.Env.Define("r", m)

	res := e.evalTryPropagate(&ast.TryPropagateExpr{Operand: &ast.Identifier{Name: "r"}})
	require.True(t, res.IsSignal())
	assert.Equal(t, SigReturn, res.SignalKind())
	assert.Same(t, m, res.SignalValue())
}

func TestForgeFreezesBlockResult(t *testing.T) {
	e := newTestEvaluator()
	n := &ast.ForgeExpr{Body: &ast.BlockExpr{Tail: &ast.IntLit{Value: 3}}}
	res := e.evalForge(n)
	require.True(t, res.IsOk())
	assert.Equal(t, value.Crystal, res.Value().Phase())
}
