package eval

import (
	"errors"
	"testing"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalCallDispatchesToRegisteredFunction(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:   "add",
		Params: []ast.Param{{Name: "a"}, {Name: "b"}},
		Body: []ast.Stmt{&ast.ReturnStmt{Value: &ast.BinaryExpr{
			Op: ast.OpAdd, Left: &ast.Identifier{Name: "a"}, Right: &ast.Identifier{Name: "b"},
		}}},
	})

	res := e.evalCall(callExpr("add", &ast.IntLit{Value: 2}, &ast.IntLit{Value: 3}))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(5), res.Value().(*value.Int).Value)
}

func TestEvalCallMissingArgumentIsArityError(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:   "add",
		Params: []ast.Param{{Name: "a"}, {Name: "b"}},
		Body:   []ast.Stmt{&ast.ReturnStmt{Value: &ast.Identifier{Name: "a"}}},
	})

	res := e.evalCall(callExpr("add", &ast.IntLit{Value: 2}))
	require.True(t, res.IsErr())
	assert.Equal(t, KindArity, res.Err().Kind)
}

func TestEvalCallDefaultParameterIsUsedWhenArgMissing(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:   "inc",
		Params: []ast.Param{{Name: "a"}, {Name: "step", Default: &ast.IntLit{Value: 1}}},
		Body: []ast.Stmt{&ast.ReturnStmt{Value: &ast.BinaryExpr{
			Op: ast.OpAdd, Left: &ast.Identifier{Name: "a"}, Right: &ast.Identifier{Name: "step"},
		}}},
	})

	res := e.evalCall(callExpr("inc", &ast.IntLit{Value: 10}))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(11), res.Value().(*value.Int).Value)
}

func TestEvalCallVariadicCollectsExtraArgsIntoArray(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:   "variadicLen",
		Params: []ast.Param{{Name: "rest", Variadic: true}},
		Body: []ast.Stmt{&ast.ReturnStmt{Value: &ast.MethodCallExpr{
			Receiver: &ast.Identifier{Name: "rest"}, Method: "len",
		}}},
	})

	res := e.evalCall(callExpr("variadicLen", &ast.IntLit{Value: 1}, &ast.IntLit{Value: 2}, &ast.IntLit{Value: 3}))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(3), res.Value().(*value.Int).Value)
}

func TestEvalCallNonCallableCalleeIsTypeError(t *testing.T) {
	e := newTestEvaluator()
	e.Env.Define("x", value.NewInt(1, value.Flux))

	res := e.evalCall(&ast.CallExpr{Callee: &ast.Identifier{Name: "x"}})
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}

func TestEvalCallNativeClosureInvocation(t *testing.T) {
	e := newTestEvaluator()
	double := value.NewNativeClosure(func(rt *value.Runtime, args []value.Value) value.Value {
		n := args[0].(*value.Int)
		return value.NewInt(n.Value*2, value.Flux)
	}, value.Flux)
	e.Env.Define("double", double)

	res := e.evalCall(callExpr("double", &ast.IntLit{Value: 4}))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(8), res.Value().(*value.Int).Value)
}

func TestEvalCallNativeClosurePanicSentinelBecomesKindPanic(t *testing.T) {
	e := newTestEvaluator()
	boom := value.NewNativeClosure(func(rt *value.Runtime, args []value.Value) value.Value {
		rt.Err = errors.New("PANIC:boom")
		return value.NewUnit(value.Flux)
	}, value.Flux)
	e.Env.Define("boom", boom)

	res := e.evalCall(callExpr("boom"))
	require.True(t, res.IsErr())
	assert.Equal(t, KindPanic, res.Err().Kind)
}

func TestEvalCallRequiresClauseFailureIsContractViolation(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:    "mustBePositive",
		Params:  []ast.Param{{Name: "n"}},
		Require: []ast.Expr{&ast.BinaryExpr{Op: ast.OpGt, Left: &ast.Identifier{Name: "n"}, Right: &ast.IntLit{Value: 0}}},
		Body:    []ast.Stmt{&ast.ReturnStmt{Value: &ast.Identifier{Name: "n"}}},
	})

	res := e.evalCall(callExpr("mustBePositive", &ast.IntLit{Value: -1}))
	require.True(t, res.IsErr())
	assert.Equal(t, KindContractViolation, res.Err().Kind)
}

func TestEvalCallWritesBackFluxParameterToCallerBinding(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:   "bump",
		Params: []ast.Param{{Name: "x", Phase: ast.PhaseFlux}},
		Body: []ast.Stmt{
			&ast.AssignStmt{Target: ast.AssignIdent, Ident: "x", Value: &ast.IntLit{Value: 99}},
			&ast.ReturnStmt{Value: &ast.Identifier{Name: "x"}},
		},
	})
	e.Env.Define("y", value.NewInt(1, value.Flux))

	res := e.evalCall(callExpr("bump", &ast.Identifier{Name: "y"}))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(99), res.Value().(*value.Int).Value)

	y, ok := e.Env.Get("y")
	require.True(t, ok)
	assert.Equal(t, int64(99), y.(*value.Int).Value)
}

func TestEvalCallDoesNotWriteBackNonIdentifierArgument(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:   "bump",
		Params: []ast.Param{{Name: "x", Phase: ast.PhaseFlux}},
		Body: []ast.Stmt{
			&ast.AssignStmt{Target: ast.AssignIdent, Ident: "x", Value: &ast.IntLit{Value: 99}},
			&ast.ReturnStmt{Value: &ast.Identifier{Name: "x"}},
		},
	})

	res := e.evalCall(callExpr("bump", &ast.IntLit{Value: 1}))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(99), res.Value().(*value.Int).Value)
}

func TestEvalCallReturnTypeMismatchIsTypeError(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:       "wrongReturn",
		ReturnType: "String",
		Body:       []ast.Stmt{&ast.ReturnStmt{Value: &ast.IntLit{Value: 1}}},
	})

	res := e.evalCall(callExpr("wrongReturn"))
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}

func TestEvalCallReturnTypeMatchPasses(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:       "greet",
		ReturnType: "String",
		Body:       []ast.Stmt{&ast.ReturnStmt{Value: strLit("hi")}},
	})

	res := e.evalCall(callExpr("greet"))
	require.True(t, res.IsOk())
	assert.Equal(t, "hi", res.Value().(*value.String).String())
}

func TestEvalCallPhaseIncompatibleOverloadIsPhaseViolationNotArity(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:   "crystalOnly",
		Params: []ast.Param{{Name: "x", Phase: ast.PhaseCrystal}},
		Body:   []ast.Stmt{&ast.ReturnStmt{Value: &ast.Identifier{Name: "x"}}},
	})

	e.Env.Define("fluxArg", value.NewInt(1, value.Flux))
	res := e.evalCall(callExpr("crystalOnly", &ast.Identifier{Name: "fluxArg"}))
	require.True(t, res.IsErr())
	assert.Equal(t, KindPhaseViolation, res.Err().Kind)
}

func TestEvalCallEnsuresClauseFailureIsContractViolation(t *testing.T) {
	e := newTestEvaluator()
	e.tables.functions.Register(&ast.FnDecl{
		Name:   "alwaysZero",
		Params: []ast.Param{{Name: "n"}},
		Ensure: []ast.Expr{&ast.BinaryExpr{Op: ast.OpEq, Left: &ast.Identifier{Name: "n"}, Right: &ast.IntLit{Value: 0}}},
		Body:   []ast.Stmt{&ast.ReturnStmt{Value: &ast.Identifier{Name: "n"}}},
	})

	res := e.evalCall(callExpr("alwaysZero", &ast.IntLit{Value: 1}))
	require.True(t, res.IsErr())
	assert.Equal(t, KindContractViolation, res.Err().Kind)
}
