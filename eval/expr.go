package eval

import (
	"strings"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/builtin"
	"github.com/lattice-lang/lattice/value"
)

// evalExpr is the C5 expression walker (spec §4.4): a recursive descent
// over ast.Expr that always returns a Result, never a Go exception.
func (e *Evaluator) evalExpr(x ast.Expr) Result {
	switch n := x.(type) {
	case *ast.IntLit:
		return Ok(value.NewInt(n.Value, value.Flux))
	case *ast.FloatLit:
		return Ok(value.NewFloat(n.Value, value.Flux))
	case *ast.BoolLit:
		return Ok(value.NewBool(n.Value, value.Flux))
	case *ast.NilLit:
		return Ok(value.NewNil(value.Flux))
	case *ast.UnitLit:
		return Ok(value.NewUnit(value.Flux))
	case *ast.StringLit:
		return e.evalStringLit(n)
	case *ast.Identifier:
		return e.evalIdentifier(n)
	case *ast.BinaryExpr:
		return e.evalBinary(n)
	case *ast.LogicalExpr:
		return e.evalLogical(n)
	case *ast.UnaryExpr:
		return e.evalUnary(n)
	case *ast.CallExpr:
		return e.evalCall(n)
	case *ast.MethodCallExpr:
		return e.evalMethodCall(n)
	case *ast.IndexExpr:
		return e.evalIndex(n)
	case *ast.FieldExpr:
		return e.evalField(n)
	case *ast.ArrayLit:
		return e.evalArrayLit(n)
	case *ast.MapLit:
		return e.evalMapLit(n)
	case *ast.SetLit:
		return e.evalSetLit(n)
	case *ast.TupleLit:
		return e.evalTupleLit(n)
	case *ast.BufferLit:
		return e.evalBufferLit(n)
	case *ast.StructLit:
		return e.evalStructLit(n)
	case *ast.IfExpr:
		return e.evalIf(n)
	case *ast.BlockExpr:
		e.Env.PushScope()
		defer e.Env.PopScope()
		return e.evalBlockBody(n)
	case *ast.ClosureLit:
		return Ok(value.NewClosure(n.Params, n.Variadic, n.Body, e.Env.Clone(), value.Flux))
	case *ast.RangeExpr:
		return e.evalRange(n)
	case *ast.MatchExpr:
		return e.evalMatch(n)
	case *ast.TryCatchExpr:
		return e.evalTryCatch(n)
	case *ast.TryPropagateExpr:
		return e.evalTryPropagate(n)
	case *ast.ForgeExpr:
		return e.evalForge(n)
	case *ast.ScopeExpr:
		return e.evalScope(n)
	case *ast.SpawnExpr:
		return e.evalSpawnStandalone(n)
	case *ast.PhaseCallExpr:
		return e.evalPhaseCall(n)
	case *ast.AnnealExpr:
		return e.evalAnneal(n)
	case *ast.SelectExpr:
		return e.evalSelect(n)
	case *ast.SpreadExpr:
		// A spread outside an array literal context is an error (spec §4.4:
		// "spread only permitted inside array literals").
		return Fail(NewError(KindType, "spread (...) is only permitted inside array literals"))
	default:
		return Fail(NewError(KindInternal, "unhandled expression node %T", x))
	}
}

func (e *Evaluator) evalStringLit(n *ast.StringLit) Result {
	var b strings.Builder
	for _, part := range n.Parts {
		if part.Interp == nil {
			b.WriteString(part.Text)
			continue
		}
		r := e.evalExpr(part.Interp)
		if !r.IsOk() {
			return r
		}
		b.WriteString(builtin.Stringify(r.Value()))
	}
	return Ok(value.NewString(b.String(), value.Flux))
}

func (e *Evaluator) evalIdentifier(n *ast.Identifier) Result {
	if v, ok := e.Env.Get(n.Name); ok {
		return Ok(v)
	}
	return Fail(e.undefinedName(n.Name))
}

func (e *Evaluator) evalRange(n *ast.RangeExpr) Result {
	start := e.evalExpr(n.Start)
	if !start.IsOk() {
		return start
	}
	end := e.evalExpr(n.End)
	if !end.IsOk() {
		return end
	}
	si, ok1 := start.Value().(*value.Int)
	ei, ok2 := end.Value().(*value.Int)
	if !ok1 || !ok2 {
		return Fail(NewError(KindType, "range bounds must be integers"))
	}
	return Ok(value.NewRange(si.Value, ei.Value, value.Flux))
}

func (e *Evaluator) evalIf(n *ast.IfExpr) Result {
	cond := e.evalExpr(n.Cond)
	if !cond.IsOk() {
		return cond
	}
	if value.IsTruthy(cond.Value()) {
		e.Env.PushScope()
		defer e.Env.PopScope()
		return e.evalBlockBody(n.Then)
	}
	if n.Else == nil {
		return Ok(value.NewUnit(value.Flux))
	}
	e.Env.PushScope()
	defer e.Env.PopScope()
	return e.evalExpr(n.Else)
}

// evalBlockBody runs b's statements then its tail expression, without
// pushing its own scope (callers push/pop around it so If/Block/closure
// bodies share one convention, spec §4.4 "push and pop a scope around each
// branch").
func (e *Evaluator) evalBlockBody(b *ast.BlockExpr) Result {
	depth := e.Env.Depth()
	result := Ok(value.NewUnit(value.Flux))
	for _, stmt := range b.Stmts {
		result = e.evalStmt(stmt)
		if result.IsErr() || result.IsSignal() {
			return e.runDefers(depth, result)
		}
	}
	if b.Tail != nil {
		result = e.evalExpr(b.Tail)
	}
	return e.runDefers(depth, result)
}
