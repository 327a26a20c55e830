package eval

import (
	"sync"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/concurrent"
	"github.com/lattice-lang/lattice/env"
	"github.com/lattice-lang/lattice/value"
)

// evalScope implements a parallel scope block (spec §5): its child
// statements are partitioned into spawned ones and sequential ones.
// Sequential statements run on the parent evaluator in source order; each
// spawned block gets a fresh child evaluator sharing the parent's
// declaration tables by reference and a deep-cloned environment. All
// spawned goroutines are joined before the scope block returns; a single
// first error from the parent or any child is propagated, others are
// discarded.
func (e *Evaluator) evalScope(n *ast.ScopeExpr) Result {
	var sequential []ast.Stmt
	var spawns []*ast.SpawnExpr
	for _, s := range n.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok {
			if sp, ok := es.X.(*ast.SpawnExpr); ok {
				spawns = append(spawns, sp)
				continue
			}
		}
		sequential = append(sequential, s)
	}

	e.Env.PushScope()
	defer e.Env.PopScope()

	results := make([]Result, len(spawns))
	var wg sync.WaitGroup
	for i, sp := range spawns {
		clonedEnv, _ := e.Env.Clone().(*env.Environment)
		child := e.newChild(clonedEnv)
		wg.Add(1)
		go func(i int, sp *ast.SpawnExpr, child *Evaluator) {
			defer wg.Done()
			results[i] = child.evalSpawnBody(sp)
		}(i, sp, child)
	}

	seqResult := e.runSequential(sequential)
	wg.Wait()

	if seqResult.IsErr() || seqResult.IsSignal() {
		return seqResult
	}
	for _, r := range results {
		if r.IsErr() {
			return r
		}
	}
	return Ok(value.NewUnit(value.Flux))
}

// runSequential runs a scope block's non-spawned statements in source order.
// A Return/Break/Continue here belongs to the enclosing function or loop,
// not to this scope block, and propagates unchanged (ConcurrencyMisuse is
// reserved for signals escaping a spawn body, see evalSpawnBody).
func (e *Evaluator) runSequential(stmts []ast.Stmt) Result {
	for _, stmt := range stmts {
		r := e.evalStmt(stmt)
		if r.IsErr() || r.IsSignal() {
			return r
		}
	}
	return Ok(value.NewUnit(value.Flux))
}

// evalSpawnBody runs one spawned block's statements in a fresh scope on its
// own child evaluator (spec §5). Return/Break/Continue escaping a spawn
// body is a ConcurrencyMisuse error.
func (e *Evaluator) evalSpawnBody(sp *ast.SpawnExpr) Result {
	e.Env.PushScope()
	res := e.evalBlockBody(sp.Body)
	e.Env.PopScope()
	if res.IsSignal() {
		return Fail(NewError(KindConcurrencyMisuse, "return/break/continue not allowed inside a spawn block"))
	}
	return res
}

// evalSpawnStandalone handles a SpawnExpr reached as a plain expression,
// outside a scope block's statement-partition path (spec §5: "parallel
// threads are introduced only by spawn blocks inside a scope block").
func (e *Evaluator) evalSpawnStandalone(n *ast.SpawnExpr) Result {
	return Fail(NewError(KindConcurrencyMisuse, "spawn block used outside a scope block"))
}

// evalSelect implements the select expression (spec §4.10): a
// Fisher-Yates-shuffled, polling-based rendezvous across ready channel
// arms, with optional default and timeout arms.
func (e *Evaluator) evalSelect(n *ast.SelectExpr) Result {
	var chArms []concurrent.Arm
	var chArmIdx []int
	hasDefault := false
	hasTimeout := false
	var timeoutMs int64

	for i, arm := range n.Arms {
		switch {
		case arm.IsDefault:
			hasDefault = true
		case arm.IsTimeout:
			hasTimeout = true
			tr := e.evalExpr(arm.TimeoutMs)
			if !tr.IsOk() {
				return tr
			}
			ti, ok := tr.Value().(*value.Int)
			if !ok {
				return Fail(NewError(KindType, "select timeout duration must be an Int"))
			}
			timeoutMs = ti.Value
		default:
			cr := e.evalExpr(arm.Channel)
			if !cr.IsOk() {
				return cr
			}
			ch, ok := cr.Value().(*value.Channel)
			if !ok {
				return Fail(NewError(KindType, "select arm channel expression must be a Channel, got %s", cr.Value().Kind()))
			}
			chArms = append(chArms, concurrent.Arm{Channel: ch})
			chArmIdx = append(chArmIdx, i)
		}
	}

	outcome := concurrent.Select(e.rng, chArms, hasDefault, hasTimeout, timeoutMs)

	var arm ast.SelectArm
	haveArm := false
	switch {
	case outcome.Default:
		for _, a := range n.Arms {
			if a.IsDefault {
				arm, haveArm = a, true
				break
			}
		}
	case outcome.TimedOut:
		for _, a := range n.Arms {
			if a.IsTimeout {
				arm, haveArm = a, true
				break
			}
		}
	case outcome.Closed:
		// Every channel arm is closed and empty, and Select has already
		// preferred a default arm over this outcome when one exists (spec
		// §4.10). Fall back to a timeout arm if the select declares one;
		// otherwise a closed-everything select evaluates to Unit.
		for _, a := range n.Arms {
			if a.IsTimeout {
				arm, haveArm = a, true
				break
			}
		}
		if !haveArm {
			return Ok(value.NewUnit(value.Flux))
		}
	default:
		arm, haveArm = n.Arms[chArmIdx[outcome.ArmIndex]], true
	}
	if !haveArm {
		return Ok(value.NewUnit(value.Flux))
	}

	e.Env.PushScope()
	if arm.BindName != "" && !outcome.Default && !outcome.TimedOut {
		if outcome.Closed {
			e.Env.Define(arm.BindName, value.NewNil(value.Flux))
		} else {
			e.Env.Define(arm.BindName, outcome.Value)
		}
	}
	res := e.evalBlockBody(arm.Body)
	e.Env.PopScope()
	return res
}
