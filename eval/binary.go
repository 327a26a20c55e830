package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
)

func (e *Evaluator) evalBinary(n *ast.BinaryExpr) Result {
	left := e.evalExpr(n.Left)
	if !left.IsOk() {
		return left
	}
	e.pushRoot(left.Value())
	right := e.evalExpr(n.Right)
	e.popRoot()
	if !right.IsOk() {
		return right
	}
	return binaryOp(n.Op, left.Value(), right.Value())
}

func binaryOp(op ast.BinaryOp, l, r value.Value) Result {
	switch op {
	case ast.OpEq:
		return Ok(value.NewBool(value.Eq(l, r), value.Flux))
	case ast.OpNeq:
		return Ok(value.NewBool(!value.Eq(l, r), value.Flux))
	case ast.OpAdd:
		if ls, ok := l.(*value.String); ok {
			if rs, ok := r.(*value.String); ok {
				return Ok(value.NewString(ls.String()+rs.String(), value.Flux))
			}
			return Fail(NewError(KindType, "cannot add %s to String", r.Kind()))
		}
		return arith(op, l, r)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return arith(op, l, r)
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return compare(op, l, r)
	case ast.OpShl, ast.OpShr:
		return shift(op, l, r)
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		return bitwise(op, l, r)
	default:
		return Fail(NewError(KindInternal, "unhandled binary operator"))
	}
}

func numbers(l, r value.Value) (lf, rf float64, bothInt bool, ok bool) {
	li, lIsInt := l.(*value.Int)
	ri, rIsInt := r.(*value.Int)
	lfl, lIsFloat := l.(*value.Float)
	rfl, rIsFloat := r.(*value.Float)

	switch {
	case lIsInt && rIsInt:
		return float64(li.Value), float64(ri.Value), true, true
	case lIsInt && rIsFloat:
		return float64(li.Value), rfl.Value, false, true
	case lIsFloat && rIsInt:
		return lfl.Value, float64(ri.Value), false, true
	case lIsFloat && rIsFloat:
		return lfl.Value, rfl.Value, false, true
	default:
		return 0, 0, false, false
	}
}

// arith implements spec §4.4: "integer-integer, float-float, mixed
// int<->float (mixed promotes to float for arithmetic)".
func arith(op ast.BinaryOp, l, r value.Value) Result {
	lf, rf, bothInt, ok := numbers(l, r)
	if !ok {
		return Fail(NewError(KindType, "arithmetic is not defined between %s and %s", l.Kind(), r.Kind()))
	}
	if bothInt {
		li := l.(*value.Int).Value
		ri := r.(*value.Int).Value
		switch op {
		case ast.OpAdd:
			return Ok(value.NewInt(li+ri, value.Flux))
		case ast.OpSub:
			return Ok(value.NewInt(li-ri, value.Flux))
		case ast.OpMul:
			return Ok(value.NewInt(li*ri, value.Flux))
		case ast.OpDiv:
			if ri == 0 {
				return Fail(NewError(KindDivisionByZero, "division by zero"))
			}
			return Ok(value.NewInt(li/ri, value.Flux))
		case ast.OpMod:
			if ri == 0 {
				return Fail(NewError(KindDivisionByZero, "modulo by zero"))
			}
			return Ok(value.NewInt(li%ri, value.Flux))
		}
	}
	switch op {
	case ast.OpAdd:
		return Ok(value.NewFloat(lf+rf, value.Flux))
	case ast.OpSub:
		return Ok(value.NewFloat(lf-rf, value.Flux))
	case ast.OpMul:
		return Ok(value.NewFloat(lf*rf, value.Flux))
	case ast.OpDiv:
		if rf == 0 {
			return Fail(NewError(KindDivisionByZero, "division by zero"))
		}
		return Ok(value.NewFloat(lf/rf, value.Flux))
	case ast.OpMod:
		if rf == 0 {
			return Fail(NewError(KindDivisionByZero, "modulo by zero"))
		}
		return Ok(value.NewFloat(float64(int64(lf)%int64(rf)), value.Flux))
	}
	return Fail(NewError(KindInternal, "unhandled arithmetic operator"))
}

func compare(op ast.BinaryOp, l, r value.Value) Result {
	lf, rf, _, ok := numbers(l, r)
	if !ok {
		ls, lIsStr := l.(*value.String)
		rs, rIsStr := r.(*value.String)
		if lIsStr && rIsStr {
			return Ok(value.NewBool(stringCompare(op, ls.String(), rs.String()), value.Flux))
		}
		return Fail(NewError(KindType, "comparison is not defined between %s and %s", l.Kind(), r.Kind()))
	}
	var result bool
	switch op {
	case ast.OpLt:
		result = lf < rf
	case ast.OpLte:
		result = lf <= rf
	case ast.OpGt:
		result = lf > rf
	case ast.OpGte:
		result = lf >= rf
	}
	return Ok(value.NewBool(result, value.Flux))
}

func stringCompare(op ast.BinaryOp, l, r string) bool {
	switch op {
	case ast.OpLt:
		return l < r
	case ast.OpLte:
		return l <= r
	case ast.OpGt:
		return l > r
	case ast.OpGte:
		return l >= r
	}
	return false
}

// shift implements spec §4.4/§8.3: "shift amounts must be 0..63".
func shift(op ast.BinaryOp, l, r value.Value) Result {
	li, lok := l.(*value.Int)
	ri, rok := r.(*value.Int)
	if !lok || !rok {
		return Fail(NewError(KindType, "shift operands must be Int"))
	}
	if ri.Value < 0 || ri.Value > 63 {
		return Fail(NewError(KindBounds, "shift amount %d out of range 0..63", ri.Value))
	}
	if op == ast.OpShl {
		return Ok(value.NewInt(li.Value<<uint(ri.Value), value.Flux))
	}
	return Ok(value.NewInt(li.Value>>uint(ri.Value), value.Flux))
}

func bitwise(op ast.BinaryOp, l, r value.Value) Result {
	li, lok := l.(*value.Int)
	ri, rok := r.(*value.Int)
	if !lok || !rok {
		return Fail(NewError(KindType, "bitwise operators require Int operands"))
	}
	switch op {
	case ast.OpBitAnd:
		return Ok(value.NewInt(li.Value&ri.Value, value.Flux))
	case ast.OpBitOr:
		return Ok(value.NewInt(li.Value|ri.Value, value.Flux))
	default:
		return Ok(value.NewInt(li.Value^ri.Value, value.Flux))
	}
}

// evalLogical implements short-circuiting && / || and the ?? (Nil-coalesce)
// operator (spec §4.4: "left evaluated first").
func (e *Evaluator) evalLogical(n *ast.LogicalExpr) Result {
	left := e.evalExpr(n.Left)
	if !left.IsOk() {
		return left
	}
	switch n.Op {
	case ast.LogAnd:
		if !value.IsTruthy(left.Value()) {
			return left
		}
		return e.evalExpr(n.Right)
	case ast.LogOr:
		if value.IsTruthy(left.Value()) {
			return left
		}
		return e.evalExpr(n.Right)
	default: // LogCoalesce
		if _, isNil := left.Value().(*value.Nil); isNil {
			return e.evalExpr(n.Right)
		}
		return left
	}
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr) Result {
	operand := e.evalExpr(n.Operand)
	if !operand.IsOk() {
		return operand
	}
	switch n.Op {
	case ast.UnaryNot:
		return Ok(value.NewBool(!value.IsTruthy(operand.Value()), value.Flux))
	case ast.UnaryNeg:
		switch x := operand.Value().(type) {
		case *value.Int:
			return Ok(value.NewInt(-x.Value, value.Flux))
		case *value.Float:
			return Ok(value.NewFloat(-x.Value, value.Flux))
		default:
			return Fail(NewError(KindType, "unary - is not defined for %s", x.Kind()))
		}
	}
	return Fail(NewError(KindInternal, "unhandled unary operator"))
}
