// Command latticetest is a tiny driver wiring the evaluator, its builtin
// registry, and a hand-built AST together — not a CLI or REPL (those are
// external collaborators per the core's design), just enough plumbing for
// the end-to-end tests and for exercising the evaluator by hand.
package main

import (
	"fmt"
	"os"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/builtin"
	"github.com/lattice-lang/lattice/eval"
)

// demoProgram builds:
//
//	let nums = [1, 2, 3]
//	let frozen = freeze(nums)
//	print(frozen.map(|x| x * 2))
func demoProgram() *ast.Program {
	numsBind := &ast.BindingStmt{
		Name:  "nums",
		Phase: ast.PhaseUnspecified,
		Value: &ast.ArrayLit{Elements: []ast.Expr{
			&ast.IntLit{Value: 1},
			&ast.IntLit{Value: 2},
			&ast.IntLit{Value: 3},
		}},
	}
	frozenBind := &ast.BindingStmt{
		Name:  "frozen",
		Phase: ast.PhaseUnspecified,
		Value: &ast.PhaseCallExpr{
			Op:     ast.OpFreeze,
			Target: &ast.Identifier{Name: "nums"},
		},
	}
	doubler := &ast.ClosureLit{
		Params: []ast.Param{{Name: "x"}},
		Body: &ast.BlockExpr{Tail: &ast.BinaryExpr{
			Op:    ast.OpMul,
			Left:  &ast.Identifier{Name: "x"},
			Right: &ast.IntLit{Value: 2},
		}},
	}
	printCall := &ast.ExprStmt{X: &ast.CallExpr{
		Callee: &ast.Identifier{Name: "print"},
		Args: []ast.Expr{&ast.MethodCallExpr{
			Receiver: &ast.Identifier{Name: "frozen"},
			Method:   "map",
			Args:     []ast.Expr{doubler},
		}},
	}}

	return &ast.Program{
		Stmts: []ast.Stmt{numsBind, frozenBind, printCall},
	}
}

func main() {
	cfg := eval.DefaultConfig()
	cfg.Builtins = builtin.Reference(os.Stdout)

	e := eval.New(cfg)
	res := e.RunMain(demoProgram())
	if res.IsErr() {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", res.Err().Kind, res.Err().Error())
		os.Exit(1)
	}
}
