package dispatch

import (
	"fmt"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
)

// Overloads is the function table from spec §3.5: per name, the head of a
// chain of overloads distinguished by parameter phase signature.
type Overloads map[string]*ast.FnDecl

// Register chains decl onto any existing overloads for its name (spec §3.4:
// "next-overload link (phase-signature-chained)").
func (o Overloads) Register(decl *ast.FnDecl) {
	if head, ok := o[decl.Name]; ok {
		tail := head
		for tail.Next != nil {
			tail = tail.Next
		}
		tail.Next = decl
		return
	}
	o[decl.Name] = decl
}

// scoreParam reports whether argPhase is compatible with a parameter
// declared with paramPhase, and the match's score contribution (spec §4.7:
// "exact phase matches add 3 per parameter, generic-accepts-specific adds
// 1, weakest forms add 0").
func scoreParam(paramPhase ast.Phase, argPhase value.Phase) (ok bool, score int) {
	switch paramPhase {
	case ast.PhaseUnspecified:
		return true, 1
	case ast.PhaseFlux:
		switch argPhase {
		case value.Flux:
			return true, 3
		case value.Crystal:
			return false, 0
		default: // Sublimated, Unphased: weakest-form match
			return true, 0
		}
	case ast.PhaseCrystal:
		switch argPhase {
		case value.Crystal:
			return true, 3
		case value.Flux:
			return false, 0
		default:
			return true, 0
		}
	}
	return false, 0
}

// arityFits reports whether nargs can satisfy params, accounting for
// defaulted parameters and a trailing variadic parameter.
func arityFits(params []ast.Param, nargs int) bool {
	required, hasVariadic := 0, false
	for _, p := range params {
		if p.Variadic {
			hasVariadic = true
			continue
		}
		if p.Default == nil {
			required++
		}
	}
	if hasVariadic {
		return nargs >= required
	}
	return nargs >= required && nargs <= len(params)
}

// ResolveError reports why Resolve found no usable overload, distinguishing
// an outright arity mismatch from an overload that fit the argument count
// but rejected on parameter phase (spec §7: the latter is a PhaseViolation,
// not an Arity error).
type ResolveError struct {
	Name              string
	NArgs             int
	PhaseIncompatible bool
}

func (e *ResolveError) Error() string {
	if e.PhaseIncompatible {
		return fmt.Sprintf("no overload of %q accepts %d argument(s) with the given phases", e.Name, e.NArgs)
	}
	return fmt.Sprintf("no overload of %q accepts %d argument(s)", e.Name, e.NArgs)
}

// Resolve walks the overload chain headed by head and returns the
// highest-scoring overload compatible with args (spec §4.7). Ties pick the
// first registered (i.e. the earliest in the chain with the winning score).
func Resolve(head *ast.FnDecl, args []value.Value) (*ast.FnDecl, error) {
	var best *ast.FnDecl
	bestScore := -1
	arityMatched := false

	for decl := head; decl != nil; decl = decl.Next {
		if !arityFits(decl.Params, len(args)) {
			continue
		}
		arityMatched = true
		score := 0
		compatible := true
		for i, p := range decl.Params {
			if p.Variadic {
				break
			}
			if i >= len(args) {
				break // covered by a default
			}
			ok, s := scoreParam(p.Phase, args[i].Phase())
			if !ok {
				compatible = false
				break
			}
			score += s
		}
		if !compatible {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = decl
		}
	}

	if best == nil {
		return nil, &ResolveError{Name: head.Name, NArgs: len(args), PhaseIncompatible: arityMatched}
	}
	return best, nil
}
