// Package eval implements the expression and statement evaluator (spec
// §4.4/§4.5) and the Evaluator state it walks against (spec §3.5): the
// declaration tables, GC-roots stack, defer stack, saved-environment list,
// and wiring for the phase/dispatch/concurrent/heap/module packages.
package eval

import (
	"fmt"
	"strings"

	"github.com/lattice-lang/lattice/ast"
)

// Kind is the error-kind taxonomy of spec §7, by semantic category.
type Kind int

const (
	KindArity Kind = iota
	KindType
	KindPhaseViolation
	KindContractViolation
	KindBounds
	KindDivisionByZero
	KindUndefinedName
	KindPressureViolation
	KindChannelClosed
	KindConcurrencyMisuse
	KindIO
	KindParse
	KindInternal
	KindPanic // spec §9 open question: panic is its own kind, not catchable by try/catch
)

func (k Kind) String() string {
	names := [...]string{
		"Arity", "Type", "PhaseViolation", "ContractViolation", "Bounds",
		"DivisionByZero", "UndefinedName", "PressureViolation",
		"ChannelClosed", "ConcurrencyMisuse", "IO", "Parse", "Internal", "Panic",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Frame is one call-frame trace entry (spec §7: "Each call_fn/closure
// entry pushes a trace frame; any error percolating out of that frame is
// decorated once... with a stack trace").
type Frame struct {
	FuncName string
	Pos      ast.Position
}

// Error is the evaluator's typed failure value.
type Error struct {
	Kind       Kind
	Message    string
	Suggestion string // "did you mean X" target, empty if none
	Trace      []Frame
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %q?)", msg, e.Suggestion)
	}
	if len(e.Trace) > 0 {
		names := make([]string, len(e.Trace))
		for i, f := range e.Trace {
			names[i] = f.FuncName
		}
		msg = fmt.Sprintf("%s\n  trace: %s", msg, strings.Join(names, " -> "))
	}
	return msg
}

// NewError builds an undecorated error of the given kind.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithSuggestion attaches a "did you mean" hint and returns the receiver,
// for fluent construction at call sites.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// pushFrame attaches frame to e's trace as it bubbles out of a call
// boundary (spec §7: "Each call_fn/closure entry pushes a trace frame; any
// error percolating out of that frame is decorated... with a stack
// trace").
func (e *Error) pushFrame(f Frame) {
	e.Trace = append(e.Trace, f)
}
