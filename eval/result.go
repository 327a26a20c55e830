package eval

import "github.com/lattice-lang/lattice/value"

// SignalKind tags the non-error control-flow signals of spec §4.4
// ("EvalResult = Ok(value) | Err(...) | Signal(kind, value)"). Go
// exceptions are never used for these (spec §9 design notes).
type SignalKind int

const (
	SigReturn SignalKind = iota
	SigBreak
	SigContinue
)

// tag discriminates EvalResult's three disjoint cases.
type tag int

const (
	tagValue tag = iota
	tagError
	tagSignal
)

// Result is the evaluator's EvalResult (spec §4.4). Exactly one of the
// three cases is populated, selected by the unexported tag so a caller
// cannot construct an invalid mixed result.
type Result struct {
	t      tag
	value  value.Value
	err    *Error
	sig    SignalKind
	sigVal value.Value
}

// Ok wraps a successful value.
func Ok(v value.Value) Result { return Result{t: tagValue, value: v} }

// Fail wraps an error.
func Fail(err *Error) Result { return Result{t: tagError, err: err} }

// Signal wraps a Return/Break/Continue control-flow signal.
func Signal(kind SignalKind, v value.Value) Result { return Result{t: tagSignal, sig: kind, sigVal: v} }

func (r Result) IsOk() bool     { return r.t == tagValue }
func (r Result) IsErr() bool    { return r.t == tagError }
func (r Result) IsSignal() bool { return r.t == tagSignal }

// Value returns the wrapped value; only meaningful when IsOk.
func (r Result) Value() value.Value { return r.value }

// Err returns the wrapped error; only meaningful when IsErr.
func (r Result) Err() *Error { return r.err }

// SignalKind and SignalValue are only meaningful when IsSignal.
func (r Result) SignalKind() SignalKind  { return r.sig }
func (r Result) SignalValue() value.Value { return r.sigVal }
