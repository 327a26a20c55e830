// Package builtin implements the native ABI bridge of spec §6: the
// "extension" calling convention (a sentinel-prefixed error string) and a
// handful of reference leaf builtins sufficient to exercise the evaluator
// end to end — print, len, type_of, panic. The full leaf library (HTTP,
// regex, TLS, codecs, file/process/datetime) is an external collaborator
// per spec §1 and is not reimplemented here.
package builtin

import (
	"fmt"
	"io"

	"github.com/lattice-lang/lattice/value"
)

// Registry is a name -> NativeFn table, handed to the evaluator at
// construction (spec §6 Config: "a list of built-in leaf functions
// registered by name").
type Registry map[string]value.NativeFn

// EvalError builds the sentinel string the extension calling convention
// recognizes (spec §6: "EVAL_ERROR:" prefix).
func EvalError(format string, args ...interface{}) value.Value {
	return value.NewString(value.EvalErrorPrefix+fmt.Sprintf(format, args...), value.Flux)
}

// Reference builds the small set of leaf builtins this module ships to
// exercise the evaluator end to end. out is where print writes (os.Stdout
// in a real driver, a buffer in tests).
func Reference(out io.Writer) Registry {
	return Registry{
		"print": func(rt *value.Runtime, args []value.Value) value.Value {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = stringify(a)
			}
			for i, p := range parts {
				if i > 0 {
					fmt.Fprint(out, " ")
				}
				fmt.Fprint(out, p)
			}
			fmt.Fprintln(out)
			return value.NewUnit(value.Flux)
		},
		"len": func(rt *value.Runtime, args []value.Value) value.Value {
			if len(args) != 1 {
				return EvalError("len expects 1 argument, got %d", len(args))
			}
			n, ok := lengthOf(args[0])
			if !ok {
				return EvalError("len is not defined for %s", args[0].Kind())
			}
			return value.NewInt(int64(n), value.Flux)
		},
		"type_of": func(rt *value.Runtime, args []value.Value) value.Value {
			if len(args) != 1 {
				return EvalError("type_of expects 1 argument, got %d", len(args))
			}
			return value.NewString(args[0].Kind().String(), value.Flux)
		},
		"panic": func(rt *value.Runtime, args []value.Value) value.Value {
			msg := "panic"
			if len(args) > 0 {
				msg = stringify(args[0])
			}
			rt.Err = fmt.Errorf("PANIC:%s", msg)
			return value.NewNil(value.Flux)
		},
	}
}

func lengthOf(v value.Value) (int, bool) {
	switch x := v.(type) {
	case *value.String:
		return x.Len(), true
	case *value.Array:
		return x.Len(), true
	case *value.Tuple:
		return len(x.Elements), true
	case *value.Map:
		return len(x.Entries), true
	case *value.Set:
		return len(x.Entries), true
	case *value.Buffer:
		return len(x.Bytes), true
	default:
		return 0, false
	}
}

// stringify renders v for print/string-interpolation; the canonical
// to_string semantics live beside the String method catalogue in package
// eval, which calls this for non-String leaves via the same rules.
func stringify(v value.Value) string {
	switch x := v.(type) {
	case *value.String:
		return string(x.Bytes)
	case *value.Int:
		return fmt.Sprintf("%d", x.Value)
	case *value.Float:
		return fmt.Sprintf("%g", x.Value)
	case *value.Bool:
		return fmt.Sprintf("%t", x.Value)
	case *value.Nil:
		return "nil"
	case *value.Unit:
		return "unit"
	default:
		return fmt.Sprintf("%v", value.ToPlain(v))
	}
}

// Stringify is the exported form package eval uses for string
// interpolation and to_string (spec §4.4 "String interpolation").
func Stringify(v value.Value) string { return stringify(v) }
