package value

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// HashKey computes the Set-membership key for v (spec §4.8 Set.add/has/...).
// Scalars hash to a short, readable tag; composite values are folded
// through blake2b-256 so the key stays fixed-size regardless of nesting
// depth — the same technique the teacher repo uses for deterministic
// content IDs (grounded on runtime/scrubber and core/planfmt's blake2b
// fingerprints, see SPEC_FULL.md §10).
func HashKey(v Value) string {
	switch x := v.(type) {
	case *Int:
		return fmt.Sprintf("i:%d", x.Value)
	case *Float:
		return fmt.Sprintf("f:%g", x.Value)
	case *Bool:
		return fmt.Sprintf("b:%t", x.Value)
	case *Nil:
		return "nil"
	case *Unit:
		return "unit"
	case *String:
		return fmt.Sprintf("s:%s", string(x.Bytes))
	case *Range:
		return fmt.Sprintf("r:%d:%d", x.Start, x.End)
	default:
		return foldHash(v)
	}
}

func foldHash(v Value) string {
	h, _ := blake2b.New256(nil)
	writeCanonical(h, v)
	return "h:" + fmt.Sprintf("%x", h.Sum(nil))
}

type byteWriter interface {
	Write(p []byte) (int, error)
}

func writeCanonical(w byteWriter, v Value) {
	switch x := v.(type) {
	case *Array:
		fmt.Fprintf(w, "A(%d)[", len(x.Elements))
		for _, e := range x.Elements {
			w.Write([]byte(HashKey(e)))
			w.Write([]byte(","))
		}
		w.Write([]byte("]"))
	case *Tuple:
		fmt.Fprintf(w, "T(%d)[", len(x.Elements))
		for _, e := range x.Elements {
			w.Write([]byte(HashKey(e)))
			w.Write([]byte(","))
		}
		w.Write([]byte("]"))
	case *Buffer:
		fmt.Fprintf(w, "B:%x", x.Bytes)
	case *Map:
		keys := make([]string, 0, len(x.Entries))
		for k := range x.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w.Write([]byte("M{"))
		for _, k := range keys {
			fmt.Fprintf(w, "%s=%s,", k, HashKey(x.Entries[k]))
		}
		w.Write([]byte("}"))
	case *Set:
		keys := make([]string, 0, len(x.Entries))
		for k := range x.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w.Write([]byte("S{"))
		w.Write([]byte(strings.Join(keys, ",")))
		w.Write([]byte("}"))
	case *Struct:
		fmt.Fprintf(w, "St:%s{", x.Name)
		for i, name := range x.FieldNames {
			fmt.Fprintf(w, "%s=%s,", name, HashKey(x.FieldValues[i]))
		}
		w.Write([]byte("}"))
	case *Enum:
		fmt.Fprintf(w, "E:%s::%s[", x.EnumName, x.VariantName)
		for _, p := range x.Payload {
			w.Write([]byte(HashKey(p)))
			w.Write([]byte(","))
		}
		w.Write([]byte("]"))
	default:
		fmt.Fprintf(w, "ref:%p", v)
	}
}
