package value

// Eq is structural equality: it recurses into containers, treats Nil as
// equal only to Nil, and considers unrelated types unequal (spec §4.1).
func Eq(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Int:
		return x.Value == b.(*Int).Value
	case *Float:
		return x.Value == b.(*Float).Value
	case *Bool:
		return x.Value == b.(*Bool).Value
	case *Nil:
		return true
	case *Unit:
		return true
	case *Range:
		y := b.(*Range)
		return x.Start == y.Start && x.End == y.End
	case *String:
		return string(x.Bytes) == string(b.(*String).Bytes)
	case *Buffer:
		y := b.(*Buffer)
		if len(x.Bytes) != len(y.Bytes) {
			return false
		}
		for i := range x.Bytes {
			if x.Bytes[i] != y.Bytes[i] {
				return false
			}
		}
		return true
	case *Array:
		y := b.(*Array)
		if len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Eq(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		y := b.(*Tuple)
		if len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Eq(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *Map:
		y := b.(*Map)
		if len(x.Entries) != len(y.Entries) {
			return false
		}
		for k, v := range x.Entries {
			ov, ok := y.Entries[k]
			if !ok || !Eq(v, ov) {
				return false
			}
		}
		return true
	case *Set:
		y := b.(*Set)
		if len(x.Entries) != len(y.Entries) {
			return false
		}
		for k := range x.Entries {
			if _, ok := y.Entries[k]; !ok {
				return false
			}
		}
		return true
	case *Struct:
		y := b.(*Struct)
		if x.Name != y.Name || len(x.FieldValues) != len(y.FieldValues) {
			return false
		}
		for i, name := range x.FieldNames {
			idx := y.FieldIndex(name)
			if idx < 0 || !Eq(x.FieldValues[i], y.FieldValues[idx]) {
				return false
			}
		}
		return true
	case *Enum:
		y := b.(*Enum)
		if x.EnumName != y.EnumName || x.VariantName != y.VariantName || len(x.Payload) != len(y.Payload) {
			return false
		}
		for i := range x.Payload {
			if !Eq(x.Payload[i], y.Payload[i]) {
				return false
			}
		}
		return true
	case *Channel:
		return x.Cell == b.(*Channel).Cell
	case *Ref:
		return x.Cell == b.(*Ref).Cell
	case *Closure:
		return x == b.(*Closure)
	default:
		return false
	}
}
