package value

// IsTruthy implements spec §4.1: false for Nil, Unit, Bool false, zero
// Int, zero Float, and empty String/Array/Map/Set; true otherwise.
func IsTruthy(v Value) bool {
	switch x := v.(type) {
	case *Nil, *Unit:
		return false
	case *Bool:
		return x.Value
	case *Int:
		return x.Value != 0
	case *Float:
		return x.Value != 0
	case *String:
		return len(x.Bytes) > 0
	case *Array:
		return len(x.Elements) > 0
	case *Map:
		return len(x.Entries) > 0
	case *Set:
		return len(x.Entries) > 0
	default:
		return true
	}
}
