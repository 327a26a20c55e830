package value

// String is a UTF-8 byte sequence; its backing array is the owned buffer
// tracked by the flux heap (spec §3.1).
type String struct {
	meta
	Bytes []byte
}

func NewString(s string, phase Phase) *String {
	return &String{meta: meta{phase: phase}, Bytes: []byte(s)}
}
func (*String) Kind() Kind      { return KindString }
func (s *String) String() string { return string(s.Bytes) }
func (s *String) Len() int       { return len(s.Bytes) }

// Array is a contiguous, length/capacity-bearing sequence (spec §3.1).
type Array struct {
	meta
	Elements []Value
}

func NewArray(elems []Value, phase Phase) *Array {
	return &Array{meta: meta{phase: phase}, Elements: elems}
}
func (*Array) Kind() Kind { return KindArray }
func (a *Array) Len() int { return len(a.Elements) }

// Map is a string-keyed hash table. PerKeyPhase overrides the
// container-level phase for a given key when non-nil (partial freeze /
// freeze-except, spec §4.6).
type Map struct {
	meta
	Entries    map[string]Value
	PerKeyPhase map[string]Phase
}

func NewMap(phase Phase) *Map {
	return &Map{meta: meta{phase: phase}, Entries: make(map[string]Value)}
}
func (*Map) Kind() Kind { return KindMap }

// EffectivePhase returns the phase that governs mutation of a given key,
// falling back to the map's own phase when no override is recorded.
func (m *Map) EffectivePhase(key string) Phase {
	if m.PerKeyPhase != nil {
		if p, ok := m.PerKeyPhase[key]; ok {
			return p
		}
	}
	return m.phase
}

// Set is a hash table used as a set of boxed values, keyed by a structural
// hash (HashKey, backed by blake2b for composite values — see hash.go).
type Set struct {
	meta
	Entries map[string]Value // hash key -> representative member
}

func NewSet(phase Phase) *Set {
	return &Set{meta: meta{phase: phase}, Entries: make(map[string]Value)}
}
func (*Set) Kind() Kind { return KindSet }

// Tuple is a fixed-length sequence.
type Tuple struct {
	meta
	Elements []Value
}

func NewTuple(elems []Value, phase Phase) *Tuple {
	return &Tuple{meta: meta{phase: phase}, Elements: elems}
}
func (*Tuple) Kind() Kind { return KindTuple }

// Buffer is a raw byte sequence with independent length/capacity.
type Buffer struct {
	meta
	Bytes []byte
}

func NewBuffer(b []byte, phase Phase) *Buffer {
	return &Buffer{meta: meta{phase: phase}, Bytes: b}
}
func (*Buffer) Kind() Kind { return KindBuffer }

// Struct is a named record: parallel field-name/field-value arrays plus
// optional per-field phase overrides (spec §3.1, §4.6 freeze-except).
type Struct struct {
	meta
	Name        string
	FieldNames  []string
	FieldValues []Value
	FieldPhases map[string]Phase
}

func NewStruct(name string, names []string, values []Value, phase Phase) *Struct {
	return &Struct{meta: meta{phase: phase}, Name: name, FieldNames: names, FieldValues: values}
}
func (*Struct) Kind() Kind { return KindStruct }

func (s *Struct) FieldIndex(name string) int {
	for i, n := range s.FieldNames {
		if n == name {
			return i
		}
	}
	return -1
}

func (s *Struct) EffectivePhase(field string) Phase {
	if s.FieldPhases != nil {
		if p, ok := s.FieldPhases[field]; ok {
			return p
		}
	}
	return s.phase
}

// Enum is a tagged variant with a payload sequence.
type Enum struct {
	meta
	EnumName    string
	VariantName string
	Payload     []Value
}

func NewEnum(enumName, variantName string, payload []Value, phase Phase) *Enum {
	return &Enum{meta: meta{phase: phase}, EnumName: enumName, VariantName: variantName, Payload: payload}
}
func (*Enum) Kind() Kind { return KindEnum }
