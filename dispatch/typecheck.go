package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lattice-lang/lattice/value"
)

// TypeChecker enforces declared type annotations (spec §4.7 call_fn "type
// annotation enforcement"; §4.4 struct-literal field validation). Scalar
// and Array<T> annotations compile to a cached JSON-Schema validator
// (grounded on core/types/validation.go's Validator.getValidator cache,
// SPEC_FULL.md §10); struct/enum annotations are checked directly against
// the value's Kind/Name since no schema library models a named algebraic
// variant naturally.
type TypeChecker struct {
	mu        sync.Mutex
	cache     map[string]*jsonschema.Schema
	compileErr map[string]error
	known     map[string]bool // registered struct/enum names, for suggestions
}

func NewTypeChecker() *TypeChecker {
	return &TypeChecker{
		cache:      make(map[string]*jsonschema.Schema),
		compileErr: make(map[string]error),
		known:      make(map[string]bool),
	}
}

// RegisterName records a struct/enum/trait name as a known type annotation
// target, for Suggest-backed "unknown type" diagnostics.
func (tc *TypeChecker) RegisterName(name string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.known[name] = true
}

// KnownNames returns every registered struct/enum name plus the built-in
// scalar/container annotation names, for "did you mean" suggestions.
func (tc *TypeChecker) KnownNames() []string {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	names := []string{"Int", "Float", "Bool", "String", "Nil", "Unit", "Array", "Map", "Set", "Tuple", "Buffer", "Range"}
	for n := range tc.known {
		names = append(names, n)
	}
	return names
}

var primitiveSchema = map[string]map[string]interface{}{
	"Int":    {"type": "integer"},
	"Float":  {"type": "number"},
	"Bool":   {"type": "boolean"},
	"String": {"type": "string"},
	"Nil":    {"type": "null"},
	"Unit":   {"type": "null"},
	"Map":    {"type": "object"},
	"Set":    {"type": "array"},
	"Tuple":  {"type": "array"},
	"Buffer": {"type": "array", "items": map[string]interface{}{"type": "integer"}},
	"Range":  {"type": "array", "items": map[string]interface{}{"type": "integer"}, "minItems": 2, "maxItems": 2},
}

// isStructuralKind reports whether ann names a scalar/container annotation
// this checker compiles to a JSON Schema, as opposed to a user struct/enum
// name checked by Kind/Name equality.
func isStructuralKind(ann string) bool {
	if _, ok := primitiveSchema[ann]; ok {
		return true
	}
	return strings.HasPrefix(ann, "Array<") && strings.HasSuffix(ann, ">")
}

func schemaFor(ann string) map[string]interface{} {
	if s, ok := primitiveSchema[ann]; ok {
		return s
	}
	if strings.HasPrefix(ann, "Array<") && strings.HasSuffix(ann, ">") {
		inner := ann[len("Array<") : len(ann)-1]
		return map[string]interface{}{"type": "array", "items": schemaFor(inner)}
	}
	return map[string]interface{}{} // accept-all: struct/enum/unknown, checked separately
}

func (tc *TypeChecker) compile(ann string) (*jsonschema.Schema, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if s, ok := tc.cache[ann]; ok {
		return s, nil
	}
	if err, ok := tc.compileErr[ann]; ok {
		return nil, err
	}
	raw := schemaFor(ann)
	b, err := json.Marshal(raw)
	if err != nil {
		tc.compileErr[ann] = err
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	resource := ann + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(b)); err != nil {
		tc.compileErr[ann] = err
		return nil, err
	}
	schema, err := compiler.Compile(resource)
	if err != nil {
		tc.compileErr[ann] = err
		return nil, err
	}
	tc.cache[ann] = schema
	return schema, nil
}

// Check validates v against the declared annotation ann. An empty
// annotation always passes (unannotated). Struct/enum annotations are
// checked by Kind + Name; everything else compiles to a JSON Schema and
// validates v's JSON projection (value.ToPlain).
func (tc *TypeChecker) Check(ann string, v value.Value) error {
	if ann == "" {
		return nil
	}
	if !isStructuralKind(ann) {
		switch x := v.(type) {
		case *value.Struct:
			if x.Name != ann {
				return fmt.Errorf("expected struct %q, got %q", ann, x.Name)
			}
			return nil
		case *value.Enum:
			if x.EnumName != ann {
				return fmt.Errorf("expected enum %q, got %q", ann, x.EnumName)
			}
			return nil
		default:
			// Unknown scalar annotation naming neither a struct nor an
			// enum: accept silently only if it matches the value's bare
			// kind name (covers Channel/Ref/Closure annotations, which
			// this checker does not model structurally).
			if strings.EqualFold(ann, v.Kind().String()) {
				return nil
			}
			return fmt.Errorf("unknown type annotation %q", ann)
		}
	}
	schema, err := tc.compile(ann)
	if err != nil {
		return fmt.Errorf("type annotation %q failed to compile: %w", ann, err)
	}
	if err := schema.Validate(value.ToPlain(v)); err != nil {
		return fmt.Errorf("value does not satisfy type %q: %w", ann, err)
	}
	return nil
}
