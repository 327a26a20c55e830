package eval

import "github.com/lattice-lang/lattice/dispatch"

// undefinedName builds a KindUndefinedName error with a "did you mean"
// suggestion drawn from every name currently visible (spec §4.4: "Identifier
// miss emits an error with a similar-name suggestion").
func (e *Evaluator) undefinedName(name string) *Error {
	err := NewError(KindUndefinedName, "undefined name %q", name)
	if s := dispatch.Suggest(name, e.knownNames()); s != "" {
		err.WithSuggestion(s)
	}
	return err
}

// unknownMethod builds a KindType error for an unrecognized method call on
// a value of the given kind, suggesting the closest known method name
// (spec §4.7: "Unknown method yields an error with a similar-method
// suggestion from an edit-distance index").
func unknownMethod(kindName, method string, known []string) *Error {
	err := NewError(KindType, "%s has no method %q", kindName, method)
	if s := dispatch.Suggest(method, known); s != "" {
		err.WithSuggestion(s)
	}
	return err
}

func unknownField(typeName, field string, known []string) *Error {
	err := NewError(KindType, "%s has no field %q", typeName, field)
	if s := dispatch.Suggest(field, known); s != "" {
		err.WithSuggestion(s)
	}
	return err
}

func unknownVariant(enumName, variant string, known []string) *Error {
	err := NewError(KindType, "enum %s has no variant %q", enumName, variant)
	if s := dispatch.Suggest(variant, known); s != "" {
		err.WithSuggestion(s)
	}
	return err
}

func unknownType(ann string, known []string) *Error {
	err := NewError(KindType, "unknown type annotation %q", ann)
	if s := dispatch.Suggest(ann, known); s != "" {
		err.WithSuggestion(s)
	}
	return err
}
