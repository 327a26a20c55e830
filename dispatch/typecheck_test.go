package dispatch

import (
	"testing"

	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEmptyAnnotationAlwaysPasses(t *testing.T) {
	tc := NewTypeChecker()
	assert.NoError(t, tc.Check("", value.NewInt(1, value.Flux)))
}

func TestCheckPrimitiveSchemaRejectsMismatch(t *testing.T) {
	tc := NewTypeChecker()
	assert.NoError(t, tc.Check("Int", value.NewInt(1, value.Flux)))
	assert.Error(t, tc.Check("Int", value.NewString("nope", value.Flux)))
}

func TestCheckArrayAnnotationValidatesElements(t *testing.T) {
	tc := NewTypeChecker()
	arr := value.NewArray([]value.Value{value.NewInt(1, value.Flux), value.NewInt(2, value.Flux)}, value.Flux)
	assert.NoError(t, tc.Check("Array<Int>", arr))

	bad := value.NewArray([]value.Value{value.NewString("x", value.Flux)}, value.Flux)
	assert.Error(t, tc.Check("Array<Int>", bad))
}

func TestCheckStructAnnotationMatchesByName(t *testing.T) {
	tc := NewTypeChecker()
	tc.RegisterName("Point")
	st := value.NewStruct("Point", []string{"x"}, []value.Value{value.NewInt(1, value.Flux)}, value.Flux)
	require.NoError(t, tc.Check("Point", st))

	wrongName := value.NewStruct("Other", []string{"x"}, []value.Value{value.NewInt(1, value.Flux)}, value.Flux)
	assert.Error(t, tc.Check("Point", wrongName))
}

func TestCheckCachesCompiledSchema(t *testing.T) {
	tc := NewTypeChecker()
	require.NoError(t, tc.Check("Int", value.NewInt(1, value.Flux)))
	_, cached := tc.cache["Int"]
	assert.True(t, cached)
}
