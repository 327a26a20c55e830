package eval

import (
	"testing"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalAssignIdentUpdatesExistingBinding(t *testing.T) {
	e := newTestEvaluator()
	e.Env.Define("x", value.NewInt(1, value.Flux))

	res := e.evalAssign(&ast.AssignStmt{Target: ast.AssignIdent, Ident: "x", Value: &ast.IntLit{Value: 9}})
	require.True(t, res.IsOk())

	v, _ := e.Env.Get("x")
	assert.Equal(t, int64(9), v.(*value.Int).Value)
}

func TestEvalAssignIdentUndefinedNameErrors(t *testing.T) {
	e := newTestEvaluator()
	res := e.evalAssign(&ast.AssignStmt{Target: ast.AssignIdent, Ident: "nope", Value: &ast.IntLit{Value: 1}})
	require.True(t, res.IsErr())
	assert.Equal(t, KindUndefinedName, res.Err().Kind)
}

func TestAssignFieldUpdatesFluxStructField(t *testing.T) {
	e := newTestEvaluator()
	st := value.NewStruct("P", []string{"x"}, []value.Value{value.NewInt(1, value.Flux)}, value.Flux)

	res := e.assignField(st, "x", value.NewInt(5, value.Flux))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(5), st.FieldValues[0].(*value.Int).Value)
}

func TestAssignFieldRejectsCrystalField(t *testing.T) {
	e := newTestEvaluator()
	st := value.NewStruct("P", []string{"x"}, []value.Value{value.NewInt(1, value.Flux)}, value.Flux)
	st.FieldPhases = map[string]value.Phase{"x": value.Crystal}

	res := e.assignField(st, "x", value.NewInt(5, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindPhaseViolation, res.Err().Kind)
}

func TestAssignFieldUnknownFieldErrors(t *testing.T) {
	e := newTestEvaluator()
	st := value.NewStruct("P", []string{"x"}, []value.Value{value.NewInt(1, value.Flux)}, value.Flux)

	res := e.assignField(st, "y", value.NewInt(5, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}

func TestAssignFieldOnNonStructIsTypeError(t *testing.T) {
	e := newTestEvaluator()
	res := e.assignField(value.NewInt(1, value.Flux), "x", value.NewInt(5, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}

func TestAssignIndexArrayInRange(t *testing.T) {
	e := newTestEvaluator()
	arr := value.NewArray([]value.Value{value.NewInt(1, value.Flux), value.NewInt(2, value.Flux)}, value.Flux)

	res := e.assignIndex(arr, value.NewInt(1, value.Flux), value.NewInt(99, value.Flux))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(99), arr.Elements[1].(*value.Int).Value)
}

func TestAssignIndexArrayOutOfRangeIsBoundsError(t *testing.T) {
	e := newTestEvaluator()
	arr := value.NewArray([]value.Value{value.NewInt(1, value.Flux)}, value.Flux)

	res := e.assignIndex(arr, value.NewInt(5, value.Flux), value.NewInt(99, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindBounds, res.Err().Kind)
}

func TestAssignIndexCrystalArrayIsPhaseViolation(t *testing.T) {
	e := newTestEvaluator()
	arr := value.NewArray([]value.Value{value.NewInt(1, value.Flux)}, value.Crystal)

	res := e.assignIndex(arr, value.NewInt(0, value.Flux), value.NewInt(99, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindPhaseViolation, res.Err().Kind)
}

func TestAssignIndexMapSetsEntry(t *testing.T) {
	e := newTestEvaluator()
	m := value.NewMap(value.Flux)

	res := e.assignIndex(m, value.NewString("a", value.Flux), value.NewInt(7, value.Flux))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(7), m.Entries["a"].(*value.Int).Value)
}

func TestAssignIndexMapRejectsNonStringKey(t *testing.T) {
	e := newTestEvaluator()
	m := value.NewMap(value.Flux)

	res := e.assignIndex(m, value.NewInt(1, value.Flux), value.NewInt(7, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}

func TestAssignIndexBufferInRange(t *testing.T) {
	e := newTestEvaluator()
	buf := value.NewBuffer([]byte{0, 0}, value.Flux)

	res := e.assignIndex(buf, value.NewInt(1, value.Flux), value.NewInt(42, value.Flux))
	require.True(t, res.IsOk())
	assert.Equal(t, byte(42), buf.Bytes[1])
}

func TestAssignIndexBufferRejectsOutOfByteRange(t *testing.T) {
	e := newTestEvaluator()
	buf := value.NewBuffer([]byte{0}, value.Flux)

	res := e.assignIndex(buf, value.NewInt(0, value.Flux), value.NewInt(256, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}

func TestAssignIndexUnsupportedKindIsTypeError(t *testing.T) {
	e := newTestEvaluator()
	res := e.assignIndex(value.NewInt(1, value.Flux), value.NewInt(0, value.Flux), value.NewInt(1, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}
