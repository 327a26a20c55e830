package eval

import (
	"testing"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalFieldReadsStructField(t *testing.T) {
	e := newTestEvaluator()
	st := value.NewStruct("Point", []string{"x", "y"}, []value.Value{value.NewInt(1, value.Flux), value.NewInt(2, value.Flux)}, value.Flux)
	e.Env.Define("p", st)

	res := e.evalField(&ast.FieldExpr{Receiver: &ast.Identifier{Name: "p"}, Field: "y"})
	require.True(t, res.IsOk())
	assert.Equal(t, int64(2), res.Value().(*value.Int).Value)
}

func TestEvalFieldUnknownFieldReportsError(t *testing.T) {
	e := newTestEvaluator()
	st := value.NewStruct("Point", []string{"x"}, []value.Value{value.NewInt(1, value.Flux)}, value.Flux)
	e.Env.Define("p", st)

	res := e.evalField(&ast.FieldExpr{Receiver: &ast.Identifier{Name: "p"}, Field: "z"})
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}

func TestEvalFieldOptionalChainingShortCircuitsOnNil(t *testing.T) {
	e := newTestEvaluator()
	e.Env.Define("p", value.NewNil(value.Flux))

	res := e.evalField(&ast.FieldExpr{Receiver: &ast.Identifier{Name: "p"}, Field: "y", Optional: true})
	require.True(t, res.IsOk())
	_, isNil := res.Value().(*value.Nil)
	assert.True(t, isNil)
}

func TestEvalFieldOnNonStructIsTypeError(t *testing.T) {
	e := newTestEvaluator()
	e.Env.Define("n", value.NewInt(1, value.Flux))
	res := e.evalField(&ast.FieldExpr{Receiver: &ast.Identifier{Name: "n"}, Field: "y"})
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}

func TestIndexIntoArray(t *testing.T) {
	a := value.NewArray([]value.Value{value.NewInt(10, value.Flux), value.NewInt(20, value.Flux)}, value.Flux)
	res := indexInto(a, value.NewInt(1, value.Flux))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(20), res.Value().(*value.Int).Value)
}

func TestIndexIntoArrayOutOfRangeIsBoundsError(t *testing.T) {
	a := value.NewArray([]value.Value{value.NewInt(10, value.Flux)}, value.Flux)
	res := indexInto(a, value.NewInt(5, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindBounds, res.Err().Kind)
}

func TestIndexIntoMapReturnsNilForMissingKey(t *testing.T) {
	m := value.NewMap(value.Flux)
	m.Entries["a"] = value.NewInt(1, value.Flux)
	res := indexInto(m, value.NewString("missing", value.Flux))
	require.True(t, res.IsOk())
	_, isNil := res.Value().(*value.Nil)
	assert.True(t, isNil)
}

func TestIndexIntoStringReturnsSingleCharacterString(t *testing.T) {
	s := value.NewString("hi", value.Flux)
	res := indexInto(s, value.NewInt(1, value.Flux))
	require.True(t, res.IsOk())
	assert.Equal(t, "i", res.Value().(*value.String).String())
}

func TestIndexIntoBuffer(t *testing.T) {
	b := value.NewBuffer([]byte{9, 8}, value.Flux)
	res := indexInto(b, value.NewInt(0, value.Flux))
	require.True(t, res.IsOk())
	assert.Equal(t, int64(9), res.Value().(*value.Int).Value)
}

func TestIndexIntoUnsupportedKindIsTypeError(t *testing.T) {
	res := indexInto(value.NewBool(true, value.Flux), value.NewInt(0, value.Flux))
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}
