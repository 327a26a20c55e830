package eval

import (
	"testing"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAddHasRemove(t *testing.T) {
	e := newTestEvaluator()
	s := value.NewSet(value.Flux)

	res, handled := e.setMethod(s, "add", []value.Value{value.NewInt(1, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsOk())

	res, _ = e.setMethod(s, "has", []value.Value{value.NewInt(1, value.Flux)}, "")
	assert.True(t, res.Value().(*value.Bool).Value)

	res, _ = e.setMethod(s, "remove", []value.Value{value.NewInt(1, value.Flux)}, "")
	require.True(t, res.IsOk())
	assert.True(t, res.Value().(*value.Bool).Value, "remove reports whether the key existed")

	res, _ = e.setMethod(s, "has", []value.Value{value.NewInt(1, value.Flux)}, "")
	assert.False(t, res.Value().(*value.Bool).Value)
}

func TestSetRemoveReportsFalseWhenAbsent(t *testing.T) {
	e := newTestEvaluator()
	s := value.NewSet(value.Flux)
	res, _ := e.setMethod(s, "remove", []value.Value{value.NewInt(1, value.Flux)}, "")
	require.True(t, res.IsOk())
	assert.False(t, res.Value().(*value.Bool).Value)
}

func TestSetAddRejectsPressurizedNoGrow(t *testing.T) {
	e := newTestEvaluator()
	s := value.NewSet(value.Flux)
	e.Env.Define("s", s)
	e.evalCall(callExpr("pressurize", &ast.Identifier{Name: "s"}, strLit("no_grow")))

	res, handled := e.setMethod(s, "add", []value.Value{value.NewInt(1, value.Flux)}, "s")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindPressureViolation, res.Err().Kind)
}

func newIntSet(vals ...int64) *value.Set {
	s := value.NewSet(value.Flux)
	for _, v := range vals {
		iv := value.NewInt(v, value.Flux)
		s.Entries[value.HashKey(iv)] = iv
	}
	return s
}

func TestSetUnionIntersectionDifference(t *testing.T) {
	e := newTestEvaluator()
	a := newIntSet(1, 2, 3)
	b := newIntSet(2, 3, 4)

	res, _ := e.setMethod(a, "union", []value.Value{b}, "")
	require.True(t, res.IsOk())
	assert.Len(t, res.Value().(*value.Set).Entries, 4)

	res, _ = e.setMethod(a, "intersection", []value.Value{b}, "")
	require.True(t, res.IsOk())
	assert.Len(t, res.Value().(*value.Set).Entries, 2)

	res, _ = e.setMethod(a, "difference", []value.Value{b}, "")
	require.True(t, res.IsOk())
	assert.Len(t, res.Value().(*value.Set).Entries, 1)
	for _, v := range res.Value().(*value.Set).Entries {
		assert.Equal(t, int64(1), v.(*value.Int).Value)
	}
}

func TestSetIsSubsetAndIsSuperset(t *testing.T) {
	e := newTestEvaluator()
	small := newIntSet(1, 2)
	big := newIntSet(1, 2, 3)

	res, _ := e.setMethod(small, "is_subset", []value.Value{big}, "")
	assert.True(t, res.Value().(*value.Bool).Value)

	res, _ = e.setMethod(big, "is_subset", []value.Value{small}, "")
	assert.False(t, res.Value().(*value.Bool).Value)

	res, _ = e.setMethod(big, "is_superset", []value.Value{small}, "")
	assert.True(t, res.Value().(*value.Bool).Value)
}

func TestSetLenIsEmptyAndToArray(t *testing.T) {
	e := newTestEvaluator()
	s := newIntSet(1, 2, 3)

	res, _ := e.setMethod(s, "len", nil, "")
	assert.Equal(t, int64(3), res.Value().(*value.Int).Value)

	res, _ = e.setMethod(s, "is_empty", nil, "")
	assert.False(t, res.Value().(*value.Bool).Value)

	res, _ = e.setMethod(s, "to_array", nil, "")
	require.True(t, res.IsOk())
	assert.Len(t, res.Value().(*value.Array).Elements, 3)
}

func TestSetUnionRejectsNonSetArgument(t *testing.T) {
	e := newTestEvaluator()
	s := newIntSet(1)
	res, handled := e.setMethod(s, "union", []value.Value{value.NewInt(1, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindType, res.Err().Kind)
}
