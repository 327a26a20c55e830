package eval

import (
	"testing"

	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArrayMethodEvaluator(elems ...value.Value) (*Evaluator, *value.Array) {
	e := newTestEvaluator()
	a := value.NewArray(elems, value.Flux)
	return e, a
}

func TestArrayPushAndPop(t *testing.T) {
	e, a := newArrayMethodEvaluator(value.NewInt(1, value.Flux))

	res, handled := e.arrayMethod(a, "push", []value.Value{value.NewInt(2, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsOk())
	assert.Len(t, a.Elements, 2)

	res, handled = e.arrayMethod(a, "pop", nil, "")
	require.True(t, handled)
	require.True(t, res.IsOk())
	assert.Equal(t, int64(2), res.Value().(*value.Int).Value)
	assert.Len(t, a.Elements, 1)
}

func TestArrayPopOnEmptyIsBoundsError(t *testing.T) {
	e, a := newArrayMethodEvaluator()
	res, handled := e.arrayMethod(a, "pop", nil, "")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindBounds, res.Err().Kind)
}

func TestArrayInsertAndRemoveAt(t *testing.T) {
	e, a := newArrayMethodEvaluator(value.NewInt(1, value.Flux), value.NewInt(3, value.Flux))

	res, _ := e.arrayMethod(a, "insert", []value.Value{value.NewInt(1, value.Flux), value.NewInt(2, value.Flux)}, "")
	require.True(t, res.IsOk())
	assert.Equal(t, []int64{1, 2, 3}, intsOf(a.Elements))

	res, _ = e.arrayMethod(a, "remove_at", []value.Value{value.NewInt(1, value.Flux)}, "")
	require.True(t, res.IsOk())
	assert.Equal(t, int64(2), res.Value().(*value.Int).Value)
	assert.Equal(t, []int64{1, 3}, intsOf(a.Elements))
}

func TestArraySetRejectsCrystalReceiver(t *testing.T) {
	e := newTestEvaluator()
	a := value.NewArray([]value.Value{value.NewInt(1, value.Flux)}, value.Crystal)

	res, handled := e.arrayMethod(a, "set", []value.Value{value.NewInt(0, value.Flux), value.NewInt(9, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindPhaseViolation, res.Err().Kind)
}

func TestArrayMapFilterReduce(t *testing.T) {
	e, a := newArrayMethodEvaluator(value.NewInt(1, value.Flux), value.NewInt(2, value.Flux), value.NewInt(3, value.Flux))
	double := value.NewNativeClosure(func(rt *value.Runtime, args []value.Value) value.Value {
		return value.NewInt(args[0].(*value.Int).Value*2, value.Flux)
	}, value.Flux)
	isEven := value.NewNativeClosure(func(rt *value.Runtime, args []value.Value) value.Value {
		return value.NewBool(args[0].(*value.Int).Value%2 == 0, value.Flux)
	}, value.Flux)
	sum := value.NewNativeClosure(func(rt *value.Runtime, args []value.Value) value.Value {
		return value.NewInt(args[0].(*value.Int).Value+args[1].(*value.Int).Value, value.Flux)
	}, value.Flux)

	mapped, _ := e.arrayMethod(a, "map", []value.Value{double}, "")
	require.True(t, mapped.IsOk())
	assert.Equal(t, []int64{2, 4, 6}, intsOf(mapped.Value().(*value.Array).Elements))

	filtered, _ := e.arrayMethod(a, "filter", []value.Value{isEven}, "")
	require.True(t, filtered.IsOk())
	assert.Equal(t, []int64{2}, intsOf(filtered.Value().(*value.Array).Elements))

	reduced, _ := e.arrayMethod(a, "reduce", []value.Value{sum, value.NewInt(0, value.Flux)}, "")
	require.True(t, reduced.IsOk())
	assert.Equal(t, int64(6), reduced.Value().(*value.Int).Value)
}

func TestArraySortPromotesMixedIntFloatToFloat(t *testing.T) {
	e, a := newArrayMethodEvaluator(value.NewInt(3, value.Flux), value.NewFloat(1.5, value.Flux), value.NewInt(2, value.Flux))

	res, handled := e.arrayMethod(a, "sort", nil, "")
	require.True(t, handled)
	require.True(t, res.IsOk())

	for _, el := range a.Elements {
		_, isFloat := el.(*value.Float)
		assert.True(t, isFloat, "every element is promoted to Float once any element is Float")
	}
	assert.Equal(t, 1.5, a.Elements[0].(*value.Float).Value)
	assert.Equal(t, 2.0, a.Elements[1].(*value.Float).Value)
	assert.Equal(t, 3.0, a.Elements[2].(*value.Float).Value)
}

func TestArraySliceOutOfRangeIsBoundsError(t *testing.T) {
	e, a := newArrayMethodEvaluator(value.NewInt(1, value.Flux))
	res, handled := e.arrayMethod(a, "slice", []value.Value{value.NewInt(0, value.Flux), value.NewInt(5, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindBounds, res.Err().Kind)
}

func TestArrayIncludesAndIndexOf(t *testing.T) {
	e, a := newArrayMethodEvaluator(value.NewInt(1, value.Flux), value.NewInt(2, value.Flux))

	res, _ := e.arrayMethod(a, "includes", []value.Value{value.NewInt(2, value.Flux)}, "")
	assert.True(t, res.Value().(*value.Bool).Value)

	res, _ = e.arrayMethod(a, "index_of", []value.Value{value.NewInt(2, value.Flux)}, "")
	assert.Equal(t, int64(1), res.Value().(*value.Int).Value)

	res, _ = e.arrayMethod(a, "index_of", []value.Value{value.NewInt(99, value.Flux)}, "")
	assert.Equal(t, int64(-1), res.Value().(*value.Int).Value)
}

func intsOf(vs []value.Value) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = v.(*value.Int).Value
	}
	return out
}
