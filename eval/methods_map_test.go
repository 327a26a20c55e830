package eval

import (
	"testing"

	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapGetSetHasRemove(t *testing.T) {
	e := newTestEvaluator()
	m := value.NewMap(value.Flux)

	res, _ := e.mapMethod(m, "set", []value.Value{value.NewString("a", value.Flux), value.NewInt(1, value.Flux)}, "")
	require.True(t, res.IsOk())

	res, _ = e.mapMethod(m, "has", []value.Value{value.NewString("a", value.Flux)}, "")
	assert.True(t, res.Value().(*value.Bool).Value)

	res, _ = e.mapMethod(m, "get", []value.Value{value.NewString("a", value.Flux)}, "")
	assert.Equal(t, int64(1), res.Value().(*value.Int).Value)

	res, _ = e.mapMethod(m, "remove", []value.Value{value.NewString("a", value.Flux)}, "")
	require.True(t, res.IsOk())
	assert.Equal(t, int64(1), res.Value().(*value.Int).Value)

	res, _ = e.mapMethod(m, "has", []value.Value{value.NewString("a", value.Flux)}, "")
	assert.False(t, res.Value().(*value.Bool).Value)
}

func TestMapSetRejectsPerKeyCrystalOverride(t *testing.T) {
	e := newTestEvaluator()
	m := value.NewMap(value.Flux)
	m.Entries["a"] = value.NewInt(1, value.Flux)
	m.PerKeyPhase = map[string]value.Phase{"a": value.Crystal}

	res, handled := e.mapMethod(m, "set", []value.Value{value.NewString("a", value.Flux), value.NewInt(2, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindPhaseViolation, res.Err().Kind)
}

func TestMapMergeOverwritesOnConflict(t *testing.T) {
	e := newTestEvaluator()
	m := value.NewMap(value.Flux)
	m.Entries["a"] = value.NewInt(1, value.Flux)
	other := value.NewMap(value.Flux)
	other.Entries["a"] = value.NewInt(2, value.Flux)
	other.Entries["b"] = value.NewInt(3, value.Flux)

	res, _ := e.mapMethod(m, "merge", []value.Value{other}, "")
	require.True(t, res.IsOk())
	assert.Equal(t, int64(2), m.Entries["a"].(*value.Int).Value)
	assert.Equal(t, int64(3), m.Entries["b"].(*value.Int).Value)
}

func TestMapKeysValuesEntriesLen(t *testing.T) {
	e := newTestEvaluator()
	m := value.NewMap(value.Flux)
	m.Entries["a"] = value.NewInt(1, value.Flux)
	m.Entries["b"] = value.NewInt(2, value.Flux)

	res, _ := e.mapMethod(m, "len", nil, "")
	assert.Equal(t, int64(2), res.Value().(*value.Int).Value)

	res, _ = e.mapMethod(m, "keys", nil, "")
	assert.Len(t, res.Value().(*value.Array).Elements, 2)

	res, _ = e.mapMethod(m, "entries", nil, "")
	entries := res.Value().(*value.Array).Elements
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Len(t, entry.(*value.Tuple).Elements, 2)
	}
}

func TestMapFilterAndMapTransform(t *testing.T) {
	e := newTestEvaluator()
	m := value.NewMap(value.Flux)
	m.Entries["a"] = value.NewInt(1, value.Flux)
	m.Entries["b"] = value.NewInt(2, value.Flux)

	keepEven := value.NewNativeClosure(func(rt *value.Runtime, args []value.Value) value.Value {
		return value.NewBool(args[1].(*value.Int).Value%2 == 0, value.Flux)
	}, value.Flux)
	filtered, _ := e.mapMethod(m, "filter", []value.Value{keepEven}, "")
	require.True(t, filtered.IsOk())
	assert.Len(t, filtered.Value().(*value.Map).Entries, 1)

	double := value.NewNativeClosure(func(rt *value.Runtime, args []value.Value) value.Value {
		return value.NewInt(args[1].(*value.Int).Value*2, value.Flux)
	}, value.Flux)
	mapped, _ := e.mapMethod(m, "map", []value.Value{double}, "")
	require.True(t, mapped.IsOk())
	assert.Equal(t, int64(2), mapped.Value().(*value.Map).Entries["a"].(*value.Int).Value)
}
