package phase

import (
	"testing"

	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressuresAllows(t *testing.T) {
	p := NewPressures()
	p.Pressurize("x", NoGrow)

	assert.False(t, p.Allows("x", OpGrow))
	assert.True(t, p.Allows("x", OpShrink))

	p.Pressurize("x", NoResize)
	assert.False(t, p.Allows("x", OpGrow))
	assert.False(t, p.Allows("x", OpShrink))

	p.Depressurize("x")
	assert.True(t, p.Allows("x", OpGrow))
}

func TestPressuresReadHeavyIsAdvisoryOnly(t *testing.T) {
	p := NewPressures()
	p.Pressurize("x", ReadHeavy)
	assert.True(t, p.Allows("x", OpGrow))
	assert.True(t, p.Allows("x", OpShrink))
}

func TestHistoryRecordsOnlyTrackedVars(t *testing.T) {
	h := NewHistory()
	h.Record("untracked", value.NewInt(1, value.Flux))
	assert.Empty(t, h.Phases("untracked"))

	h.Track("x")
	h.Record("x", value.NewInt(1, value.Crystal))
	h.Record("x", value.NewInt(2, value.Flux))

	phases := h.Phases("x")
	require.Len(t, phases, 2)
	assert.Equal(t, value.Crystal, phases[0])
	assert.Equal(t, value.Flux, phases[1])
}

func TestHistorySnapshotsDecodeInOrder(t *testing.T) {
	h := NewHistory()
	h.Track("x")
	h.Record("x", value.NewInt(10, value.Flux))
	h.Record("x", value.NewInt(20, value.Flux))

	snaps := h.Snapshots("x")
	require.Len(t, snaps, 2)
	assert.Equal(t, int64(10), snaps[0].(*value.Int).Value)
	assert.Equal(t, int64(20), snaps[1].(*value.Int).Value)
}

func TestHistoryRewind(t *testing.T) {
	h := NewHistory()
	h.Track("x")
	h.Record("x", value.NewInt(1, value.Flux))
	h.Record("x", value.NewInt(2, value.Flux))
	h.Record("x", value.NewInt(3, value.Flux))

	latest, ok := h.Rewind("x", 0)
	require.True(t, ok)
	assert.Equal(t, int64(3), latest.(*value.Int).Value)

	prior, ok := h.Rewind("x", 1)
	require.True(t, ok)
	assert.Equal(t, int64(2), prior.(*value.Int).Value)

	_, ok = h.Rewind("x", 5)
	assert.False(t, ok, "out-of-range rewind reports false rather than panicking")
}

func TestReactionsCallbacksAccumulateAndClear(t *testing.T) {
	r := NewReactions()
	cb1 := value.NewUnit(value.Flux)
	cb2 := value.NewUnit(value.Flux)

	r.React("x", cb1)
	r.React("x", cb2)
	assert.Len(t, r.Callbacks("x"), 2)

	r.Unreact("x")
	assert.Empty(t, r.Callbacks("x"))
}

func TestSeedsGetReportsAbsence(t *testing.T) {
	s := NewSeeds()
	_, ok := s.Get("x")
	assert.False(t, ok)

	validator := value.NewUnit(value.Flux)
	s.Seed("x", validator)
	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Same(t, validator, got)

	s.Unseed("x")
	_, ok = s.Get("x")
	assert.False(t, ok)
}
