package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkArrayVisitsEachElement(t *testing.T) {
	a := NewArray([]Value{NewInt(1, Flux), NewInt(2, Flux)}, Flux)
	var seen []int64
	Walk(a, func(v Value) { seen = append(seen, v.(*Int).Value) })
	assert.Equal(t, []int64{1, 2}, seen)
}

func TestWalkStructVisitsFieldValues(t *testing.T) {
	st := NewStruct("P", []string{"x", "y"}, []Value{NewInt(1, Flux), NewInt(2, Flux)}, Flux)
	count := 0
	Walk(st, func(v Value) { count++ })
	assert.Equal(t, 2, count)
}

func TestWalkRefVisitsInnerValue(t *testing.T) {
	r := NewRef(NewInt(5, Flux), Flux)
	var got Value
	Walk(r, func(v Value) { got = v })
	assert.Equal(t, int64(5), got.(*Int).Value)
}

func TestWalkScalarVisitsNothing(t *testing.T) {
	count := 0
	Walk(NewInt(1, Flux), func(v Value) { count++ })
	assert.Equal(t, 0, count)
}

func TestWalkSetVisitsEachEntry(t *testing.T) {
	s := NewSet(Flux)
	s.Entries[HashKey(NewInt(1, Flux))] = NewInt(1, Flux)
	s.Entries[HashKey(NewInt(2, Flux))] = NewInt(2, Flux)
	count := 0
	Walk(s, func(v Value) { count++ })
	assert.Equal(t, 2, count)
}
