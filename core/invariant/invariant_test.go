package invariant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreconditionPassesSilentlyWhenTrue(t *testing.T) {
	assert.NotPanics(t, func() { Precondition(true, "unused") })
}

func TestPreconditionPanicsWhenFalse(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		msg, ok := r.(string)
		if !ok || !assert.Contains(t, msg, "PRECONDITION VIOLATION: bad arg: 5") {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	Precondition(false, "bad arg: %d", 5)
}

func TestPostconditionPanicsWhenFalse(t *testing.T) {
	assert.Panics(t, func() { Postcondition(false, "result invalid") })
}

func TestInvariantPanicsWhenFalse(t *testing.T) {
	assert.Panics(t, func() { Invariant(false, "heap corrupted") })
}

func TestNotNilPanicsOnNilPointer(t *testing.T) {
	var p *int
	assert.Panics(t, func() { NotNil(p, "p") })
}

func TestNotNilPassesOnNonNilPointer(t *testing.T) {
	n := 1
	assert.NotPanics(t, func() { NotNil(&n, "n") })
}

func TestInRangeRejectsOutOfBounds(t *testing.T) {
	assert.Panics(t, func() { InRange(10, 0, 5, "n") })
	assert.NotPanics(t, func() { InRange(3, 0, 5, "n") })
}

func TestPositiveRejectsZeroAndNegative(t *testing.T) {
	assert.Panics(t, func() { Positive(0, "n") })
	assert.Panics(t, func() { Positive(-1, "n") })
	assert.NotPanics(t, func() { Positive(1, "n") })
}

func TestExpectNoErrorPanicsOnError(t *testing.T) {
	assert.Panics(t, func() { ExpectNoError(errors.New("boom"), "re-decode") })
	assert.NotPanics(t, func() { ExpectNoError(nil, "re-decode") })
}
