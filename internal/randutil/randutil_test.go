package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()

	a, b := New(42), New(42)
	for range 100 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestSeed(t *testing.T) {
	t.Parallel()

	seed := int64(7)
	got, explicit := Seed(&seed)
	assert.Equal(t, int64(7), got)
	assert.True(t, explicit)

	_, explicit = Seed(nil)
	assert.False(t, explicit)
}

func TestDeriveSpreadsWorkers(t *testing.T) {
	t.Parallel()

	seen := make(map[int64]bool)
	for i := range 64 {
		s := Derive(100, i)
		assert.False(t, seen[s], "worker %d repeated a seed", i)
		seen[s] = true
	}
	assert.Equal(t, Derive(5, 3), Derive(5, 3))
}
