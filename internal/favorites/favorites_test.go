package favorites

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleAddsAndRemoves(t *testing.T) {
	s, out := Toggle(Set{}, 3)
	assert.Equal(t, Added, out)
	assert.True(t, s.Contains(3))

	s, out = Toggle(s, 3)
	assert.Equal(t, Removed, out)
	assert.False(t, s.Contains(3))
	assert.Equal(t, 0, s.Len())
}

func TestToggleIsInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		var ids []int
		for j := 0; j < rng.Intn(8); j++ {
			ids = append(ids, rng.Intn(10))
		}
		s := Of(ids...)
		id := rng.Intn(12)

		once, _ := Toggle(s, id)
		twice, _ := Toggle(once, id)
		assert.True(t, s.Equal(twice), "set %v id %d", s.IDs(), id)
	}
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	s := Of(1, 2)
	added, _ := Toggle(s, 3)
	removed, _ := Toggle(s, 1)

	assert.Equal(t, []int{1, 2}, s.IDs())
	assert.Equal(t, []int{1, 2, 3}, added.IDs())
	assert.Equal(t, []int{2}, removed.IDs())
}

func TestAnyIDCanBeFavorited(t *testing.T) {
	s, out := Toggle(Set{}, -7)
	assert.Equal(t, Added, out)
	assert.True(t, s.Contains(-7))
}

func TestEqualIgnoresOrder(t *testing.T) {
	assert.True(t, Of(1, 2, 3).Equal(Of(3, 1, 2)))
	assert.False(t, Of(1, 2).Equal(Of(1, 3)))
	assert.False(t, Of(1).Equal(Of(1, 2)))
	assert.Equal(t, 2, Of(1, 1, 2).Len())
}
