package random

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialShuffleKeepsElements(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	shuffled := append([]int(nil), items...)

	prefix, err := partialShuffle(shuffled, len(shuffled))
	require.NoError(t, err)
	assert.Len(t, prefix, len(items))

	sort.Ints(shuffled)
	assert.Equal(t, items, shuffled)
}

func TestSample(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	t.Run("returns k distinct members", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			got, err := Sample(items, 3)
			require.NoError(t, err)
			require.Len(t, got, 3)

			seen := map[string]bool{}
			for _, v := range got {
				assert.Contains(t, items, v)
				assert.False(t, seen[v], "duplicate %q", v)
				seen[v] = true
			}
		}
	})

	t.Run("k larger than input returns everything", func(t *testing.T) {
		got, err := Sample(items, 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, items, got)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := Sample([]string{}, 3)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("non-positive k", func(t *testing.T) {
		got, err := Sample(items, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		before := append([]string(nil), items...)
		_, err := Sample(items, 5)
		require.NoError(t, err)
		assert.Equal(t, before, items)
	})

	t.Run("every element can be drawn", func(t *testing.T) {
		hits := map[string]int{}
		for i := 0; i < 500; i++ {
			got, err := Sample(items, 1)
			require.NoError(t, err)
			hits[got[0]]++
		}
		assert.Len(t, hits, len(items))
	})
}
