package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Sample returns k elements drawn uniformly without replacement. The input is
// left untouched. When k covers the whole slice every element is returned in
// random order.
func Sample[T any](items []T, k int) ([]T, error) {
	if k <= 0 || len(items) == 0 {
		return []T{}, nil
	}
	if k > len(items) {
		k = len(items)
	}

	pool := make([]T, len(items))
	copy(pool, items)
	return partialShuffle(pool, k)
}

// partialShuffle runs the first k steps of a forward Fisher-Yates pass and
// returns the settled prefix.
func partialShuffle[T any](slice []T, k int) ([]T, error) {
	n := len(slice)
	for i := 0; i < k && i < n-1; i++ {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(n-i)))
		if err != nil {
			return nil, fmt.Errorf("failed to generate random number: %w", err)
		}
		j := i + int(jBig.Int64())
		slice[i], slice[j] = slice[j], slice[i]
	}
	return slice[:k], nil
}
