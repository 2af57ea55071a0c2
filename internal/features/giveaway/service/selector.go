package service

import (
	"fmt"
	"giveaway-bot/internal/utils/random"
)

// SelectWinners draws up to k distinct participants uniformly at random.
// Duplicate ids in participants count once.
func SelectWinners(participants []string, k int) ([]string, error) {
	seen := make(map[string]struct{}, len(participants))
	unique := make([]string, 0, len(participants))
	for _, id := range participants {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	winners, err := random.Sample(unique, k)
	if err != nil {
		return nil, fmt.Errorf("failed to draw winners: %w", err)
	}
	return winners, nil
}
