package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a new participant", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		g := createGiveaway(t, svc, "guild", 1, time.Hour)
		before := repo.writes()

		res, err := svc.Join(ctx, "guild", g.ID, "alice", testNow)
		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalEntries)
		assert.Equal(t, before+1, repo.writes(), "exactly one write per join")

		res, err = svc.Join(ctx, "guild", g.ID, "bob", testNow)
		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalEntries)
	})

	t.Run("second join is rejected without a write", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		g := createGiveaway(t, svc, "guild", 1, time.Hour)

		_, err := svc.Join(ctx, "guild", g.ID, "alice", testNow)
		require.NoError(t, err)
		before := repo.writes()

		_, err = svc.Join(ctx, "guild", g.ID, "alice", testNow)
		assert.ErrorIs(t, err, ErrAlreadyEntered)
		assert.Equal(t, before, repo.writes())

		stored, err := svc.Get(ctx, "guild", g.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, stored.Participants)
	})

	t.Run("missing giveaway", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		_, err := svc.Join(ctx, "guild", "nope", "alice", testNow)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, repo.writes())
	})

	t.Run("closed by time even when status is still active", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		g := createGiveaway(t, svc, "guild", 1, time.Minute)
		before := repo.writes()

		_, err := svc.Join(ctx, "guild", g.ID, "alice", g.EndTime)
		assert.ErrorIs(t, err, ErrAlreadyClosed)

		_, err = svc.Join(ctx, "guild", g.ID, "alice", g.EndTime.Add(time.Second))
		assert.ErrorIs(t, err, ErrAlreadyClosed)
		assert.Equal(t, before, repo.writes())

		stored, err := svc.Get(ctx, "guild", g.ID)
		require.NoError(t, err)
		assert.Equal(t, models.GiveawayStatusActive, stored.Status)
	})

	t.Run("closed by status", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		g := createGiveaway(t, svc, "guild", 1, time.Hour)
		_, err := svc.End(ctx, "guild", g.ID, testNow)
		require.NoError(t, err)

		_, err = svc.Join(ctx, "guild", g.ID, "alice", testNow)
		assert.ErrorIs(t, err, ErrAlreadyClosed)
	})

	t.Run("store failure is not reported as not found", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		g := createGiveaway(t, svc, "guild", 1, time.Hour)
		repo.failTenants["guild"] = true

		_, err := svc.Join(ctx, "guild", g.ID, "alice", testNow)
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty user", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		g := createGiveaway(t, svc, "guild", 1, time.Hour)

		_, err := svc.Join(ctx, "guild", g.ID, "", testNow)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestJoinConcurrentEntriesAreNotLost(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	g := createGiveaway(t, svc, "guild", 1, time.Hour)

	users := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := svc.Join(ctx, "guild", g.ID, user, testNow)
			assert.NoError(t, err)
		}(u)
	}
	wg.Wait()

	stored, err := svc.Get(ctx, "guild", g.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, users, stored.Participants)
}

func TestLeave(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	g := createGiveaway(t, svc, "guild", 1, time.Hour)

	_, err := svc.Join(ctx, "guild", g.ID, "alice", testNow)
	require.NoError(t, err)
	_, err = svc.Join(ctx, "guild", g.ID, "bob", testNow)
	require.NoError(t, err)

	res, err := svc.Leave(ctx, "guild", g.ID, "alice", testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalEntries)

	_, err = svc.Leave(ctx, "guild", g.ID, "alice", testNow)
	assert.ErrorIs(t, err, ErrNotEntered)

	_, err = svc.Leave(ctx, "guild", g.ID, "bob", g.EndTime)
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	_, err = svc.Leave(ctx, "guild", "nope", "bob", testNow)
	assert.ErrorIs(t, err, ErrNotFound)
}
