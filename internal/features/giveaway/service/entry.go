package service

import (
	"context"
	"fmt"
	"giveaway-bot/internal/features/giveaway/models"
	"slices"
	"time"
)

// Join records userID as a participant. Rejections never write.
func (s *giveawayService) Join(ctx context.Context, tenantID, giveawayID, userID string, now time.Time) (*models.JoinResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(giveawayKey(tenantID, giveawayID))
	defer unlock()

	giveaway, err := s.load(ctx, tenantID, giveawayID)
	if err != nil {
		return nil, err
	}

	if !giveaway.AcceptsEntries(now) {
		return nil, ErrAlreadyClosed
	}
	if giveaway.HasParticipant(userID) {
		return nil, ErrAlreadyEntered
	}

	giveaway.Participants = append(giveaway.Participants, userID)
	if err := s.repo.Upsert(ctx, tenantID, giveaway); err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	s.logger.Debug().
		Str("tenant_id", tenantID).
		Str("giveaway_id", giveawayID).
		Str("user_id", userID).
		Msg("User joined giveaway")

	return &models.JoinResult{TotalEntries: len(giveaway.Participants)}, nil
}

// Leave withdraws userID's entry while the giveaway is still open.
func (s *giveawayService) Leave(ctx context.Context, tenantID, giveawayID, userID string, now time.Time) (*models.JoinResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(giveawayKey(tenantID, giveawayID))
	defer unlock()

	giveaway, err := s.load(ctx, tenantID, giveawayID)
	if err != nil {
		return nil, err
	}

	if !giveaway.AcceptsEntries(now) {
		return nil, ErrAlreadyClosed
	}
	idx := slices.Index(giveaway.Participants, userID)
	if idx < 0 {
		return nil, ErrNotEntered
	}

	giveaway.Participants = slices.Delete(giveaway.Participants, idx, idx+1)
	if err := s.repo.Upsert(ctx, tenantID, giveaway); err != nil {
		return nil, fmt.Errorf("failed to remove participant: %w", err)
	}

	s.logger.Debug().
		Str("tenant_id", tenantID).
		Str("giveaway_id", giveawayID).
		Str("user_id", userID).
		Msg("User left giveaway")

	return &models.JoinResult{TotalEntries: len(giveaway.Participants)}, nil
}
