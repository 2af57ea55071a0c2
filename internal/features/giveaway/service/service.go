package service

import (
	"context"
	"errors"
	"fmt"
	"giveaway-bot/internal/common/config"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Policy bounds what a host may configure on a new giveaway.
type Policy struct {
	MinDuration time.Duration
	MaxDuration time.Duration
}

func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		MinDuration: cfg.EffectiveMinDuration(),
		MaxDuration: cfg.Giveaway.MaxDuration,
	}
}

type giveawayService struct {
	repo    repository.GiveawayRepository
	gateway Gateway
	policy  Policy
	locks   *keyedMutex
	logger  zerolog.Logger
}

func NewGiveawayService(
	repo repository.GiveawayRepository,
	gateway Gateway,
	policy Policy,
	logger zerolog.Logger,
) GiveawayService {
	return &giveawayService{
		repo:    repo,
		gateway: gateway,
		policy:  policy,
		locks:   newKeyedMutex(),
		logger:  logger,
	}
}

func (s *giveawayService) Create(ctx context.Context, input *models.GiveawayCreate, now time.Time) (*models.Giveaway, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	giveaway := &models.Giveaway{
		TenantID:     input.TenantID,
		ChannelID:    input.ChannelID,
		HostID:       input.HostID,
		Prize:        strings.TrimSpace(input.Prize),
		WinnersCount: input.WinnersCount,
		EndTime:      now.Add(input.Duration).UTC(),
		Participants: []string{},
		Status:       models.GiveawayStatusActive,
		Winners:      []string{},
		CreatedAt:    now.UTC(),
	}

	// The announcement id becomes the giveaway id, so nothing is stored
	// unless the announcement is visible.
	messageID, err := s.gateway.Publish(ctx, giveaway.ChannelID, renderActive(giveaway))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to publish announcement: %w", ErrNotificationFailed, err)
	}
	giveaway.ID = messageID

	if err := s.repo.Upsert(ctx, giveaway.TenantID, giveaway); err != nil {
		if editErr := s.gateway.Edit(ctx, giveaway.ChannelID, messageID, renderAborted(giveaway.Prize)); editErr != nil {
			s.logger.Warn().Err(editErr).
				Str("tenant_id", giveaway.TenantID).
				Str("giveaway_id", messageID).
				Msg("Failed to mark unsaved announcement as aborted")
		}
		return nil, fmt.Errorf("failed to save giveaway: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", giveaway.TenantID).
		Str("giveaway_id", giveaway.ID).
		Time("end_time", giveaway.EndTime).
		Int("winners_count", giveaway.WinnersCount).
		Msg("Giveaway created")

	return giveaway, nil
}

func (s *giveawayService) validateCreate(input *models.GiveawayCreate) error {
	if input == nil {
		return ErrInvalidInput
	}
	if input.TenantID == "" || input.ChannelID == "" || input.HostID == "" {
		return fmt.Errorf("%w: tenant, channel and host are required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Prize) == "" {
		return fmt.Errorf("%w: prize is required", ErrInvalidInput)
	}
	if input.Duration < s.policy.MinDuration || input.Duration > s.policy.MaxDuration {
		return fmt.Errorf("%w: %s not in [%s, %s]", ErrInvalidDuration, input.Duration, s.policy.MinDuration, s.policy.MaxDuration)
	}
	if input.WinnersCount < models.MinWinnersCount || input.WinnersCount > models.MaxWinnersCount {
		return fmt.Errorf("%w: got %d", ErrInvalidWinnerCount, input.WinnersCount)
	}
	return nil
}

// End draws winners for an active giveaway and persists the ended state. It
// returns a nil outcome when the giveaway is gone or already ended, so a
// repeated call never draws twice.
func (s *giveawayService) End(ctx context.Context, tenantID, giveawayID string, now time.Time) (*models.Outcome, error) {
	unlock := s.locks.Lock(giveawayKey(tenantID, giveawayID))
	defer unlock()

	giveaway, err := s.repo.Get(ctx, tenantID, giveawayID)
	if errors.Is(err, repository.ErrGiveawayNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load giveaway: %w", err)
	}

	if giveaway.Status != models.GiveawayStatusActive {
		s.logger.Debug().
			Str("tenant_id", tenantID).
			Str("giveaway_id", giveawayID).
			Str("status", string(giveaway.Status)).
			Msg("Giveaway already ended, skipping")
		return nil, nil
	}

	winners, err := SelectWinners(giveaway.Participants, giveaway.WinnersCount)
	if err != nil {
		return nil, err
	}

	endedAt := now.UTC()
	giveaway.Status = models.GiveawayStatusEnded
	giveaway.Winners = winners
	giveaway.EndedAt = &endedAt

	if err := s.repo.Upsert(ctx, tenantID, giveaway); err != nil {
		return nil, fmt.Errorf("failed to save ended giveaway: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", tenantID).
		Str("giveaway_id", giveawayID).
		Int("participants", len(giveaway.Participants)).
		Strs("winners", winners).
		Msg("Giveaway ended")

	return &models.Outcome{
		Giveaway: giveaway,
		Winners:  winners,
		Status:   models.GiveawayStatusEnded,
		At:       endedAt,
	}, nil
}

// Reroll draws a fresh set of winners from the same participants. Previous
// winners may be drawn again.
func (s *giveawayService) Reroll(ctx context.Context, tenantID, giveawayID string, now time.Time) (*models.Outcome, error) {
	unlock := s.locks.Lock(giveawayKey(tenantID, giveawayID))
	defer unlock()

	giveaway, err := s.load(ctx, tenantID, giveawayID)
	if err != nil {
		return nil, err
	}

	if giveaway.Status == models.GiveawayStatusActive {
		return nil, ErrNotEnded
	}
	if countUnique(giveaway.Participants) < giveaway.WinnersCount {
		return nil, fmt.Errorf("%w: %d entries for %d winners", ErrInsufficientEntries, countUnique(giveaway.Participants), giveaway.WinnersCount)
	}

	winners, err := SelectWinners(giveaway.Participants, giveaway.WinnersCount)
	if err != nil {
		return nil, err
	}

	rerolledAt := now.UTC()
	giveaway.Status = models.GiveawayStatusRerolled
	giveaway.Winners = winners
	giveaway.RerolledAt = &rerolledAt

	if err := s.repo.Upsert(ctx, tenantID, giveaway); err != nil {
		return nil, fmt.Errorf("failed to save rerolled giveaway: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", tenantID).
		Str("giveaway_id", giveawayID).
		Strs("winners", winners).
		Msg("Giveaway rerolled")

	return &models.Outcome{
		Giveaway: giveaway,
		Winners:  winners,
		Status:   models.GiveawayStatusRerolled,
		At:       rerolledAt,
	}, nil
}

// Delete removes a giveaway whatever its status. The announcement message is
// left alone.
func (s *giveawayService) Delete(ctx context.Context, tenantID, giveawayID string) (bool, error) {
	unlock := s.locks.Lock(giveawayKey(tenantID, giveawayID))
	defer unlock()

	existed, err := s.repo.Remove(ctx, tenantID, giveawayID)
	if err != nil {
		return false, fmt.Errorf("failed to delete giveaway: %w", err)
	}

	if existed {
		s.logger.Info().
			Str("tenant_id", tenantID).
			Str("giveaway_id", giveawayID).
			Msg("Giveaway deleted")
	}
	return existed, nil
}

func (s *giveawayService) Get(ctx context.Context, tenantID, giveawayID string) (*models.Giveaway, error) {
	return s.load(ctx, tenantID, giveawayID)
}

// ListActive returns the tenant's active giveaways, soonest deadline first.
func (s *giveawayService) ListActive(ctx context.Context, tenantID string) ([]*models.Giveaway, error) {
	all, err := s.repo.ListAll(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list giveaways: %w", err)
	}

	active := make([]*models.Giveaway, 0, len(all))
	for _, g := range all {
		if g.Status == models.GiveawayStatusActive {
			active = append(active, g)
		}
	}
	return active, nil
}

func (s *giveawayService) load(ctx context.Context, tenantID, giveawayID string) (*models.Giveaway, error) {
	giveaway, err := s.repo.Get(ctx, tenantID, giveawayID)
	if errors.Is(err, repository.ErrGiveawayNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load giveaway: %w", err)
	}
	return giveaway, nil
}

func countUnique(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
