package service

import (
	"context"
	"giveaway-bot/internal/features/giveaway/models"
	"time"
)

// GiveawayService is the set of operations exposed to the command layer.
type GiveawayService interface {
	Create(ctx context.Context, input *models.GiveawayCreate, now time.Time) (*models.Giveaway, error)
	Join(ctx context.Context, tenantID, giveawayID, userID string, now time.Time) (*models.JoinResult, error)
	Leave(ctx context.Context, tenantID, giveawayID, userID string, now time.Time) (*models.JoinResult, error)
	End(ctx context.Context, tenantID, giveawayID string, now time.Time) (*models.Outcome, error)
	Reroll(ctx context.Context, tenantID, giveawayID string, now time.Time) (*models.Outcome, error)
	Delete(ctx context.Context, tenantID, giveawayID string) (bool, error)
	Get(ctx context.Context, tenantID, giveawayID string) (*models.Giveaway, error)
	ListActive(ctx context.Context, tenantID string) ([]*models.Giveaway, error)
}

// Gateway is the messaging platform the bot talks through.
type Gateway interface {
	// Publish posts content to a channel and returns the new message id.
	Publish(ctx context.Context, channelID, content string) (string, error)
	Edit(ctx context.Context, channelID, messageID, content string) error
	// Fetch returns the current content of a message, or ErrArtifactNotFound.
	Fetch(ctx context.Context, channelID, messageID string) (string, error)
	Announce(ctx context.Context, channelID, content string) error
}

// Announcer publishes the outcome of a transition.
type Announcer interface {
	Ended(ctx context.Context, outcome *models.Outcome) error
	Rerolled(ctx context.Context, outcome *models.Outcome) error
}

// ExpirationServiceInterface defines the interface for handling expired giveaways
type ExpirationServiceInterface interface {
	Start() error
	Stop() error
	RunOnce(ctx context.Context, now time.Time) SweepReport
}
