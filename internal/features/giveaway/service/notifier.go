package service

import (
	"context"
	"errors"
	"fmt"
	"giveaway-bot/internal/features/giveaway/models"
	"time"

	"github.com/rs/zerolog"
)

// Notifier updates the announcement and posts the winners after a transition.
// It runs strictly after the new state is persisted; its failures never touch
// stored state.
type Notifier struct {
	gateway Gateway
	timeout time.Duration
	logger  zerolog.Logger
}

func NewNotifier(gateway Gateway, timeout time.Duration, logger zerolog.Logger) *Notifier {
	if timeout <= 0 {
		timeout = DefaultNotificationTimeout
	}
	return &Notifier{gateway: gateway, timeout: timeout, logger: logger}
}

var _ Announcer = (*Notifier)(nil)

func (n *Notifier) Ended(ctx context.Context, outcome *models.Outcome) error {
	return n.publish(ctx, outcome, false)
}

func (n *Notifier) Rerolled(ctx context.Context, outcome *models.Outcome) error {
	return n.publish(ctx, outcome, true)
}

func (n *Notifier) publish(ctx context.Context, outcome *models.Outcome, rerolled bool) error {
	if outcome == nil || outcome.Giveaway == nil {
		return nil
	}
	g := outcome.Giveaway

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	var errs []error

	// The announcement may have been deleted by a moderator; only its
	// absence is a reason to skip the edit.
	_, err := n.gateway.Fetch(ctx, g.ChannelID, g.ID)
	switch {
	case errors.Is(err, ErrArtifactNotFound):
		n.logger.Debug().
			Str("tenant_id", g.TenantID).
			Str("giveaway_id", g.ID).
			Msg("Announcement message is gone, skipping edit")
	default:
		if err := n.gateway.Edit(ctx, g.ChannelID, g.ID, renderEnded(g)); err != nil {
			errs = append(errs, fmt.Errorf("edit announcement: %w", err))
		}
	}

	if err := n.gateway.Announce(ctx, g.ChannelID, renderWinners(g, rerolled)); err != nil {
		errs = append(errs, fmt.Errorf("announce winners: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, errors.Join(errs...))
	}
	return nil
}
