package repository

import (
	"context"
	"errors"
	"giveaway-bot/internal/features/giveaway/models"
)

var (
	ErrGiveawayNotFound = errors.New("giveaway not found")
	// ErrStoreUnavailable marks a backend failure. Callers retry later and
	// must never read it as "the giveaway does not exist".
	ErrStoreUnavailable = errors.New("giveaway store unavailable")
)

// GiveawayRepository stores giveaways in per-tenant collections. Every write
// overwrites the full record; there are no multi-key transactions.
type GiveawayRepository interface {
	ListTenants(ctx context.Context) ([]string, error)
	ListAll(ctx context.Context, tenantID string) ([]*models.Giveaway, error)
	Get(ctx context.Context, tenantID, id string) (*models.Giveaway, error)
	Upsert(ctx context.Context, tenantID string, giveaway *models.Giveaway) error
	Remove(ctx context.Context, tenantID, id string) (bool, error)
}

// TenantKey is the key of a tenant's giveaway collection.
func TenantKey(tenantID string) string {
	return "tenant:" + tenantID + ":giveaways"
}
