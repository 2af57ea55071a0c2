package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyTenants = "giveaway:tenants"

type redisRepository struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisGiveawayRepository keeps each tenant's giveaways in a hash at
// tenant:{tenantId}:giveaways, one JSON record per field.
func NewRedisGiveawayRepository(client *redis.Client, logger zerolog.Logger) repository.GiveawayRepository {
	return &redisRepository{client: client, logger: logger}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", repository.ErrStoreUnavailable, op, err)
}

func (r *redisRepository) ListTenants(ctx context.Context) ([]string, error) {
	tenants, err := r.client.SMembers(ctx, keyTenants).Result()
	if err != nil {
		return nil, unavailable("list tenants", err)
	}
	sort.Strings(tenants)
	return tenants, nil
}

func (r *redisRepository) ListAll(ctx context.Context, tenantID string) ([]*models.Giveaway, error) {
	records, err := r.client.HGetAll(ctx, repository.TenantKey(tenantID)).Result()
	if err != nil {
		return nil, unavailable("list giveaways", err)
	}

	giveaways := make([]*models.Giveaway, 0, len(records))
	for id, data := range records {
		giveaway, err := decode([]byte(data))
		if err != nil {
			// A corrupt record must not hide the rest of the tenant. Get
			// still fails for that id.
			r.logger.Warn().
				Err(err).
				Str("tenant_id", tenantID).
				Str("giveaway_id", id).
				Msg("Skipping undecodable giveaway record")
			continue
		}
		giveaways = append(giveaways, giveaway)
	}

	sort.Slice(giveaways, func(i, j int) bool {
		return giveaways[i].EndTime.Before(giveaways[j].EndTime)
	})
	return giveaways, nil
}

func (r *redisRepository) Get(ctx context.Context, tenantID, id string) (*models.Giveaway, error) {
	data, err := r.client.HGet(ctx, repository.TenantKey(tenantID), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrGiveawayNotFound
	}
	if err != nil {
		return nil, unavailable("get giveaway", err)
	}

	giveaway, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode giveaway %s/%s: %w", tenantID, id, err)
	}
	return giveaway, nil
}

func (r *redisRepository) Upsert(ctx context.Context, tenantID string, giveaway *models.Giveaway) error {
	data, err := json.Marshal(giveaway)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, repository.TenantKey(tenantID), giveaway.ID, data)
	pipe.SAdd(ctx, keyTenants, tenantID)
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable("upsert giveaway", err)
	}
	return nil
}

func (r *redisRepository) Remove(ctx context.Context, tenantID, id string) (bool, error) {
	removed, err := r.client.HDel(ctx, repository.TenantKey(tenantID), id).Result()
	if err != nil {
		return false, unavailable("remove giveaway", err)
	}
	return removed > 0, nil
}

func decode(data []byte) (*models.Giveaway, error) {
	var giveaway models.Giveaway
	if err := json.Unmarshal(data, &giveaway); err != nil {
		return nil, err
	}
	if giveaway.Participants == nil {
		giveaway.Participants = []string{}
	}
	if giveaway.Winners == nil {
		giveaway.Winners = []string{}
	}
	return &giveaway, nil
}
