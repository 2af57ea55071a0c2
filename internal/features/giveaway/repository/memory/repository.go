package memory

import (
	"context"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
	"sort"
	"sync"
)

// InMemoryRepository is a process-local GiveawayRepository used by tests and
// local runs without Redis. Records are copied in and out.
type InMemoryRepository struct {
	mu      sync.Mutex
	tenants map[string]map[string]*models.Giveaway
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		tenants: make(map[string]map[string]*models.Giveaway),
	}
}

var _ repository.GiveawayRepository = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) ListTenants(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tenants := make([]string, 0, len(r.tenants))
	for id := range r.tenants {
		tenants = append(tenants, id)
	}
	sort.Strings(tenants)
	return tenants, nil
}

func (r *InMemoryRepository) ListAll(_ context.Context, tenantID string) ([]*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.tenants[tenantID]
	giveaways := make([]*models.Giveaway, 0, len(records))
	for _, g := range records {
		giveaways = append(giveaways, g.Clone())
	}
	sort.Slice(giveaways, func(i, j int) bool {
		return giveaways[i].EndTime.Before(giveaways[j].EndTime)
	})
	return giveaways, nil
}

func (r *InMemoryRepository) Get(_ context.Context, tenantID, id string) (*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.tenants[tenantID][id]
	if !ok {
		return nil, repository.ErrGiveawayNotFound
	}
	return g.Clone(), nil
}

func (r *InMemoryRepository) Upsert(_ context.Context, tenantID string, giveaway *models.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, ok := r.tenants[tenantID]
	if !ok {
		records = make(map[string]*models.Giveaway)
		r.tenants[tenantID] = records
	}
	records[giveaway.ID] = giveaway.Clone()
	return nil
}

func (r *InMemoryRepository) Remove(_ context.Context, tenantID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.tenants[tenantID]
	if _, ok := records[id]; !ok {
		return false, nil
	}
	delete(records, id)
	return true, nil
}
