package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
	"giveaway-bot/internal/features/giveaway/repository/memory"

	"github.com/rs/zerolog"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type sentMessage struct {
	ChannelID string
	MessageID string
	Content   string
}

// fakeGateway records every call and can be told to fail.
type fakeGateway struct {
	mu          sync.Mutex
	nextID      int
	messages    map[string]string
	published   []sentMessage
	edits       []sentMessage
	announced   []sentMessage
	publishErr  error
	editErr     error
	announceErr error
	missing     map[string]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{messages: map[string]string{}, missing: map[string]bool{}}
}

func (f *fakeGateway) Publish(_ context.Context, channelID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return "", f.publishErr
	}
	f.nextID++
	id := fmt.Sprintf("msg-%d", f.nextID)
	f.messages[id] = content
	f.published = append(f.published, sentMessage{ChannelID: channelID, MessageID: id, Content: content})
	return id, nil
}

func (f *fakeGateway) Edit(_ context.Context, channelID, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.messages[messageID] = content
	f.edits = append(f.edits, sentMessage{ChannelID: channelID, MessageID: messageID, Content: content})
	return nil
}

func (f *fakeGateway) Fetch(_ context.Context, _, messageID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[messageID] {
		return "", ErrArtifactNotFound
	}
	return f.messages[messageID], nil
}

func (f *fakeGateway) Announce(_ context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.announceErr != nil {
		return f.announceErr
	}
	f.announced = append(f.announced, sentMessage{ChannelID: channelID, Content: content})
	return nil
}

func (f *fakeGateway) announcements() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.announced...)
}

// countingRepo counts writes and can fail per tenant.
type countingRepo struct {
	repository.GiveawayRepository

	mu             sync.Mutex
	upserts        int
	failTenants    map[string]bool
	failUpsert     bool
	failTenantList bool
}

func newCountingRepo() *countingRepo {
	return &countingRepo{
		GiveawayRepository: memory.NewInMemoryRepository(),
		failTenants:        map[string]bool{},
	}
}

var errBackendDown = errors.New("connection refused")

func (r *countingRepo) storeErr() error {
	return fmt.Errorf("%w: %w", repository.ErrStoreUnavailable, errBackendDown)
}

func (r *countingRepo) ListTenants(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	fail := r.failTenantList
	r.mu.Unlock()
	if fail {
		return nil, r.storeErr()
	}
	return r.GiveawayRepository.ListTenants(ctx)
}

func (r *countingRepo) ListAll(ctx context.Context, tenantID string) ([]*models.Giveaway, error) {
	r.mu.Lock()
	fail := r.failTenants[tenantID]
	r.mu.Unlock()
	if fail {
		return nil, r.storeErr()
	}
	return r.GiveawayRepository.ListAll(ctx, tenantID)
}

func (r *countingRepo) Get(ctx context.Context, tenantID, id string) (*models.Giveaway, error) {
	r.mu.Lock()
	fail := r.failTenants[tenantID]
	r.mu.Unlock()
	if fail {
		return nil, r.storeErr()
	}
	return r.GiveawayRepository.Get(ctx, tenantID, id)
}

func (r *countingRepo) Upsert(ctx context.Context, tenantID string, g *models.Giveaway) error {
	r.mu.Lock()
	if r.failUpsert {
		r.mu.Unlock()
		return r.storeErr()
	}
	r.upserts++
	r.mu.Unlock()
	return r.GiveawayRepository.Upsert(ctx, tenantID, g)
}

func (r *countingRepo) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts
}

func testPolicy() Policy {
	return Policy{MinDuration: time.Second, MaxDuration: 30 * 24 * time.Hour}
}

func newTestService(t *testing.T) (*giveawayService, *countingRepo, *fakeGateway) {
	t.Helper()
	repo := newCountingRepo()
	gateway := newFakeGateway()
	svc := NewGiveawayService(repo, gateway, testPolicy(), zerolog.Nop()).(*giveawayService)
	return svc, repo, gateway
}

func createGiveaway(t *testing.T, svc GiveawayService, tenantID string, winners int, duration time.Duration) *models.Giveaway {
	t.Helper()
	g, err := svc.Create(context.Background(), &models.GiveawayCreate{
		TenantID:     tenantID,
		HostID:       "host",
		ChannelID:    "channel-" + tenantID,
		Prize:        "Nitro",
		WinnersCount: winners,
		Duration:     duration,
	}, testNow)
	if err != nil {
		t.Fatalf("create giveaway: %v", err)
	}
	return g
}
