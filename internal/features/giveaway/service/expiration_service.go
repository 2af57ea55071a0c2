package service

import (
	"context"
	"fmt"
	"giveaway-bot/internal/features/giveaway/repository"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SweepOptions tunes the expiration sweep.
type SweepOptions struct {
	Interval            time.Duration
	Buffer              time.Duration
	NotificationTimeout time.Duration
	MaxConcurrent       int
}

func (o SweepOptions) withDefaults() SweepOptions {
	if o.Interval <= 0 {
		o.Interval = DefaultCheckInterval
	}
	if o.Buffer < 0 {
		o.Buffer = DefaultSweepBuffer
	}
	if o.NotificationTimeout <= 0 {
		o.NotificationTimeout = DefaultNotificationTimeout
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = MaxConcurrentProcessing
	}
	return o
}

// SweepReport summarises one sweep.
type SweepReport struct {
	ID            string `json:"id"`
	Tenants       int    `json:"tenants"`
	FailedTenants int    `json:"failed_tenants"`
	Due           int    `json:"due"`
	Ended         int    `json:"ended"`
	Skipped       int    `json:"skipped"`
	Failed        int    `json:"failed"`
	NotifyFailed  int    `json:"notify_failed"`
}

// ExpirationService periodically ends every tenant's giveaways whose deadline
// has passed. Overlapping sweeps are tolerated: End reloads the record and is
// a no-op once it is no longer active.
type ExpirationService struct {
	repo      repository.GiveawayRepository
	giveaways GiveawayService
	announcer Announcer
	opts      SweepOptions
	logger    zerolog.Logger
	now       func() time.Time

	mu        sync.Mutex
	scheduler gocron.Scheduler
	cancel    context.CancelFunc
}

func NewExpirationService(
	repo repository.GiveawayRepository,
	giveaways GiveawayService,
	announcer Announcer,
	opts SweepOptions,
	logger zerolog.Logger,
) *ExpirationService {
	return &ExpirationService{
		repo:      repo,
		giveaways: giveaways,
		announcer: announcer,
		opts:      opts.withDefaults(),
		logger:    logger,
		now:       time.Now,
	}
}

var _ ExpirationServiceInterface = (*ExpirationService)(nil)

// Start registers the recurring sweep and runs the first one immediately so
// giveaways that expired while the bot was down are ended right away.
func (s *ExpirationService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return fmt.Errorf("expiration service already started")
	}

	// Each run gets its own context so the service can be restarted after Stop.
	ctx, cancel := context.WithCancel(context.Background())

	scheduler, err := gocron.NewScheduler(
		gocron.WithLogger(gocronLogger{logger: s.logger}),
	)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.opts.Interval),
		gocron.NewTask(func() {
			s.RunOnce(ctx, s.now())
		}),
		gocron.WithName("giveaway-expiration-sweep"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		cancel()
		return fmt.Errorf("failed to register sweep job: %w", err)
	}

	scheduler.Start()
	s.scheduler = scheduler
	s.cancel = cancel

	s.logger.Info().
		Dur("interval", s.opts.Interval).
		Dur("buffer", s.opts.Buffer).
		Msg("Expiration service started")
	return nil
}

// Stop waits for running sweeps to finish and then cancels outstanding work.
func (s *ExpirationService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return nil
	}

	s.logger.Info().Msg("Stopping expiration service")
	err := s.scheduler.Shutdown()
	s.cancel()
	s.scheduler = nil
	s.cancel = nil
	if err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}

	s.logger.Info().Msg("Expiration service stopped")
	return nil
}

// RunOnce performs one sweep across all tenants as of now.
func (s *ExpirationService) RunOnce(ctx context.Context, now time.Time) SweepReport {
	report := SweepReport{ID: uuid.NewString()}
	logger := s.logger.With().Str("sweep_id", report.ID).Logger()
	start := time.Now()

	tenants, err := s.repo.ListTenants(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list tenants, will retry next sweep")
		return report
	}
	report.Tenants = len(tenants)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrent)

	for _, tenantID := range tenants {
		tenantID := tenantID
		g.Go(func() error {
			tenantReport := s.sweepTenant(gctx, logger, tenantID, now)

			mu.Lock()
			report.add(tenantReport)
			mu.Unlock()
			// A failing tenant must not cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	event := logger.Debug()
	if report.Due > 0 || report.FailedTenants > 0 {
		event = logger.Info()
	}
	event.
		Int("tenants", report.Tenants).
		Int("failed_tenants", report.FailedTenants).
		Int("due", report.Due).
		Int("ended", report.Ended).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Int("notify_failed", report.NotifyFailed).
		Dur("took", time.Since(start)).
		Msg("Expiration sweep finished")

	return report
}

func (s *ExpirationService) sweepTenant(ctx context.Context, logger zerolog.Logger, tenantID string, now time.Time) SweepReport {
	var report SweepReport
	logger = logger.With().Str("tenant_id", tenantID).Logger()

	giveaways, err := s.repo.ListAll(ctx, tenantID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list giveaways, will retry next sweep")
		report.FailedTenants++
		return report
	}

	for _, candidate := range giveaways {
		if !candidate.IsDue(now, s.opts.Buffer) {
			continue
		}
		report.Due++

		switch s.processGiveaway(ctx, logger, tenantID, candidate.ID, now) {
		case resultEnded:
			report.Ended++
		case resultNotifyFailed:
			report.Ended++
			report.NotifyFailed++
		case resultSkipped:
			report.Skipped++
		case resultFailed:
			report.Failed++
		}
	}
	return report
}

type processResult int

const (
	resultEnded processResult = iota
	resultNotifyFailed
	resultSkipped
	resultFailed
)

// processGiveaway ends one giveaway and announces it. The scan result is only
// a hint: End reloads the record before transitioning it.
func (s *ExpirationService) processGiveaway(ctx context.Context, logger zerolog.Logger, tenantID, giveawayID string, now time.Time) (result processResult) {
	logger = logger.With().Str("giveaway_id", giveawayID).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Panic while processing expired giveaway")
			result = resultFailed
		}
	}()

	outcome, err := s.giveaways.End(ctx, tenantID, giveawayID, now)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to end giveaway, will retry next sweep")
		return resultFailed
	}
	if outcome == nil {
		logger.Debug().Msg("Giveaway already handled by another sweep")
		return resultSkipped
	}

	if s.announcer == nil {
		return resultEnded
	}

	notifyCtx, cancel := context.WithTimeout(ctx, s.opts.NotificationTimeout)
	defer cancel()

	if err := s.announcer.Ended(notifyCtx, outcome); err != nil {
		logger.Warn().Err(err).Msg("Failed to announce giveaway result")
		return resultNotifyFailed
	}
	return resultEnded
}

func (r *SweepReport) add(o SweepReport) {
	r.FailedTenants += o.FailedTenants
	r.Due += o.Due
	r.Ended += o.Ended
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.NotifyFailed += o.NotifyFailed
}

// gocronLogger routes scheduler logs through zerolog.
type gocronLogger struct {
	logger zerolog.Logger
}

func (l gocronLogger) Debug(msg string, args ...any) {
	l.logger.Debug().Fields(args).Msg(msg)
}

func (l gocronLogger) Info(msg string, args ...any) {
	l.logger.Info().Fields(args).Msg(msg)
}

func (l gocronLogger) Warn(msg string, args ...any) {
	l.logger.Warn().Fields(args).Msg(msg)
}

func (l gocronLogger) Error(msg string, args ...any) {
	l.logger.Error().Fields(args).Msg(msg)
}
