package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/aliskhannn/road-signs-bot/internal/domain/entities"
)

type ReminderConfig struct {
	Schedule  string        // cron spec, evaluated in UTC
	IdleAfter time.Duration // how long a learner must be idle before a reminder
	BatchSize int           // max reminders per run
	PerSecond float64       // send rate cap, 0 means unlimited
}

// ReminderService nudges learners who stopped answering.
type ReminderService struct {
	repo       ReminderRepository
	notifier   ReminderNotifier
	totalSigns int
	cfg        ReminderConfig
	limiter    *rate.Limiter
	logger     *zap.Logger
	now        func() time.Time
}

// NewReminderService creates a new reminder service.
func NewReminderService(
	repo ReminderRepository,
	catalog Catalog,
	cfg ReminderConfig,
	logger *zap.Logger,
) *ReminderService {
	limit := rate.Inf
	if cfg.PerSecond > 0 {
		limit = rate.Limit(cfg.PerSecond)
	}

	return &ReminderService{
		repo:       repo,
		totalSigns: catalog.Len(),
		cfg:        cfg,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the reminder schedule until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.cfg.Schedule, func() {
		s.logger.Info("cron triggered: processing idle learner reminders")
		if _, err := s.SendReminders(ctx); err != nil {
			s.logger.Error("failed to send reminders", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", s.cfg.Schedule, err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.cfg.Schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")

	return nil
}

// SendReminders notifies every learner idle for longer than IdleAfter and returns
// how many reminders were sent.
func (s *ReminderService) SendReminders(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, errors.New("notifier not initialized")
	}

	now := s.now()
	idle, err := s.repo.ListIdle(ctx, now.Add(-s.cfg.IdleAfter), s.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list idle learners: %w", err)
	}

	sent := s.processBatch(ctx, idle, now)

	s.logger.Info("reminders processed",
		zap.Int("idle", len(idle)),
		zap.Int("total_sent", sent),
	)

	return sent, nil
}

// processBatch sends reminders concurrently.
func (s *ReminderService) processBatch(ctx context.Context, idle []entities.IdleLearner, now time.Time) int {
	const maxConcurrent = 10
	sem := semaphore.NewWeighted(maxConcurrent)
	var wg sync.WaitGroup
	var sent atomic.Int64

	for _, learner := range idle {
		if err := sem.Acquire(ctx, 1); err != nil {
			s.logger.Warn("reminder batch interrupted", zap.Error(err))
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.processReminder(ctx, learner, now); err != nil {
				s.logger.Error("failed to process reminder",
					zap.Int64("user_id", learner.UserID),
					zap.Error(err))
				return
			}

			sent.Add(1)
		}()
	}

	wg.Wait()
	return int(sent.Load())
}

func (s *ReminderService) processReminder(ctx context.Context, learner entities.IdleLearner, now time.Time) error {
	payload := entities.ReminderPayload{
		Learner:    learner,
		TotalSigns: s.totalSigns,
		IdleFor:    now.Sub(learner.LastActivityAt),
	}

	// Telegram throttles bots that burst; stay under its per-bot limit.
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for send slot: %w", err)
	}

	if err := s.notifier.SendReminder(ctx, learner.ChatID, payload); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	if err := s.repo.MarkReminded(ctx, learner.UserID, now); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}

	return nil
}
