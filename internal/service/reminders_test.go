package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/road-signs-bot/internal/domain/entities"
)

type fakeReminderRepo struct {
	mu        sync.Mutex
	idle      []entities.IdleLearner
	idleSince time.Time
	limit     int
	reminded  map[int64]time.Time
}

func (r *fakeReminderRepo) ListIdle(_ context.Context, idleSince time.Time, limit int) ([]entities.IdleLearner, error) {
	r.idleSince = idleSince
	r.limit = limit
	return r.idle, nil
}

func (r *fakeReminderRepo) MarkReminded(_ context.Context, userID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminded[userID] = at
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	payloads map[int64]entities.ReminderPayload
	failFor  int64
}

func (n *fakeNotifier) SendReminder(_ context.Context, chatID int64, payload entities.ReminderPayload) error {
	if chatID == n.failFor {
		return errors.New("bot was blocked by the user")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads[chatID] = payload
	return nil
}

func TestReminderServiceSendReminders(t *testing.T) {
	now := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)
	repo := &fakeReminderRepo{
		idle: []entities.IdleLearner{
			{UserID: 1, ChatID: 11, LastActivityAt: now.Add(-30 * time.Hour), Learned: 2},
			{UserID: 2, ChatID: 22, LastActivityAt: now.Add(-72 * time.Hour)},
			{UserID: 3, ChatID: 33, LastActivityAt: now.Add(-25 * time.Hour)},
		},
		reminded: make(map[int64]time.Time),
	}
	notifier := &fakeNotifier{payloads: make(map[int64]entities.ReminderPayload), failFor: 33}

	svc := NewReminderService(repo, testCatalog(t), ReminderConfig{
		Schedule:  "0 * * * *",
		IdleAfter: 24 * time.Hour,
		BatchSize: 50,
	}, zap.NewNop())
	svc.now = func() time.Time { return now }
	svc.SetNotifier(notifier)

	sent, err := svc.SendReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sent)
	assert.Equal(t, now.Add(-24*time.Hour), repo.idleSince)
	assert.Equal(t, 50, repo.limit)

	assert.Equal(t, map[int64]time.Time{1: now, 2: now}, repo.reminded)

	p := notifier.payloads[11]
	assert.Equal(t, 4, p.TotalSigns)
	assert.Equal(t, 30*time.Hour, p.IdleFor)
	assert.Equal(t, 2, p.Learner.Learned)
}

func TestReminderServiceWithoutNotifier(t *testing.T) {
	svc := NewReminderService(&fakeReminderRepo{}, testCatalog(t), ReminderConfig{}, zap.NewNop())

	_, err := svc.SendReminders(context.Background())
	assert.Error(t, err)
}

func TestReminderServiceStartRejectsBadSchedule(t *testing.T) {
	svc := NewReminderService(&fakeReminderRepo{}, testCatalog(t), ReminderConfig{Schedule: "every now and then"}, zap.NewNop())

	err := svc.Start(context.Background())
	assert.Error(t, err)
}

func TestReminderServiceStartStopsWithContext(t *testing.T) {
	svc := NewReminderService(&fakeReminderRepo{}, testCatalog(t), ReminderConfig{Schedule: "@hourly"}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reminder service did not stop")
	}
}

func TestReminderServiceStopsOnCancelledContext(t *testing.T) {
	repo := &fakeReminderRepo{
		idle:     []entities.IdleLearner{{UserID: 1, ChatID: 11}, {UserID: 2, ChatID: 22}},
		reminded: make(map[int64]time.Time),
	}
	notifier := &fakeNotifier{payloads: make(map[int64]entities.ReminderPayload)}

	svc := NewReminderService(repo, testCatalog(t), ReminderConfig{
		IdleAfter: time.Hour,
		BatchSize: 10,
		PerSecond: 5,
	}, zap.NewNop())
	svc.SetNotifier(notifier)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, err := svc.SendReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, notifier.payloads)
	assert.Empty(t, repo.reminded)
}
