package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
	"github.com/aliskhannn/road-signs-bot/internal/domain/entities"
)

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
	WithinReadTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

type LearnerRepository interface {
	Create(ctx context.Context, l *entities.Learner) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	Load(ctx context.Context, userID int64, forUpdate bool) (*entities.Learner, error)
	Save(ctx context.Context, l *entities.Learner) error
	Delete(ctx context.Context, userID int64) error
	SetReminders(ctx context.Context, userID int64, enabled bool) error
}

// LearnerRepositoryFactory binds a learner repository to a transaction.
type LearnerRepositoryFactory func(tx pgx.Tx) LearnerRepository

type Catalog interface {
	Entries() []chain.CatalogEntry
	Len() int
	GetByID(id string) (chain.CatalogEntry, error)
}

// ReminderRepository lists idle learners and records sent reminders.
type ReminderRepository interface {
	ListIdle(ctx context.Context, idleSince time.Time, limit int) ([]entities.IdleLearner, error)
	MarkReminded(ctx context.Context, userID int64, at time.Time) error
}

// ReminderNotifier sends reminder notifications to users.
type ReminderNotifier interface {
	SendReminder(ctx context.Context, chatID int64, payload entities.ReminderPayload) error
}
