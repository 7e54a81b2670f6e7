package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
	"github.com/aliskhannn/road-signs-bot/internal/domain/entities"
	"github.com/aliskhannn/road-signs-bot/internal/infra/postgres/repository"
)

// LearnerService runs the quiz for enrolled learners. Every mutation of a
// learner's chain happens under that learner's lock and inside one transaction
// that holds the learner row FOR UPDATE.
type LearnerService struct {
	tr      Transactor
	repos   LearnerRepositoryFactory
	catalog Catalog
	locks   *KeyedMutex
	logger  *zap.Logger
	now     func() time.Time
}

func NewLearnerService(
	tr Transactor,
	repos LearnerRepositoryFactory,
	catalog Catalog,
	logger *zap.Logger,
) *LearnerService {
	return &LearnerService{
		tr:      tr,
		repos:   repos,
		catalog: catalog,
		locks:   NewKeyedMutex(),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Enroll creates a learner with a fresh chain. It reports false if the learner already existed.
func (s *LearnerService) Enroll(ctx context.Context, userID, chatID int64) (bool, error) {
	var created bool
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := s.repos(tx)

		exists, err := repo.Exists(ctx, userID)
		if err != nil || exists {
			return err
		}

		learner, err := entities.NewLearner(userID, chatID, s.catalog.Entries())
		if err != nil {
			return fmt.Errorf("new learner: %w", err)
		}
		learner.CreatedAt = s.now()

		created, err = repo.Create(ctx, learner)
		return err
	})
	if err != nil {
		return false, err
	}

	if created {
		s.logger.Info("learner enrolled",
			zap.Int64("user_id", userID),
			zap.Int("signs", s.catalog.Len()),
		)
	}

	return created, nil
}

// Current returns the sign due to be shown to the learner next.
func (s *LearnerService) Current(ctx context.Context, userID int64) (chain.CatalogEntry, error) {
	var entry chain.CatalogEntry
	err := s.tr.WithinReadTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		l, err := s.load(ctx, s.repos(tx), userID, false)
		if err != nil {
			return err
		}

		entry, err = currentEntry(l.State)
		return err
	})

	return entry, err
}

// Guess scores a guess for the learner's current sign and reschedules it.
func (s *LearnerService) Guess(ctx context.Context, userID int64, guess string) (*entities.GuessOutcome, error) {
	if strings.TrimSpace(guess) == "" {
		return nil, chain.ErrEmptyGuess
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var outcome *entities.GuessOutcome
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := s.repos(tx)

		l, err := s.load(ctx, repo, userID, true)
		if err != nil {
			return err
		}

		next, res, err := chain.ProcessGuess(l.State, guess)
		if err != nil {
			if chain.IsIntegrityError(err) {
				s.logger.Error("learner chain is corrupt",
					zap.Int64("user_id", userID),
					zap.Error(err),
				)
			}
			return fmt.Errorf("process guess: %w", err)
		}

		now := s.now()
		l.State = next
		l.LastGuessAt = &now

		if err := repo.Save(ctx, l); err != nil {
			return err
		}

		nextSign, err := currentEntry(next)
		if err != nil {
			return err
		}

		outcome = &entities.GuessOutcome{
			SignID:   res.ItemID,
			Answer:   res.Answer,
			Correct:  res.Correct,
			Sign:     res.Item,
			Overall:  next.Score,
			Learned:  next.Learned,
			Mastered: res.Learned,
			NextSign: nextSign,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("guess processed",
		zap.Int64("user_id", userID),
		zap.String("sign_id", outcome.SignID),
		zap.Bool("correct", outcome.Correct),
		zap.Int("learned", len(outcome.Learned)),
	)

	return outcome, nil
}

// Progress reports the learner's tallies and learned set.
func (s *LearnerService) Progress(ctx context.Context, userID int64) (*entities.ProgressSummary, error) {
	var summary *entities.ProgressSummary
	err := s.tr.WithinReadTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		l, err := s.load(ctx, s.repos(tx), userID, false)
		if err != nil {
			return err
		}

		nextSign, err := currentEntry(l.State)
		if err != nil {
			return err
		}

		total := l.State.Items.Len()
		summary = &entities.ProgressSummary{
			Overall:    l.State.Score,
			Accuracy:   l.State.Score.Accuracy(),
			Learned:    l.State.Learned,
			TotalSigns: total,
			Percentage: float64(len(l.State.Learned)) / float64(total) * 100,
			NextSign:   nextSign,
			Reminders:  l.RemindersEnabled,
		}
		return nil
	})

	return summary, err
}

// Reset throws away the learner's chain and tallies and re-enrolls them from the
// current catalog. The chat and the reminder preference survive.
func (s *LearnerService) Reset(ctx context.Context, userID int64) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := s.repos(tx)

		old, err := s.load(ctx, repo, userID, true)
		if err != nil {
			return err
		}

		fresh, err := entities.NewLearner(userID, old.ChatID, s.catalog.Entries())
		if err != nil {
			return fmt.Errorf("new learner: %w", err)
		}
		fresh.RemindersEnabled = old.RemindersEnabled
		fresh.CreatedAt = s.now()

		if err := repo.Delete(ctx, userID); err != nil {
			return err
		}
		_, err = repo.Create(ctx, fresh)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("learner reset", zap.Int64("user_id", userID))
	return nil
}

// ToggleReminders flips the learner's reminder flag and returns the new value.
func (s *LearnerService) ToggleReminders(ctx context.Context, userID int64) (bool, error) {
	var enabled bool
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := s.repos(tx)

		l, err := s.load(ctx, repo, userID, true)
		if err != nil {
			return err
		}

		enabled = !l.RemindersEnabled
		return repo.SetReminders(ctx, userID, enabled)
	})

	return enabled, err
}

func (s *LearnerService) load(ctx context.Context, repo LearnerRepository, userID int64, forUpdate bool) (*entities.Learner, error) {
	l, err := repo.Load(ctx, userID, forUpdate)
	if err != nil {
		if errors.Is(err, repository.ErrLearnerNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("load learner: %w", err)
	}
	return l, nil
}

func currentEntry(state chain.State) (chain.CatalogEntry, error) {
	item, err := state.Current()
	if err != nil {
		return chain.CatalogEntry{}, fmt.Errorf("current sign: %w", err)
	}
	return chain.CatalogEntry{ID: item.ID, Answer: item.Answer}, nil
}
