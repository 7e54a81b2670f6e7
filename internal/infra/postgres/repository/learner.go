package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
	"github.com/aliskhannn/road-signs-bot/internal/domain/entities"
	"github.com/aliskhannn/road-signs-bot/internal/infra/postgres"
)

var ErrLearnerNotFound = errors.New("learner not found")

// LearnerRepository stores learner snapshots: one learners row, one row per
// chain position and the learned set.
type LearnerRepository struct {
	db postgres.DBTX
}

// NewLearnerRepository creates a new LearnerRepository on a pool or a transaction.
func NewLearnerRepository(db postgres.DBTX) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// Create inserts a freshly enrolled learner. It reports false without touching
// anything if the learner already exists.
func (r *LearnerRepository) Create(ctx context.Context, l *entities.Learner) (bool, error) {
	query := `
		INSERT INTO learners (
			user_id, chat_id, head, attempts_total, attempts_correct,
			reminders_enabled, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO NOTHING
	`

	tag, err := r.db.Exec(
		ctx,
		query,
		l.UserID,
		l.ChatID,
		toNullable(l.State.Head),
		l.State.AttemptsTotal,
		l.State.AttemptsCorrect,
		l.RemindersEnabled,
		l.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("create learner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := r.saveItems(ctx, l.UserID, l.State.Items); err != nil {
		return false, err
	}
	if err := r.saveLearned(ctx, l.UserID, l.State.Learned); err != nil {
		return false, err
	}

	return true, nil
}

// Exists checks if a learner with the given ID is enrolled.
func (r *LearnerRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM learners WHERE user_id = $1)"

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check learner existence: %w", err)
	}

	return exists, nil
}

// Load reads the full snapshot of a learner. With forUpdate the learners row
// stays locked until the surrounding transaction ends.
func (r *LearnerRepository) Load(ctx context.Context, userID int64, forUpdate bool) (*entities.Learner, error) {
	query := `
		SELECT user_id, chat_id, head, attempts_total, attempts_correct,
		       reminders_enabled, last_guess_at, last_reminded_at, created_at
		FROM learners
		WHERE user_id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var (
		l    entities.Learner
		head *int32
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&l.UserID,
		&l.ChatID,
		&head,
		&l.State.AttemptsTotal,
		&l.State.AttemptsCorrect,
		&l.RemindersEnabled,
		&l.LastGuessAt,
		&l.LastRemindedAt,
		&l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLearnerNotFound
		}
		return nil, fmt.Errorf("get learner: %w", err)
	}
	l.State.Head = fromNullable(head)

	if l.State.Items, err = r.loadItems(ctx, userID); err != nil {
		return nil, err
	}
	if l.State.Learned, err = r.loadLearned(ctx, userID); err != nil {
		return nil, err
	}

	if err := l.State.Validate(); err != nil {
		return nil, fmt.Errorf("learner %d: %w", userID, err)
	}

	return &l, nil
}

// Save writes back the whole snapshot of an existing learner.
func (r *LearnerRepository) Save(ctx context.Context, l *entities.Learner) error {
	query := `
		UPDATE learners SET
			chat_id = $2,
			head = $3,
			attempts_total = $4,
			attempts_correct = $5,
			reminders_enabled = $6,
			last_guess_at = $7,
			last_reminded_at = $8
		WHERE user_id = $1
	`

	tag, err := r.db.Exec(
		ctx,
		query,
		l.UserID,
		l.ChatID,
		toNullable(l.State.Head),
		l.State.AttemptsTotal,
		l.State.AttemptsCorrect,
		l.RemindersEnabled,
		l.LastGuessAt,
		l.LastRemindedAt,
	)
	if err != nil {
		return fmt.Errorf("update learner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLearnerNotFound
	}

	if err := r.saveItems(ctx, l.UserID, l.State.Items); err != nil {
		return err
	}

	return r.saveLearned(ctx, l.UserID, l.State.Learned)
}

// Delete removes a learner together with their chain and learned set.
func (r *LearnerRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM learners WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete learner: %w", err)
	}
	return nil
}

// SetReminders switches reminders on or off.
func (r *LearnerRepository) SetReminders(ctx context.Context, userID int64, enabled bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE learners SET reminders_enabled = $2 WHERE user_id = $1`, userID, enabled)
	if err != nil {
		return fmt.Errorf("set reminders: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLearnerNotFound
	}
	return nil
}

// ListIdle returns learners with reminders enabled whose last activity is older
// than idleSince and who were not reminded since that activity.
func (r *LearnerRepository) ListIdle(ctx context.Context, idleSince time.Time, limit int) ([]entities.IdleLearner, error) {
	query := `
		SELECT l.user_id, l.chat_id, COALESCE(l.last_guess_at, l.created_at) AS last_activity,
		       l.attempts_total,
		       (SELECT COUNT(*) FROM learned_items li WHERE li.user_id = l.user_id) AS learned
		FROM learners l
		WHERE l.reminders_enabled
		  AND COALESCE(l.last_guess_at, l.created_at) < $1
		  AND (l.last_reminded_at IS NULL OR l.last_reminded_at < COALESCE(l.last_guess_at, l.created_at))
		ORDER BY last_activity
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, idleSince, limit)
	if err != nil {
		return nil, fmt.Errorf("list idle learners: %w", err)
	}

	idle, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.IdleLearner, error) {
		var l entities.IdleLearner
		err := row.Scan(&l.UserID, &l.ChatID, &l.LastActivityAt, &l.AttemptsTotal, &l.Learned)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan idle learners: %w", err)
	}

	return idle, nil
}

// MarkReminded records when the last reminder was sent.
func (r *LearnerRepository) MarkReminded(ctx context.Context, userID int64, at time.Time) error {
	if _, err := r.db.Exec(ctx, `UPDATE learners SET last_reminded_at = $2 WHERE user_id = $1`, userID, at); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}

func (r *LearnerRepository) loadItems(ctx context.Context, userID int64) (chain.Chain, error) {
	query := `
		SELECT position, item_id, answer, multiplier, next_position,
		       attempts_total, attempts_correct
		FROM learner_items
		WHERE user_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get learner items: %w", err)
	}
	defer rows.Close()

	var items chain.Chain
	for rows.Next() {
		var (
			position int
			next     *int32
			item     chain.Item
		)
		if err := rows.Scan(
			&position,
			&item.ID,
			&item.Answer,
			&item.Multiplier,
			&next,
			&item.AttemptsTotal,
			&item.AttemptsCorrect,
		); err != nil {
			return nil, fmt.Errorf("scan learner item: %w", err)
		}
		if position != len(items) {
			return nil, fmt.Errorf("learner %d position %d: %w", userID, position, chain.ErrCorruptChain)
		}
		item.Next = fromNullable(next)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate learner items: %w", err)
	}

	return items, nil
}

func (r *LearnerRepository) saveItems(ctx context.Context, userID int64, items chain.Chain) error {
	query := `
		INSERT INTO learner_items (
			user_id, position, item_id, answer, multiplier, next_position,
			attempts_total, attempts_correct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, position) DO UPDATE SET
			item_id = EXCLUDED.item_id,
			answer = EXCLUDED.answer,
			multiplier = EXCLUDED.multiplier,
			next_position = EXCLUDED.next_position,
			attempts_total = EXCLUDED.attempts_total,
			attempts_correct = EXCLUDED.attempts_correct
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(
			query,
			userID,
			i,
			item.ID,
			item.Answer,
			item.Multiplier,
			toNullable(item.Next),
			item.AttemptsTotal,
			item.AttemptsCorrect,
		)
	}
	batch.Queue(`DELETE FROM learner_items WHERE user_id = $1 AND position >= $2`, userID, len(items))

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save learner items: %w", err)
	}

	return nil
}

func (r *LearnerRepository) loadLearned(ctx context.Context, userID int64) ([]chain.LearnedEntry, error) {
	query := `
		SELECT item_id, attempts_total, attempts_correct
		FROM learned_items
		WHERE user_id = $1
		ORDER BY ordinal
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get learned items: %w", err)
	}

	learned, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (chain.LearnedEntry, error) {
		var e chain.LearnedEntry
		err := row.Scan(&e.ItemID, &e.AttemptsTotal, &e.AttemptsCorrect)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan learned items: %w", err)
	}

	return learned, nil
}

func (r *LearnerRepository) saveLearned(ctx context.Context, userID int64, learned []chain.LearnedEntry) error {
	upsert := `
		INSERT INTO learned_items (user_id, item_id, ordinal, attempts_total, attempts_correct)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			ordinal = EXCLUDED.ordinal,
			attempts_total = EXCLUDED.attempts_total,
			attempts_correct = EXCLUDED.attempts_correct
	`

	ids := make([]string, 0, len(learned))
	batch := &pgx.Batch{}
	for i, e := range learned {
		ids = append(ids, e.ItemID)
		batch.Queue(upsert, userID, e.ItemID, i, e.AttemptsTotal, e.AttemptsCorrect)
	}
	batch.Queue(`DELETE FROM learned_items WHERE user_id = $1 AND NOT (item_id = ANY($2))`, userID, ids)

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save learned items: %w", err)
	}

	return nil
}

func toNullable(index int) *int32 {
	if index == chain.Terminal {
		return nil
	}
	v := int32(index)
	return &v
}

func fromNullable(v *int32) int {
	if v == nil {
		return chain.Terminal
	}
	return int(*v)
}
