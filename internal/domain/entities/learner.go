// Package entities contains domain entities used across the application.
package entities

import (
	"time"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
)

// Learner is an enrolled bot user together with the scheduling state of their sign chain.
type Learner struct {
	UserID           int64       // Telegram user ID
	ChatID           int64       // chat the bot talks to the learner in
	State            chain.State // chain, head, tallies and learned set
	RemindersEnabled bool
	LastGuessAt      *time.Time // nullable
	LastRemindedAt   *time.Time // nullable
	CreatedAt        time.Time
}

// NewLearner enrolls a user with a fresh chain built from the catalog.
func NewLearner(userID, chatID int64, catalog []chain.CatalogEntry) (*Learner, error) {
	state, err := chain.NewState(catalog)
	if err != nil {
		return nil, err
	}

	return &Learner{
		UserID:           userID,
		ChatID:           chatID,
		State:            state,
		RemindersEnabled: true,
		CreatedAt:        time.Now().UTC(),
	}, nil
}
