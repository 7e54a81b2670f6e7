package entities

import "github.com/aliskhannn/road-signs-bot/internal/chain"

// GuessOutcome is what the learner is told after answering a sign.
type GuessOutcome struct {
	SignID   string
	Answer   string // canonical answer of the sign that was shown
	Correct  bool
	Sign     chain.Score // tallies of the answered sign
	Overall  chain.Score // tallies across all signs
	Learned  []chain.LearnedEntry
	Mastered bool // the answered sign is in the learned set now
	NextSign chain.CatalogEntry
}

// ProgressSummary reports a learner's standing.
type ProgressSummary struct {
	Overall    chain.Score
	Accuracy   float64 // percent
	Learned    []chain.LearnedEntry
	TotalSigns int
	Percentage float64 // learned share in percent
	NextSign   chain.CatalogEntry
	Reminders  bool
}
