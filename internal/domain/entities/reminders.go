package entities

import "time"

// IdleLearner is a learner who has not answered for a while and has reminders enabled.
type IdleLearner struct {
	UserID         int64
	ChatID         int64
	LastActivityAt time.Time
	AttemptsTotal  int
	Learned        int // size of the learned set
}

// ReminderPayload carries what a reminder message needs to show.
type ReminderPayload struct {
	Learner    IdleLearner
	TotalSigns int // catalog size
	IdleFor    time.Duration
}
