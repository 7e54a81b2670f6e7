package storage

import (
	"sync"
	"time"
)

// ReminderMessage identifies a reminder already delivered to a chat.
type ReminderMessage struct {
	MessageID int
	SentAt    time.Time
}

// ReminderMessages remembers the last reminder sent to each chat so it can be
// cleaned up once it is stale. It lives in memory; a restart forgets it.
type ReminderMessages struct {
	mu       sync.Mutex
	messages map[int64]ReminderMessage
}

func NewReminderMessages() *ReminderMessages {
	return &ReminderMessages{
		messages: make(map[int64]ReminderMessage),
	}
}

// Swap records msg as the chat's current reminder and returns the one it replaces.
func (s *ReminderMessages) Swap(chatID int64, msg ReminderMessage) (prev ReminderMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[chatID]
	s.messages[chatID] = msg

	return prev, hadPrev
}

// Take removes and returns the chat's current reminder.
func (s *ReminderMessages) Take(chatID int64) (ReminderMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[chatID]
	if ok {
		delete(s.messages, chatID)
	}
	return msg, ok
}

func (s *ReminderMessages) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
