// Package chain implements the presentation-order scheduler: a singly-linked
// chain of items stored by index whose links are rewritten after every answer.
package chain

import (
	"fmt"
	"slices"
)

// Terminal marks the end of the chain.
const Terminal = -1

// CatalogEntry is one quiz item as supplied by the catalog.
type CatalogEntry struct {
	ID     string `json:"id"`     // opaque content reference, e.g. an image file name
	Answer string `json:"answer"` // canonical answer
}

// Item is a catalog entry together with its scheduling metadata.
type Item struct {
	ID         string `json:"id"`
	Answer     string `json:"answer"`
	Multiplier int    `json:"multiplier"`
	Next       int    `json:"next"` // index of the following item or Terminal
	Score
}

// Chain is a fixed-size arena of items. Next fields define the presentation order.
type Chain []Item

// Len returns the number of items in the chain.
func (c Chain) Len() int {
	return len(c)
}

// Get returns the item stored at index.
func (c Chain) Get(index int) (Item, error) {
	if index < 0 || index >= len(c) {
		return Item{}, fmt.Errorf("get item %d of %d: %w", index, len(c), ErrOutOfRange)
	}
	return c[index], nil
}

// Set stores item at index.
func (c Chain) Set(index int, item Item) error {
	if index < 0 || index >= len(c) {
		return fmt.Errorf("set item %d of %d: %w", index, len(c), ErrOutOfRange)
	}
	c[index] = item
	return nil
}

// Clone returns a copy of the chain that shares no memory with c.
func (c Chain) Clone() Chain {
	return slices.Clone(c)
}

// InitializeChain builds a fresh chain from the catalog: every multiplier is 1,
// item i links to i+1 and the last item links to Terminal.
func InitializeChain(catalog []CatalogEntry) (Chain, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := make(Chain, len(catalog))
	for i, entry := range catalog {
		next := i + 1
		if next == len(catalog) {
			next = Terminal
		}
		c[i] = Item{
			ID:         entry.ID,
			Answer:     entry.Answer,
			Multiplier: 1,
			Next:       next,
		}
	}

	return c, nil
}

// LearnedEntry records the tallies of an item at the time it reached mastery.
type LearnedEntry struct {
	ItemID string `json:"item_id"`
	Score
}

// State is the complete scheduling state of one learner.
type State struct {
	Items   Chain          `json:"items"`
	Head    int            `json:"head"` // index of the item presented next or Terminal
	Learned []LearnedEntry `json:"learned"`
	Score
}

// NewState returns the enrollment state for the catalog, with the head at the first item.
func NewState(catalog []CatalogEntry) (State, error) {
	items, err := InitializeChain(catalog)
	if err != nil {
		return State{}, err
	}

	return State{
		Items:   items,
		Head:    0,
		Learned: []LearnedEntry{},
	}, nil
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Items = s.Items.Clone()
	out.Learned = slices.Clone(s.Learned)
	if out.Learned == nil {
		out.Learned = []LearnedEntry{}
	}
	return out
}

// CurrentIndex resolves the head to a concrete index.
// A Terminal head wraps to the start of the arena (index 0).
func (s State) CurrentIndex() int {
	if s.Head == Terminal {
		return 0
	}
	return s.Head
}

// Current returns the item due to be presented next.
func (s State) Current() (Item, error) {
	return s.Items.Get(s.CurrentIndex())
}

// Order returns item indexes in presentation order, starting from the current item.
func (s State) Order() ([]int, error) {
	n := s.Items.Len()
	order := make([]int, 0, n)

	idx := s.CurrentIndex()
	for idx != Terminal {
		if len(order) == n {
			return nil, fmt.Errorf("walk exceeds %d items: %w", n, ErrCorruptChain)
		}
		item, err := s.Items.Get(idx)
		if err != nil {
			return nil, err
		}
		order = append(order, idx)
		idx = item.Next
	}

	return order, nil
}

// Validate checks every structural invariant of the state.
func (s State) Validate() error {
	n := s.Items.Len()
	if n == 0 {
		return ErrEmptyCatalog
	}
	if s.Head != Terminal && (s.Head < 0 || s.Head >= n) {
		return fmt.Errorf("head %d: %w", s.Head, ErrOutOfRange)
	}
	if !s.Score.valid() {
		return fmt.Errorf("learner tallies %d/%d: %w", s.AttemptsCorrect, s.AttemptsTotal, ErrCorruptChain)
	}

	for i, item := range s.Items {
		if item.Next != Terminal && (item.Next < 0 || item.Next >= n) {
			return fmt.Errorf("item %d next %d: %w", i, item.Next, ErrOutOfRange)
		}
		if item.Multiplier < 1 {
			return fmt.Errorf("item %d multiplier %d: %w", i, item.Multiplier, ErrCorruptChain)
		}
		if !item.Score.valid() {
			return fmt.Errorf("item %d tallies %d/%d: %w", i, item.AttemptsCorrect, item.AttemptsTotal, ErrCorruptChain)
		}
	}

	order, err := s.Order()
	if err != nil {
		return err
	}
	if len(order) != n {
		return fmt.Errorf("chain reaches %d of %d items: %w", len(order), n, ErrCorruptChain)
	}

	return nil
}
