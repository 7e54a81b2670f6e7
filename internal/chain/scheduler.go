package chain

import (
	"fmt"
	"strings"
)

// MaxMultiplier bounds multiplier growth. It is far larger than any chain,
// so the clamped walk never notices it.
const MaxMultiplier = 1 << 20

// GuessResult describes the outcome of one answer.
type GuessResult struct {
	ItemID  string
	Answer  string
	Correct bool
	Item    Score // tallies of the answered item after the update
	Learned bool  // the answered item is in the learned set after the update
}

// ProcessGuess scores guess against the current item, moves the item further
// down the chain on success (or right behind the next item on failure) and
// returns the resulting state. The input state is left untouched.
func ProcessGuess(state State, guess string) (State, GuessResult, error) {
	if strings.TrimSpace(guess) == "" {
		return state, GuessResult{}, ErrEmptyGuess
	}

	head := state.CurrentIndex()
	current, err := state.Items.Get(head)
	if err != nil {
		return state, GuessResult{}, fmt.Errorf("resolve head: %w", err)
	}
	nextHead := current.Next

	correct := normalize(guess) == normalize(current.Answer)

	if correct {
		current.Multiplier = min(current.Multiplier*2, MaxMultiplier)
	} else {
		current.Multiplier = 1
	}
	current.Score.Record(correct)

	target, err := walk(state.Items, head, current.Multiplier)
	if err != nil {
		return state, GuessResult{}, err
	}

	next := state.Clone()

	if target == head {
		// The item is already the tail; nothing to splice behind.
		if err := next.Items.Set(head, current); err != nil {
			return state, GuessResult{}, err
		}
	} else {
		t := next.Items[target]
		current.Next = t.Next
		t.Next = head

		if err := next.Items.Set(head, current); err != nil {
			return state, GuessResult{}, err
		}
		if err := next.Items.Set(target, t); err != nil {
			return state, GuessResult{}, err
		}
	}

	next.Head = nextHead
	next.Score.Record(correct)
	next.Learned = UpdateLearned(next.Learned, current)

	return next, GuessResult{
		ItemID:  current.ID,
		Answer:  current.Answer,
		Correct: correct,
		Item:    current.Score,
		Learned: current.IsMastered(),
	}, nil
}

// walk follows up to hops links from start and returns the index it stops at.
// It stops early at the tail. Every visited index is bounds-checked.
func walk(items Chain, start, hops int) (int, error) {
	n := items.Len()
	if hops > n {
		hops = n
	}

	idx := start
	for range hops {
		item, err := items.Get(idx)
		if err != nil {
			return 0, fmt.Errorf("walk: %w", err)
		}
		if item.Next == Terminal {
			break
		}
		if _, err := items.Get(item.Next); err != nil {
			return 0, fmt.Errorf("walk from %d: %w", idx, err)
		}
		if item.Next == start {
			return 0, fmt.Errorf("walk returns to %d: %w", start, ErrCorruptChain)
		}
		idx = item.Next
	}

	return idx, nil
}

func normalize(s string) string {
	return strings.ToLower(s)
}
