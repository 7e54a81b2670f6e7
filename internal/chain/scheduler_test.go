package chain

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerOf(t *testing.T, s State) string {
	t.Helper()
	item, err := s.Current()
	require.NoError(t, err)
	return item.Answer
}

func mustOrder(t *testing.T, s State) []int {
	t.Helper()
	order, err := s.Order()
	require.NoError(t, err)
	return order
}

func TestProcessGuessCorrectDoublesDistance(t *testing.T) {
	s := mustState(t, 10)

	next, res, err := ProcessGuess(s, strings.ToUpper(answerOf(t, s)))
	require.NoError(t, err)

	assert.True(t, res.Correct)
	assert.Equal(t, "answer 0", res.Answer)
	assert.Equal(t, "sign-0.svg", res.ItemID)
	assert.Equal(t, 2, next.Items[0].Multiplier)
	assert.Equal(t, 1, next.Head)
	assert.Equal(t, 3, next.Items[0].Next)
	assert.Equal(t, 0, next.Items[2].Next)
	assert.Equal(t, 2, next.Items[1].Next)
	assert.Equal(t, []int{1, 2, 0, 3, 4, 5, 6, 7, 8, 9}, mustOrder(t, next))

	assert.Equal(t, Score{AttemptsTotal: 1, AttemptsCorrect: 1}, next.Score)
	assert.Equal(t, Score{AttemptsTotal: 1, AttemptsCorrect: 1}, next.Items[0].Score)
	assert.Equal(t, next.Items[0].Score, res.Item)
}

func TestProcessGuessIncorrectResetsToOneHop(t *testing.T) {
	s := mustState(t, 10)
	s.Items[0].Multiplier = 4

	next, res, err := ProcessGuess(s, "definitely wrong")
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Equal(t, "answer 0", res.Answer)
	assert.Equal(t, 1, next.Items[0].Multiplier)
	assert.Equal(t, 1, next.Head)
	assert.Equal(t, 0, next.Items[1].Next)
	assert.Equal(t, 2, next.Items[0].Next)
	assert.Equal(t, []int{1, 0, 2, 3, 4, 5, 6, 7, 8, 9}, mustOrder(t, next))

	assert.Equal(t, Score{AttemptsTotal: 1}, next.Score)
	assert.Equal(t, Score{AttemptsTotal: 1}, next.Items[0].Score)
}

func TestProcessGuessClampsAtTail(t *testing.T) {
	s := mustState(t, 4)
	s.Items[0].Multiplier = 3

	next, res, err := ProcessGuess(s, answerOf(t, s))
	require.NoError(t, err)

	assert.True(t, res.Correct)
	assert.Equal(t, 6, next.Items[0].Multiplier)
	assert.Equal(t, Terminal, next.Items[0].Next)
	assert.Equal(t, 0, next.Items[3].Next)
	assert.Equal(t, []int{1, 2, 3, 0}, mustOrder(t, next))
}

func TestProcessGuessMasteryEnterAndLeave(t *testing.T) {
	s := mustState(t, 1)
	s.Items[0].Multiplier = 8
	s.Items[0].Score = Score{AttemptsTotal: 5, AttemptsCorrect: 3}

	learned, res, err := ProcessGuess(s, answerOf(t, s))
	require.NoError(t, err)

	assert.True(t, res.Learned)
	assert.Equal(t, 16, learned.Items[0].Multiplier)
	require.Len(t, learned.Learned, 1)
	assert.Equal(t, LearnedEntry{
		ItemID: "sign-0.svg",
		Score:  Score{AttemptsTotal: 6, AttemptsCorrect: 4},
	}, learned.Learned[0])

	// A single item is its own tail: no splice, head wraps.
	assert.Equal(t, Terminal, learned.Items[0].Next)
	assert.Equal(t, Terminal, learned.Head)
	assert.Equal(t, 0, learned.CurrentIndex())

	forgotten, res, err := ProcessGuess(learned, "wrong")
	require.NoError(t, err)

	assert.False(t, res.Learned)
	assert.Equal(t, 1, forgotten.Items[0].Multiplier)
	assert.Empty(t, forgotten.Learned)
	assert.Equal(t, Score{AttemptsTotal: 7, AttemptsCorrect: 4}, forgotten.Items[0].Score)
}

func TestProcessGuessMasteryOverwritesEntry(t *testing.T) {
	s := mustState(t, 1)
	s.Items[0].Multiplier = 16
	s.Items[0].Score = Score{AttemptsTotal: 4, AttemptsCorrect: 4}
	s.Learned = DeriveLearned(s.Items)

	next, _, err := ProcessGuess(s, answerOf(t, s))
	require.NoError(t, err)

	require.Len(t, next.Learned, 1)
	assert.Equal(t, Score{AttemptsTotal: 5, AttemptsCorrect: 5}, next.Learned[0].Score)
}

func TestProcessGuessEmptyGuess(t *testing.T) {
	s := mustState(t, 3)

	for _, guess := range []string{"", "   ", "\t\n"} {
		next, _, err := ProcessGuess(s, guess)
		assert.ErrorIs(t, err, ErrEmptyGuess)
		assert.Equal(t, s, next)
	}
	assert.Zero(t, s.AttemptsTotal)
}

func TestProcessGuessOnlyFoldsCase(t *testing.T) {
	s := mustState(t, 3)

	_, res, err := ProcessGuess(s, " answer 0")
	require.NoError(t, err)
	assert.False(t, res.Correct)

	_, res, err = ProcessGuess(s, "AnSwEr 0")
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestProcessGuessDoesNotMutateInput(t *testing.T) {
	s := mustState(t, 5)
	before := s.Clone()

	_, _, err := ProcessGuess(s, answerOf(t, s))
	require.NoError(t, err)

	assert.Equal(t, before, s)
}

func TestProcessGuessIntegrityErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *State)
		wantErr error
	}{
		{
			name:    "head out of range",
			mutate:  func(s *State) { s.Head = 42 },
			wantErr: ErrOutOfRange,
		},
		{
			name:    "next out of range",
			mutate:  func(s *State) { s.Items[1].Next = 42 },
			wantErr: ErrOutOfRange,
		},
		{
			name:    "cycle back to head",
			mutate:  func(s *State) { s.Items[1].Next = 0 },
			wantErr: ErrCorruptChain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustState(t, 3)
			s.Items[0].Multiplier = 2
			tt.mutate(&s)
			before := s.Clone()

			next, _, err := ProcessGuess(s, answerOf(t, mustState(t, 3)))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsIntegrityError(err))
			assert.Equal(t, before, next)
		})
	}
}

func TestProcessGuessKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := mustState(t, 12)

	for step := 0; step < 5000; step++ {
		guess := "nope"
		if rng.Intn(4) != 0 {
			guess = answerOf(t, s)
		}

		next, _, err := ProcessGuess(s, guess)
		require.NoError(t, err)
		s = next

		require.NoError(t, s.Validate(), "step %d", step)
		assert.Len(t, mustOrder(t, s), 12)
		assert.ElementsMatch(t, DeriveLearned(s.Items), s.Learned, "step %d", step)
	}

	assert.Equal(t, 5000, s.AttemptsTotal)
	total := 0
	for _, item := range s.Items {
		total += item.AttemptsTotal
	}
	assert.Equal(t, 5000, total)
}

func TestProcessGuessLearnsEverything(t *testing.T) {
	s := mustState(t, 10)

	steps := 0
	for len(s.Learned) < s.Items.Len() {
		require.Less(t, steps, 10_000, "scheduler did not converge")

		next, res, err := ProcessGuess(s, answerOf(t, s))
		require.NoError(t, err)
		require.True(t, res.Correct)
		s = next
		steps++
	}

	for _, item := range s.Items {
		assert.True(t, item.IsMastered())
		assert.Equal(t, item.AttemptsTotal, item.AttemptsCorrect)
	}
	assert.NoError(t, s.Validate())
}

func TestProcessGuessMultiplierIsCapped(t *testing.T) {
	s := mustState(t, 2)
	s.Items[0].Multiplier = MaxMultiplier

	next, _, err := ProcessGuess(s, answerOf(t, s))
	require.NoError(t, err)
	assert.Equal(t, MaxMultiplier, next.Items[0].Multiplier)
}
