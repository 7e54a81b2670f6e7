package service

import (
	"errors"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
)

var ErrNotEnrolled = errors.New("learner is not enrolled")

// IsUserError reports whether err can be fixed by the learner, as opposed to an internal failure.
func IsUserError(err error) bool {
	return errors.Is(err, chain.ErrEmptyGuess) || errors.Is(err, ErrNotEnrolled)
}
