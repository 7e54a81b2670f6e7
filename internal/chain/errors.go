package chain

import "errors"

var (
	// ErrEmptyGuess is returned when a guess is blank after trimming whitespace.
	ErrEmptyGuess = errors.New("empty guess")

	// ErrEmptyCatalog is returned when a chain is built from zero items.
	ErrEmptyCatalog = errors.New("empty catalog")

	// ErrOutOfRange is returned when an index is outside [0, N) or is Terminal
	// where a concrete index is required.
	ErrOutOfRange = errors.New("chain index out of range")

	// ErrCorruptChain is returned when the links of a chain violate its invariants.
	ErrCorruptChain = errors.New("corrupt chain")
)

// IsIntegrityError reports whether err signals broken chain data rather than bad user input.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrCorruptChain) ||
		errors.Is(err, ErrEmptyCatalog)
}
