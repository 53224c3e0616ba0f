package assessment

import "errors"

var (
	// ErrInvalidTransition is returned when advance is attempted without a
	// recorded answer for the current step's question. The session is left
	// unchanged.
	ErrInvalidTransition = errors.New("cannot advance: current step has no answer")

	// ErrUnknownQuestion is returned when an answer references a question id
	// that is not in the catalog. The write is rejected.
	ErrUnknownQuestion = errors.New("unknown question id")

	// ErrInvalidAnswer is returned when an answer value does not fit the
	// question: empty value, option outside the option list, number outside
	// the scale bounds, or a value of the wrong kind.
	ErrInvalidAnswer = errors.New("invalid answer value")

	// ErrNotCompleted is returned by Results before the session has reached
	// the results state.
	ErrNotCompleted = errors.New("assessment not completed")
)
