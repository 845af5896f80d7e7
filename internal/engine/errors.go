package engine

import "errors"

// Invalid-input conditions are the only cases in which the engine refuses an
// outcome. Everything else is recovered per the sanitize-on-read policy.
var (
	// ErrInvalidOutcome is returned when an outcome does not identify a
	// winner or references the same player twice.
	ErrInvalidOutcome = errors.New("invalid match outcome")

	// ErrMissingClub is returned when a club-context outcome carries no
	// club ID.
	ErrMissingClub = errors.New("club context outcome missing club id")
)
