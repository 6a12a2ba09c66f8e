package timeline

import "errors"

var (
	// ErrNoRecordings is returned when no documents produced any chunks;
	// callers surface it as a "no recordings for this date" status rather
	// than a failure.
	ErrNoRecordings = errors.New("no recordings for the selected date")
)
