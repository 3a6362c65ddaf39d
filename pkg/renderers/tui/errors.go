package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFeatures is returned when the backend offers nothing to select.
	ErrNoFeatures = errors.New("tui: no features to select")
)
