package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined to
	// continue; the session is cancelled before this is returned.
	ErrAborted = errors.New("tui: aborted")
)
