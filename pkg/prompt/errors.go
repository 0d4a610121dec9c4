package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrManagerRequired is returned by New without a manager.
	ErrManagerRequired = errors.New("prompt: manager is required")
)
