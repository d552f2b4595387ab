package player

import "errors"

var (
	// ErrNotFound means the player executable is not installed.
	ErrNotFound = errors.New("player not found")

	// ErrExit means the player exited unsuccessfully.
	ErrExit = errors.New("player failed")
)
