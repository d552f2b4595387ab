package store

import "errors"

var (
	// ErrCorrupt indicates a record file exists but is not well-formed.
	// Corrupt records are reported and left untouched, never auto-repaired.
	ErrCorrupt = errors.New("corrupt record")
)
