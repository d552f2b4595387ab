package playback

import (
	"errors"
	"fmt"
)

// ErrNothingToPlay means every file in the directory is done or skipped.
var ErrNothingToPlay = errors.New("nothing to play")

// UnknownFileError reports a name that matched nothing, with a fuzzy
// suggestion when one clears the similarity threshold.
type UnknownFileError struct {
	Name       string
	Suggestion string
}

func (e *UnknownFileError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown file %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown file %q", e.Name)
}
