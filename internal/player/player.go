// Package player launches external media players and extracts resume
// positions from their live state.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Resume is a playback position read from a player. A zero Duration means
// the total length is unknown.
type Resume struct {
	Position time.Duration
	Duration time.Duration
}

// Player is the interface for media player implementations.
type Player interface {
	// Name returns the player kind, e.g. "vlc".
	Name() string

	// Available reports whether the player binary exists in PATH.
	Available() bool

	// Play starts playback of path and blocks until the player exits.
	// A start > 0 asks the player to seek before playing.
	Play(ctx context.Context, path string, start time.Duration) error

	// Resume reports the last known playback position for path. It is
	// best-effort: false means no usable position, never an error.
	Resume(path string) (Resume, bool)
}

// Config carries the resolved player settings.
type Config struct {
	Binary         string   // optional PATH override
	ExtraArgs      []string // appended before the file argument
	VLCConf        string   // vlc-qt-interface.conf location
	MPVSocket      string   // IPC socket path
	SampleInterval time.Duration
}

// New creates a player by kind.
func New(kind string, cfg Config, log *slog.Logger) (Player, error) {
	log = log.With("component", "player")
	switch kind {
	case "vlc":
		return NewVLC(cfg, log), nil
	case "mpv":
		return NewMPV(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown player kind %q", kind)
	}
}

// maxPlausible is the largest position accepted when the duration is
// unknown. A bad resume point is worse than restarting from zero.
const maxPlausible = 24 * time.Hour

// sanitize floors a position to whole seconds and rejects or clamps
// implausible values.
func sanitize(r Resume) (Resume, bool) {
	r.Position = r.Position.Truncate(time.Second)
	r.Duration = r.Duration.Truncate(time.Second)
	if r.Position < 0 {
		return Resume{}, false
	}
	if r.Duration < 0 {
		r.Duration = 0
	}
	if r.Duration > 0 {
		if r.Position > r.Duration {
			r.Position = r.Duration
		}
		return r, true
	}
	if r.Position > maxPlausible {
		return Resume{}, false
	}
	return r, true
}
