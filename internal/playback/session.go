// Package playback orchestrates play sessions: pick a file, launch the
// player, read the position back, persist the transition.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/obfusk/m/internal/player"
	"github.com/obfusk/m/internal/scan"
	"github.com/obfusk/m/internal/store"
	"github.com/obfusk/m/internal/suggest"
	"github.com/obfusk/m/internal/tracker"
)

// DefaultBack is how far behind the stored position playback resumes. The
// stored position may trail the real one by a sampling interval, and a few
// seconds of overlap help the viewer pick the thread back up.
const DefaultBack = 5 * time.Second

// Session runs playback operations for one store and player.
type Session struct {
	store  *store.Store
	player player.Player
	back   time.Duration
	log    *slog.Logger
}

// NewSession creates a session. back is the resume back-off; negative
// means DefaultBack.
func NewSession(st *store.Store, p player.Player, back time.Duration, log *slog.Logger) *Session {
	if back < 0 {
		back = DefaultBack
	}
	return &Session{store: st, player: p, back: back, log: log.With("component", "playback")}
}

// View scans dir and classifies it against the stored record.
func (s *Session) View(dir string, opts scan.Options) (tracker.View, error) {
	entries, err := scan.Dir(dir, opts)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Load(dir)
	if err != nil {
		return nil, err
	}
	return tracker.Classify(entries, rec), nil
}

// Result is the outcome of one play session: the file that ran and the
// state it was left in.
type Result struct {
	Name  string
	State store.FileState
}

// PlayNext plays the next unfinished file of dir: the file currently
// playing if there is one, otherwise the first new one. ErrNothingToPlay
// means the directory is exhausted.
func (s *Session) PlayNext(ctx context.Context, dir string, opts scan.Options) (*Result, error) {
	entries, err := scan.Dir(dir, opts)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Load(dir)
	if err != nil {
		return nil, err
	}

	sel, extras := tracker.Next(tracker.Classify(entries, rec))
	if len(extras) > 0 {
		s.log.Warn("multiple files in playing state", "dir", dir, "files", extras)
	}
	if sel == nil {
		return nil, ErrNothingToPlay
	}
	return s.play(ctx, dir, rec, sel.Name, sel.Resume)
}

// PlayFile plays one named file of dir regardless of its state, resuming
// from its stored position if it has one.
func (s *Session) PlayFile(ctx context.Context, dir, name string, opts scan.Options) (*Result, error) {
	entries, err := scan.Dir(dir, opts)
	if err != nil {
		return nil, err
	}
	if err := resolveName(name, entries, nil); err != nil {
		return nil, err
	}
	rec, err := s.store.Load(dir)
	if err != nil {
		return nil, err
	}

	var resume time.Duration
	if st, ok := rec.Files[name]; ok && st.State == store.StatePlaying {
		resume = st.Position
	}
	return s.play(ctx, dir, rec, name, resume)
}

// SetState sets (or with st == nil clears) the stored state of one named
// file. The name may refer to a file on disk or to an existing record
// entry, so history can be corrected after a file is gone.
func (s *Session) SetState(dir, name string, st *store.FileState, opts scan.Options) error {
	entries, err := scan.Dir(dir, opts)
	if err != nil {
		return err
	}
	rec, err := s.store.Load(dir)
	if err != nil {
		return err
	}
	if err := resolveName(name, entries, rec); err != nil {
		return err
	}
	if _, err := s.store.Update(dir, map[string]*store.FileState{name: st}); err != nil {
		return err
	}
	return nil
}

// play runs one session for name and persists the resulting state. A
// player failure aborts before any store write.
func (s *Session) play(ctx context.Context, dir string, rec *store.Record, name string, resume time.Duration) (*Result, error) {
	path := filepath.Join(dir, name)
	start := resume - s.back
	if start < 0 {
		start = 0
	}

	s.log.Info("playing", "file", path, "start", start)
	if err := s.player.Play(ctx, path, start); err != nil {
		return nil, fmt.Errorf("play %s: %w", name, err)
	}

	var res *player.Resume
	if r, ok := s.player.Resume(path); ok {
		res = &r
	}

	prior, ok := rec.Files[name]
	if !ok {
		prior = store.FileState{State: store.StateNew}
	}
	next := tracker.Transition(prior, res, time.Now())

	s.log.Info("session ended", "file", name, "state", next.State, "position", next.Position)
	if _, err := s.store.Update(dir, map[string]*store.FileState{name: &next}); err != nil {
		return nil, err
	}
	return &Result{Name: name, State: next}, nil
}

// resolveName checks that name is a bare filename matching a scanned entry
// or, when rec is given, a record entry. A failed match carries the closest
// candidate as a suggestion.
func resolveName(name string, entries []scan.Entry, rec *store.Record) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid file name %q: must be a bare name", name)
	}

	candidates := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name == name {
			return nil
		}
		candidates = append(candidates, e.Name)
	}
	if rec != nil {
		recorded := make([]string, 0, len(rec.Files))
		for n := range rec.Files {
			if n == name {
				return nil
			}
			recorded = append(recorded, n)
		}
		sort.Strings(recorded)
		candidates = append(candidates, recorded...)
	}

	sug, _ := suggest.Closest(name, candidates)
	return &UnknownFileError{Name: name, Suggestion: sug}
}
