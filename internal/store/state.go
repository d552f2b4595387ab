// Package store persists per-directory playback records.
//
// Each tracked directory gets one JSON document under the data directory,
// named after an encoding of the directory's absolute path. The path is
// taken verbatim — symlinks are not resolved — so two spellings of the same
// real directory are tracked separately. Concurrent invocations against the
// same directory are not coordinated; the last save wins.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// State is the playback state of a single file.
type State string

const (
	// StateNew is the implicit state of a scanned file with no record
	// entry. It is never persisted.
	StateNew State = "new"

	// StatePlaying marks a partially watched file with a resume position.
	StatePlaying State = "playing"

	// StateDone marks a fully watched file.
	StateDone State = "done"

	// StateSkipped excludes a file from playback rotation.
	StateSkipped State = "skipped"
)

// FileState is the state of one file within a directory record.
// Position and UpdatedAt are meaningful only for StatePlaying; both are
// second-granularity so records round-trip exactly.
type FileState struct {
	State     State
	Position  time.Duration
	UpdatedAt time.Time
}

// Playing builds a playing state at the given position, stamped at now.
func Playing(pos time.Duration, now time.Time) FileState {
	return FileState{
		State:     StatePlaying,
		Position:  pos.Truncate(time.Second),
		UpdatedAt: now.UTC().Truncate(time.Second),
	}
}

// Done builds a done state.
func Done() FileState { return FileState{State: StateDone} }

// Skipped builds a skipped state.
func Skipped() FileState { return FileState{State: StateSkipped} }

// fileStateJSON is the wire form of FileState.
type fileStateJSON struct {
	State        State      `json:"state"`
	PositionSecs *int64     `json:"position_secs,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// MarshalJSON encodes the state. StateNew is a load-time default, not a
// persistable value, and is rejected.
func (s FileState) MarshalJSON() ([]byte, error) {
	switch s.State {
	case StatePlaying:
		secs := int64(s.Position / time.Second)
		if secs < 0 {
			return nil, fmt.Errorf("marshal state: negative position %d", secs)
		}
		at := s.UpdatedAt.UTC().Truncate(time.Second)
		return json.Marshal(fileStateJSON{State: StatePlaying, PositionSecs: &secs, UpdatedAt: &at})
	case StateDone, StateSkipped:
		return json.Marshal(fileStateJSON{State: s.State})
	default:
		return nil, fmt.Errorf("marshal state: %q is not persistable", s.State)
	}
}

// UnmarshalJSON decodes a state, rejecting unknown kinds and kind/payload
// mismatches instead of defaulting.
func (s *FileState) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var w fileStateJSON
	if err := dec.Decode(&w); err != nil {
		return err
	}
	switch w.State {
	case StatePlaying:
		if w.PositionSecs == nil || *w.PositionSecs < 0 {
			return fmt.Errorf("playing state needs a non-negative position_secs")
		}
		if w.UpdatedAt == nil {
			return fmt.Errorf("playing state needs updated_at")
		}
		*s = FileState{
			State:     StatePlaying,
			Position:  time.Duration(*w.PositionSecs) * time.Second,
			UpdatedAt: w.UpdatedAt.UTC().Truncate(time.Second),
		}
		return nil
	case StateDone, StateSkipped:
		if w.PositionSecs != nil || w.UpdatedAt != nil {
			return fmt.Errorf("%s state carries no payload", w.State)
		}
		*s = FileState{State: w.State}
		return nil
	default:
		return fmt.Errorf("unknown state %q", w.State)
	}
}

// Record is the persisted progress for one directory: a mapping from bare
// filename to state. Entries for files no longer on disk are kept so history
// survives files being moved away and back.
type Record struct {
	Dir   string               `json:"dir"`
	Files map[string]FileState `json:"files"`
}

// NewRecord returns an empty record for a directory.
func NewRecord(dir string) *Record {
	return &Record{Dir: dir, Files: map[string]FileState{}}
}

// recordJSON mirrors Record with presence-detectable fields so a document
// missing either key fails to load.
type recordJSON struct {
	Dir   *string              `json:"dir"`
	Files map[string]FileState `json:"files"`
}

func decodeRecord(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var w recordJSON
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}
	if w.Dir == nil {
		return nil, fmt.Errorf("missing dir field")
	}
	if w.Files == nil {
		return nil, fmt.Errorf("missing files field")
	}
	return &Record{Dir: *w.Dir, Files: w.Files}, nil
}
