// Package tracker classifies directory listings against persisted progress
// and decides what plays next.
package tracker

import (
	"sort"
	"time"

	"github.com/obfusk/m/internal/player"
	"github.com/obfusk/m/internal/scan"
	"github.com/obfusk/m/internal/store"
)

// Item is one row of a directory view.
type Item struct {
	Name   string
	State  store.FileState
	OnDisk bool
}

// View is a classified directory listing: scanned files in scan order,
// then record-only files (moved away or renamed since) in name order.
type View []Item

// Classify merges scanned entries with the directory's record. It is pure:
// identical inputs yield identical views.
func Classify(entries []scan.Entry, rec *store.Record) View {
	view := make(View, 0, len(entries))
	onDisk := make(map[string]bool, len(entries))
	for _, e := range entries {
		onDisk[e.Name] = true
		st, ok := rec.Files[e.Name]
		if !ok {
			st = store.FileState{State: store.StateNew}
		}
		view = append(view, Item{Name: e.Name, State: st, OnDisk: true})
	}

	var gone []string
	for name := range rec.Files {
		if !onDisk[name] {
			gone = append(gone, name)
		}
	}
	sort.Strings(gone)
	for _, name := range gone {
		view = append(view, Item{Name: name, State: rec.Files[name]})
	}
	return view
}

// Selection names the file to play and the position to resume from.
type Selection struct {
	Name   string
	Resume time.Duration
}

// Next picks the file to play: the first playing file still on disk wins
// over everything, otherwise the first new file on disk. The second return
// lists the names of further playing files when more than one is playing,
// which callers should surface as a warning. Files no longer on disk are
// never selected.
func Next(v View) (*Selection, []string) {
	var playing []Item
	for _, it := range v {
		if it.State.State == store.StatePlaying {
			playing = append(playing, it)
		}
	}

	var winner *Item
	for i := range playing {
		if playing[i].OnDisk {
			winner = &playing[i]
			break
		}
	}

	var extras []string
	if len(playing) > 1 {
		for _, it := range playing {
			if winner != nil && it.Name == winner.Name {
				continue
			}
			extras = append(extras, it.Name)
		}
	}

	if winner != nil {
		return &Selection{Name: winner.Name, Resume: winner.State.Position}, extras
	}
	for _, it := range v {
		if it.OnDisk && it.State.State == store.StateNew {
			return &Selection{Name: it.Name}, extras
		}
	}
	return nil, extras
}

// completionEpsilon is how close to the end a position must be for a file
// to count as finished.
const completionEpsilon = 10 * time.Second

// Transition computes a file's state after a play session ends. The session
// outcome supersedes prior entirely: no position reading means the player
// finished the file and discarded its state, a position near a known end
// means finished, and anything else stays playing. A zero position with
// unknown duration stays playing rather than guessing done.
func Transition(prior store.FileState, res *player.Resume, now time.Time) store.FileState {
	if res == nil {
		return store.Done()
	}
	if res.Duration > 0 && res.Position >= res.Duration-completionEpsilon {
		return store.Done()
	}
	return store.Playing(res.Position, now)
}
