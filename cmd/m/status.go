package main

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/obfusk/m/internal/config"
	"github.com/obfusk/m/internal/player"
	"github.com/obfusk/m/internal/store"
	"github.com/obfusk/m/internal/tracker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show playing files with stored and live positions",
	Long: `Show every file in playing state, its stored position, and the
position a running player currently reports for it.

Both VLC and mpv are probed regardless of the configured player, so a
session started by hand still shows up. Probing is best-effort: a
player that is not running simply contributes nothing.`,
	Args: cobra.NoArgs,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	cfg, sess, dir, err := setup()
	if err != nil {
		return err
	}

	view, err := sess.View(dir, cfg.ScanOptions())
	if err != nil {
		return err
	}

	var playing []tracker.Item
	for _, it := range view {
		if it.State.State == store.StatePlaying {
			playing = append(playing, it)
		}
	}
	if len(playing) == 0 {
		fmt.Println("Nothing in playing state.")
		return nil
	}

	names := make([]string, len(playing))
	for i, it := range playing {
		names[i] = it.Name
	}
	live := probeLive(cfg, dir, names)

	width := len("FILE")
	for _, it := range playing {
		if len(it.Name) > width {
			width = len(it.Name)
		}
	}

	fmt.Printf("Playing (%d):\n\n", len(playing))
	fmt.Printf("  %-*s  %-10s %s\n", width, "FILE", "STORED", "LIVE")
	for _, it := range playing {
		liveCol := "-"
		if p, ok := live[it.Name]; ok {
			liveCol = fmt.Sprintf("%s (%s)", formatPosition(p.res.Position), p.kind)
		}
		fmt.Printf("  %-*s  %-10s %s\n", width, it.Name, formatPosition(it.State.Position), liveCol)
	}
	return nil
}

// liveProbe is one player's answer for one file.
type liveProbe struct {
	kind string
	res  player.Resume
}

// probeLive asks every supported player kind for the live position of
// each named file, in parallel. Results from an actually running player
// (mpv's socket) override VLC's on-disk interface state.
func probeLive(cfg *config.Config, dir string, names []string) map[string]liveProbe {
	log := newLogger(cfg)
	kinds := []string{"vlc", "mpv"}

	perKind := make([]map[string]player.Resume, len(kinds))
	var mu sync.Mutex
	var g errgroup.Group
	for i, kind := range kinds {
		p, err := player.New(kind, cfg.PlayerSettings(), log)
		if err != nil {
			continue
		}
		results := map[string]player.Resume{}
		perKind[i] = results
		for _, name := range names {
			g.Go(func() error {
				if r, ok := p.Resume(filepath.Join(dir, name)); ok {
					mu.Lock()
					results[name] = r
					mu.Unlock()
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	live := map[string]liveProbe{}
	for i, kind := range kinds {
		for name, r := range perKind[i] {
			live[name] = liveProbe{kind: kind, res: r}
		}
	}
	return live
}
