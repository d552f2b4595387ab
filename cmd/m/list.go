package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/obfusk/m/internal/store"
	"github.com/obfusk/m/internal/tracker"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l", "ls"},
	Short:   "List files and their playback state",
	Long: `List the directory's media files, one row per file.

The first column marks the state: '>' playing, 'x' done, '*' skipped,
blank for new. Playing rows show the stored position and when it was
last updated. Files that only exist in the record (moved or renamed
since) are listed last and marked (missing).`,
	Args: cobra.NoArgs,
	RunE: runListCmd,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runListCmd(cmd *cobra.Command, args []string) error {
	cfg, sess, dir, err := setup()
	if err != nil {
		return err
	}

	view, err := sess.View(dir, cfg.ScanOptions())
	if err != nil {
		return err
	}
	if len(view) == 0 {
		fmt.Println("No media files.")
		return nil
	}

	printView(view)
	return nil
}

func printView(v tracker.View) {
	width := 0
	for _, it := range v {
		if len(it.Name) > width {
			width = len(it.Name)
		}
	}

	for _, it := range v {
		row := styleFor(it.State.State).Render(
			fmt.Sprintf("%s %-*s", glyph(it.State.State), width, it.Name))

		var notes []string
		if it.State.State == store.StatePlaying {
			notes = append(notes, formatPosition(it.State.Position))
			if !it.State.UpdatedAt.IsZero() {
				notes = append(notes, "updated "+humanize.Time(it.State.UpdatedAt))
			}
		}
		if !it.OnDisk {
			notes = append(notes, "(missing)")
		}
		if len(notes) > 0 {
			row += mutedStyle.Render("  " + strings.Join(notes, "  "))
		}

		fmt.Println(row)
	}
}
