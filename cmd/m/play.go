package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obfusk/m/internal/playback"
	"github.com/obfusk/m/internal/store"
)

var nextCmd = &cobra.Command{
	Use:     "next",
	Aliases: []string{"n"},
	Short:   "Play the next unfinished file",
	Long: `Play the next unfinished file of the directory.

A file in playing state is resumed a few seconds before its stored
position; otherwise the first unwatched file starts from the beginning.
When the player exits, the file's new state is recorded.`,
	Args: cobra.NoArgs,
	RunE: runNextCmd,
}

var playCmd = &cobra.Command{
	Use:     "play FILE",
	Aliases: []string{"p"},
	Short:   "Play one file, resuming its stored position",
	Args:    cobra.ExactArgs(1),
	RunE:    runPlayCmd,
}

func init() {
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(playCmd)
}

func runNextCmd(cmd *cobra.Command, args []string) error {
	cfg, sess, dir, err := setup()
	if err != nil {
		return err
	}

	res, err := sess.PlayNext(cmd.Context(), dir, cfg.ScanOptions())
	if errors.Is(err, playback.ErrNothingToPlay) {
		fmt.Println("No files to play.")
		return nil
	}
	if err != nil {
		return err
	}

	printResult(res)
	return nil
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	cfg, sess, dir, err := setup()
	if err != nil {
		return err
	}

	res, err := sess.PlayFile(cmd.Context(), dir, args[0], cfg.ScanOptions())
	if err != nil {
		return err
	}

	printResult(res)
	return nil
}

func printResult(r *playback.Result) {
	switch r.State.State {
	case store.StatePlaying:
		fmt.Printf("%s stopped at %s\n", r.Name, formatPosition(r.State.Position))
	case store.StateDone:
		fmt.Printf("%s done\n", r.Name)
	default:
		fmt.Printf("%s %s\n", r.Name, r.State.State)
	}
}
