package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obfusk/m/internal/store"
)

var markCmd = &cobra.Command{
	Use:     "mark FILE",
	Aliases: []string{"m"},
	Short:   "Mark a file as done",
	Args:    cobra.ExactArgs(1),
	RunE:    runMarkCmd,
}

var unmarkCmd = &cobra.Command{
	Use:     "unmark FILE",
	Aliases: []string{"u"},
	Short:   "Forget a file's state, making it new again",
	Args:    cobra.ExactArgs(1),
	RunE:    runUnmarkCmd,
}

var skipCmd = &cobra.Command{
	Use:     "skip FILE",
	Aliases: []string{"s"},
	Short:   "Exclude a file from playback rotation",
	Args:    cobra.ExactArgs(1),
	RunE:    runSkipCmd,
}

func init() {
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(unmarkCmd)
	rootCmd.AddCommand(skipCmd)
}

func runMarkCmd(cmd *cobra.Command, args []string) error {
	done := store.Done()
	if err := applyState(args[0], &done); err != nil {
		return err
	}
	fmt.Printf("%s: done\n", args[0])
	return nil
}

func runUnmarkCmd(cmd *cobra.Command, args []string) error {
	if err := applyState(args[0], nil); err != nil {
		return err
	}
	fmt.Printf("%s: new\n", args[0])
	return nil
}

func runSkipCmd(cmd *cobra.Command, args []string) error {
	skipped := store.Skipped()
	if err := applyState(args[0], &skipped); err != nil {
		return err
	}
	fmt.Printf("%s: skipped\n", args[0])
	return nil
}

// applyState sets (or with st == nil clears) the stored state of one
// file in the working directory.
func applyState(name string, st *store.FileState) error {
	cfg, sess, dir, err := setup()
	if err != nil {
		return err
	}
	return sess.SetState(dir, name, st, cfg.ScanOptions())
}
