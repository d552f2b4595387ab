package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/obfusk/m/internal/kodi"
	"github.com/obfusk/m/internal/store"
)

var kodiWatchedCmd = &cobra.Command{
	Use:   "kodi-import-watched",
	Short: "Import watched flags from the Kodi video database",
	Long: `Mark files Kodi has fully watched (play count over zero) as done.

Reads the Kodi video database read-only; Kodi itself is never touched.
Other entries in the affected records are left as they are.`,
	Args: cobra.NoArgs,
	RunE: runKodiWatchedCmd,
}

var kodiPlayingCmd = &cobra.Command{
	Use:   "kodi-import-playing",
	Short: "Import resume points from the Kodi video database",
	Long: `Set files Kodi has a resume bookmark for to playing at that position.

Reads the Kodi video database read-only; Kodi itself is never touched.
Other entries in the affected records are left as they are.`,
	Args: cobra.NoArgs,
	RunE: runKodiPlayingCmd,
}

func init() {
	rootCmd.AddCommand(kodiWatchedCmd)
	rootCmd.AddCommand(kodiPlayingCmd)
}

func runKodiWatchedCmd(cmd *cobra.Command, args []string) error {
	return runKodiImport(func(db *kodi.DB) (kodi.Changes, error) {
		return db.Watched()
	})
}

func runKodiPlayingCmd(cmd *cobra.Command, args []string) error {
	return runKodiImport(func(db *kodi.DB) (kodi.Changes, error) {
		return db.Playing(time.Now())
	})
}

func runKodiImport(read func(*kodi.DB) (kodi.Changes, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := kodi.Open(cfg.Kodi.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	changes, err := read(db)
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(changes))
	for dir := range changes {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	st := store.New(cfg.Library.DataDir)
	files := 0
	for _, dir := range dirs {
		if _, err := st.Update(dir, changes[dir]); err != nil {
			return fmt.Errorf("import %s: %w", dir, err)
		}
		files += len(changes[dir])
	}

	fmt.Printf("Imported %d files in %d directories.\n", files, len(dirs))
	return nil
}
