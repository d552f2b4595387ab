// Package scan lists the playable files of a directory.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultExtensions is the extension filter used when none is configured.
var DefaultExtensions = []string{".avi", ".mp4", ".mkv"}

// Entry is a playable file found on disk. Entries are ephemeral: they are
// rebuilt on every scan and never persisted.
type Entry struct {
	Name string
}

// Options controls which files a scan returns and how they are ordered.
type Options struct {
	Extensions []string // with leading dot; empty means DefaultExtensions
	ShowHidden bool     // include dotfiles
	Locale     string   // BCP-47 tag; empty means byte-wise ordering
}

// Dir lists the playable files directly inside path, ordered
// deterministically. Filesystem errors are returned wrapped, so callers can
// test for fs.ErrPermission and friends.
func Dir(path string, opts Options) ([]Entry, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("scan directory: %w", err)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var names []string
	for _, d := range dirents {
		if !isRegular(path, d) {
			continue
		}
		name := d.Name()
		if !opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !matchExt(name, exts) {
			continue
		}
		names = append(names, name)
	}

	if err := sortNames(names, opts.Locale); err != nil {
		return nil, err
	}

	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = Entry{Name: name}
	}
	return entries, nil
}

// isRegular reports whether d is a regular file, following symlinks.
func isRegular(dir string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, d.Name()))
	return err == nil && info.Mode().IsRegular()
}

func matchExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func sortNames(names []string, locale string) error {
	if locale == "" {
		sort.Strings(names)
		return nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}
	collate.New(tag).SortStrings(names)
	return nil
}
