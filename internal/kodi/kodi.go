// Package kodi imports watched and in-progress state from a Kodi video
// database (MyVideos*.db).
package kodi

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/obfusk/m/internal/store"
)

// resumeBookmark is Kodi's bookmark type for resume points.
const resumeBookmark = 1

// Changes maps directory path to per-file state updates, ready to apply
// one store.Update per directory.
type Changes map[string]map[string]*store.FileState

// DB is a read-only handle on a Kodi video database.
type DB struct {
	db *sql.DB
}

// Open opens the database at path read-only. The file must already exist;
// Kodi owns it and this package never creates or writes one.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("kodi database: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open kodi database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database handle.
func (d *DB) Close() error { return d.db.Close() }

// Watched returns a done state for every file Kodi counts as played.
func (d *DB) Watched() (Changes, error) {
	rows, err := d.db.Query(`
		SELECT p.strPath, f.strFilename
		FROM files f
		JOIN path p ON p.idPath = f.idPath
		WHERE f.playCount > 0`)
	if err != nil {
		return nil, fmt.Errorf("query watched files: %w", err)
	}
	defer rows.Close()

	changes := Changes{}
	for rows.Next() {
		var dir, name string
		if err := rows.Scan(&dir, &name); err != nil {
			return nil, fmt.Errorf("scan watched row: %w", err)
		}
		st := store.Done()
		changes.add(dir, name, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watched rows: %w", err)
	}
	return changes, nil
}

// Playing returns a playing state for every file with a Kodi resume
// bookmark, stamped at now.
func (d *DB) Playing(now time.Time) (Changes, error) {
	rows, err := d.db.Query(`
		SELECT p.strPath, f.strFilename, b.timeInSeconds
		FROM bookmark b
		JOIN files f ON f.idFile = b.idFile
		JOIN path p ON p.idPath = f.idPath
		WHERE b.type = ? AND b.timeInSeconds > 0`, resumeBookmark)
	if err != nil {
		return nil, fmt.Errorf("query resume bookmarks: %w", err)
	}
	defer rows.Close()

	changes := Changes{}
	for rows.Next() {
		var dir, name string
		var secs float64
		if err := rows.Scan(&dir, &name, &secs); err != nil {
			return nil, fmt.Errorf("scan bookmark row: %w", err)
		}
		st := store.Playing(time.Duration(secs*float64(time.Second)), now)
		changes.add(dir, name, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmark rows: %w", err)
	}
	return changes, nil
}

// add files one entry under its parent directory. Kodi stores the
// directory with a trailing slash; Clean strips it so the key matches the
// spelling the rest of the tool uses.
func (c Changes) add(dir, name string, st *store.FileState) {
	dir = filepath.Clean(dir)
	if c[dir] == nil {
		c[dir] = map[string]*store.FileState{}
	}
	c[dir][name] = st
}
