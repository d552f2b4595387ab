package kodi

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// kodiSchema is the slice of Kodi's MyVideos schema this package reads.
const kodiSchema = `
CREATE TABLE path (
	idPath INTEGER PRIMARY KEY,
	strPath TEXT
);
CREATE TABLE files (
	idFile INTEGER PRIMARY KEY,
	idPath INTEGER,
	strFilename TEXT,
	playCount INTEGER
);
CREATE TABLE bookmark (
	idBookmark INTEGER PRIMARY KEY,
	idFile INTEGER,
	timeInSeconds DOUBLE,
	totalTimeInSeconds DOUBLE,
	type INTEGER
);
`

// setupTestDB writes a minimal Kodi database and returns its path.
func setupTestDB(t *testing.T, inserts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "MyVideos107.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(kodiSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	for _, stmt := range inserts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("insert fixture: %v", err)
		}
	}
	return path
}
