package store

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes directory records under a single data directory.
type Store struct {
	dataDir string
}

// New creates a store rooted at dataDir. The directory is created on the
// first save, not here.
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// DataDir returns the store's data directory.
func (s *Store) DataDir() string { return s.dataDir }

// RecordPath returns the record file path for a directory. The name is
// "dir__" + the path with "/" replaced by "|" truncated to 200 bytes +
// "__" + the sha1 hex of the full path + ".json". The readable prefix aids
// debugging, the hash keeps names unique, and the total stays under the
// 255-byte filename limit (5 + 200 + 2 + 40 + 5 = 252).
func (s *Store) RecordPath(dir string) string {
	mangled := strings.ReplaceAll(dir, "/", "|")
	if len(mangled) > 200 {
		mangled = mangled[:200]
	}
	sum := sha1.Sum([]byte(dir))
	name := "dir__" + mangled + "__" + hex.EncodeToString(sum[:]) + ".json"
	return filepath.Join(s.dataDir, name)
}

// Load reads the record for a directory. A missing record file is not an
// error: it yields an empty record. A present but ill-formed file yields
// ErrCorrupt.
func (s *Store) Load(dir string) (*Record, error) {
	data, err := os.ReadFile(s.RecordPath(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return NewRecord(dir), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record for %s: %w", dir, err)
	}
	rec, err := decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("record for %s: %w: %v", dir, ErrCorrupt, err)
	}
	if rec.Dir != dir {
		return nil, fmt.Errorf("record for %s: %w: dir field is %q", dir, ErrCorrupt, rec.Dir)
	}
	return rec, nil
}

// Save writes the record atomically: encode to a temp file in the data
// directory, then rename over the final path. A concurrent reader sees
// either the old or the new record, never a partial write.
func (s *Store) Save(rec *Record) error {
	if err := os.MkdirAll(s.dataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	f, err := os.CreateTemp(s.dataDir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmp := f.Name()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode record: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp record: %w", err)
	}
	if err := os.Rename(tmp, s.RecordPath(rec.Dir)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename record: %w", err)
	}
	return nil
}

// Update applies changes to a directory's record and saves the result.
// A nil state deletes the entry (the inverse of creating it). The record
// file comes into existence on the first update.
func (s *Store) Update(dir string, changes map[string]*FileState) (*Record, error) {
	rec, err := s.Load(dir)
	if err != nil {
		return nil, err
	}
	for name, st := range changes {
		if st == nil {
			delete(rec.Files, name)
			continue
		}
		rec.Files[name] = *st
	}
	if err := s.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
