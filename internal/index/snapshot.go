package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/starford/docsite/internal/checksum"
	"github.com/starford/docsite/internal/models"
	"github.com/starford/docsite/internal/storage"
)

// PersistResult describes a snapshot write.
type PersistResult struct {
	Path      string
	Bytes     int
	Documents int
	// Written is false when the file on disk already held identical bytes.
	Written bool
}

// Encode renders entries as the snapshot JSON. The output carries no
// generation timestamp so unchanged sources encode identically.
func Encode(entries []models.Entry) ([]byte, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("index: encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Persist writes the snapshot of ix to path atomically. The write is
// skipped when the existing file has the same content.
func Persist(ix *Index, path string) (PersistResult, error) {
	entries := ix.Entries()
	res := PersistResult{Path: path, Documents: len(entries)}

	data, err := Encode(entries)
	if err != nil {
		return res, err
	}
	res.Bytes = len(data)

	existing, err := checksum.File(path)
	if err != nil {
		return res, fmt.Errorf("index: read snapshot: %w", err)
	}
	if existing == checksum.Sum(data) {
		return res, nil
	}
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return res, fmt.Errorf("index: write snapshot: %w", err)
	}
	res.Written = true
	return res, nil
}

// LoadSnapshot reads a persisted snapshot. A missing file is an empty
// snapshot, not an error.
func LoadSnapshot(path string) ([]models.Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: read snapshot: %w", err)
	}
	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("index: decode snapshot: %w", err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}
