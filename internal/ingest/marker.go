package ingest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// MarkerStore is the optional local record of already-ingested message
// ids, one id per line. It only saves redundant fetches on a single
// machine; the database unique constraint stays the source of truth.
type MarkerStore struct {
	path string
}

// NewMarkerStore creates a marker store for the given file path
func NewMarkerStore(path string) *MarkerStore {
	return &MarkerStore{path: path}
}

// Load reads the set of marked ids. A missing file is an empty set.
func (m *MarkerStore) Load() (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	f, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, fmt.Errorf("failed to open marker file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			ids[id] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read marker file: %w", err)
	}
	return ids, nil
}

// Append records one id
func (m *MarkerStore) Append(id string) error {
	f, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open marker file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(id + "\n"); err != nil {
		return fmt.Errorf("failed to append to marker file: %w", err)
	}
	return nil
}
