package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lokenilsson/snwk-stats/internal/competition"
)

// Store handles persistence of timestamped scraping snapshots
type Store struct {
	dataDir string
}

// New creates a new Store instance rooted at dataDir
func New(dataDir string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{
		dataDir: dataDir,
	}, nil
}

// DataDir returns the resolved data directory
func (s *Store) DataDir() string {
	return s.dataDir
}

// Save writes v as indented UTF-8 JSON to <prefix>_<YYYYMMDD_HHMMSS>.json in
// the data directory and returns the written path. Existing snapshots are
// never overwritten; the timestamp makes collisions practically impossible
// but is not itself collision-checked.
func (s *Store) Save(v interface{}, prefix string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(s.dataDir, fmt.Sprintf("%s_%s.json", prefix, timestamp))

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	// The records carry literal "Handler & Dog" text, keep it unescaped
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	return path, nil
}

// LoadResults reads one results snapshot file back into records
func (s *Store) LoadResults(path string) ([]competition.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var results []competition.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	return results, nil
}
