// Package store persists venue market catalogs and recorder
// bookkeeping as JSON files under a state directory. Writes go
// through a temp file and rename so readers never observe a partial
// document.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"trade-connect/internal/core"
)

// Catalog is one venue's resolved markets and currencies, cached
// between runs so tools can skip the initial load when the copy is
// fresh enough.
type Catalog struct {
	Venue      string          `json:"venue"`
	Markets    []core.Market   `json:"markets"`
	Currencies []core.Currency `json:"currencies,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Fresh reports whether the catalog was refreshed within maxAge.
func (c Catalog) Fresh(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 || c.UpdatedAt.IsZero() {
		return false
	}
	return now.UTC().Sub(c.UpdatedAt.UTC()) < maxAge
}

// RecorderStatus is the last observed state of a recorder process,
// written alongside its output for operators to inspect.
type RecorderStatus struct {
	Venue     string    `json:"venue"`
	Symbol    string    `json:"symbol"`
	PID       int       `json:"pid"`
	State     string    `json:"state"`
	Records   int64     `json:"records"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastError string    `json:"last_error,omitempty"`
}

type Store struct {
	root string
	mu   sync.Mutex
}

func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("state dir required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) SaveCatalog(cat Catalog) error {
	if cat.Venue == "" {
		return errors.New("catalog venue required")
	}
	if cat.UpdatedAt.IsZero() {
		cat.UpdatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONAtomic(s.catalogPath(cat.Venue), cat)
}

func (s *Store) LoadCatalog(venue string) (Catalog, bool, error) {
	data, err := os.ReadFile(s.catalogPath(venue))
	if err != nil {
		if os.IsNotExist(err) {
			return Catalog{}, false, nil
		}
		return Catalog{}, false, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Catalog{}, false, errors.New("catalog file is empty")
	}
	var cat Catalog
	if err := json.Unmarshal(trimmed, &cat); err != nil {
		return Catalog{}, false, err
	}
	return cat, true, nil
}

func (s *Store) SaveRecorderStatus(status RecorderStatus) error {
	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONAtomic(s.recorderStatusPath(), status)
}

func (s *Store) LoadRecorderStatus() (RecorderStatus, bool, error) {
	data, err := os.ReadFile(s.recorderStatusPath())
	if err != nil {
		if os.IsNotExist(err) {
			return RecorderStatus{}, false, nil
		}
		return RecorderStatus{}, false, err
	}
	var status RecorderStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return RecorderStatus{}, false, err
	}
	return status, true, nil
}

func (s *Store) catalogPath(venue string) string {
	return filepath.Join(s.root, venue+"_markets.json")
}

func (s *Store) recorderStatusPath() string {
	return filepath.Join(s.root, "recorder_status.json")
}

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	return fsyncDirBestEffort(dir, path)
}

func fsyncDirBestEffort(dir, path string) error {
	// Best-effort directory fsync to improve rename durability across crashes.
	d, err := os.Open(dir)
	if err != nil {
		log.Printf(
			"level=WARN event=store_dir_fsync_skipped reason=%q dir=%q target=%q",
			err.Error(),
			dir,
			path,
		)
		return nil
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		log.Printf(
			"level=WARN event=store_dir_fsync_failed reason=%q dir=%q target=%q",
			err.Error(),
			dir,
			path,
		)
		return nil
	}
	return nil
}
