package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"tunescore/logger"
	"tunescore/model"
)

const (
	ratingsFile  = "ratings.json"
	unratedFile  = "unrated.json"
	settingsFile = "settings.json"
)

// Store owns the authoritative in-memory collections of rating and unrated
// entries plus the settings document, and persists them as whole-file JSON
// snapshots under a single data directory. All mutations and flushes run
// under one exclusive lock; reads hand out shallow copies of the slices so
// long-running queries never observe a torn collection.
type Store struct {
	mu      sync.Mutex
	dataDir string

	loaded       bool
	ratings      []*model.RatingEntry
	unrated      []*model.UnratedEntry
	settings     model.Settings
	ratingsDirty bool
	unratedDirty bool

	now   func() time.Time
	newID func() string
}

// NewStore creates a store rooted at dataDir. Call Load before use.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Load reads the persisted snapshots into memory. It is idempotent: only the
// first call touches disk. A missing or unparsable snapshot degrades to an
// empty collection (or default settings) rather than failing startup.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dataDir, err)
	}

	s.ratings = make([]*model.RatingEntry, 0)
	if err := readSnapshot(filepath.Join(s.dataDir, ratingsFile), &s.ratings); err != nil {
		logger.Warn("ratings snapshot unreadable, starting empty",
			logger.String("file", ratingsFile), logger.ErrorField(err))
		s.ratings = make([]*model.RatingEntry, 0)
	}

	s.unrated = make([]*model.UnratedEntry, 0)
	if err := readSnapshot(filepath.Join(s.dataDir, unratedFile), &s.unrated); err != nil {
		logger.Warn("unrated snapshot unreadable, starting empty",
			logger.String("file", unratedFile), logger.ErrorField(err))
		s.unrated = make([]*model.UnratedEntry, 0)
	}

	// Stored settings are decoded over the defaults so absent fields keep
	// their default value.
	s.settings = model.DefaultSettings()
	if err := readSnapshot(filepath.Join(s.dataDir, settingsFile), &s.settings); err != nil {
		logger.Warn("settings snapshot unreadable, using defaults",
			logger.String("file", settingsFile), logger.ErrorField(err))
		s.settings = model.DefaultSettings()
	}

	s.loaded = true
	logger.Info("store loaded",
		logger.Int("ratings", len(s.ratings)),
		logger.Int("unrated", len(s.unrated)))
	return nil
}

// Flush writes dirty collections to disk. A clean store is a no-op. Each
// collection is serialized in full and swapped in with an atomic rename, so
// a reader only ever sees a complete snapshot. The dirty flag is cleared
// only after the rename succeeds.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	var errs []error
	if s.ratingsDirty {
		if err := writeSnapshot(filepath.Join(s.dataDir, ratingsFile), s.ratings); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush ratings: %w", err))
		} else {
			s.ratingsDirty = false
		}
	}
	// One collection failing its write must not withhold durability from the
	// other, so both are always attempted.
	if s.unratedDirty {
		if err := writeSnapshot(filepath.Join(s.dataDir, unratedFile), s.unrated); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush unrated: %w", err))
		} else {
			s.unratedDirty = false
		}
	}
	return errors.Join(errs...)
}

// StartFlushLoop launches the periodic background flush. The loop runs for
// the lifetime of the process; the final durability point is the explicit
// Flush the server performs at shutdown.
func (s *Store) StartFlushLoop(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := s.Flush(); err != nil {
				logger.Error("background flush failed", logger.ErrorField(err))
			}
		}
	}()
}

// readSnapshot decodes a whole-file JSON snapshot into out. A missing file
// is not an error; the caller keeps its zero/default value.
func readSnapshot(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeSnapshot serializes v and atomically replaces the file at path by
// writing a sibling temp file and renaming it over the destination. The
// rename is the only observable mutation.
func writeSnapshot(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot %s: %w", path, err)
	}
	return nil
}
