package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/valet-org/valet/internal/fileutil"
	"github.com/valet-org/valet/internal/logger"
)

// EmptyMarker is the canonical rendering of a memory log with no entries.
const EmptyMarker = "No stored memories."

// timestampLayout is the prefix format of a persisted note line.
const timestampLayout = "2006-01-02 15:04"

const dirPermissions = 0750

// Store implements a file-backed append-only memory log, one timestamped
// note per line. The full log is kept in memory and kept in sync on
// append and clear. Thread-safe through internal locking.
type Store struct {
	path    string
	mu      sync.RWMutex
	entries []string
	nowFunc func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNowFunc overrides the clock used to stamp notes. Used in tests.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = f
	}
}

// New creates a store backed by the given file and loads any existing
// entries wholesale. An unreadable file is logged and treated as empty;
// the backing file is created lazily on the first note.
func New(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("memory: path cannot be empty")
	}

	s := &Store{path: path, nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s, nil
}

// Append stamps the note and writes it to the backing file and the
// in-memory copy. The entry is immutable once written.
func (s *Store) Append(ctx context.Context, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := fmt.Sprintf("[%s] %s", s.nowFunc().Format(timestampLayout), note)

	if err := os.MkdirAll(filepath.Dir(s.path), dirPermissions); err != nil {
		return fmt.Errorf("memory: failed to create data directory: %w", err)
	}

	f, err := fileutil.OpenOrCreateFile(s.path)
	if err != nil {
		return fmt.Errorf("memory: failed to open %s: %w", s.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.WriteString(entry + "\n"); err != nil {
		return fmt.Errorf("memory: failed to write %s: %w", s.path, err)
	}

	s.entries = append(s.entries, entry)
	logger.Debug(ctx, "Memory note recorded", "entries", len(s.entries))
	return nil
}

// Clear deletes the backing file if present and resets the in-memory copy.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("memory: failed to remove %s: %w", s.path, err)
	}
	s.entries = nil
	return nil
}

// Dump returns the full log as written, or EmptyMarker when no notes exist.
func (s *Store) Dump() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return EmptyMarker
	}
	return strings.Join(s.entries, "\n")
}

// Count returns the number of recorded notes.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// load reads the backing file wholesale. Read failures other than a missing
// file are logged and leave the store empty; the log is append-only and
// regrows from the next note.
func (s *Store) load(ctx context.Context) {
	data, err := os.ReadFile(s.path) //nolint:gosec
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error(ctx, "Could not read memory file", "path", s.path, "err", err)
		}
		return
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return
	}
	s.entries = strings.Split(content, "\n")
}
