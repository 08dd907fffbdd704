package backup

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const lastBackupFile = "last_backup"

// State persists the "last backup at" timestamp to a small file in the
// state directory. It is process-local display bookkeeping, not part of the
// registry's correctness, so every operation is best-effort.
type State struct {
	mu  sync.Mutex
	dir string
}

// NewState creates a State rooted at dir.
func NewState(dir string) *State {
	return &State{dir: dir}
}

// RecordBackup stores the timestamp. Failures are swallowed.
func (s *State) RecordBackup(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return
	}
	_ = os.WriteFile(
		filepath.Join(s.dir, lastBackupFile),
		[]byte(at.UTC().Format(time.RFC3339)+"\n"),
		0o640,
	)
}

// LastBackup returns the recorded timestamp, or false when none exists or
// the file is unreadable.
func (s *State) LastBackup() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, lastBackupFile))
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
