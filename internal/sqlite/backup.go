package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/taskvault/taskvault/pkg/types"
)

// backupTimestamp formats snapshot times: ISO 8601 with colons replaced by
// dashes so the value is filename-safe everywhere.
const backupTimestamp = "2006-01-02T15-04-05Z"

// Backup copies the live store to path using VACUUM INTO, the engine's
// streaming backup primitive. Unlike a plain file copy it cannot capture a
// torn mid-write state and it does not block concurrent readers. With an
// empty path the snapshot lands next to the primary store file as
// backup_tasks_<timestamp>.db. Returns the snapshot path.
func (s *Store) Backup(path string) (string, error) {
	db, err := s.Conn()
	if err != nil {
		return "", err
	}

	if path == "" {
		path = filepath.Join(
			filepath.Dir(s.config.Path),
			fmt.Sprintf("backup_tasks_%s.db", time.Now().UTC().Format(backupTimestamp)),
		)
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("backup destination %s already exists: %w", path, types.ErrValidation)
	}

	if _, err := db.Exec("VACUUM INTO ?", path); err != nil {
		return "", fmt.Errorf("backup (VACUUM INTO %s): %w", path, err)
	}
	return path, nil
}

// startBackupTimer schedules periodic snapshots. Failures are logged and
// isolated: a failed backup is degraded service, never a reason to
// destabilize foreground operations. The caller must hold s.mu.
func (s *Store) startBackupTimer(interval time.Duration) {
	s.backupMu.Lock()
	defer s.backupMu.Unlock()

	if s.backupTimer != nil {
		return // already running
	}

	s.backupTimer = time.AfterFunc(interval, func() {
		path, err := s.Backup("")
		if err != nil {
			s.log.Warn("periodic backup failed", "error", err)
		} else {
			s.log.Info("periodic backup written", "path", path)
		}

		s.backupMu.Lock()
		if s.backupTimer != nil {
			s.backupTimer.Reset(interval)
		}
		s.backupMu.Unlock()
	})
}

// stopBackupTimer cancels the scheduler if running. The caller must hold
// s.mu.
func (s *Store) stopBackupTimer() {
	s.backupMu.Lock()
	defer s.backupMu.Unlock()

	if s.backupTimer != nil {
		s.backupTimer.Stop()
		s.backupTimer = nil
	}
}
