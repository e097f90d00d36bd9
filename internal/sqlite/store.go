// Package sqlite implements the taskvault persistence engine on an
// embedded SQLite store. One Store owns one physical database handle;
// callers construct it with New, call Initialize once, and use the
// repository methods for all reads and writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/taskvault/taskvault/pkg/types"
)

// Compile-time interface check: Store must implement types.Store.
var _ types.Store = (*Store)(nil)

// Store is the SQLite-backed implementation of types.Store.
type Store struct {
	mu          sync.RWMutex
	initialized bool
	config      types.Config
	db          *sql.DB
	log         *slog.Logger

	// Backup scheduler state; see backup.go.
	backupMu    sync.Mutex
	backupTimer *time.Timer
}

// New creates an unconfigured Store. Call Initialize before use.
func New() *Store {
	return NewWithLogger(slog.Default())
}

// NewWithLogger creates a Store that logs through the given logger.
func NewWithLogger(log *slog.Logger) *Store {
	return &Store{log: log}
}

// Initialize opens the physical connection and configures the engine.
// Idempotent: a second call while already initialized is a no-op. Creates
// the storage directory recursively if absent, enables foreign-key
// enforcement, and enables WAL when configured. Fails with ErrConnection
// if the path is unwritable or the open times out.
func (s *Store) Initialize(cfg types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrConnection, err)
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating storage directory %s: %v: %w", dir, err, types.ErrConnection)
	}

	db, err := sql.Open("sqlite", connString(cfg))
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.Path, types.ErrConnection)
	}

	// One physical connection per process; writers are serialized by the
	// engine, and WAL keeps readers unblocked during writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("pinging %s: %v: %w", cfg.Path, err, types.ErrConnection)
	}

	s.db = db
	s.config = cfg
	s.initialized = true

	if cfg.Verbose {
		s.log = s.log.With("component", "sqlite")
		s.log.Debug("store initialized", "path", cfg.Path, "wal", cfg.WAL)
	}

	if cfg.BackupEnabled {
		s.startBackupTimer(cfg.BackupInterval)
	}

	return nil
}

// connString builds the file URI with engine pragmas applied at open time:
// busy timeout from the configured connect timeout, foreign-key
// enforcement, and WAL journal mode when enabled.
func connString(cfg types.Config) string {
	conn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, cfg.Timeout.Milliseconds())
	if cfg.ForeignKeys {
		conn += "&_pragma=foreign_keys(1)"
	}
	if cfg.WAL {
		conn += "&_pragma=journal_mode(WAL)"
	}
	return conn
}

// Conn returns the live database handle. Fails with ErrNotInitialized if
// called before Initialize.
func (s *Store) Conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, types.ErrNotInitialized
	}
	return s.db, nil
}

// Close releases the handle, cancels the backup scheduler, and resets
// initialization state so a later Initialize call can re-open cleanly.
// Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}

	s.stopBackupTimer()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
		s.db = nil
	}
	s.initialized = false
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx so repository helpers can
// run both standalone and inside a transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// newUUID generates a UUID v7 string for entity IDs, falling back to v4
// if v7 generation fails.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Timestamps are stored as RFC 3339 UTC text.

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
