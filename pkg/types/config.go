package types

import (
	"errors"
	"time"
)

// Default configuration values.
const (
	DefaultPath           = "./data/tasks.db"
	DefaultTimeout        = 10 * time.Second
	DefaultBackupInterval = 24 * time.Hour
)

// Config holds the connection manager settings. All values are supplied at
// construction; there is no runtime reconfiguration.
type Config struct {
	Path           string        `json:"path" yaml:"path"`                       // storage file location
	Timeout        time.Duration `json:"timeout" yaml:"timeout"`                 // connect/busy timeout
	WAL            bool          `json:"wal" yaml:"wal"`                         // write-ahead journal mode
	ForeignKeys    bool          `json:"foreign_keys" yaml:"foreign_keys"`       // FK enforcement
	Verbose        bool          `json:"verbose" yaml:"verbose"`                 // debug-level logging
	BackupEnabled  bool          `json:"backup_enabled" yaml:"backup_enabled"`   // periodic snapshots
	BackupInterval time.Duration `json:"backup_interval" yaml:"backup_interval"` // snapshot cadence
}

// Config validation errors.
var (
	ErrPathEmpty             = errors.New("storage path must not be empty")
	ErrTimeoutInvalid        = errors.New("timeout must be positive")
	ErrBackupIntervalInvalid = errors.New("backup interval must be positive")
)

// DefaultConfig returns the configuration used when callers supply nothing:
// WAL on, foreign keys on, daily backups.
func DefaultConfig() Config {
	return Config{
		Path:           DefaultPath,
		Timeout:        DefaultTimeout,
		WAL:            true,
		ForeignKeys:    true,
		BackupEnabled:  true,
		BackupInterval: DefaultBackupInterval,
	}
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Path == "" {
		return ErrPathEmpty
	}
	if c.Timeout <= 0 {
		return ErrTimeoutInvalid
	}
	if c.BackupEnabled && c.BackupInterval <= 0 {
		return ErrBackupIntervalInvalid
	}
	return nil
}
