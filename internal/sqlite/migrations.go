package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskvault/taskvault/pkg/types"
)

// createSchemaMigrations is the ledger recording applied migrations. It is
// created outside the migration list so the runner can always consult it.
const createSchemaMigrations = `CREATE TABLE IF NOT EXISTS schema_migrations (
    migration_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    version INTEGER NOT NULL UNIQUE,
    applied_at TEXT NOT NULL
);`

// migration is one append-only schema change unit.
type migration struct {
	id         string
	name       string
	version    int
	statements []string
}

// migrations lists every migration in order. Append new units at the end;
// never edit or reorder applied ones.
var migrations = []migration{
	{
		id:         "0001",
		name:       "initial_schema",
		version:    1,
		statements: append(append([]string{}, schemaDDL...), indexDDL...),
	},
}

// RunMigrations brings the schema to the latest declared version. Each
// pending migration is applied in its own transaction and recorded in the
// schema_migrations ledger; re-running against an up-to-date store
// executes no DDL. After applying, a validation pass confirms every
// required table exists.
func (s *Store) RunMigrations() error {
	db, err := s.Conn()
	if err != nil {
		return err
	}

	if _, err := db.Exec(createSchemaMigrations); err != nil {
		return fmt.Errorf("creating schema_migrations ledger: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := s.applyMigration(m); err != nil {
			return err
		}
		s.log.Info("applied migration", "version", m.version, "name", m.name)
	}

	return s.validateSchema()
}

// appliedVersions reads the ledger into a version set.
func appliedVersions(q querier) (map[int]bool, error) {
	rows, err := q.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning schema_migrations: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schema_migrations: %w", err)
	}
	return applied, nil
}

// applyMigration executes one migration unit atomically and records it in
// the ledger within the same transaction.
func (s *Store) applyMigration(m migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %s: %w", m.id, err)
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migration %s (%s): %v: %w", m.id, m.name, err, types.ErrSchemaValidation)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (migration_id, name, version, applied_at) VALUES (?, ?, ?, ?)",
		m.id, m.name, m.version, fmtTime(time.Now()),
	); err != nil {
		return fmt.Errorf("recording migration %s: %w", m.id, err)
	}

	return tx.Commit()
}

// validateSchema confirms every required table is present. Missing tables
// fail with ErrSchemaValidation naming the gaps; missing indexes are only
// logged as performance warnings.
func (s *Store) validateSchema() error {
	tables, err := s.masterNames("table")
	if err != nil {
		return err
	}

	var missing []string
	for _, name := range requiredTables {
		if !tables[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables %s: %w", strings.Join(missing, ", "), types.ErrSchemaValidation)
	}

	indexes, err := s.masterNames("index")
	if err != nil {
		return err
	}
	for _, name := range requiredIndexes {
		if !indexes[name] {
			s.log.Warn("index missing, queries may be slow", "index", name)
		}
	}

	return nil
}

// masterNames returns the set of sqlite_master object names of the given
// type.
func (s *Store) masterNames(kind string) (map[string]bool, error) {
	rows, err := s.db.Query("SELECT name FROM sqlite_master WHERE type = ?", kind)
	if err != nil {
		return nil, fmt.Errorf("reading sqlite_master: %w", err)
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning sqlite_master: %w", err)
		}
		names[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sqlite_master: %w", err)
	}
	return names, nil
}
