// This file implements operator-readable JSONL export and the matching
// transactional import, including the atomic JSONL file helpers.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/taskvault/taskvault/pkg/types"
)

// exportTables maps JSONL filenames to their tables and column lists.
// The order matters: tables with foreign keys must import after their
// referenced tables.
var exportTables = []struct {
	file    string
	table   string
	columns []string
}{
	{"users.jsonl", "users", []string{"user_id", "name", "email", "avatar", "preferences", "created_at", "updated_at"}},
	{"lists.jsonl", "lists", []string{"list_id", "name", "color", "emoji", "is_default", "is_favorite", "description", "position", "user_id", "created_at", "updated_at"}},
	{"labels.jsonl", "labels", []string{"label_id", "name", "icon", "color", "user_id", "created_at", "updated_at"}},
	{"tasks.jsonl", "tasks", []string{"task_id", "name", "description", "date", "deadline", "estimate", "actual_time", "priority", "status", "user_id", "list_id", "parent_task_id", "position", "is_recurring", "recurring_pattern", "created_at", "updated_at"}},
	{"task_labels.jsonl", "task_labels", []string{"task_id", "label_id"}},
	{"subtasks.jsonl", "subtasks", []string{"subtask_id", "name", "is_completed", "task_id", "position", "created_at", "updated_at"}},
	{"reminders.jsonl", "reminders", []string{"reminder_id", "task_id", "remind_at", "is_sent", "method", "created_at", "updated_at"}},
	{"attachments.jsonl", "attachments", []string{"attachment_id", "task_id", "filename", "original_name", "mime_type", "size", "path", "created_at", "updated_at"}},
	{"task_history.jsonl", "task_history", []string{"history_id", "task_id", "action", "changed_by", "changes", "description", "created_at"}},
}

// Export writes every table to <dir>/<table>.jsonl using the atomic write
// pattern. The dump is an operator convenience; Backup remains the
// consistent-snapshot mechanism.
func (s *Store) Export(dir string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	for _, t := range exportTables {
		rows, err := db.Query("SELECT " + strings.Join(t.columns, ", ") + " FROM " + t.table)
		if err != nil {
			return fmt.Errorf("querying %s for export: %w", t.table, err)
		}

		var records []json.RawMessage
		for rows.Next() {
			values := make([]any, len(t.columns))
			ptrs := make([]any, len(t.columns))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				rows.Close()
				return fmt.Errorf("scanning %s row: %w", t.table, err)
			}
			rec := make(map[string]any, len(t.columns))
			for i, col := range t.columns {
				rec[col] = values[i]
			}
			data, err := json.Marshal(rec)
			if err != nil {
				rows.Close()
				return fmt.Errorf("marshaling %s row: %w", t.table, err)
			}
			records = append(records, data)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterating %s for export: %w", t.table, err)
		}
		rows.Close()

		if err := writeJSONL(filepath.Join(dir, t.file), records); err != nil {
			return fmt.Errorf("writing %s: %w", t.file, err)
		}
	}
	return nil
}

// Import restores a JSONL dump into an empty store. Loading is
// transactional: all files load or the store stays empty. Missing files
// are skipped; unknown fields in records are ignored for forward
// compatibility.
func (s *Store) Import(dir string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}

	var tasks int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&tasks); err != nil {
		return fmt.Errorf("checking store emptiness: %w", err)
	}
	if tasks > 0 {
		return fmt.Errorf("import requires an empty store: %w", types.ErrPreconditionFailed)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	// Rows arrive in file order, which may precede their referents within
	// a table (parent tasks), so defer enforcement to commit time.
	if _, err := tx.Exec("PRAGMA defer_foreign_keys = ON"); err != nil {
		return fmt.Errorf("deferring foreign keys for import: %w", err)
	}

	for _, t := range exportTables {
		path := filepath.Join(dir, t.file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		records, err := readJSONL(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", t.file, err)
		}
		if len(records) == 0 {
			continue
		}

		stmt := "INSERT INTO " + t.table + " (" + strings.Join(t.columns, ", ") + ") VALUES (" + placeholders(len(t.columns)) + ")"
		for _, rec := range records {
			var fields map[string]any
			if err := json.Unmarshal(rec, &fields); err != nil {
				continue
			}
			args := make([]any, len(t.columns))
			for i, col := range t.columns {
				args[i] = fields[col]
			}
			if _, err := tx.Exec(stmt, args...); err != nil {
				return fmt.Errorf("importing %s into %s: %w", t.file, t.table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line
// as a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the
// temp-file, fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
