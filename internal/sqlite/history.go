package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taskvault/taskvault/pkg/types"
)

const historyColumns = "history_id, task_id, action, changed_by, changes, description, created_at"

// appendTaskHistory writes one audit row inside the caller's transaction.
// This is the single audit hook for the update and delete paths; history
// coverage never depends on individual callers remembering to log.
func appendTaskHistory(tx *sql.Tx, taskID, action, changedBy string, changes map[string]any, description string) error {
	raw := []byte("{}")
	if len(changes) > 0 {
		var err error
		if raw, err = json.Marshal(changes); err != nil {
			return fmt.Errorf("marshaling history changes: %w", err)
		}
	}
	if _, err := tx.Exec(
		"INSERT INTO task_history ("+historyColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		newUUID(), taskID, action, changedBy, string(raw), nullable(description), fmtTime(time.Now()),
	); err != nil {
		return fmt.Errorf("appending task history: %w", err)
	}
	return nil
}

// GetTaskHistory returns the audit trail for a task, oldest first. The
// trail survives task deletion; querying a deleted task's ID returns its
// final entries.
func (s *Store) GetTaskHistory(taskID string) ([]*types.TaskHistory, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		"SELECT "+historyColumns+" FROM task_history WHERE task_id = ? ORDER BY created_at ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching task history: %w", err)
	}
	defer rows.Close()

	entries := []*types.TaskHistory{}
	for rows.Next() {
		var h types.TaskHistory
		var changes, createdAt string
		var description sql.NullString
		if err := rows.Scan(&h.ID, &h.TaskID, &h.Action, &h.ChangedBy, &changes, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("hydrating history entry: %w", err)
		}
		h.Changes = json.RawMessage(changes)
		h.Description = description.String
		if h.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task history: %w", err)
	}
	return entries, nil
}
