package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskvault/taskvault/pkg/types"
)

const subtaskColumns = "subtask_id, name, is_completed, task_id, position, created_at, updated_at"

// CreateSubtask persists a new subtask under an existing task.
func (s *Store) CreateSubtask(sub *types.Subtask) (*types.Subtask, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetTask(sub.TaskID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub.ID = newUUID()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := db.Exec(
		"INSERT INTO subtasks ("+subtaskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		sub.ID, sub.Name, sub.IsCompleted, sub.TaskID, sub.Position, fmtTime(now), fmtTime(now),
	); err != nil {
		return nil, fmt.Errorf("inserting subtask: %w", err)
	}
	return sub, nil
}

// GetSubtask retrieves a subtask by ID. Returns ErrNotFound if absent.
func (s *Store) GetSubtask(id string) (*types.Subtask, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	sub, err := hydrateSubtask(db.QueryRow("SELECT "+subtaskColumns+" FROM subtasks WHERE subtask_id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subtask %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting subtask %s: %w", id, err)
	}
	return sub, nil
}

// GetTaskSubtasks returns a task's subtasks ordered by position.
func (s *Store) GetTaskSubtasks(taskID string) ([]*types.Subtask, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		"SELECT "+subtaskColumns+" FROM subtasks WHERE task_id = ? ORDER BY position ASC, created_at ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching subtasks: %w", err)
	}
	defer rows.Close()

	subtasks := []*types.Subtask{}
	for rows.Next() {
		sub, err := hydrateSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating subtask: %w", err)
		}
		subtasks = append(subtasks, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtasks: %w", err)
	}
	return subtasks, nil
}

// UpdateSubtask applies the patched fields. Ownership is resolved through
// the parent task's user.
func (s *Store) UpdateSubtask(id string, patch types.SubtaskPatch, callerUserID string) (*types.Subtask, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	current, err := s.GetSubtask(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTaskOwnership(current.TaskID, callerUserID); err != nil {
		return nil, err
	}

	var sets []string
	var args []any
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("subtask name must not be empty: %w", types.ErrValidation)
		}
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.IsCompleted != nil {
		sets, args = append(sets, "is_completed = ?"), append(args, *patch.IsCompleted)
	}
	if patch.Position != nil {
		if *patch.Position < 0 {
			return nil, fmt.Errorf("subtask position must not be negative: %w", types.ErrValidation)
		}
		sets, args = append(sets, "position = ?"), append(args, *patch.Position)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, fmtTime(time.Now()), id)

	if _, err := db.Exec("UPDATE subtasks SET "+strings.Join(sets, ", ")+" WHERE subtask_id = ?", args...); err != nil {
		return nil, fmt.Errorf("updating subtask %s: %w", id, err)
	}
	return s.GetSubtask(id)
}

// DeleteSubtask removes a subtask after resolving ownership through its
// parent task.
func (s *Store) DeleteSubtask(id string, callerUserID string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	current, err := s.GetSubtask(id)
	if err != nil {
		return err
	}
	if err := s.checkTaskOwnership(current.TaskID, callerUserID); err != nil {
		return err
	}
	if _, err := db.Exec("DELETE FROM subtasks WHERE subtask_id = ?", id); err != nil {
		return fmt.Errorf("deleting subtask %s: %w", id, err)
	}
	return nil
}

// checkTaskOwnership fails with ErrForbidden unless the task belongs to
// the caller.
func (s *Store) checkTaskOwnership(taskID, callerUserID string) error {
	task, err := s.GetTask(taskID)
	if err != nil {
		return err
	}
	if task.UserID != callerUserID {
		return fmt.Errorf("task %s: %w", taskID, types.ErrForbidden)
	}
	return nil
}

// hydrateSubtask converts one row into a *types.Subtask.
func hydrateSubtask(row rowScanner) (*types.Subtask, error) {
	var sub types.Subtask
	var createdAt, updatedAt string
	if err := row.Scan(&sub.ID, &sub.Name, &sub.IsCompleted, &sub.TaskID, &sub.Position, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if sub.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sub.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}
