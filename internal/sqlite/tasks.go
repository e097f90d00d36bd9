package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskvault/taskvault/pkg/types"
)

const taskColumns = "task_id, name, description, date, deadline, estimate, actual_time, priority, status, user_id, list_id, parent_task_id, position, is_recurring, recurring_pattern, created_at, updated_at"

// CreateTask persists a new task. The list must exist and belong to the
// task's user; a recurring task must carry a valid pattern, checked before
// any row is written. No history row is logged on create.
func (s *Store) CreateTask(t *types.Task) (*types.Task, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}

	if t.Priority == "" {
		t.Priority = types.PriorityNone
	}
	if t.Status == "" {
		t.Status = types.StatusTodo
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	list, err := s.GetList(t.ListID)
	if err != nil {
		return nil, err
	}
	if list.UserID != t.UserID {
		return nil, fmt.Errorf("list %s: %w", t.ListID, types.ErrForbidden)
	}
	if t.ParentTaskID != "" {
		parent, err := s.GetTask(t.ParentTaskID)
		if err != nil {
			return nil, err
		}
		if parent.UserID != t.UserID {
			return nil, fmt.Errorf("parent task %s: %w", t.ParentTaskID, types.ErrForbidden)
		}
	}

	pattern, err := marshalPattern(t.IsRecurring, t.RecurringPattern)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t.ID = newUUID()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := db.Exec(
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.Name, nullable(t.Description), fmtTimePtr(t.Date), fmtTimePtr(t.Deadline),
		nullable(t.Estimate), nullable(t.ActualTime), t.Priority, t.Status,
		t.UserID, t.ListID, nullable(t.ParentTaskID), t.Position, t.IsRecurring, pattern,
		fmtTime(now), fmtTime(now),
	); err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}
	return t, nil
}

// GetTask retrieves a task by ID. Returns ErrNotFound if absent.
func (s *Store) GetTask(id string) (*types.Task, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	t, err := hydrateTask(db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE task_id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return t, nil
}

// GetTaskWithDetails returns the task joined with its list, labels,
// subtasks, reminders, and attachments. Returns (nil, nil) when the task
// does not exist: absence is a valid outcome here, not an error.
func (s *Store) GetTaskWithDetails(id string) (*types.TaskDetails, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}

	task, err := hydrateTask(db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE task_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	details := &types.TaskDetails{Task: task}

	if details.List, err = s.GetList(task.ListID); err != nil {
		return nil, err
	}
	if details.Labels, err = s.taskLabels(db, id); err != nil {
		return nil, err
	}
	if details.Subtasks, err = s.GetTaskSubtasks(id); err != nil {
		return nil, err
	}
	if details.Reminders, err = s.GetTaskReminders(id); err != nil {
		return nil, err
	}
	if details.Attachments, err = s.GetTaskAttachments(id); err != nil {
		return nil, err
	}
	return details, nil
}

// taskLabels returns the labels attached to a task, ordered by name.
func (s *Store) taskLabels(q querier, taskID string) ([]*types.Label, error) {
	rows, err := q.Query(
		"SELECT l.label_id, l.name, l.icon, l.color, l.user_id, l.created_at, l.updated_at "+
			"FROM labels l INNER JOIN task_labels tl ON tl.label_id = l.label_id "+
			"WHERE tl.task_id = ? ORDER BY l.name ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching task labels: %w", err)
	}
	defer rows.Close()

	labels := []*types.Label{}
	for rows.Next() {
		l, err := hydrateLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating task label: %w", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task labels: %w", err)
	}
	return labels, nil
}

// GetUserTasks returns all tasks for a user, optionally narrowed by list,
// status set, and priority set. Ordering is by position ascending within
// list and stable across calls with no intervening writes.
func (s *Store) GetUserTasks(userID string, filter *types.TaskFilter) ([]*types.Task, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ?"
	args := []any{userID}

	if filter != nil {
		if filter.ListID != "" {
			query += " AND list_id = ?"
			args = append(args, filter.ListID)
		}
		if len(filter.Statuses) > 0 {
			for _, st := range filter.Statuses {
				if !types.ValidStatus(st) {
					return nil, fmt.Errorf("unknown task status %q in filter: %w", st, types.ErrValidation)
				}
			}
			query += " AND status IN (" + placeholders(len(filter.Statuses)) + ")"
			for _, st := range filter.Statuses {
				args = append(args, st)
			}
		}
		if len(filter.Priorities) > 0 {
			for _, p := range filter.Priorities {
				if !types.ValidPriority(p) {
					return nil, fmt.Errorf("unknown task priority %q in filter: %w", p, types.ErrValidation)
				}
			}
			query += " AND priority IN (" + placeholders(len(filter.Priorities)) + ")"
			for _, p := range filter.Priorities {
				args = append(args, p)
			}
		}
	}

	query += " ORDER BY list_id ASC, position ASC, created_at ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*types.Task{}
	for rows.Next() {
		t, err := hydrateTask(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies the patched fields after an ownership check,
// refreshes updatedAt, and appends a history row in the same transaction.
// The history action reflects status transitions: completed when moving to
// done, uncompleted when leaving done, status_changed for other status
// moves, updated otherwise.
func (s *Store) UpdateTask(id string, patch types.TaskPatch, callerUserID string) (*types.Task, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	current, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerUserID {
		return nil, fmt.Errorf("task %s: %w", id, types.ErrForbidden)
	}

	var sets []string
	var args []any
	changes := map[string]any{}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("task name must not be empty: %w", types.ErrValidation)
		}
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
		changes["name"] = *patch.Name
	}
	if patch.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, nullable(*patch.Description))
		changes["description"] = *patch.Description
	}
	if patch.Date != nil {
		sets, args = append(sets, "date = ?"), append(args, fmtTime(*patch.Date))
		changes["date"] = *patch.Date
	}
	if patch.Deadline != nil {
		sets, args = append(sets, "deadline = ?"), append(args, fmtTime(*patch.Deadline))
		changes["deadline"] = *patch.Deadline
	}
	if patch.Estimate != nil {
		sets, args = append(sets, "estimate = ?"), append(args, nullable(*patch.Estimate))
		changes["estimate"] = *patch.Estimate
	}
	if patch.ActualTime != nil {
		sets, args = append(sets, "actual_time = ?"), append(args, nullable(*patch.ActualTime))
		changes["actualTime"] = *patch.ActualTime
	}
	if patch.Priority != nil {
		if !types.ValidPriority(*patch.Priority) {
			return nil, fmt.Errorf("unknown task priority %q: %w", *patch.Priority, types.ErrValidation)
		}
		sets, args = append(sets, "priority = ?"), append(args, *patch.Priority)
		changes["priority"] = *patch.Priority
	}
	if patch.Status != nil {
		if !types.ValidStatus(*patch.Status) {
			return nil, fmt.Errorf("unknown task status %q: %w", *patch.Status, types.ErrValidation)
		}
		sets, args = append(sets, "status = ?"), append(args, *patch.Status)
		changes["status"] = *patch.Status
	}
	if patch.ListID != nil {
		list, err := s.GetList(*patch.ListID)
		if err != nil {
			return nil, err
		}
		if list.UserID != callerUserID {
			return nil, fmt.Errorf("list %s: %w", *patch.ListID, types.ErrForbidden)
		}
		sets, args = append(sets, "list_id = ?"), append(args, *patch.ListID)
		changes["listId"] = *patch.ListID
	}
	if patch.Position != nil {
		if *patch.Position < 0 {
			return nil, fmt.Errorf("task position must not be negative: %w", types.ErrValidation)
		}
		sets, args = append(sets, "position = ?"), append(args, *patch.Position)
		changes["position"] = *patch.Position
	}

	// Recurrence is patched as a unit so the pattern is always validated
	// against the effective is_recurring value.
	if patch.IsRecurring != nil || patch.RecurringPattern != nil {
		recurring := current.IsRecurring
		if patch.IsRecurring != nil {
			recurring = *patch.IsRecurring
		}
		pat := current.RecurringPattern
		if patch.RecurringPattern != nil {
			pat = patch.RecurringPattern
		}
		if recurring {
			if pat == nil {
				return nil, fmt.Errorf("recurring task requires a recurringPattern: %w", types.ErrValidation)
			}
			if err := pat.Validate(); err != nil {
				return nil, err
			}
		}
		raw, err := marshalPattern(recurring, pat)
		if err != nil {
			return nil, err
		}
		sets, args = append(sets, "is_recurring = ?", "recurring_pattern = ?"), append(args, recurring, raw)
		changes["isRecurring"] = recurring
	}

	action := types.ActionUpdated
	if patch.Status != nil && *patch.Status != current.Status {
		switch {
		case *patch.Status == types.StatusDone:
			action = types.ActionCompleted
		case current.Status == types.StatusDone:
			action = types.ActionUncompleted
		default:
			action = types.ActionStatusChanged
		}
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, fmtTime(time.Now()), id)

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning task update: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE task_id = ?", args...); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	if err := appendTaskHistory(tx, id, action, callerUserID, changes, ""); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing task update: %w", err)
	}

	return s.GetTask(id)
}

// DeleteTask removes a task after an ownership check. Foreign-key cascades
// take its subtasks, reminders, attachments, label joins, and child tasks;
// the store appends a deleted history row in the same transaction.
func (s *Store) DeleteTask(id string, callerUserID string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	current, err := s.GetTask(id)
	if err != nil {
		return err
	}
	if current.UserID != callerUserID {
		return fmt.Errorf("task %s: %w", id, types.ErrForbidden)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning task deletion: %w", err)
	}
	defer tx.Rollback()

	if err := appendTaskHistory(tx, id, types.ActionDeleted, callerUserID, nil, current.Name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM tasks WHERE task_id = ?", id); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing task deletion: %w", err)
	}
	return nil
}

// marshalPattern serializes the recurring pattern column value: NULL for
// non-recurring tasks.
func marshalPattern(recurring bool, p *types.RecurringPattern) (any, error) {
	if !recurring || p == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling recurring pattern: %w", err)
	}
	return string(raw), nil
}

// nullable maps empty strings to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// hydrateTask converts one row into a *types.Task.
func hydrateTask(row rowScanner) (*types.Task, error) {
	var t types.Task
	var description, date, deadline, estimate, actualTime, parentID, pattern sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(
		&t.ID, &t.Name, &description, &date, &deadline, &estimate, &actualTime,
		&t.Priority, &t.Status, &t.UserID, &t.ListID, &parentID, &t.Position,
		&t.IsRecurring, &pattern, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	t.Description = description.String
	t.Estimate = estimate.String
	t.ActualTime = actualTime.String
	t.ParentTaskID = parentID.String

	var err error
	if t.Date, err = parseTimePtr(date); err != nil {
		return nil, err
	}
	if t.Deadline, err = parseTimePtr(deadline); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if pattern.Valid {
		var p types.RecurringPattern
		if err := json.Unmarshal([]byte(pattern.String), &p); err != nil {
			return nil, fmt.Errorf("parsing recurring pattern: %w", err)
		}
		t.RecurringPattern = &p
	}
	return &t, nil
}
