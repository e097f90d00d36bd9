package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskvault/taskvault/pkg/types"
)

const reminderColumns = "reminder_id, task_id, remind_at, is_sent, method, created_at, updated_at"

// CreateReminder persists a new reminder. RemindAt must be in the future,
// and the (task, remindAt, method) triple must be unique; both are
// repository rules, not column constraints.
func (s *Store) CreateReminder(r *types.Reminder) (*types.Reminder, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	if err := r.Validate(time.Now()); err != nil {
		return nil, err
	}
	if _, err := s.GetTask(r.TaskID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r.ID = newUUID()
	r.CreatedAt = now
	r.UpdatedAt = now

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning reminder creation: %w", err)
	}
	defer tx.Rollback()

	var dup bool
	err = tx.QueryRow(
		"SELECT 1 FROM reminders WHERE task_id = ? AND remind_at = ? AND method = ?",
		r.TaskID, fmtTime(r.RemindAt), r.Method,
	).Scan(&dup)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checking reminder uniqueness: %w", err)
	}
	if dup {
		return nil, fmt.Errorf("duplicate reminder for task %s at %s via %s: %w",
			r.TaskID, r.RemindAt.Format(time.RFC3339), r.Method, types.ErrValidation)
	}

	if _, err := tx.Exec(
		"INSERT INTO reminders ("+reminderColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.TaskID, fmtTime(r.RemindAt), r.IsSent, r.Method, fmtTime(now), fmtTime(now),
	); err != nil {
		return nil, fmt.Errorf("inserting reminder: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reminder creation: %w", err)
	}
	return r, nil
}

// GetReminder retrieves a reminder by ID. Returns ErrNotFound if absent.
func (s *Store) GetReminder(id string) (*types.Reminder, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	r, err := hydrateReminder(db.QueryRow("SELECT "+reminderColumns+" FROM reminders WHERE reminder_id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reminder %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting reminder %s: %w", id, err)
	}
	return r, nil
}

// GetTaskReminders returns a task's reminders ordered by remind time.
func (s *Store) GetTaskReminders(taskID string) ([]*types.Reminder, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		"SELECT "+reminderColumns+" FROM reminders WHERE task_id = ? ORDER BY remind_at ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching reminders: %w", err)
	}
	defer rows.Close()

	reminders := []*types.Reminder{}
	for rows.Next() {
		r, err := hydrateReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reminders: %w", err)
	}
	return reminders, nil
}

// UpdateReminder applies the patched fields. Ownership is resolved through
// the parent task's user. Moving RemindAt or Method onto another reminder's
// (task, remindAt, method) triple is rejected, same as on create.
func (s *Store) UpdateReminder(id string, patch types.ReminderPatch, callerUserID string) (*types.Reminder, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	current, err := s.GetReminder(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTaskOwnership(current.TaskID, callerUserID); err != nil {
		return nil, err
	}

	var sets []string
	var args []any
	if patch.RemindAt != nil {
		sets, args = append(sets, "remind_at = ?"), append(args, fmtTime(*patch.RemindAt))
	}
	if patch.IsSent != nil {
		sets, args = append(sets, "is_sent = ?"), append(args, *patch.IsSent)
	}
	if patch.Method != nil {
		if !types.ValidReminderMethod(*patch.Method) {
			return nil, fmt.Errorf("unknown reminder method %q: %w", *patch.Method, types.ErrValidation)
		}
		sets, args = append(sets, "method = ?"), append(args, *patch.Method)
	}

	if patch.RemindAt != nil || patch.Method != nil {
		remindAt := current.RemindAt
		if patch.RemindAt != nil {
			remindAt = *patch.RemindAt
		}
		method := current.Method
		if patch.Method != nil {
			method = *patch.Method
		}
		var dup bool
		err = db.QueryRow(
			"SELECT 1 FROM reminders WHERE task_id = ? AND remind_at = ? AND method = ? AND reminder_id != ?",
			current.TaskID, fmtTime(remindAt), method, id,
		).Scan(&dup)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("checking reminder uniqueness: %w", err)
		}
		if dup {
			return nil, fmt.Errorf("duplicate reminder for task %s at %s via %s: %w",
				current.TaskID, remindAt.Format(time.RFC3339), method, types.ErrValidation)
		}
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, fmtTime(time.Now()), id)

	if _, err := db.Exec("UPDATE reminders SET "+strings.Join(sets, ", ")+" WHERE reminder_id = ?", args...); err != nil {
		return nil, fmt.Errorf("updating reminder %s: %w", id, err)
	}
	return s.GetReminder(id)
}

// DeleteReminder removes a reminder after resolving ownership through its
// parent task.
func (s *Store) DeleteReminder(id string, callerUserID string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	current, err := s.GetReminder(id)
	if err != nil {
		return err
	}
	if err := s.checkTaskOwnership(current.TaskID, callerUserID); err != nil {
		return err
	}
	if _, err := db.Exec("DELETE FROM reminders WHERE reminder_id = ?", id); err != nil {
		return fmt.Errorf("deleting reminder %s: %w", id, err)
	}
	return nil
}

// hydrateReminder converts one row into a *types.Reminder.
func hydrateReminder(row rowScanner) (*types.Reminder, error) {
	var r types.Reminder
	var remindAt, createdAt, updatedAt string
	if err := row.Scan(&r.ID, &r.TaskID, &remindAt, &r.IsSent, &r.Method, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if r.RemindAt, err = parseTime(remindAt); err != nil {
		return nil, err
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
