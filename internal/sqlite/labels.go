package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskvault/taskvault/pkg/types"
)

const labelColumns = "label_id, name, icon, color, user_id, created_at, updated_at"

// CreateLabel persists a new label. Like lists, a duplicate (user, name)
// insert is a silent no-op returning the existing label.
func (s *Store) CreateLabel(l *types.Label) (*types.Label, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := ensureUserExists(db, l.UserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l.ID = newUUID()
	l.CreatedAt = now
	l.UpdatedAt = now

	res, err := db.Exec(
		"INSERT OR IGNORE INTO labels ("+labelColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.Name, l.Icon, l.Color, l.UserID, fmtTime(now), fmtTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting label: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := hydrateLabel(db.QueryRow(
			"SELECT "+labelColumns+" FROM labels WHERE user_id = ? AND name = ?", l.UserID, l.Name,
		))
		if err != nil {
			return nil, fmt.Errorf("getting label %q for user %s: %w", l.Name, l.UserID, err)
		}
		return existing, nil
	}
	return l, nil
}

// GetLabel retrieves a label by ID. Returns ErrNotFound if absent.
func (s *Store) GetLabel(id string) (*types.Label, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	l, err := hydrateLabel(db.QueryRow("SELECT "+labelColumns+" FROM labels WHERE label_id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("label %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting label %s: %w", id, err)
	}
	return l, nil
}

// GetUserLabels returns all labels owned by a user, ordered by name.
func (s *Store) GetUserLabels(userID string) ([]*types.Label, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		"SELECT "+labelColumns+" FROM labels WHERE user_id = ? ORDER BY name ASC", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching labels: %w", err)
	}
	defer rows.Close()

	labels := []*types.Label{}
	for rows.Next() {
		l, err := hydrateLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating label: %w", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating labels: %w", err)
	}
	return labels, nil
}

// UpdateLabel applies the patched fields after an ownership check.
func (s *Store) UpdateLabel(id string, patch types.LabelPatch, callerUserID string) (*types.Label, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	current, err := s.GetLabel(id)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerUserID {
		return nil, fmt.Errorf("label %s: %w", id, types.ErrForbidden)
	}

	var sets []string
	var args []any
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("label name must not be empty: %w", types.ErrValidation)
		}
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Icon != nil {
		sets, args = append(sets, "icon = ?"), append(args, *patch.Icon)
	}
	if patch.Color != nil {
		sets, args = append(sets, "color = ?"), append(args, *patch.Color)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, fmtTime(time.Now()), id)

	if _, err := db.Exec("UPDATE labels SET "+strings.Join(sets, ", ")+" WHERE label_id = ?", args...); err != nil {
		return nil, fmt.Errorf("updating label %s: %w", id, err)
	}
	return s.GetLabel(id)
}

// DeleteLabel removes a label after an ownership check; the task_labels
// join rows cascade.
func (s *Store) DeleteLabel(id string, callerUserID string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	current, err := s.GetLabel(id)
	if err != nil {
		return err
	}
	if current.UserID != callerUserID {
		return fmt.Errorf("label %s: %w", id, types.ErrForbidden)
	}

	if _, err := db.Exec("DELETE FROM labels WHERE label_id = ?", id); err != nil {
		return fmt.Errorf("deleting label %s: %w", id, err)
	}
	return nil
}

// AddTaskLabel attaches a label to a task. Both must belong to the caller.
// Attaching an already-attached pair is a no-op.
func (s *Store) AddTaskLabel(taskID, labelID, callerUserID string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	if err := s.checkTaskLabelOwnership(taskID, labelID, callerUserID); err != nil {
		return err
	}
	if _, err := db.Exec(
		"INSERT OR IGNORE INTO task_labels (task_id, label_id) VALUES (?, ?)", taskID, labelID,
	); err != nil {
		return fmt.Errorf("attaching label %s to task %s: %w", labelID, taskID, err)
	}
	return nil
}

// RemoveTaskLabel detaches a label from a task. Detaching an absent pair
// is a no-op.
func (s *Store) RemoveTaskLabel(taskID, labelID, callerUserID string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	if err := s.checkTaskLabelOwnership(taskID, labelID, callerUserID); err != nil {
		return err
	}
	if _, err := db.Exec(
		"DELETE FROM task_labels WHERE task_id = ? AND label_id = ?", taskID, labelID,
	); err != nil {
		return fmt.Errorf("detaching label %s from task %s: %w", labelID, taskID, err)
	}
	return nil
}

// checkTaskLabelOwnership verifies the caller owns both sides of the join.
func (s *Store) checkTaskLabelOwnership(taskID, labelID, callerUserID string) error {
	task, err := s.GetTask(taskID)
	if err != nil {
		return err
	}
	if task.UserID != callerUserID {
		return fmt.Errorf("task %s: %w", taskID, types.ErrForbidden)
	}
	label, err := s.GetLabel(labelID)
	if err != nil {
		return err
	}
	if label.UserID != callerUserID {
		return fmt.Errorf("label %s: %w", labelID, types.ErrForbidden)
	}
	return nil
}

// hydrateLabel converts one row into a *types.Label.
func hydrateLabel(row rowScanner) (*types.Label, error) {
	var l types.Label
	var createdAt, updatedAt string
	if err := row.Scan(&l.ID, &l.Name, &l.Icon, &l.Color, &l.UserID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
