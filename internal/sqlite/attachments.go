package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskvault/taskvault/pkg/types"
)

const attachmentColumns = "attachment_id, task_id, filename, original_name, mime_type, size, path, created_at, updated_at"

// CreateAttachment persists attachment metadata for an existing task. The
// file itself is the caller's concern.
func (s *Store) CreateAttachment(a *types.Attachment) (*types.Attachment, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetTask(a.TaskID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a.ID = newUUID()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := db.Exec(
		"INSERT INTO attachments ("+attachmentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.TaskID, a.Filename, a.OriginalName, a.MimeType, a.Size, a.Path,
		fmtTime(now), fmtTime(now),
	); err != nil {
		return nil, fmt.Errorf("inserting attachment: %w", err)
	}
	return a, nil
}

// GetAttachment retrieves attachment metadata by ID. Returns ErrNotFound
// if absent.
func (s *Store) GetAttachment(id string) (*types.Attachment, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	a, err := hydrateAttachment(db.QueryRow("SELECT "+attachmentColumns+" FROM attachments WHERE attachment_id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("attachment %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting attachment %s: %w", id, err)
	}
	return a, nil
}

// GetTaskAttachments returns a task's attachments, oldest first.
func (s *Store) GetTaskAttachments(taskID string) ([]*types.Attachment, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		"SELECT "+attachmentColumns+" FROM attachments WHERE task_id = ? ORDER BY created_at ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching attachments: %w", err)
	}
	defer rows.Close()

	attachments := []*types.Attachment{}
	for rows.Next() {
		a, err := hydrateAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachments: %w", err)
	}
	return attachments, nil
}

// DeleteAttachment removes attachment metadata after resolving ownership
// through its parent task.
func (s *Store) DeleteAttachment(id string, callerUserID string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	current, err := s.GetAttachment(id)
	if err != nil {
		return err
	}
	if err := s.checkTaskOwnership(current.TaskID, callerUserID); err != nil {
		return err
	}
	if _, err := db.Exec("DELETE FROM attachments WHERE attachment_id = ?", id); err != nil {
		return fmt.Errorf("deleting attachment %s: %w", id, err)
	}
	return nil
}

// hydrateAttachment converts one row into a *types.Attachment.
func hydrateAttachment(row rowScanner) (*types.Attachment, error) {
	var a types.Attachment
	var createdAt, updatedAt string
	if err := row.Scan(
		&a.ID, &a.TaskID, &a.Filename, &a.OriginalName, &a.MimeType, &a.Size, &a.Path,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
