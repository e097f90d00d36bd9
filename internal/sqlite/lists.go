package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskvault/taskvault/pkg/types"
)

const listColumns = "list_id, name, color, emoji, is_default, is_favorite, description, position, user_id, created_at, updated_at"

// CreateList persists a new list. A duplicate (user, name) insert is a
// silent no-op: the existing list is returned unchanged and no error is
// raised. Callers that need to distinguish can compare the returned ID.
func (s *Store) CreateList(l *types.List) (*types.List, error) {
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
	// The default list is only ever created alongside its user.
	l.IsDefault = false

	res, err := db.Exec(
		"INSERT OR IGNORE INTO lists ("+listColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.Name, l.Color, l.Emoji, l.IsDefault, l.IsFavorite, l.Description,
		l.Position, l.UserID, fmtTime(now), fmtTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Duplicate name for this user; hand back the canonical row.
		return s.getListByName(db, l.UserID, l.Name)
	}
	return l, nil
}

// GetList retrieves a list by ID. Returns ErrNotFound if absent.
func (s *Store) GetList(id string) (*types.List, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	l, err := hydrateList(db.QueryRow("SELECT "+listColumns+" FROM lists WHERE list_id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("list %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting list %s: %w", id, err)
	}
	return l, nil
}

// GetUserLists returns all lists owned by a user, ordered by position.
func (s *Store) GetUserLists(userID string) ([]*types.List, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		"SELECT "+listColumns+" FROM lists WHERE user_id = ? ORDER BY position ASC, created_at ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching lists: %w", err)
	}
	defer rows.Close()

	lists := []*types.List{}
	for rows.Next() {
		l, err := hydrateList(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lists: %w", err)
	}
	return lists, nil
}

// GetListTaskCount returns the number of tasks in a list. Callers use it
// to enforce the empty-list business rule before asking for deletion.
func (s *Store) GetListTaskCount(id string) (int, error) {
	db, err := s.Conn()
	if err != nil {
		return 0, err
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM tasks WHERE list_id = ?", id).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tasks for list %s: %w", id, err)
	}
	return count, nil
}

// UpdateList applies the patched fields after an ownership check.
func (s *Store) UpdateList(id string, patch types.ListPatch, callerUserID string) (*types.List, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	current, err := s.GetList(id)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerUserID {
		return nil, fmt.Errorf("list %s: %w", id, types.ErrForbidden)
	}

	var sets []string
	var args []any
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("list name must not be empty: %w", types.ErrValidation)
		}
		if current.IsDefault && *patch.Name != types.DefaultListName {
			return nil, fmt.Errorf("default list cannot be renamed: %w", types.ErrPreconditionFailed)
		}
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Color != nil {
		sets, args = append(sets, "color = ?"), append(args, *patch.Color)
	}
	if patch.Emoji != nil {
		sets, args = append(sets, "emoji = ?"), append(args, *patch.Emoji)
	}
	if patch.IsFavorite != nil {
		sets, args = append(sets, "is_favorite = ?"), append(args, *patch.IsFavorite)
	}
	if patch.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *patch.Description)
	}
	if patch.Position != nil {
		if *patch.Position < 0 {
			return nil, fmt.Errorf("list position must not be negative: %w", types.ErrValidation)
		}
		sets, args = append(sets, "position = ?"), append(args, *patch.Position)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, fmtTime(time.Now()), id)

	if _, err := db.Exec("UPDATE lists SET "+strings.Join(sets, ", ")+" WHERE list_id = ?", args...); err != nil {
		return nil, fmt.Errorf("updating list %s: %w", id, err)
	}
	return s.GetList(id)
}

// DeleteList removes a list after an ownership check; foreign-key cascades
// take its tasks and their dependents. The default Inbox list is
// non-deletable. The empty-list precondition is the caller's to check via
// GetListTaskCount; asked directly, the store cascades.
func (s *Store) DeleteList(id string, callerUserID string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	current, err := s.GetList(id)
	if err != nil {
		return err
	}
	if current.UserID != callerUserID {
		return fmt.Errorf("list %s: %w", id, types.ErrForbidden)
	}
	if current.IsDefault {
		return fmt.Errorf("default list cannot be deleted: %w", types.ErrPreconditionFailed)
	}

	if _, err := db.Exec("DELETE FROM lists WHERE list_id = ?", id); err != nil {
		return fmt.Errorf("deleting list %s: %w", id, err)
	}
	return nil
}

// getListByName returns the list with the given (user, name) pair.
func (s *Store) getListByName(q querier, userID, name string) (*types.List, error) {
	l, err := hydrateList(q.QueryRow(
		"SELECT "+listColumns+" FROM lists WHERE user_id = ? AND name = ?", userID, name,
	))
	if err != nil {
		return nil, fmt.Errorf("getting list %q for user %s: %w", name, userID, err)
	}
	return l, nil
}

// ensureUserExists fails with ErrNotFound if the user is absent.
func ensureUserExists(q querier, userID string) error {
	var one int
	err := q.QueryRow("SELECT 1 FROM users WHERE user_id = ?", userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking user %s: %w", userID, err)
	}
	return nil
}

// hydrateList converts one row into a *types.List.
func hydrateList(row rowScanner) (*types.List, error) {
	var l types.List
	var description sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(
		&l.ID, &l.Name, &l.Color, &l.Emoji, &l.IsDefault, &l.IsFavorite,
		&description, &l.Position, &l.UserID, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	l.Description = description.String
	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
