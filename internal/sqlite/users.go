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

const userColumns = "user_id, name, email, avatar, preferences, created_at, updated_at"

// CreateUser persists a new user and its default Inbox list in one
// transaction. Fails with ErrValidation if the email is already taken.
func (s *Store) CreateUser(u *types.User) (*types.User, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u.ID = newUUID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if len(u.Preferences) == 0 {
		u.Preferences = json.RawMessage("{}")
	} else if !json.Valid(u.Preferences) {
		return nil, fmt.Errorf("user preferences must be valid JSON: %w", types.ErrValidation)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning user creation: %w", err)
	}
	defer tx.Rollback()

	var taken bool
	err = tx.QueryRow("SELECT 1 FROM users WHERE email = ?", u.Email).Scan(&taken)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("email %q already in use: %w", u.Email, types.ErrValidation)
	}

	if _, err := tx.Exec(
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Email, u.Avatar, string(u.Preferences), fmtTime(now), fmtTime(now),
	); err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	// Every user gets exactly one default Inbox list.
	if _, err := tx.Exec(
		"INSERT INTO lists (list_id, name, is_default, user_id, created_at, updated_at) VALUES (?, ?, 1, ?, ?, ?)",
		newUUID(), types.DefaultListName, u.ID, fmtTime(now), fmtTime(now),
	); err != nil {
		return nil, fmt.Errorf("creating default list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing user creation: %w", err)
	}
	return u, nil
}

// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
func (s *Store) GetUser(id string) (*types.User, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	u, err := hydrateUser(db.QueryRow("SELECT "+userColumns+" FROM users WHERE user_id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by its globally unique email.
func (s *Store) GetUserByEmail(email string) (*types.User, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}
	u, err := hydrateUser(db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// UpdateUser applies the patched fields and refreshes updatedAt.
func (s *Store) UpdateUser(id string, patch types.UserPatch) (*types.User, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}

	var sets []string
	var args []any
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("user name must not be empty: %w", types.ErrValidation)
		}
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Email != nil {
		if strings.TrimSpace(*patch.Email) == "" {
			return nil, fmt.Errorf("user email must not be empty: %w", types.ErrValidation)
		}
		sets, args = append(sets, "email = ?"), append(args, *patch.Email)
	}
	if patch.Avatar != nil {
		sets, args = append(sets, "avatar = ?"), append(args, *patch.Avatar)
	}
	if patch.Preferences != nil {
		if !json.Valid(patch.Preferences) {
			return nil, fmt.Errorf("user preferences must be valid JSON: %w", types.ErrValidation)
		}
		sets, args = append(sets, "preferences = ?"), append(args, string(patch.Preferences))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, fmtTime(time.Now()), id)

	res, err := db.Exec("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE user_id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("updating user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("user %s: %w", id, types.ErrNotFound)
	}
	return s.GetUser(id)
}

// DeleteUser removes a user; foreign-key cascades take every owned list,
// label, task, and dependent row with it.
func (s *Store) DeleteUser(id string) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	res, err := db.Exec("DELETE FROM users WHERE user_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", id, types.ErrNotFound)
	}
	return nil
}

// hydrateUser converts one row into a *types.User.
func hydrateUser(row rowScanner) (*types.User, error) {
	var u types.User
	var avatar sql.NullString
	var prefs, createdAt, updatedAt string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &avatar, &prefs, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.Avatar = avatar.String
	u.Preferences = json.RawMessage(prefs)
	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
