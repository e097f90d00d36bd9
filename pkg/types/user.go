package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// User owns lists, labels, and (transitively) tasks. Email is globally
// unique. Preferences is an opaque JSON blob the store never interprets.
type User struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Avatar      string          `json:"avatar,omitempty"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Validate checks required fields before persistence.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name must not be empty: %w", ErrValidation)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user email must not be empty: %w", ErrValidation)
	}
	return nil
}

// UserPatch holds the fields UpdateUser may change. Nil fields are left
// untouched.
type UserPatch struct {
	Name        *string
	Email       *string
	Avatar      *string
	Preferences json.RawMessage
}
