package types

import (
	"fmt"
	"strings"
	"time"
)

// DefaultListName is the non-deletable default container every user has
// exactly one of. It is created together with the user.
const DefaultListName = "Inbox"

// List is a named container for tasks. Name is unique per owning user.
type List struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Emoji       string    `json:"emoji"`
	IsDefault   bool      `json:"isDefault"`
	IsFavorite  bool      `json:"isFavorite"`
	Description string    `json:"description,omitempty"`
	Position    int       `json:"position"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks required fields before persistence.
func (l *List) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("list name must not be empty: %w", ErrValidation)
	}
	if l.UserID == "" {
		return fmt.Errorf("list userId must not be empty: %w", ErrValidation)
	}
	if l.Position < 0 {
		return fmt.Errorf("list position must not be negative: %w", ErrValidation)
	}
	return nil
}

// ListPatch holds the fields UpdateList may change. Nil fields are left
// untouched.
type ListPatch struct {
	Name        *string
	Color       *string
	Emoji       *string
	IsFavorite  *bool
	Description *string
	Position    *int
}
