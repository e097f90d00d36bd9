package types

import (
	"fmt"
	"strings"
	"time"
)

// Label is a user-scoped tag attached to tasks via a many-to-many join.
// Name is unique per owning user.
type Label struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks required fields before persistence.
func (l *Label) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("label name must not be empty: %w", ErrValidation)
	}
	if l.UserID == "" {
		return fmt.Errorf("label userId must not be empty: %w", ErrValidation)
	}
	return nil
}

// LabelPatch holds the fields UpdateLabel may change.
type LabelPatch struct {
	Name  *string
	Icon  *string
	Color *string
}
