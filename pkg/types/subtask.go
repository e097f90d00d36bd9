package types

import (
	"fmt"
	"strings"
	"time"
)

// Subtask is a checklist item under a task, ordered by Position within
// its parent.
type Subtask struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IsCompleted bool      `json:"isCompleted"`
	TaskID      string    `json:"taskId"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks required fields before persistence.
func (s *Subtask) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("subtask name must not be empty: %w", ErrValidation)
	}
	if s.TaskID == "" {
		return fmt.Errorf("subtask taskId must not be empty: %w", ErrValidation)
	}
	if s.Position < 0 {
		return fmt.Errorf("subtask position must not be negative: %w", ErrValidation)
	}
	return nil
}

// SubtaskPatch holds the fields UpdateSubtask may change.
type SubtaskPatch struct {
	Name        *string
	IsCompleted *bool
	Position    *int
}
