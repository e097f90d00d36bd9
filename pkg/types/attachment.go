package types

import (
	"fmt"
	"strings"
	"time"
)

// Attachment records a file stored alongside a task. The file itself lives
// at Path; the store only tracks its metadata.
type Attachment struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"taskId"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Path         string    `json:"path"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate checks required fields before persistence.
func (a *Attachment) Validate() error {
	if a.TaskID == "" {
		return fmt.Errorf("attachment taskId must not be empty: %w", ErrValidation)
	}
	if strings.TrimSpace(a.Filename) == "" {
		return fmt.Errorf("attachment filename must not be empty: %w", ErrValidation)
	}
	if a.Size <= 0 {
		return fmt.Errorf("attachment size must be positive, got %d: %w", a.Size, ErrValidation)
	}
	if a.Path == "" {
		return fmt.Errorf("attachment path must not be empty: %w", ErrValidation)
	}
	return nil
}
