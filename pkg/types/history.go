package types

import (
	"encoding/json"
	"time"
)

// Task history actions.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
	ActionCompleted     = "completed"
	ActionUncompleted   = "uncompleted"
)

// validHistoryActions is the set of recognized audit actions.
var validHistoryActions = map[string]bool{
	ActionCreated:       true,
	ActionUpdated:       true,
	ActionDeleted:       true,
	ActionStatusChanged: true,
	ActionCompleted:     true,
	ActionUncompleted:   true,
}

// ValidHistoryAction reports whether a is a recognized audit action.
func ValidHistoryAction(a string) bool { return validHistoryActions[a] }

// TaskHistory is an append-only audit entry. Rows are written by the
// store's update and delete paths and never mutated afterwards; the
// task_id is deliberately not a cascading foreign key so the trail
// outlives the task.
type TaskHistory struct {
	ID          string          `json:"id"`
	TaskID      string          `json:"taskId"`
	Action      string          `json:"action"`
	ChangedBy   string          `json:"changedBy"`
	Changes     json.RawMessage `json:"changes"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
