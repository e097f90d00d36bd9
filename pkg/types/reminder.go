package types

import (
	"fmt"
	"time"
)

// Reminder delivery methods.
const (
	ReminderPush  = "push"
	ReminderEmail = "email"
	ReminderSMS   = "sms"
)

// validReminderMethods is the set of recognized delivery methods.
var validReminderMethods = map[string]bool{
	ReminderPush:  true,
	ReminderEmail: true,
	ReminderSMS:   true,
}

// ValidReminderMethod reports whether m is a recognized delivery method.
func ValidReminderMethod(m string) bool { return validReminderMethods[m] }

// Reminder schedules a notification for a task. RemindAt must be in the
// future at creation time; (taskId, remindAt, method) is unique, enforced
// by the repository rather than a constraint.
type Reminder struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	RemindAt  time.Time `json:"remindAt"`
	IsSent    bool      `json:"isSent"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks required fields against the given current time.
func (r *Reminder) Validate(now time.Time) error {
	if r.TaskID == "" {
		return fmt.Errorf("reminder taskId must not be empty: %w", ErrValidation)
	}
	if r.RemindAt.IsZero() {
		return fmt.Errorf("reminder remindAt must not be empty: %w", ErrValidation)
	}
	if !r.RemindAt.After(now) {
		return fmt.Errorf("reminder remindAt must be in the future: %w", ErrValidation)
	}
	if !ValidReminderMethod(r.Method) {
		return fmt.Errorf("unknown reminder method %q: %w", r.Method, ErrValidation)
	}
	return nil
}

// ReminderPatch holds the fields UpdateReminder may change. RemindAt moves
// are not re-checked against the clock; only creation demands the future.
type ReminderPatch struct {
	RemindAt *time.Time
	IsSent   *bool
	Method   *string
}
