package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Task priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
	PriorityNone   = "None"
)

// validPriorities is the set of recognized priority values.
var validPriorities = map[string]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
	PriorityNone:   true,
}

// ValidPriority reports whether p is a recognized priority value.
func ValidPriority(p string) bool { return validPriorities[p] }

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusArchived   = "archived"
)

// validStatuses is the set of recognized status values.
var validStatuses = map[string]bool{
	StatusTodo:       true,
	StatusInProgress: true,
	StatusDone:       true,
	StatusArchived:   true,
}

// ValidStatus reports whether s is a recognized status value.
func ValidStatus(s string) bool { return validStatuses[s] }

// Recurring pattern types.
const (
	RecurDaily   = "daily"
	RecurWeekly  = "weekly"
	RecurMonthly = "monthly"
	RecurYearly  = "yearly"
	RecurCustom  = "custom"
)

var validRecurTypes = map[string]bool{
	RecurDaily:   true,
	RecurWeekly:  true,
	RecurMonthly: true,
	RecurYearly:  true,
	RecurCustom:  true,
}

// RecurringPattern is a tagged variant describing how a recurring task
// repeats. Only the fields for the given Type are meaningful. Unknown
// fields found during decoding are preserved in Extra so future pattern
// shapes round-trip through the store unchanged.
type RecurringPattern struct {
	Type        string
	Interval    int
	DaysOfWeek  []string
	DayOfMonth  int
	MonthOfYear int
	Extra       map[string]json.RawMessage
}

// Validate checks that the pattern is internally consistent for its type.
func (p *RecurringPattern) Validate() error {
	if !validRecurTypes[p.Type] {
		return fmt.Errorf("unknown recurring pattern type %q: %w", p.Type, ErrValidation)
	}
	switch p.Type {
	case RecurWeekly:
		if len(p.DaysOfWeek) == 0 {
			return fmt.Errorf("weekly recurring pattern requires daysOfWeek: %w", ErrValidation)
		}
	case RecurMonthly:
		if p.DayOfMonth < 1 || p.DayOfMonth > 31 {
			return fmt.Errorf("monthly recurring pattern requires dayOfMonth 1-31, got %d: %w", p.DayOfMonth, ErrValidation)
		}
	case RecurYearly:
		if p.MonthOfYear < 1 || p.MonthOfYear > 12 {
			return fmt.Errorf("yearly recurring pattern requires monthOfYear 1-12, got %d: %w", p.MonthOfYear, ErrValidation)
		}
	}
	return nil
}

// Keys the pattern decodes itself; everything else lands in Extra.
var recurKnownKeys = map[string]bool{
	"type": true, "interval": true, "daysOfWeek": true,
	"dayOfMonth": true, "monthOfYear": true,
}

// MarshalJSON emits the known fields plus any passthrough fields captured
// at decode time. Known fields win on key collision.
func (p *RecurringPattern) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+5)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["type"] = p.Type
	if p.Interval != 0 {
		out["interval"] = p.Interval
	}
	if len(p.DaysOfWeek) > 0 {
		out["daysOfWeek"] = p.DaysOfWeek
	}
	if p.DayOfMonth != 0 {
		out["dayOfMonth"] = p.DayOfMonth
	}
	if p.MonthOfYear != 0 {
		out["monthOfYear"] = p.MonthOfYear
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the known fields and stashes unrecognized keys in
// Extra for forward compatibility.
func (p *RecurringPattern) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["type"]; ok {
		if err := json.Unmarshal(v, &p.Type); err != nil {
			return fmt.Errorf("recurring pattern type: %w", err)
		}
	}
	if v, ok := raw["interval"]; ok {
		if err := json.Unmarshal(v, &p.Interval); err != nil {
			return fmt.Errorf("recurring pattern interval: %w", err)
		}
	}
	if v, ok := raw["daysOfWeek"]; ok {
		if err := json.Unmarshal(v, &p.DaysOfWeek); err != nil {
			return fmt.Errorf("recurring pattern daysOfWeek: %w", err)
		}
	}
	if v, ok := raw["dayOfMonth"]; ok {
		if err := json.Unmarshal(v, &p.DayOfMonth); err != nil {
			return fmt.Errorf("recurring pattern dayOfMonth: %w", err)
		}
	}
	if v, ok := raw["monthOfYear"]; ok {
		if err := json.Unmarshal(v, &p.MonthOfYear); err != nil {
			return fmt.Errorf("recurring pattern monthOfYear: %w", err)
		}
	}
	for k, v := range raw {
		if recurKnownKeys[k] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}
	return nil
}

// Task is the central work item. Every task belongs to exactly one list;
// ParentTaskID links sub-tasks into a tree. Position orders siblings within
// a list; renumbering after reorders is the caller's responsibility.
type Task struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Date             *time.Time        `json:"date,omitempty"`
	Deadline         *time.Time        `json:"deadline,omitempty"`
	Estimate         string            `json:"estimate,omitempty"`
	ActualTime       string            `json:"actualTime,omitempty"`
	Priority         string            `json:"priority"`
	Status           string            `json:"status"`
	UserID           string            `json:"userId"`
	ListID           string            `json:"listId"`
	ParentTaskID     string            `json:"parentTaskId,omitempty"`
	Position         int               `json:"position"`
	IsRecurring      bool              `json:"isRecurring"`
	RecurringPattern *RecurringPattern `json:"recurringPattern,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Validate checks required fields and domain rules before persistence.
// Empty Priority and Status are filled with defaults, not rejected.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name must not be empty: %w", ErrValidation)
	}
	if t.UserID == "" {
		return fmt.Errorf("task userId must not be empty: %w", ErrValidation)
	}
	if t.ListID == "" {
		return fmt.Errorf("task listId must not be empty: %w", ErrValidation)
	}
	if t.Position < 0 {
		return fmt.Errorf("task position must not be negative: %w", ErrValidation)
	}
	if t.Priority != "" && !ValidPriority(t.Priority) {
		return fmt.Errorf("unknown task priority %q: %w", t.Priority, ErrValidation)
	}
	if t.Status != "" && !ValidStatus(t.Status) {
		return fmt.Errorf("unknown task status %q: %w", t.Status, ErrValidation)
	}
	if t.IsRecurring {
		if t.RecurringPattern == nil {
			return fmt.Errorf("recurring task requires a recurringPattern: %w", ErrValidation)
		}
		if err := t.RecurringPattern.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TaskPatch holds the fields UpdateTask may change. Nil fields are left
// untouched; a patch can set optional fields like Date, Deadline, and
// Description but not clear them back to empty. Unsetting is out of
// scope for the patch shape.
type TaskPatch struct {
	Name             *string
	Description      *string
	Date             *time.Time
	Deadline         *time.Time
	Estimate         *string
	ActualTime       *string
	Priority         *string
	Status           *string
	ListID           *string
	Position         *int
	IsRecurring      *bool
	RecurringPattern *RecurringPattern
}

// TaskFilter narrows GetUserTasks results. Zero values mean no filtering
// on that dimension; Statuses and Priorities are set-membership filters.
type TaskFilter struct {
	ListID     string
	Statuses   []string
	Priorities []string
}

// TaskDetails is a task joined with everything attached to it.
type TaskDetails struct {
	Task        *Task         `json:"task"`
	List        *List         `json:"list"`
	Labels      []*Label      `json:"labels"`
	Subtasks    []*Subtask    `json:"subtasks"`
	Reminders   []*Reminder   `json:"reminders"`
	Attachments []*Attachment `json:"attachments"`
}
