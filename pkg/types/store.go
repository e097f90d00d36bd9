package types

// HealthStatus is the result of a liveness probe. Failures are reported as
// data, never as an error.
type HealthStatus struct {
	Healthy bool           `json:"healthy"`
	Message string         `json:"message"`
	Stats   *DatabaseStats `json:"stats,omitempty"`
}

// IntegrityReport lists data drift found by an on-demand scan. A non-empty
// Issues slice is diagnostic output, not a failure.
type IntegrityReport struct {
	IsValid bool     `json:"isValid"`
	Issues  []string `json:"issues"`
}

// DatabaseStats holds per-entity row counts.
type DatabaseStats struct {
	Users          int `json:"users"`
	Lists          int `json:"lists"`
	Labels         int `json:"labels"`
	Tasks          int `json:"tasks"`
	Subtasks       int `json:"subtasks"`
	Reminders      int `json:"reminders"`
	Attachments    int `json:"attachments"`
	HistoryEntries int `json:"historyEntries"`
}

// Store is the repository surface the HTTP layer consumes. Get operations
// return ErrNotFound for absent rows, except GetTaskWithDetails, which
// returns (nil, nil): absence is a valid outcome there. Update and delete
// operations that take a callerUserID enforce ownership and return
// ErrForbidden on mismatch.
type Store interface {
	// Lifecycle and operations.
	Initialize(cfg Config) error
	Close() error
	RunMigrations() error
	HealthCheck() HealthStatus
	IntegrityCheck() (IntegrityReport, error)
	Stats() (DatabaseStats, error)
	Backup(path string) (string, error)

	// Users.
	CreateUser(u *User) (*User, error)
	GetUser(id string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	UpdateUser(id string, patch UserPatch) (*User, error)
	DeleteUser(id string) error

	// Lists.
	CreateList(l *List) (*List, error)
	GetList(id string) (*List, error)
	GetUserLists(userID string) ([]*List, error)
	GetListTaskCount(id string) (int, error)
	UpdateList(id string, patch ListPatch, callerUserID string) (*List, error)
	DeleteList(id string, callerUserID string) error

	// Labels.
	CreateLabel(l *Label) (*Label, error)
	GetLabel(id string) (*Label, error)
	GetUserLabels(userID string) ([]*Label, error)
	UpdateLabel(id string, patch LabelPatch, callerUserID string) (*Label, error)
	DeleteLabel(id string, callerUserID string) error
	AddTaskLabel(taskID, labelID, callerUserID string) error
	RemoveTaskLabel(taskID, labelID, callerUserID string) error

	// Tasks.
	CreateTask(t *Task) (*Task, error)
	GetTask(id string) (*Task, error)
	GetTaskWithDetails(id string) (*TaskDetails, error)
	GetUserTasks(userID string, filter *TaskFilter) ([]*Task, error)
	UpdateTask(id string, patch TaskPatch, callerUserID string) (*Task, error)
	DeleteTask(id string, callerUserID string) error
	GetTaskHistory(taskID string) ([]*TaskHistory, error)

	// Subtasks.
	CreateSubtask(s *Subtask) (*Subtask, error)
	GetSubtask(id string) (*Subtask, error)
	GetTaskSubtasks(taskID string) ([]*Subtask, error)
	UpdateSubtask(id string, patch SubtaskPatch, callerUserID string) (*Subtask, error)
	DeleteSubtask(id string, callerUserID string) error

	// Reminders.
	CreateReminder(r *Reminder) (*Reminder, error)
	GetReminder(id string) (*Reminder, error)
	GetTaskReminders(taskID string) ([]*Reminder, error)
	UpdateReminder(id string, patch ReminderPatch, callerUserID string) (*Reminder, error)
	DeleteReminder(id string, callerUserID string) error

	// Attachments.
	CreateAttachment(a *Attachment) (*Attachment, error)
	GetAttachment(id string) (*Attachment, error)
	GetTaskAttachments(taskID string) ([]*Attachment, error)
	DeleteAttachment(id string, callerUserID string) error
}
