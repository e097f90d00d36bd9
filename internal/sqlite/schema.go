package sqlite

// Schema DDL for all tables. Cascade edges mirror the ownership tree:
// deleting a user removes everything it transitively owns; deleting a
// list or task removes its dependents. task_history has no foreign key
// on purpose: the audit trail outlives the task it describes.
const (
	createUsers = `CREATE TABLE users (
    user_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    avatar TEXT,
    preferences TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createLists = `CREATE TABLE lists (
    list_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    emoji TEXT NOT NULL DEFAULT '',
    is_default INTEGER NOT NULL DEFAULT 0,
    is_favorite INTEGER NOT NULL DEFAULT 0,
    description TEXT,
    position INTEGER NOT NULL DEFAULT 0 CHECK (position >= 0),
    user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE (user_id, name)
);`

	createLabels = `CREATE TABLE labels (
    label_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    icon TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE (user_id, name)
);`

	createTasks = `CREATE TABLE tasks (
    task_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    date TEXT,
    deadline TEXT,
    estimate TEXT,
    actual_time TEXT,
    priority TEXT NOT NULL DEFAULT 'None'
        CHECK (priority IN ('High', 'Medium', 'Low', 'None')),
    status TEXT NOT NULL DEFAULT 'todo'
        CHECK (status IN ('todo', 'in_progress', 'done', 'archived')),
    user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    list_id TEXT NOT NULL REFERENCES lists(list_id) ON DELETE CASCADE,
    parent_task_id TEXT REFERENCES tasks(task_id) ON DELETE CASCADE,
    position INTEGER NOT NULL DEFAULT 0 CHECK (position >= 0),
    is_recurring INTEGER NOT NULL DEFAULT 0,
    recurring_pattern TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTaskLabels = `CREATE TABLE task_labels (
    task_id TEXT NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
    label_id TEXT NOT NULL REFERENCES labels(label_id) ON DELETE CASCADE,
    PRIMARY KEY (task_id, label_id)
);`

	createSubtasks = `CREATE TABLE subtasks (
    subtask_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    is_completed INTEGER NOT NULL DEFAULT 0,
    task_id TEXT NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
    position INTEGER NOT NULL DEFAULT 0 CHECK (position >= 0),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createReminders = `CREATE TABLE reminders (
    reminder_id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
    remind_at TEXT NOT NULL,
    is_sent INTEGER NOT NULL DEFAULT 0,
    method TEXT NOT NULL DEFAULT 'push'
        CHECK (method IN ('push', 'email', 'sms')),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createAttachments = `CREATE TABLE attachments (
    attachment_id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
    filename TEXT NOT NULL,
    original_name TEXT NOT NULL,
    mime_type TEXT NOT NULL,
    size INTEGER NOT NULL CHECK (size > 0),
    path TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTaskHistory = `CREATE TABLE task_history (
    history_id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL,
    action TEXT NOT NULL
        CHECK (action IN ('created', 'updated', 'deleted', 'status_changed', 'completed', 'uncompleted')),
    changed_by TEXT NOT NULL,
    changes TEXT NOT NULL DEFAULT '{}',
    description TEXT,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxListsUser        = `CREATE INDEX idx_lists_user ON lists(user_id);`
	idxLabelsUser       = `CREATE INDEX idx_labels_user ON labels(user_id);`
	idxTasksUser        = `CREATE INDEX idx_tasks_user ON tasks(user_id);`
	idxTasksListPos     = `CREATE INDEX idx_tasks_list_position ON tasks(list_id, position);`
	idxTasksParent      = `CREATE INDEX idx_tasks_parent ON tasks(parent_task_id);`
	idxTasksStatus      = `CREATE INDEX idx_tasks_status ON tasks(status);`
	idxTaskLabelsLabel  = `CREATE INDEX idx_task_labels_label ON task_labels(label_id);`
	idxSubtasksTaskPos  = `CREATE INDEX idx_subtasks_task_position ON subtasks(task_id, position);`
	idxRemindersTask    = `CREATE INDEX idx_reminders_task ON reminders(task_id);`
	idxRemindersPending = `CREATE INDEX idx_reminders_pending ON reminders(is_sent, remind_at);`
	idxAttachmentsTask  = `CREATE INDEX idx_attachments_task ON attachments(task_id);`
	idxTaskHistoryTask  = `CREATE INDEX idx_task_history_task ON task_history(task_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createUsers,
	createLists,
	createLabels,
	createTasks,
	createTaskLabels,
	createSubtasks,
	createReminders,
	createAttachments,
	createTaskHistory,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxListsUser,
	idxLabelsUser,
	idxTasksUser,
	idxTasksListPos,
	idxTasksParent,
	idxTasksStatus,
	idxTaskLabelsLabel,
	idxSubtasksTaskPos,
	idxRemindersTask,
	idxRemindersPending,
	idxAttachmentsTask,
	idxTaskHistoryTask,
}

// requiredTables is what the post-migration validation pass expects to
// find in sqlite_master.
var requiredTables = []string{
	"users",
	"lists",
	"labels",
	"tasks",
	"task_labels",
	"subtasks",
	"reminders",
	"attachments",
	"task_history",
	"schema_migrations",
}

// requiredIndexes is advisory: absence is a performance warning, not an
// error.
var requiredIndexes = []string{
	"idx_lists_user",
	"idx_labels_user",
	"idx_tasks_user",
	"idx_tasks_list_position",
	"idx_tasks_parent",
	"idx_tasks_status",
	"idx_task_labels_label",
	"idx_subtasks_task_position",
	"idx_reminders_task",
	"idx_reminders_pending",
	"idx_attachments_task",
	"idx_task_history_task",
}
