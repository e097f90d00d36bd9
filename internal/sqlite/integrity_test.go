package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/pkg/types"
)

func TestHealthCheck(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "health@example.com")

	status := s.HealthCheck()
	assert.True(t, status.Healthy)
	assert.Equal(t, "ok", status.Message)
	require.NotNil(t, status.Stats)
	assert.Equal(t, 1, status.Stats.Users)
}

func TestHealthCheckUninitialized(t *testing.T) {
	s := New()

	// Failures come back as data, never as an error.
	status := s.HealthCheck()
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.Message)
}

func TestHealthCheckAfterClose(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	status := s.HealthCheck()
	assert.False(t, status.Healthy)
}

func TestIntegrityCheckClean(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "clean@example.com")
	l := seedList(t, s, u.ID, "Work")
	seedTask(t, s, u.ID, l.ID, "Fine")

	report, err := s.IntegrityCheck()
	require.NoError(t, err)
	assert.True(t, report.IsValid)
	assert.Empty(t, report.Issues)
}

func TestIntegrityCheckFindsOrphans(t *testing.T) {
	s := newTestStore(t)
	db, err := s.Conn()
	require.NoError(t, err)

	// Smuggle in an orphaned subtask with enforcement off; the scan must
	// catch what the constraints would normally prevent.
	_, err = db.Exec("PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = db.Exec(
		"INSERT INTO subtasks (subtask_id, name, is_completed, task_id, position, created_at, updated_at) VALUES ('orphan', 'Lost', 0, 'no-such-task', 0, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')",
	)
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	report, err := s.IntegrityCheck()
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "subtasks with missing task")
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "stats@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Counted")
	_, err := s.UpdateTask(task.ID, types.TaskPatch{Name: strPtr("Counted twice")}, u.ID)
	require.NoError(t, err)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Users)
	assert.Equal(t, 2, stats.Lists) // Inbox plus Work
	assert.Equal(t, 1, stats.Tasks)
	assert.Equal(t, 1, stats.HistoryEntries)
}
