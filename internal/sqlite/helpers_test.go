// Shared test fixtures for the sqlite package.
package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/pkg/types"
)

// newTestStore creates an initialized, migrated store on a temp file.
// Periodic backups stay off so tests control snapshots explicitly.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s := New()
	cfg := types.Config{
		Path:        filepath.Join(t.TempDir(), "tasks.db"),
		Timeout:     5 * time.Second,
		WAL:         true,
		ForeignKeys: true,
	}
	require.NoError(t, s.Initialize(cfg))
	require.NoError(t, s.RunMigrations())
	t.Cleanup(func() { s.Close() })
	return s
}

// seedUser creates a user with the given email.
func seedUser(t *testing.T, s *Store, email string) *types.User {
	t.Helper()
	u, err := s.CreateUser(&types.User{Name: "Test User", Email: email})
	require.NoError(t, err)
	return u
}

// seedList creates a non-default list for the user.
func seedList(t *testing.T, s *Store, userID, name string) *types.List {
	t.Helper()
	l, err := s.CreateList(&types.List{Name: name, UserID: userID})
	require.NoError(t, err)
	return l
}

// seedTask creates a task in the given list.
func seedTask(t *testing.T, s *Store, userID, listID, name string) *types.Task {
	t.Helper()
	task, err := s.CreateTask(&types.Task{Name: name, UserID: userID, ListID: listID})
	require.NoError(t, err)
	return task
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
