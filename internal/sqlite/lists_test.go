package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/pkg/types"
)

func TestCreateList(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "lists@example.com")

	l, err := s.CreateList(&types.List{Name: "Work", Color: "#ff0000", UserID: u.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.False(t, l.IsDefault)

	lists, err := s.GetUserLists(u.ID)
	require.NoError(t, err)
	assert.Len(t, lists, 2) // Inbox plus Work
}

func TestCreateListMissingUser(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateList(&types.List{Name: "Orphan", UserID: "missing"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCreateListDuplicateNameIsSilentNoOp(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "duplist@example.com")

	first, err := s.CreateList(&types.List{Name: "Work", UserID: u.ID})
	require.NoError(t, err)

	// Same (user, name) again: no error, the existing row comes back.
	second, err := s.CreateList(&types.List{Name: "Work", Color: "#00ff00", UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	lists, err := s.GetUserLists(u.ID)
	require.NoError(t, err)
	assert.Len(t, lists, 2)
}

func TestCreateListSameNameDifferentUsers(t *testing.T) {
	s := newTestStore(t)
	u1 := seedUser(t, s, "one@example.com")
	u2 := seedUser(t, s, "two@example.com")

	l1 := seedList(t, s, u1.ID, "Work")
	l2 := seedList(t, s, u2.ID, "Work")
	assert.NotEqual(t, l1.ID, l2.ID)
}

func TestCreateListNeverDefault(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "nodefault@example.com")

	l, err := s.CreateList(&types.List{Name: "Sneaky", IsDefault: true, UserID: u.ID})
	require.NoError(t, err)
	assert.False(t, l.IsDefault)
}

func TestGetListTaskCount(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "count@example.com")
	l := seedList(t, s, u.ID, "Work")

	count, err := s.GetListTaskCount(l.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	seedTask(t, s, u.ID, l.ID, "One")
	seedTask(t, s, u.ID, l.ID, "Two")

	count, err = s.GetListTaskCount(l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpdateList(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "uplist@example.com")
	l := seedList(t, s, u.ID, "Work")

	got, err := s.UpdateList(l.ID, types.ListPatch{
		Name:       strPtr("Projects"),
		IsFavorite: boolPtr(true),
		Position:   intPtr(3),
	}, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Projects", got.Name)
	assert.True(t, got.IsFavorite)
	assert.Equal(t, 3, got.Position)
}

func TestUpdateListOwnership(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "owner@example.com")
	other := seedUser(t, s, "other@example.com")
	l := seedList(t, s, owner.ID, "Private")

	_, err := s.UpdateList(l.ID, types.ListPatch{Name: strPtr("Stolen")}, other.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)

	err = s.DeleteList(l.ID, other.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)
}

func TestDefaultListProtected(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "inbox@example.com")
	lists, err := s.GetUserLists(u.ID)
	require.NoError(t, err)
	inbox := lists[0]
	require.True(t, inbox.IsDefault)

	// Renaming the default list is refused; cosmetic updates are fine.
	_, err = s.UpdateList(inbox.ID, types.ListPatch{Name: strPtr("Other")}, u.ID)
	assert.ErrorIs(t, err, types.ErrPreconditionFailed)

	got, err := s.UpdateList(inbox.ID, types.ListPatch{Color: strPtr("#0000ff")}, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "#0000ff", got.Color)

	err = s.DeleteList(inbox.ID, u.ID)
	assert.ErrorIs(t, err, types.ErrPreconditionFailed)
}

func TestDeleteListCascadesTasks(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "dellist@example.com")
	l := seedList(t, s, u.ID, "Doomed")
	task := seedTask(t, s, u.ID, l.ID, "Goes with it")

	require.NoError(t, s.DeleteList(l.ID, u.ID))

	_, err := s.GetList(l.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.GetTask(task.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	report, err := s.IntegrityCheck()
	require.NoError(t, err)
	assert.True(t, report.IsValid, "issues: %v", report.Issues)
}
