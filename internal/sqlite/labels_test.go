package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/pkg/types"
)

func seedLabel(t *testing.T, s *Store, userID, name string) *types.Label {
	t.Helper()
	l, err := s.CreateLabel(&types.Label{Name: name, UserID: userID})
	require.NoError(t, err)
	return l
}

func TestCreateLabel(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "labels@example.com")

	l, err := s.CreateLabel(&types.Label{Name: "urgent", Icon: "flame", Color: "#f00", UserID: u.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)

	got, err := s.GetLabel(l.ID)
	require.NoError(t, err)
	assert.Equal(t, "urgent", got.Name)
	assert.Equal(t, "flame", got.Icon)
}

func TestCreateLabelDuplicateNameIsSilentNoOp(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "duplabel@example.com")

	first := seedLabel(t, s, u.ID, "urgent")
	second, err := s.CreateLabel(&types.Label{Name: "urgent", Color: "#0f0", UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	labels, err := s.GetUserLabels(u.ID)
	require.NoError(t, err)
	assert.Len(t, labels, 1)
}

func TestCreateLabelMissingUser(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateLabel(&types.Label{Name: "orphan", UserID: "missing"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGetUserLabelsOrdering(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "order@example.com")
	seedLabel(t, s, u.ID, "zeta")
	seedLabel(t, s, u.ID, "alpha")

	labels, err := s.GetUserLabels(u.ID)
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "alpha", labels[0].Name)
	assert.Equal(t, "zeta", labels[1].Name)
}

func TestUpdateLabel(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "uplabel@example.com")
	other := seedUser(t, s, "otherlabel@example.com")
	l := seedLabel(t, s, u.ID, "urgent")

	got, err := s.UpdateLabel(l.ID, types.LabelPatch{Name: strPtr("critical")}, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "critical", got.Name)

	_, err = s.UpdateLabel(l.ID, types.LabelPatch{Name: strPtr("stolen")}, other.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)
}

func TestTaskLabelAttachDetach(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "joins@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Tagged")
	label := seedLabel(t, s, u.ID, "urgent")

	require.NoError(t, s.AddTaskLabel(task.ID, label.ID, u.ID))
	// Attaching an already-attached pair is a no-op.
	require.NoError(t, s.AddTaskLabel(task.ID, label.ID, u.ID))

	details, err := s.GetTaskWithDetails(task.ID)
	require.NoError(t, err)
	require.Len(t, details.Labels, 1)
	assert.Equal(t, label.ID, details.Labels[0].ID)

	require.NoError(t, s.RemoveTaskLabel(task.ID, label.ID, u.ID))
	// Detaching an absent pair is a no-op.
	require.NoError(t, s.RemoveTaskLabel(task.ID, label.ID, u.ID))

	details, err = s.GetTaskWithDetails(task.ID)
	require.NoError(t, err)
	assert.Empty(t, details.Labels)
}

func TestTaskLabelOwnership(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "labelowner@example.com")
	other := seedUser(t, s, "labelother@example.com")
	l := seedList(t, s, owner.ID, "Work")
	task := seedTask(t, s, owner.ID, l.ID, "Mine")
	label := seedLabel(t, s, owner.ID, "urgent")

	err := s.AddTaskLabel(task.ID, label.ID, other.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)

	// A label owned by another user cannot be attached either.
	otherLabel := seedLabel(t, s, other.ID, "theirs")
	err = s.AddTaskLabel(task.ID, otherLabel.ID, owner.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)
}

func TestDeleteLabelCascadesJoins(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "dellabel@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Tagged")
	label := seedLabel(t, s, u.ID, "fleeting")
	require.NoError(t, s.AddTaskLabel(task.ID, label.ID, u.ID))

	require.NoError(t, s.DeleteLabel(label.ID, u.ID))

	details, err := s.GetTaskWithDetails(task.ID)
	require.NoError(t, err)
	assert.Empty(t, details.Labels)

	report, err := s.IntegrityCheck()
	require.NoError(t, err)
	assert.True(t, report.IsValid, "issues: %v", report.Issues)
}
