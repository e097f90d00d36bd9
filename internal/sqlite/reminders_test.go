package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/pkg/types"
)

func TestCreateReminder(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "reminders@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Remind me")

	remindAt := time.Now().Add(2 * time.Hour)
	r, err := s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: remindAt, Method: types.ReminderEmail,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.IsSent)

	got, err := s.GetReminder(r.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ReminderEmail, got.Method)
	assert.True(t, got.RemindAt.Equal(remindAt))
}

func TestCreateReminderValidation(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "remval@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Target")

	// RemindAt must be in the future at creation time.
	_, err := s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: time.Now().Add(-time.Minute), Method: types.ReminderPush,
	})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: time.Now().Add(time.Hour), Method: "carrier-pigeon",
	})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = s.CreateReminder(&types.Reminder{
		TaskID: "missing", RemindAt: time.Now().Add(time.Hour), Method: types.ReminderPush,
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCreateReminderDuplicateTriple(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "dupremind@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Target")

	remindAt := time.Now().Add(time.Hour)
	_, err := s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: remindAt, Method: types.ReminderPush,
	})
	require.NoError(t, err)

	// Same (task, remindAt, method) triple is rejected.
	_, err = s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: remindAt, Method: types.ReminderPush,
	})
	assert.ErrorIs(t, err, types.ErrValidation)

	// A different method at the same time is a distinct reminder.
	_, err = s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: remindAt, Method: types.ReminderSMS,
	})
	require.NoError(t, err)
}

func TestUpdateReminderDuplicateTriple(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "dupupdate@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Target")

	first := time.Now().Add(time.Hour)
	second := time.Now().Add(2 * time.Hour)
	_, err := s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: first, Method: types.ReminderPush,
	})
	require.NoError(t, err)
	r2, err := s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: second, Method: types.ReminderPush,
	})
	require.NoError(t, err)

	// Moving onto another reminder's exact triple is rejected like on
	// create.
	_, err = s.UpdateReminder(r2.ID, types.ReminderPatch{RemindAt: &first}, u.ID)
	assert.ErrorIs(t, err, types.ErrValidation)

	// A reminder's own triple does not collide with itself.
	got, err := s.UpdateReminder(r2.ID, types.ReminderPatch{Method: strPtr(types.ReminderPush)}, u.ID)
	require.NoError(t, err)
	assert.True(t, got.RemindAt.Equal(second))

	// Changing the method resolves the conflict even at the same time.
	_, err = s.UpdateReminder(r2.ID, types.ReminderPatch{
		RemindAt: &first, Method: strPtr(types.ReminderEmail),
	}, u.ID)
	require.NoError(t, err)
}

func TestGetTaskRemindersOrdering(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "remord@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Target")

	later := time.Now().Add(48 * time.Hour)
	sooner := time.Now().Add(time.Hour)
	_, err := s.CreateReminder(&types.Reminder{TaskID: task.ID, RemindAt: later, Method: types.ReminderPush})
	require.NoError(t, err)
	_, err = s.CreateReminder(&types.Reminder{TaskID: task.ID, RemindAt: sooner, Method: types.ReminderPush})
	require.NoError(t, err)

	reminders, err := s.GetTaskReminders(task.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.True(t, reminders[0].RemindAt.Before(reminders[1].RemindAt))
}

func TestUpdateReminder(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "upremind@example.com")
	other := seedUser(t, s, "upremindother@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Target")
	r, err := s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: time.Now().Add(time.Hour), Method: types.ReminderPush,
	})
	require.NoError(t, err)

	got, err := s.UpdateReminder(r.ID, types.ReminderPatch{IsSent: boolPtr(true)}, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSent)

	_, err = s.UpdateReminder(r.ID, types.ReminderPatch{Method: strPtr("smoke-signal")}, u.ID)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = s.UpdateReminder(r.ID, types.ReminderPatch{IsSent: boolPtr(false)}, other.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)
}

func TestDeleteReminder(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "delremind@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Target")
	r, err := s.CreateReminder(&types.Reminder{
		TaskID: task.ID, RemindAt: time.Now().Add(time.Hour), Method: types.ReminderPush,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteReminder(r.ID, u.ID))
	_, err = s.GetReminder(r.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
