package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/pkg/types"
)

func TestCreateAttachment(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "attach@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "With file")

	a, err := s.CreateAttachment(&types.Attachment{
		TaskID:       task.ID,
		Filename:     "a1b2c3.pdf",
		OriginalName: "design notes.pdf",
		MimeType:     "application/pdf",
		Size:         2048,
		Path:         "/files/a1b2c3.pdf",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)

	got, err := s.GetAttachment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "design notes.pdf", got.OriginalName)
	assert.Equal(t, int64(2048), got.Size)
}

func TestCreateAttachmentValidation(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "attachval@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Target")

	_, err := s.CreateAttachment(&types.Attachment{
		TaskID: task.ID, Filename: "empty.bin", Size: 0, Path: "/files/empty.bin",
	})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = s.CreateAttachment(&types.Attachment{
		TaskID: task.ID, Size: 10, Path: "/files/x",
	})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = s.CreateAttachment(&types.Attachment{
		TaskID: "missing", Filename: "x.bin", Size: 10, Path: "/files/x.bin",
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGetTaskAttachments(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "attachlist@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Target")

	for _, name := range []string{"one.txt", "two.txt"} {
		_, err := s.CreateAttachment(&types.Attachment{
			TaskID: task.ID, Filename: name, Size: 1, Path: "/files/" + name,
		})
		require.NoError(t, err)
	}

	attachments, err := s.GetTaskAttachments(task.ID)
	require.NoError(t, err)
	assert.Len(t, attachments, 2)
}

func TestDeleteAttachment(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "delattach@example.com")
	other := seedUser(t, s, "delattachother@example.com")
	l := seedList(t, s, u.ID, "Work")
	task := seedTask(t, s, u.ID, l.ID, "Target")
	a, err := s.CreateAttachment(&types.Attachment{
		TaskID: task.ID, Filename: "gone.txt", Size: 1, Path: "/files/gone.txt",
	})
	require.NoError(t, err)

	err = s.DeleteAttachment(a.ID, other.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)

	require.NoError(t, s.DeleteAttachment(a.ID, u.ID))
	_, err = s.GetAttachment(a.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
