package dao

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/voice-notes-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := NewDBEngine(Config{
		Type: "sqlite",
		Path: filepath.Join(t.TempDir(), "notes.db"),
	})
	require.NoError(t, err)
	return New(db)
}

func TestNoteRepositoryCreateAndGet(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	note, err := repo.Create(ctx, &domain.Note{
		UID:     1,
		Title:   "Grocery Reminder",
		Content: "buy milk and eggs",
	})
	require.NoError(t, err)
	assert.NotZero(t, note.ID)
	assert.False(t, note.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, note.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Grocery Reminder", got.Title)
	assert.Equal(t, "buy milk and eggs", got.Content)

	// other users must not see the note
	other, err := repo.GetByID(ctx, note.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestNoteRepositoryListOrder(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		_, err := repo.Create(ctx, &domain.Note{UID: 1, Title: title, Content: title})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	notes, total, err := repo.List(ctx, 1, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, notes, 3)
	assert.Equal(t, "third", notes[0].Title)
	assert.Equal(t, "first", notes[2].Title)
}

func TestNoteRepositoryListQuery(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Note{UID: 1, Title: "Grocery Reminder", Content: "buy milk"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Note{UID: 1, Title: "Meeting Notes", Content: "quarterly review"})
	require.NoError(t, err)

	notes, total, err := repo.List(ctx, 1, "milk", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, notes, 1)
	assert.Equal(t, "Grocery Reminder", notes[0].Title)
}

func TestNoteRepositoryUpdate(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	note, err := repo.Create(ctx, &domain.Note{UID: 1, Title: "old", Content: "old"})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	title := "new"
	pinned := true
	err = repo.Update(ctx, note.ID, 1, &domain.NoteUpdate{Title: &title, IsPinned: &pinned})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "old", got.Content)
	assert.True(t, got.IsPinned)
	assert.True(t, got.UpdatedAt.After(note.UpdatedAt))

	// updating someone else's note is a not-found
	err = repo.Update(ctx, note.ID, 2, &domain.NoteUpdate{Title: &title})
	assert.Error(t, err)
}

func TestNoteRepositorySoftDeleteAndPurge(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	note, err := repo.Create(ctx, &domain.Note{UID: 1, Title: "gone", Content: "gone"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, note.ID, 1))

	got, err := repo.GetByID(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, total, err := repo.List(ctx, 1, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// deleting twice is a not-found
	assert.Error(t, repo.SoftDelete(ctx, note.ID, 1))

	purged, err := repo.PurgeDeleted(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestUserRepository(t *testing.T) {
	d := newTestDao(t)
	repo := NewUserRepository(d)
	ctx := context.Background()

	user, err := repo.Create(ctx, &domain.User{
		Email:    "a@example.com",
		Password: "hash",
		Nickname: "a",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.UID)

	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.UID, got.UID)

	missing, err := repo.GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byUID, err := repo.GetByUID(ctx, user.UID)
	require.NoError(t, err)
	require.NotNil(t, byUID)
	assert.Equal(t, "a@example.com", byUID.Email)
}
