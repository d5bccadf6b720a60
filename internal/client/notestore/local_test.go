package notestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStoreCreateRoundTrip(t *testing.T) {
	s := NewLocalStore(t.TempDir(), zap.NewNop())

	note := s.Create("T", "C")
	assert.True(t, note.ID.IsEphemeral())
	assert.Equal(t, "T", note.Title)
	assert.Equal(t, "C", note.Content)
	assert.False(t, note.IsPinned)
	assert.False(t, note.IsFavorited)
	assert.True(t, note.CreatedAt.Equal(note.UpdatedAt))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, note.ID, list[0].ID)
	assert.Equal(t, "T", list[0].Title)
	assert.Equal(t, "C", list[0].Content)
}

func TestLocalStoreNewestFirst(t *testing.T) {
	s := NewLocalStore(t.TempDir(), zap.NewNop())

	s.Create("first", "")
	s.Create("second", "")
	s.Create("third", "")

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "first", list[2].Title)
}

func TestLocalStoreUpdateAdvancesTimestamp(t *testing.T) {
	s := NewLocalStore(t.TempDir(), zap.NewNop())

	note := s.Create("a", "b")

	title := "a2"
	s.Update(note.ID, &NoteUpdate{Title: &title})

	got := s.List()[0]
	assert.Equal(t, "a2", got.Title)
	assert.Equal(t, "b", got.Content)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	// a second update strictly advances updated_at even on a coarse clock
	prev := got.UpdatedAt
	s.Update(note.ID, &NoteUpdate{Title: &title})
	assert.True(t, s.List()[0].UpdatedAt.After(prev))
}

func TestLocalStoreUpdateAbsentIDIsSilent(t *testing.T) {
	s := NewLocalStore(t.TempDir(), zap.NewNop())
	s.Create("a", "b")

	title := "x"
	s.Update(NewEphemeralID(), &NoteUpdate{Title: &title})

	assert.Equal(t, "a", s.List()[0].Title)
}

func TestLocalStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	s1 := NewLocalStore(dir, zap.NewNop())
	note := s1.Create("T", "C")
	pinned := true
	s1.Update(note.ID, &NoteUpdate{IsPinned: &pinned})

	s2 := NewLocalStore(dir, zap.NewNop())
	list := s2.List()
	require.Len(t, list, 1)
	assert.Equal(t, note.ID, list[0].ID)
	assert.True(t, list[0].IsPinned)
	assert.False(t, list[0].CreatedAt.IsZero())
}

func TestLocalStoreSerializedIDsCarryPrefix(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, zap.NewNop())
	s.Create("T", "C")

	data, err := os.ReadFile(filepath.Join(dir, LocalFileName))
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, sonic.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Contains(t, raw[0]["id"].(string), EphemeralIDPrefix)
	// timestamps are stored in RFC 3339
	_, err = time.Parse(time.RFC3339Nano, raw[0]["created_at"].(string))
	assert.NoError(t, err)
}

func TestLocalStoreWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, zap.NewNop())
	s.Create("kept", "in memory")

	// make the store file unwritable by replacing it with a directory
	require.NoError(t, os.Remove(filepath.Join(dir, LocalFileName)))
	require.NoError(t, os.Mkdir(filepath.Join(dir, LocalFileName), 0755))

	// mutations must not error or panic; memory stays the source of truth
	note := s.Create("second", "")
	title := "renamed"
	s.Update(note.ID, &NoteUpdate{Title: &title})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "renamed", list[0].Title)
	assert.Equal(t, "kept", list[1].Title)
}

func TestLocalStoreCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LocalFileName), []byte("{not json"), 0644))

	s := NewLocalStore(dir, zap.NewNop())
	assert.Empty(t, s.List())
}
