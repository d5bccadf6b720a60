package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/voice-notes-service/internal/domain"
	"github.com/haierkeys/voice-notes-service/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memNoteRepo is an in-memory domain.NoteRepository for service tests.
type memNoteRepo struct {
	nextID int64
	notes  map[int64]*domain.Note
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{nextID: 1, notes: map[int64]*domain.Note{}}
}

func (r *memNoteRepo) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	now := time.Now()
	stored := *note
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.nextID++
	r.notes[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *memNoteRepo) GetByID(ctx context.Context, id, uid int64) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok || n.UID != uid || n.IsDeleted {
		return nil, nil
	}
	out := *n
	return &out, nil
}

func (r *memNoteRepo) List(ctx context.Context, uid int64, query string, offset, limit int) ([]*domain.Note, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	var out []*domain.Note
	for _, n := range r.notes {
		if n.UID != uid || n.IsDeleted {
			continue
		}
		if query != "" && !strings.Contains(n.Title, query) && !strings.Contains(n.Content, query) {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

func (r *memNoteRepo) Update(ctx context.Context, id, uid int64, upd *domain.NoteUpdate) error {
	n, ok := r.notes[id]
	if !ok || n.UID != uid || n.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	if upd.Title != nil {
		n.Title = *upd.Title
	}
	if upd.Content != nil {
		n.Content = *upd.Content
	}
	if upd.IsPinned != nil {
		n.IsPinned = *upd.IsPinned
	}
	if upd.IsFavorited != nil {
		n.IsFavorited = *upd.IsFavorited
	}
	n.UpdatedAt = time.Now()
	return nil
}

func (r *memNoteRepo) SoftDelete(ctx context.Context, id, uid int64) error {
	n, ok := r.notes[id]
	if !ok || n.UID != uid || n.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	n.IsDeleted = true
	return nil
}

func (r *memNoteRepo) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	var purged int64
	for id, n := range r.notes {
		if n.IsDeleted {
			delete(r.notes, id)
			purged++
		}
	}
	return purged, nil
}

func TestNoteServiceCreateAndList(t *testing.T) {
	svc := NewNoteService(newMemNoteRepo(), zap.NewNop())
	ctx := context.Background()

	note, err := svc.Create(ctx, 1, &dto.NoteCreateRequest{Title: "a", Content: "b"})
	require.NoError(t, err)
	assert.NotZero(t, note.ID)

	notes, total, err := svc.List(ctx, 1, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, notes, 1)

	// other users see nothing
	_, total, err = svc.List(ctx, 2, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestNoteServiceListSurvivesCallerCancellation(t *testing.T) {
	svc := NewNoteService(newMemNoteRepo(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &dto.NoteCreateRequest{Title: "a", Content: "b"})
	require.NoError(t, err)

	// the collapsed repository call must not inherit one caller's
	// cancellation
	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	notes, total, err := svc.List(cancelled, 1, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, notes, 1)
}

func TestNoteServicePartialUpdate(t *testing.T) {
	svc := NewNoteService(newMemNoteRepo(), zap.NewNop())
	ctx := context.Background()

	note, err := svc.Create(ctx, 1, &dto.NoteCreateRequest{Title: "a", Content: "b"})
	require.NoError(t, err)

	pinned := true
	out, err := svc.Update(ctx, 1, &dto.NoteUpdateRequest{ID: note.ID, IsPinned: &pinned})
	require.NoError(t, err)
	assert.True(t, out.IsPinned)
	assert.Equal(t, "a", out.Title)
	assert.Equal(t, "b", out.Content)

	// unknown id surfaces not-found
	_, err = svc.Update(ctx, 1, &dto.NoteUpdateRequest{ID: 999, IsPinned: &pinned})
	assert.Error(t, err)
}

func TestNoteServiceDelete(t *testing.T) {
	svc := NewNoteService(newMemNoteRepo(), zap.NewNop())
	ctx := context.Background()

	note, err := svc.Create(ctx, 1, &dto.NoteCreateRequest{Title: "a", Content: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, note.ID))

	_, total, err := svc.List(ctx, 1, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	assert.Error(t, svc.Delete(ctx, 1, note.ID))
}
