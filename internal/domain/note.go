// Package domain defines the entities and repository interfaces.
package domain

import (
	"context"
	"time"
)

// Note is a stored voice note owned by an authenticated user.
type Note struct {
	ID          int64
	UID         int64
	Title       string
	Content     string
	IsPinned    bool
	IsFavorited bool
	IsDeleted   bool
	DeletedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NoteUpdate carries the mutable fields of a note; nil means "leave as is".
type NoteUpdate struct {
	Title       *string
	Content     *string
	IsPinned    *bool
	IsFavorited *bool
}

// NoteRepository is the persistence contract for notes. Every operation is
// scoped by the owning uid; the repository, not the caller, enforces that a
// note belongs to the given user.
type NoteRepository interface {
	// Create stores a new note and fills in ID and timestamps.
	Create(ctx context.Context, note *Note) (*Note, error)

	// GetByID returns the note with the given id owned by uid.
	GetByID(ctx context.Context, id, uid int64) (*Note, error)

	// List returns the user's live notes ordered by created_at descending.
	// query, when non-empty, filters by title/content substring match.
	List(ctx context.Context, uid int64, query string, offset, limit int) ([]*Note, int64, error)

	// Update applies upd to the note and advances updated_at.
	Update(ctx context.Context, id, uid int64, upd *NoteUpdate) error

	// SoftDelete marks the note deleted; it disappears from every list.
	SoftDelete(ctx context.Context, id, uid int64) error

	// PurgeDeleted destroys soft-deleted notes older than before.
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}
