package dto

import "github.com/haierkeys/voice-notes-service/pkg/timex"

// NoteDTO is the note payload returned by every note endpoint.
type NoteDTO struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	IsPinned    bool       `json:"is_pinned"`
	IsFavorited bool       `json:"is_favorited"`
	CreatedAt   timex.Time `json:"created_at"`
	UpdatedAt   timex.Time `json:"updated_at"`
}

// NoteCreateRequest creates a note.
type NoteCreateRequest struct {
	Title   string `json:"title" form:"title" binding:"required"`
	Content string `json:"content" form:"content"`
}

// NoteUpdateRequest partially updates a note; absent fields are untouched.
type NoteUpdateRequest struct {
	ID          int64   `json:"id" form:"id" binding:"required"`
	Title       *string `json:"title" form:"title"`
	Content     *string `json:"content" form:"content"`
	IsPinned    *bool   `json:"is_pinned" form:"is_pinned"`
	IsFavorited *bool   `json:"is_favorited" form:"is_favorited"`
}

// NoteDeleteRequest deletes a note by id.
type NoteDeleteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}

// NoteListRequest lists notes, optionally filtered by a substring query.
type NoteListRequest struct {
	Query string `json:"query" form:"query"`
}
