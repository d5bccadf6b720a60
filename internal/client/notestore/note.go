package notestore

import (
	"sort"
	"time"
)

// Note is the client-side note representation. Timestamps serialize as
// RFC 3339 strings in the local file and on the wire.
type Note struct {
	ID          NoteID    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsPinned    bool      `json:"is_pinned"`
	IsFavorited bool      `json:"is_favorited"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NoteUpdate carries a partial update; nil fields keep their stored value.
type NoteUpdate struct {
	Title       *string
	Content     *string
	IsPinned    *bool
	IsFavorited *bool
}

func (u *NoteUpdate) apply(n *Note) {
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Content != nil {
		n.Content = *u.Content
	}
	if u.IsPinned != nil {
		n.IsPinned = *u.IsPinned
	}
	if u.IsFavorited != nil {
		n.IsFavorited = *u.IsFavorited
	}
}

// SortForDisplay orders notes for presentation: pinned notes first, each
// group by updated_at descending. The sort is stable.
func SortForDisplay(notes []*Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].IsPinned != notes[j].IsPinned {
			return notes[i].IsPinned
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}
