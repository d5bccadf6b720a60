package model

import (
	"github.com/haierkeys/voice-notes-service/pkg/timex"
)

// Note is the notes table row.
type Note struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UID         int64      `gorm:"column:uid;index:idx_note_uid" json:"uid"`
	Title       string     `gorm:"column:title;type:text" json:"title"`
	Content     string     `gorm:"column:content;type:text" json:"content"`
	IsPinned    bool       `gorm:"column:is_pinned;default:false" json:"isPinned"`
	IsFavorited bool       `gorm:"column:is_favorited;default:false" json:"isFavorited"`
	IsDeleted   bool       `gorm:"column:is_deleted;default:false;index:idx_note_deleted" json:"-"`
	DeletedAt   timex.Time `gorm:"column:deleted_at" json:"-"`
	CreatedAt   timex.Time `gorm:"column:created_at;index:idx_note_created" json:"createdAt"`
	UpdatedAt   timex.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Note) TableName() string {
	return "note"
}
