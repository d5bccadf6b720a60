package model

import (
	"github.com/haierkeys/voice-notes-service/pkg/timex"
)

// User is the user table row.
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey;autoIncrement" json:"uid"`
	Email     string     `gorm:"column:email;uniqueIndex:idx_user_email" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	Nickname  string     `gorm:"column:nickname" json:"nickname"`
	CreatedAt timex.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "user"
}
