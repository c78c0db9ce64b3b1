package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a comment on a feed post. ParentID, when set, must reference
// another comment on the same post; one level of nesting is rendered.
type Comment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AuthorID   uint           `gorm:"not null" json:"author_id"`
	PostID     uint           `gorm:"not null;index" json:"post_id"`
	ParentID   *uint          `gorm:"index" json:"parent_id,omitempty"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	LikesCount int            `gorm:"->" json:"likes_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Author  User      `gorm:"foreignKey:AuthorID" json:"author"`
	Post    Post      `gorm:"foreignKey:PostID" json:"-"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}
