package models

import (
	"time"

	"gorm.io/gorm"
)

// GroupComment is a flat comment on a group post (no threading).
type GroupComment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	GroupPostID uint           `gorm:"not null;index" json:"group_post_id"`
	AuthorID    uint           `gorm:"not null" json:"author_id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	GroupPost GroupPost `gorm:"foreignKey:GroupPostID" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
}

// TableName specifies the table name for GORM.
func (GroupComment) TableName() string {
	return "group_comments"
}
