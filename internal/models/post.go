package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxPostContentLength bounds the content of posts and group posts.
const MaxPostContentLength = 2000

// Post is an author's entry in the global feed or, when GroupID is set, in
// a group's feed. A nil GroupID means the post appears in the global feed.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	GroupID  *uint  `gorm:"index" json:"group_id,omitempty"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageRef string `json:"image_ref"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User   `gorm:"foreignKey:AuthorID" json:"author"`
	Group  *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}
