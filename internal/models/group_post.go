package models

import (
	"time"

	"gorm.io/gorm"
)

// GroupPost is a post inside a group. Unlike a feed Post, the group is
// required, and only approved members may create one.
type GroupPost struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	GroupID       uint           `gorm:"not null;index" json:"group_id"`
	AuthorID      uint           `gorm:"not null;index" json:"author_id"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	ImageRef      string         `json:"image_ref"`
	LikesCount    int            `gorm:"->" json:"likes_count"`
	CommentsCount int            `gorm:"->" json:"comments_count"`
	Liked         bool           `gorm:"->" json:"liked"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Group  Group `gorm:"foreignKey:GroupID" json:"-"`
	Author User  `gorm:"foreignKey:AuthorID" json:"author"`
}

// TableName specifies the table name for GORM.
func (GroupPost) TableName() string {
	return "group_posts"
}

// GroupPostLike records a user's like on a group post.
// The combination of UserID and GroupPostID must be unique.
type GroupPostLike struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_group_post_like_pair" json:"user_id"`
	GroupPostID uint      `gorm:"not null;uniqueIndex:idx_group_post_like_pair" json:"group_post_id"`
	CreatedAt   time.Time `json:"created_at"`

	User      User      `gorm:"foreignKey:UserID" json:"-"`
	GroupPost GroupPost `gorm:"foreignKey:GroupPostID" json:"-"`
}

// TableName specifies the table name for GORM.
func (GroupPostLike) TableName() string {
	return "group_post_likes"
}
