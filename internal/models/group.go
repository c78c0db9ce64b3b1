package models

import (
	"time"

	"gorm.io/gorm"
)

// Group represents a member-run community. The creator is the only user
// authorized to approve join requests, remove members, or update or delete
// the group itself.
type Group struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatorID   uint           `gorm:"not null;index" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Creator     User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Memberships []Membership `gorm:"foreignKey:GroupID" json:"memberships,omitempty"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}
