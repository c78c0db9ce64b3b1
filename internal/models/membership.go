package models

import "time"

// MembershipRole defines a member's role within a group.
type MembershipRole string

const (
	// MembershipRoleMember is the default member role.
	MembershipRoleMember MembershipRole = "member"
	// MembershipRoleManager is assigned to the group creator.
	MembershipRoleManager MembershipRole = "manager"
)

// Membership maps a user to a group and tracks role and approval state.
// An unapproved row is a pending join request. States per (user, group):
// none -> pending (approved=false) -> approved -> removed (row deleted).
type Membership struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_membership_pair" json:"user_id"`
	GroupID   uint           `gorm:"not null;uniqueIndex:idx_membership_pair" json:"group_id"`
	Role      MembershipRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Approved  bool           `gorm:"not null;default:false" json:"approved"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

// TableName specifies the table name for GORM.
func (Membership) TableName() string {
	return "memberships"
}
