package models

import "time"

// FriendRequest is a pending invitation from Sender to Receiver.
// At most one request exists per ordered (sender, receiver) pair; the row
// is deleted when the request is accepted or denied.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair" json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// TableName specifies the table name for GORM.
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friend is a directed friendship edge. Accepting a request writes both
// directions in one transaction, so an accepted friendship is stored as a
// double entry. Readers still take the symmetric closure (an edge in either
// direction counts) so the relation stays mutual even if one side is missing.
type Friend struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_friend_edge" json:"user_id"`
	FriendID  uint      `gorm:"not null;uniqueIndex:idx_friend_edge" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User `gorm:"foreignKey:UserID" json:"-"`
	Friend User `gorm:"foreignKey:FriendID" json:"friend,omitempty"`
}

// TableName specifies the table name for GORM.
func (Friend) TableName() string {
	return "friends"
}
