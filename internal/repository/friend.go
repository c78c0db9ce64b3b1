package repository

import (
	"context"
	"errors"

	"commune/internal/cache"
	"commune/internal/models"
	"commune/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository defines the interface for friend request and friendship
// data operations. Friendships are stored as directed double entries; all
// reads take the symmetric closure so the relation stays mutual.
type FriendRepository interface {
	CreateRequest(ctx context.Context, senderID, receiverID uint) (created bool, err error)
	GetRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error)
	GetReceivedRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	GetSentRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	AcceptRequest(ctx context.Context, senderID, receiverID uint) error
	DenyRequest(ctx context.Context, senderID, receiverID uint) error
	AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error)
	GetFriends(ctx context.Context, userID uint) ([]models.User, error)
	CountFriends(ctx context.Context, userID uint) (int64, error)
	RemoveFriendship(ctx context.Context, userID1, userID2 uint) error
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// CreateRequest inserts a pending request. The unique index on the ordered
// pair makes the insert race-safe; a duplicate insert reports created=false
// so the caller can answer idempotently.
func (r *friendRepository) CreateRequest(ctx context.Context, senderID, receiverID uint) (bool, error) {
	req := models.FriendRequest{SenderID: senderID, ReceiverID: receiverID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&req)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *friendRepository) GetRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *friendRepository) GetReceivedRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ?", userID).
		Preload("Sender").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *friendRepository) GetSentRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ?", userID).
		Preload("Receiver").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

// AcceptRequest consumes the pending request and writes both friendship
// directions in a single transaction. OnConflict keeps the edge inserts
// idempotent if an edge already exists.
func (r *friendRepository) AcceptRequest(ctx context.Context, senderID, receiverID uint) error {
	defer observability.TrackQuery("accept_request", "friends")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
			Delete(&models.FriendRequest{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Friend request", senderID)
		}

		edges := []models.Friend{
			{UserID: senderID, FriendID: receiverID},
			{UserID: receiverID, FriendID: senderID},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return err
		}
		return models.NewInternalError(err)
	}

	observability.FriendshipsFormed.Inc()
	cache.InvalidateFriends(ctx, senderID, receiverID)
	return nil
}

func (r *friendRepository) DenyRequest(ctx context.Context, senderID, receiverID uint) error {
	result := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Friend request", senderID)
	}
	return nil
}

func (r *friendRepository) AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Friend{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID1, userID2, userID2, userID1).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// GetFriends returns the users on the other end of any friendship edge
// touching userID, in either direction.
func (r *friendRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := cache.Aside(ctx, cache.FriendsKey(userID), &users, cache.FriendsTTL, func() error {
		return r.db.WithContext(ctx).
			Table("users").
			Joins("JOIN friends f ON (users.id = f.friend_id AND f.user_id = ?) OR (users.id = f.user_id AND f.friend_id = ?)",
				userID, userID).
			Distinct("users.*").
			Order("users.username ASC").
			Find(&users).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// CountFriends counts distinct friends over the symmetric closure.
func (r *friendRepository) CountFriends(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN friends f ON (users.id = f.friend_id AND f.user_id = ?) OR (users.id = f.user_id AND f.friend_id = ?)",
			userID, userID).
		Distinct("users.id").
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// RemoveFriendship deletes both directions of the friendship edge.
func (r *friendRepository) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	if err := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID1, userID2, userID2, userID1).
		Delete(&models.Friend{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFriends(ctx, userID1, userID2)
	return nil
}
