package repository

import (
	"context"

	"commune/internal/cache"
	"commune/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockRepository defines the interface for block data operations.
type BlockRepository interface {
	Block(ctx context.Context, blockerID, blockedID uint) (created bool, err error)
	Unblock(ctx context.Context, blockerID, blockedID uint) error
	IsBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error)
	IsBlockedEitherWay(ctx context.Context, userID1, userID2 uint) (bool, error)
	GetBlockedUsers(ctx context.Context, blockerID uint) ([]models.User, error)
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

// Block inserts the block edge and, in the same transaction, tears down the
// relationship between the two users: friendship edges in both directions
// and any pending friend requests either way.
func (r *blockRepository) Block(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Block{BlockerID: blockerID, BlockedID: blockedID})
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected > 0

		if err := tx.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			blockerID, blockedID, blockedID, blockerID).
			Delete(&models.Friend{}).Error; err != nil {
			return err
		}

		if err := tx.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			blockerID, blockedID, blockedID, blockerID).
			Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}

	cache.InvalidateFriends(ctx, blockerID, blockedID)
	return created, nil
}

func (r *blockRepository) Unblock(ctx context.Context, blockerID, blockedID uint) error {
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Block", blockedID)
	}
	cache.InvalidateFriends(ctx, blockerID, blockedID)
	return nil
}

func (r *blockRepository) IsBlocked(ctx context.Context, blockerID, blockedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// IsBlockedEitherWay reports whether a block exists in either direction.
// Interactions such as friend requests are refused while one stands.
func (r *blockRepository) IsBlockedEitherWay(ctx context.Context, userID1, userID2 uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userID1, userID2, userID2, userID1).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *blockRepository) GetBlockedUsers(ctx context.Context, blockerID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN blocks b ON users.id = b.blocked_id").
		Where("b.blocker_id = ?", blockerID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
