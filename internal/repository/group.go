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

// GroupRepository defines the interface for group and membership data
// operations. Membership moves through none -> pending -> approved and back
// to none on removal; the row itself is deleted on deny or removal.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	List(ctx context.Context, limit, offset int) ([]models.Group, error)
	ListByMember(ctx context.Context, userID uint) ([]models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uint) error

	RequestJoin(ctx context.Context, userID, groupID uint) (created bool, err error)
	GetMembership(ctx context.Context, userID, groupID uint) (*models.Membership, error)
	ApproveMembership(ctx context.Context, userID, groupID uint) error
	RemoveMembership(ctx context.Context, userID, groupID uint) error
	GetMembers(ctx context.Context, groupID uint) ([]models.Membership, error)
	GetPendingMemberships(ctx context.Context, groupID uint) ([]models.Membership, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create persists the group and enrolls the creator as an approved manager
// in the same transaction.
func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		membership := models.Membership{
			UserID:   group.CreatorID,
			GroupID:  group.ID,
			Role:     models.MembershipRoleManager,
			Approved: true,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	err := cache.Aside(ctx, cache.GroupKey(id), &group, cache.GroupTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("Creator").First(&group, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Group", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context, limit, offset int) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

func (r *groupRepository) ListByMember(ctx context.Context, userID uint) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).
		Joins("JOIN memberships m ON m.group_id = groups.id").
		Where("m.user_id = ? AND m.approved = ?", userID, true).
		Order("groups.name ASC").
		Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateGroup(ctx, group.ID)
	return nil
}

// Delete removes the group and everything hanging off it: memberships,
// group posts with their likes, and group comments. Soft-deleted rows are
// purged with Unscoped so a recreated group never inherits stale children.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete_cascade", "groups")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.GroupPost{}).
			Unscoped().
			Where("group_id = ?", id).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		if len(postIDs) > 0 {
			if err := tx.Unscoped().Where("group_post_id IN ?", postIDs).
				Delete(&models.GroupPostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("group_post_id IN ?", postIDs).
				Delete(&models.GroupComment{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("group_id = ?", id).
				Delete(&models.GroupPost{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Group{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Group", id)
		}
		return nil
	})
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return err
		}
		return models.NewInternalError(err)
	}

	cache.InvalidateGroup(ctx, id)
	return nil
}

// RequestJoin inserts a pending membership. A duplicate insert, whether the
// user is already pending or already approved, reports created=false.
func (r *groupRepository) RequestJoin(ctx context.Context, userID, groupID uint) (bool, error) {
	membership := models.Membership{
		UserID:   userID,
		GroupID:  groupID,
		Role:     models.MembershipRoleMember,
		Approved: false,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&membership)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		observability.GroupJoins.WithLabelValues("requested").Inc()
		return true, nil
	}
	return false, nil
}

func (r *groupRepository) GetMembership(ctx context.Context, userID, groupID uint) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &membership, nil
}

func (r *groupRepository) ApproveMembership(ctx context.Context, userID, groupID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND group_id = ? AND approved = ?", userID, groupID, false).
		Update("approved", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Join request", userID)
	}
	observability.GroupJoins.WithLabelValues("approved").Inc()
	return nil
}

// RemoveMembership deletes the row, serving deny (pending) and removal
// (approved) alike.
func (r *groupRepository) RemoveMembership(ctx context.Context, userID, groupID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&models.Membership{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Membership", userID)
	}
	observability.GroupJoins.WithLabelValues("removed").Inc()
	return nil
}

func (r *groupRepository) GetMembers(ctx context.Context, groupID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND approved = ?", groupID, true).
		Preload("User").
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}

func (r *groupRepository) GetPendingMemberships(ctx context.Context, groupID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND approved = ?", groupID, false).
		Preload("User").
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}
