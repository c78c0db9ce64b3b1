package repository

import (
	"context"
	"errors"

	"commune/internal/models"
	"commune/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupPostRepository defines the interface for group post and group
// comment data operations. Authorization (approved membership) is enforced
// a layer above; this repository only moves data.
type GroupPostRepository interface {
	Create(ctx context.Context, post *models.GroupPost) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.GroupPost, error)
	GetByGroupID(ctx context.Context, groupID uint, limit, offset int, currentUserID uint) ([]*models.GroupPost, error)
	Update(ctx context.Context, post *models.GroupPost) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (count int64, active bool, err error)

	CreateComment(ctx context.Context, comment *models.GroupComment) error
	GetComment(ctx context.Context, id uint) (*models.GroupComment, error)
	GetComments(ctx context.Context, groupPostID uint) ([]models.GroupComment, error)
	UpdateComment(ctx context.Context, comment *models.GroupComment) error
	DeleteComment(ctx context.Context, id uint) error
}

type groupPostRepository struct {
	db *gorm.DB
}

// NewGroupPostRepository creates a new group post repository
func NewGroupPostRepository(db *gorm.DB) GroupPostRepository {
	return &groupPostRepository{db: db}
}

func (r *groupPostRepository) Create(ctx context.Context, post *models.GroupPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyGroupPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *groupPostRepository) applyGroupPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "group_posts.*, " +
		"(SELECT COUNT(*) FROM group_comments WHERE group_comments.group_post_id = group_posts.id AND group_comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM group_post_likes WHERE group_post_likes.group_post_id = group_posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM group_post_likes WHERE group_post_likes.group_post_id = group_posts.id AND group_post_likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", 0 as liked")
}

func (r *groupPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.GroupPost, error) {
	var post models.GroupPost
	if err := r.applyGroupPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *groupPostRepository) GetByGroupID(ctx context.Context, groupID uint, limit, offset int, currentUserID uint) ([]*models.GroupPost, error) {
	var posts []*models.GroupPost
	if err := r.applyGroupPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *groupPostRepository) Update(ctx context.Context, post *models.GroupPost) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the post together with its likes and comments.
func (r *groupPostRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("group_post_id = ?", id).
			Delete(&models.GroupPostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("group_post_id = ?", id).
			Delete(&models.GroupComment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.GroupPost{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Group post", id)
		}
		return nil
	})
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return err
		}
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleLike flips the like state for (userID, postID) on a group post.
func (r *groupPostRepository) ToggleLike(ctx context.Context, userID, postID uint) (int64, bool, error) {
	var active bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.GroupPostLike{UserID: userID, GroupPostID: postID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			active = true
			return nil
		}
		active = false
		return tx.Where("user_id = ? AND group_post_id = ?", userID, postID).
			Delete(&models.GroupPostLike{}).Error
	})
	if err != nil {
		return 0, false, models.NewInternalError(err)
	}

	state := "inactive"
	if active {
		state = "active"
	}
	observability.LikeToggles.WithLabelValues("group_post", state).Inc()

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.GroupPostLike{}).
		Where("group_post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, false, models.NewInternalError(err)
	}
	return count, active, nil
}

func (r *groupPostRepository) CreateComment(ctx context.Context, comment *models.GroupComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *groupPostRepository) GetComment(ctx context.Context, id uint) (*models.GroupComment, error) {
	var comment models.GroupComment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *groupPostRepository) GetComments(ctx context.Context, groupPostID uint) ([]models.GroupComment, error) {
	var comments []models.GroupComment
	if err := r.db.WithContext(ctx).
		Where("group_post_id = ?", groupPostID).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *groupPostRepository) UpdateComment(ctx context.Context, comment *models.GroupComment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *groupPostRepository) DeleteComment(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.GroupComment{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Group comment", id)
	}
	return nil
}
