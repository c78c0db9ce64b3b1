package repository

import (
	"context"
	"errors"

	"commune/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	GetByPostID(ctx context.Context, postID uint, currentUserID uint) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, commentID uint) (count int64, active bool, err error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create persists the comment. When ParentID is set the parent must exist
// and belong to the same post.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ParentID != nil {
		var parent models.Comment
		if err := r.db.WithContext(ctx).First(&parent, *comment.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", *comment.ParentID)
			}
			return models.NewInternalError(err)
		}
		if parent.PostID != comment.PostID {
			return models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// applyCommentDetails adds the like count subquery to the comment select.
func (r *commentRepository) applyCommentDetails(db *gorm.DB) *gorm.DB {
	return db.Select("comments.*, " +
		"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) as likes_count")
}

// GetByPostID returns the post's top-level comments oldest first, each with
// its replies preloaded.
func (r *commentRepository) GetByPostID(ctx context.Context, postID uint, currentUserID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.applyCommentDetails(r.db.WithContext(ctx)).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Select("comments.*, " +
				"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) as likes_count").
				Order("created_at ASC")
		}).
		Preload("Replies.Author").
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the comment, its replies, and any likes on either.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Comment{}).
			Unscoped().
			Where("id = ? OR parent_id = ?", id, id).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("comment_id IN ?", ids).
			Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ? OR parent_id = ?", id, id).Delete(&models.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Comment", id)
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

// ToggleLike flips the like state for (userID, commentID), returning the
// resulting count and state.
func (r *commentRepository) ToggleLike(ctx context.Context, userID, commentID uint) (int64, bool, error) {
	var active bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CommentLike{UserID: userID, CommentID: commentID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			active = true
			return nil
		}
		active = false
		return tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&models.CommentLike{}).Error
	})
	if err != nil {
		return 0, false, models.NewInternalError(err)
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error; err != nil {
		return 0, false, models.NewInternalError(err)
	}
	return count, active, nil
}
