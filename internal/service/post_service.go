// Package service holds the business rules that sit between handlers and
// repositories.
package service

import (
	"context"

	"commune/internal/models"
	"commune/internal/repository"
	"commune/internal/validation"
)

// PostService applies ownership and validation rules for feed posts and
// their comments.
type PostService struct {
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	getMembership func(ctx context.Context, userID, groupID uint) (*models.Membership, error)
	isStaff       func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	AuthorID uint
	GroupID  *uint
	Content  string
	ImageRef string
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Content  string
	ImageRef string
}

type CreateCommentInput struct {
	AuthorID uint
	PostID   uint
	ParentID *uint
	Content  string
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	getMembership func(ctx context.Context, userID, groupID uint) (*models.Membership, error),
	isStaff func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		getMembership: getMembership,
		isStaff:       isStaff,
	}
}

// canModerate reports whether userID may modify content they do not own.
func (s *PostService) canModerate(ctx context.Context, userID uint) bool {
	if s.isStaff == nil {
		return false
	}
	staff, err := s.isStaff(ctx, userID)
	return err == nil && staff
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if in.GroupID != nil {
		if s.getMembership == nil {
			return nil, models.NewUnauthorizedError("Group posting is not available")
		}
		membership, err := s.getMembership(ctx, in.AuthorID, *in.GroupID)
		if err != nil {
			return nil, err
		}
		if membership == nil || !membership.Approved {
			return nil, models.NewUnauthorizedError("You must be an approved member to post in this group")
		}
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
		Content:  in.Content,
		ImageRef: in.ImageRef,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

func (s *PostService) ListFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.ListFeed(ctx, limit, offset, currentUserID)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByAuthorID(ctx, authorID, limit, offset, currentUserID)
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID && !s.canModerate(ctx, in.UserID) {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}

	post.Content = in.Content
	if in.ImageRef != "" {
		post.ImageRef = in.ImageRef
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && !s.canModerate(ctx, userID) {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the caller's like on the post and returns the new count
// and state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (int64, bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return 0, false, err
	}
	return s.postRepo.ToggleLike(ctx, userID, postID)
}

func (s *PostService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		AuthorID: in.AuthorID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
		Content:  in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *PostService) ListComments(ctx context.Context, postID, currentUserID uint) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByPostID(ctx, postID, currentUserID)
}

func (s *PostService) UpdateComment(ctx context.Context, userID, commentID uint, content string) (*models.Comment, error) {
	if err := validation.ValidatePostContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID && !s.canModerate(ctx, userID) {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PostService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID && !s.canModerate(ctx, userID) {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *PostService) ToggleCommentLike(ctx context.Context, userID, commentID uint) (int64, bool, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return 0, false, err
	}
	return s.commentRepo.ToggleLike(ctx, userID, commentID)
}
