package service

import (
	"context"

	"commune/internal/models"
	"commune/internal/repository"
	"commune/internal/validation"
)

// GroupService enforces the membership state machine and the creator-only
// management rules around groups and their content.
type GroupService struct {
	groupRepo     repository.GroupRepository
	groupPostRepo repository.GroupPostRepository
	isStaff       func(ctx context.Context, userID uint) (bool, error)
}

type CreateGroupInput struct {
	CreatorID   uint
	Name        string
	Description string
}

type UpdateGroupInput struct {
	UserID      uint
	GroupID     uint
	Name        string
	Description string
}

// JoinResult describes the outcome of a join request so handlers can answer
// idempotent repeats with an informational message.
type JoinResult struct {
	Created    bool
	Membership *models.Membership
}

func NewGroupService(
	groupRepo repository.GroupRepository,
	groupPostRepo repository.GroupPostRepository,
	isStaff func(ctx context.Context, userID uint) (bool, error),
) *GroupService {
	return &GroupService{
		groupRepo:     groupRepo,
		groupPostRepo: groupPostRepo,
		isStaff:       isStaff,
	}
}

func (s *GroupService) canModerate(ctx context.Context, userID uint) bool {
	if s.isStaff == nil {
		return false
	}
	staff, err := s.isStaff(ctx, userID)
	return err == nil && staff
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	if err := validation.ValidateGroupName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	group := &models.Group{
		Name:        in.Name,
		Description: in.Description,
		CreatorID:   in.CreatorID,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) GetGroup(ctx context.Context, groupID uint) (*models.Group, error) {
	return s.groupRepo.GetByID(ctx, groupID)
}

func (s *GroupService) ListGroups(ctx context.Context, limit, offset int) ([]models.Group, error) {
	return s.groupRepo.List(ctx, limit, offset)
}

func (s *GroupService) ListUserGroups(ctx context.Context, userID uint) ([]models.Group, error) {
	return s.groupRepo.ListByMember(ctx, userID)
}

func (s *GroupService) UpdateGroup(ctx context.Context, in UpdateGroupInput) (*models.Group, error) {
	if err := validation.ValidateGroupName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	group, err := s.groupRepo.GetByID(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != in.UserID && !s.canModerate(ctx, in.UserID) {
		return nil, models.NewUnauthorizedError("Only the group creator can update the group")
	}

	group.Name = in.Name
	group.Description = in.Description
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, userID, groupID uint) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != userID && !s.canModerate(ctx, userID) {
		return models.NewUnauthorizedError("Only the group creator can delete the group")
	}
	return s.groupRepo.Delete(ctx, groupID)
}

// Join files a pending membership. Repeats while pending or approved are
// reported, not failed.
func (s *GroupService) Join(ctx context.Context, userID, groupID uint) (*JoinResult, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	created, err := s.groupRepo.RequestJoin(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	membership, err := s.groupRepo.GetMembership(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Created: created, Membership: membership}, nil
}

// requireCreator loads the group and checks the actor manages it.
func (s *GroupService) requireCreator(ctx context.Context, actorID, groupID uint) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != actorID && !s.canModerate(ctx, actorID) {
		return nil, models.NewUnauthorizedError("Only the group creator can manage memberships")
	}
	return group, nil
}

func (s *GroupService) ApproveMember(ctx context.Context, actorID, userID, groupID uint) error {
	if _, err := s.requireCreator(ctx, actorID, groupID); err != nil {
		return err
	}
	return s.groupRepo.ApproveMembership(ctx, userID, groupID)
}

// RemoveMember serves deny, kick, and leave. The creator can remove anyone
// but themselves; any member can remove their own membership.
func (s *GroupService) RemoveMember(ctx context.Context, actorID, userID, groupID uint) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if userID == group.CreatorID {
		return models.NewInvalidOperationError("The group creator cannot be removed; delete the group instead")
	}
	if actorID != userID && actorID != group.CreatorID && !s.canModerate(ctx, actorID) {
		return models.NewUnauthorizedError("Only the group creator can remove other members")
	}
	return s.groupRepo.RemoveMembership(ctx, userID, groupID)
}

func (s *GroupService) ListMembers(ctx context.Context, groupID uint) ([]models.Membership, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.groupRepo.GetMembers(ctx, groupID)
}

func (s *GroupService) ListPendingMembers(ctx context.Context, actorID, groupID uint) ([]models.Membership, error) {
	if _, err := s.requireCreator(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	return s.groupRepo.GetPendingMemberships(ctx, groupID)
}

// requireApprovedMember gates group content behind an approved membership.
func (s *GroupService) requireApprovedMember(ctx context.Context, userID, groupID uint) error {
	membership, err := s.groupRepo.GetMembership(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if membership == nil || !membership.Approved {
		return models.NewUnauthorizedError("You must be an approved member of this group")
	}
	return nil
}

func (s *GroupService) CreateGroupPost(ctx context.Context, userID, groupID uint, content, imageRef string) (*models.GroupPost, error) {
	if err := validation.ValidatePostContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.requireApprovedMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	post := &models.GroupPost{
		GroupID:  groupID,
		AuthorID: userID,
		Content:  content,
		ImageRef: imageRef,
	}
	if err := s.groupPostRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.groupPostRepo.GetByID(ctx, post.ID, userID)
}

func (s *GroupService) ListGroupPosts(ctx context.Context, userID, groupID uint, limit, offset int) ([]*models.GroupPost, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.requireApprovedMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.groupPostRepo.GetByGroupID(ctx, groupID, limit, offset, userID)
}

// GetGroupPost returns a single group post. Like the list, it is
// visible to approved members only.
func (s *GroupService) GetGroupPost(ctx context.Context, userID, postID uint) (*models.GroupPost, error) {
	post, err := s.groupPostRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.requireApprovedMember(ctx, userID, post.GroupID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *GroupService) UpdateGroupPost(ctx context.Context, userID, postID uint, content string) (*models.GroupPost, error) {
	if err := validation.ValidatePostContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post, err := s.groupPostRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID && !s.canModerate(ctx, userID) {
		return nil, models.NewUnauthorizedError("You can only edit your own group posts")
	}

	post.Content = content
	if err := s.groupPostRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.groupPostRepo.GetByID(ctx, postID, userID)
}

func (s *GroupService) DeleteGroupPost(ctx context.Context, userID, postID uint) error {
	post, err := s.groupPostRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	group, err := s.groupRepo.GetByID(ctx, post.GroupID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && group.CreatorID != userID && !s.canModerate(ctx, userID) {
		return models.NewUnauthorizedError("You can only delete your own group posts")
	}
	return s.groupPostRepo.Delete(ctx, postID)
}

func (s *GroupService) ToggleGroupPostLike(ctx context.Context, userID, postID uint) (int64, bool, error) {
	post, err := s.groupPostRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return 0, false, err
	}
	if err := s.requireApprovedMember(ctx, userID, post.GroupID); err != nil {
		return 0, false, err
	}
	return s.groupPostRepo.ToggleLike(ctx, userID, postID)
}

func (s *GroupService) CreateGroupComment(ctx context.Context, userID, postID uint, content string) (*models.GroupComment, error) {
	if err := validation.ValidatePostContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	post, err := s.groupPostRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}
	if err := s.requireApprovedMember(ctx, userID, post.GroupID); err != nil {
		return nil, err
	}

	comment := &models.GroupComment{
		GroupPostID: postID,
		AuthorID:    userID,
		Content:     content,
	}
	if err := s.groupPostRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.groupPostRepo.GetComment(ctx, comment.ID)
}

func (s *GroupService) ListGroupComments(ctx context.Context, userID, postID uint) ([]models.GroupComment, error) {
	post, err := s.groupPostRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}
	if err := s.requireApprovedMember(ctx, userID, post.GroupID); err != nil {
		return nil, err
	}
	return s.groupPostRepo.GetComments(ctx, postID)
}

func (s *GroupService) UpdateGroupComment(ctx context.Context, userID, commentID uint, content string) (*models.GroupComment, error) {
	if err := validation.ValidatePostContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment, err := s.groupPostRepo.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID && !s.canModerate(ctx, userID) {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.groupPostRepo.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.groupPostRepo.GetComment(ctx, commentID)
}

func (s *GroupService) DeleteGroupComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.groupPostRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	post, err := s.groupPostRepo.GetByID(ctx, comment.GroupPostID, 0)
	if err != nil {
		return err
	}
	group, err := s.groupRepo.GetByID(ctx, post.GroupID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID && group.CreatorID != userID && !s.canModerate(ctx, userID) {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}
	return s.groupPostRepo.DeleteComment(ctx, commentID)
}
