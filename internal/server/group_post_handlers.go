package server

import (
	"commune/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateGroupPost handles POST /api/groups/:id/posts
// Only approved members may post; the service enforces membership.
func (s *Server) CreateGroupPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ImageRef string `json:"image_ref,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.groupService.CreateGroupPost(ctx, userID, groupID, req.Content, req.ImageRef)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetGroupPosts handles GET /api/groups/:id/posts
// Group content is visible to approved members only.
func (s *Server) GetGroupPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)

	posts, err := s.groupService.ListGroupPosts(ctx, userID, groupID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// GetGroupPost handles GET /api/group-posts/:id
// Visible to approved members of the group only.
func (s *Server) GetGroupPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.groupService.GetGroupPost(ctx, userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// UpdateGroupPost handles PUT /api/group-posts/:id
func (s *Server) UpdateGroupPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.groupService.UpdateGroupPost(ctx, userID, postID, req.Content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// DeleteGroupPost handles DELETE /api/group-posts/:id
func (s *Server) DeleteGroupPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if deleteErr := s.groupService.DeleteGroupPost(ctx, userID, postID); deleteErr != nil {
		return models.RespondWithError(c, mapServiceError(deleteErr), deleteErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikeGroupPost handles POST /api/group-posts/:id/like
// Toggles the like and reports the resulting count and state.
func (s *Server) LikeGroupPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, active, toggleErr := s.groupService.ToggleGroupPostLike(ctx, userID, postID)
	if toggleErr != nil {
		return models.RespondWithError(c, mapServiceError(toggleErr), toggleErr)
	}

	return c.JSON(fiber.Map{
		"count":  count,
		"active": active,
	})
}

// CreateGroupComment handles POST /api/group-posts/:id/comments
func (s *Server) CreateGroupComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.groupService.CreateGroupComment(ctx, userID, postID, req.Content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetGroupComments handles GET /api/group-posts/:id/comments
func (s *Server) GetGroupComments(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.groupService.ListGroupComments(ctx, userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comments)
}

// UpdateGroupComment handles PUT /api/group-posts/comments/:commentId
func (s *Server) UpdateGroupComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.groupService.UpdateGroupComment(ctx, userID, commentID, req.Content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comment)
}

// DeleteGroupComment handles DELETE /api/group-posts/comments/:commentId
func (s *Server) DeleteGroupComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if deleteErr := s.groupService.DeleteGroupComment(ctx, userID, commentID); deleteErr != nil {
		return models.RespondWithError(c, mapServiceError(deleteErr), deleteErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
