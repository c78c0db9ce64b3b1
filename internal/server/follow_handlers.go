package server

import (
	"commune/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/follows/:userId
// Following is one-directional and needs no confirmation from the followee.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if userID == targetUserID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidOperationError("Cannot follow yourself"))
	}

	if _, getUserErr := s.userRepo.GetByID(ctx, targetUserID); getUserErr != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, getUserErr)
	}

	if blockedErr := s.requireNotBlocked(c, userID, targetUserID); blockedErr != nil {
		return nil
	}

	created, followErr := s.followRepo.Follow(ctx, userID, targetUserID)
	if followErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, followErr)
	}
	if !created {
		return c.JSON(fiber.Map{"message": "Already following this user"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Now following"})
}

// UnfollowUser handles DELETE /api/follows/:userId
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	removed, unfollowErr := s.followRepo.Unfollow(ctx, userID, targetUserID)
	if unfollowErr != nil {
		return models.RespondWithError(c, mapServiceError(unfollowErr), unfollowErr)
	}
	if !removed {
		return c.JSON(fiber.Map{"message": "You are not following this user"})
	}

	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// GetFollowing handles GET /api/follows/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	users, err := s.followRepo.GetFollowing(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(users)
}

// GetFollowers handles GET /api/follows/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	users, err := s.followRepo.GetFollowers(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(users)
}
