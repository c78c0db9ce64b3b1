package server

import (
	"commune/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BlockUser handles POST /api/blocks/:userId
// Blocking removes any existing friendship and pending friend requests in
// both directions.
func (s *Server) BlockUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if userID == targetUserID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidOperationError("Cannot block yourself"))
	}

	if _, getUserErr := s.userRepo.GetByID(ctx, targetUserID); getUserErr != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, getUserErr)
	}

	created, blockErr := s.blockRepo.Block(ctx, userID, targetUserID)
	if blockErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, blockErr)
	}
	if !created {
		return c.JSON(fiber.Map{"message": "User already blocked"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User blocked"})
}

// UnblockUser handles DELETE /api/blocks/:userId
func (s *Server) UnblockUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if unblockErr := s.blockRepo.Unblock(ctx, userID, targetUserID); unblockErr != nil {
		return models.RespondWithError(c, mapServiceError(unblockErr), unblockErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetBlockedUsers handles GET /api/blocks
func (s *Server) GetBlockedUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	users, err := s.blockRepo.GetBlockedUsers(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(users)
}
