package server

import (
	"commune/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests/:userId
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	// Cannot send friend request to yourself
	if userID == targetUserID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidOperationError("Cannot send friend request to yourself"))
	}

	// Check if target user exists
	if _, getUserErr := s.userRepo.GetByID(ctx, targetUserID); getUserErr != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, getUserErr)
	}

	if blockedErr := s.requireNotBlocked(c, userID, targetUserID); blockedErr != nil {
		return nil
	}

	// Check if already friends
	friends, friendsErr := s.friendRepo.AreFriends(ctx, userID, targetUserID)
	if friendsErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, friendsErr)
	}
	if friends {
		return c.JSON(fiber.Map{"message": "You are already friends"})
	}

	// A pending request in the other direction should be accepted, not mirrored.
	reverse, reverseErr := s.friendRepo.GetRequest(ctx, targetUserID, userID)
	if reverseErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, reverseErr)
	}
	if reverse != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewInvalidOperationError("This user already sent you a friend request"))
	}

	created, createErr := s.friendRepo.CreateRequest(ctx, userID, targetUserID)
	if createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}
	if !created {
		return c.JSON(fiber.Map{"message": "Friend request already sent"})
	}

	request, err := s.friendRepo.GetRequest(ctx, userID, targetUserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetReceivedRequests handles GET /api/friends/requests
func (s *Server) GetReceivedRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	requests, err := s.friendRepo.GetReceivedRequests(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	requests, err := s.friendRepo.GetSentRequests(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(requests)
}

// AcceptFriendRequest handles POST /api/friends/requests/:userId/accept
// The :userId parameter identifies the sender of the pending request.
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	senderID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if acceptErr := s.friendRepo.AcceptRequest(ctx, senderID, userID); acceptErr != nil {
		return models.RespondWithError(c, mapServiceError(acceptErr), acceptErr)
	}

	return c.JSON(fiber.Map{"message": "Friend request accepted"})
}

// DenyFriendRequest handles POST /api/friends/requests/:userId/deny
// The :userId parameter identifies the sender of the pending request.
func (s *Server) DenyFriendRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	senderID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if denyErr := s.friendRepo.DenyRequest(ctx, senderID, userID); denyErr != nil {
		return models.RespondWithError(c, mapServiceError(denyErr), denyErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFriends handles GET /api/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	friends, err := s.friendRepo.GetFriends(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(friends)
}

// RemoveFriend handles DELETE /api/friends/:userId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	friends, friendsErr := s.friendRepo.AreFriends(ctx, userID, targetUserID)
	if friendsErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, friendsErr)
	}
	if !friends {
		return c.JSON(fiber.Map{"message": "You are not friends with this user"})
	}

	if removeErr := s.friendRepo.RemoveFriendship(ctx, userID, targetUserID); removeErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, removeErr)
	}

	return c.JSON(fiber.Map{"message": "Friend removed"})
}
