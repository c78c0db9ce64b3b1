package server

import (
	"commune/internal/models"
	"commune/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateGroup handles POST /api/groups
// The creator is enrolled as an approved manager in the same transaction.
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(ctx, service.CreateGroupInput{
		CreatorID:   userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetGroups handles GET /api/groups
func (s *Server) GetGroups(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	groups, err := s.groupService.ListGroups(ctx, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(groups)
}

// GetMyGroups handles GET /api/groups/mine
// Lists groups where the user is an approved member.
func (s *Server) GetMyGroups(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	groups, err := s.groupService.ListUserGroups(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(groups)
}

// GetGroup handles GET /api/groups/:id
func (s *Server) GetGroup(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	group, err := s.groupService.GetGroup(ctx, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	canPost := false
	if userID, ok := s.optionalUserID(c); ok {
		membership, merr := s.groupRepo.GetMembership(ctx, userID, id)
		canPost = merr == nil && membership != nil && membership.Approved
	}

	return c.JSON(fiber.Map{"group": group, "can_post": canPost})
}

// UpdateGroup handles PUT /api/groups/:id
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.UpdateGroup(ctx, service.UpdateGroupInput{
		UserID:      userID,
		GroupID:     groupID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(group)
}

// DeleteGroup handles DELETE /api/groups/:id
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if deleteErr := s.groupService.DeleteGroup(ctx, userID, groupID); deleteErr != nil {
		return models.RespondWithError(c, mapServiceError(deleteErr), deleteErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// JoinGroup handles POST /api/groups/:id/join
// Joining creates a pending membership awaiting creator approval. Repeats
// are informational, not errors.
func (s *Server) JoinGroup(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, joinErr := s.groupService.Join(ctx, userID, groupID)
	if joinErr != nil {
		return models.RespondWithError(c, mapServiceError(joinErr), joinErr)
	}

	if !result.Created {
		state := "pending"
		if result.Membership != nil && result.Membership.Approved {
			state = "approved"
		}
		return c.JSON(fiber.Map{
			"message":    "Join request already recorded",
			"state":      state,
			"membership": result.Membership,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Join request submitted",
		"state":      "pending",
		"membership": result.Membership,
	})
}

// GetGroupMembers handles GET /api/groups/:id/members
func (s *Server) GetGroupMembers(c *fiber.Ctx) error {
	ctx := c.Context()
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	members, err := s.groupService.ListMembers(ctx, groupID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(members)
}

// GetPendingMembers handles GET /api/groups/:id/members/pending
// Only the group creator may view pending join requests.
func (s *Server) GetPendingMembers(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	pending, err := s.groupService.ListPendingMembers(ctx, userID, groupID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(pending)
}

// ApproveGroupMember handles POST /api/groups/:id/members/:userId/approve
func (s *Server) ApproveGroupMember(c *fiber.Ctx) error {
	ctx := c.Context()
	actorID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	memberID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if approveErr := s.groupService.ApproveMember(ctx, actorID, memberID, groupID); approveErr != nil {
		return models.RespondWithError(c, mapServiceError(approveErr), approveErr)
	}

	return c.JSON(fiber.Map{"message": "Member approved"})
}

// RemoveGroupMember handles DELETE /api/groups/:id/members/:userId
// Members may leave on their own; the creator may remove anyone but
// themselves.
func (s *Server) RemoveGroupMember(c *fiber.Ctx) error {
	ctx := c.Context()
	actorID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	memberID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if removeErr := s.groupService.RemoveMember(ctx, actorID, memberID, groupID); removeErr != nil {
		return models.RespondWithError(c, mapServiceError(removeErr), removeErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
