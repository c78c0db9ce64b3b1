package server

import (
	"context"
	"strings"
	"time"

	"commune/internal/models"
	"commune/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users/search?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	page := parsePagination(c, 20)

	users, err := s.userRepo.Search(ctx, q, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(users)
}

// GetSuggestions handles GET /api/users/suggestions
// Returns people the user may know: everyone except themselves, staff
// accounts, existing friends, and users blocked in either direction.
func (s *Server) GetSuggestions(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	page := parsePagination(c, 20)

	users, err := s.userRepo.Suggestions(ctx, userID, page.Limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx := c.Context()
	user, err := s.userRepo.GetByIDWithProfile(ctx, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	friends, err := s.friendRepo.CountFriends(ctx, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	followers, err := s.followRepo.CountFollowers(ctx, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	following, err := s.followRepo.CountFollowing(ctx, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"user":            user,
		"friends_count":   friends,
		"followers_count": followers,
		"following_count": following,
	})
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByIDWithProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Username  *string `json:"username"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Bio       *string `json:"bio"`
		Status    *string `json:"status"`
		AvatarRef *string `json:"avatar_ref"`
		CoverRef  *string `json:"cover_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByIDWithProfile(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if req.Username != nil {
		if verr := validation.ValidateUsername(*req.Username); verr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(verr.Error()))
		}
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if req.Bio != nil || req.Status != nil || req.AvatarRef != nil || req.CoverRef != nil {
		profile := user.Profile
		if profile == nil {
			profile = &models.Profile{UserID: userID}
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if req.Status != nil {
			profile.Status = *req.Status
		}
		if req.AvatarRef != nil {
			profile.AvatarRef = *req.AvatarRef
		}
		if req.CoverRef != nil {
			profile.CoverRef = *req.CoverRef
		}
		if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
			return models.RespondWithError(c, mapServiceError(err), err)
		}
		user.Profile = profile
	}

	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	currentUserID := c.Locals("userID").(uint)

	posts, err := s.postService.ListByAuthor(ctx, authorID, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(posts)
}
