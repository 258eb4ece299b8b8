package server

import (
	"github.com/gofiber/fiber/v2"

	"concord/internal/models"
	"concord/internal/service"
)

// GetMyProfile returns the authenticated user's own profile.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	profile, err := s.userService.GetProfile(c.Context(), userID, userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile applies a partial edit to the caller's profile.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var patch service.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), currentUserID(c), patch)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile returns another user's profile as seen by the caller.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(profile)
}

// GetAllUsers returns a page of users for directory views.
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(users)
}

// GetUserConnections returns another user's connection list as summaries.
func (s *Server) GetUserConnections(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userService.GetUser(c.Context(), id); err != nil {
		return models.RespondError(c, err)
	}
	connections, err := s.connectionService.ListConnections(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(connections)
}

// GetUserPosts returns a user's posts that the caller may see.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.GetUserPosts(c.Context(), id, currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}
