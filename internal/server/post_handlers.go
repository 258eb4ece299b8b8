package server

import (
	"github.com/gofiber/fiber/v2"

	"concord/internal/models"
	"concord/internal/service"
)

// CreatePost creates a post for the authenticated user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var input struct {
		Content       string `json:"content"`
		ImageURL      string `json:"image_url"`
		ImagePublicID string `json:"image_public_id"`
		Visibility    string `json:"visibility"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), currentUserID(c),
		input.Content, input.ImageURL, input.ImagePublicID, input.Visibility)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed returns the posts visible to the caller, newest first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListFeed(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost returns a single post if the caller may see it.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost applies a partial edit to a post. Author only.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var patch service.PostPatch
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), id, currentUserID(c), patch)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost hard-deletes a post. Author only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), id, currentUserID(c)); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Post deleted",
	})
}

// ToggleLike flips the caller's like on a post and returns the updated post.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleLike(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// GetComments returns a post's comments, newest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	comments, err := s.postService.ListComments(c.Context(), id, currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment appends a comment to a post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.AddComment(c.Context(), id, currentUserID(c), input.Content)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// SharePost records a share and returns the updated post.
func (s *Server) SharePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.SharePost(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// SavePost bookmarks a post for the caller.
func (s *Server) SavePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.SavePost(c.Context(), id, currentUserID(c)); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Post saved",
	})
}

// UnsavePost removes a bookmark.
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.UnsavePost(c.Context(), id, currentUserID(c)); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Post unsaved",
	})
}

// GetSavedPosts returns the caller's bookmarks, most recently saved first.
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListSavedPosts(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}
