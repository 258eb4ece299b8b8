package server

import (
	"github.com/gofiber/fiber/v2"

	"concord/internal/models"
)

// SendConnectionRequest creates a pending request on the target user.
func (s *Server) SendConnectionRequest(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.connectionService.RequestConnection(c.Context(), currentUserID(c), targetID); err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Connection request sent",
	})
}

// GetPendingRequests returns the requests awaiting the caller's decision.
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	requests, err := s.connectionService.ListRequests(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(requests)
}

// AcceptConnectionRequest accepts a pending request from :userId.
func (s *Server) AcceptConnectionRequest(c *fiber.Ctx) error {
	requesterID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.connectionService.AcceptConnection(c.Context(), currentUserID(c), requesterID); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Connection request accepted",
	})
}

// RejectConnectionRequest discards a pending request from :userId.
func (s *Server) RejectConnectionRequest(c *fiber.Ctx) error {
	requesterID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.connectionService.RejectConnection(c.Context(), currentUserID(c), requesterID); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Connection request rejected",
	})
}

// GetConnections returns the caller's connections as profile summaries.
func (s *Server) GetConnections(c *fiber.Ctx) error {
	connections, err := s.connectionService.ListConnections(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(connections)
}

// GetConnectionStatus reports the relationship between the caller and :userId.
func (s *Server) GetConnectionStatus(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.connectionService.Status(c.Context(), currentUserID(c), otherID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": status,
	})
}

// RemoveConnection unlinks the caller from :userId.
func (s *Server) RemoveConnection(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.connectionService.RemoveConnection(c.Context(), currentUserID(c), otherID); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Connection removed",
	})
}
