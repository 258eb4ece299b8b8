// Package service contains the business logic layer.
package service

import (
	"context"
	"log/slog"
	"time"

	"concord/internal/cache"
	"concord/internal/middleware"
	"concord/internal/models"
	"concord/internal/observability"
	"concord/internal/repository"
)

const (
	reciprocalAttempts = 3
	reciprocalBackoff  = 50 * time.Millisecond
)

// ConnectionService manages the connection lifecycle between users:
// request, accept, reject, removal, and status probes.
type ConnectionService struct {
	connections repository.ConnectionRepository
	users       repository.UserRepository
}

// NewConnectionService creates a new connection service
func NewConnectionService(connections repository.ConnectionRepository, users repository.UserRepository) *ConnectionService {
	return &ConnectionService{connections: connections, users: users}
}

// RequestConnection records a pending request from requesterID on targetID.
// The requester holds no mirror record; only the target sees the request.
func (s *ConnectionService) RequestConnection(ctx context.Context, requesterID, targetID uint) error {
	if requesterID == targetID {
		return models.NewValidationError("Cannot send a connection request to yourself")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	connected, err := s.connections.AreConnected(ctx, requesterID, targetID)
	if err != nil {
		return err
	}
	if connected {
		return models.NewConflictError("Users are already connected")
	}

	// A request in either direction blocks a new one. If the target has
	// already asked, the requester should accept instead.
	pending, err := s.connections.HasRequest(ctx, targetID, requesterID)
	if err != nil {
		return err
	}
	if pending {
		return models.NewConflictError("Connection request already sent")
	}
	reverse, err := s.connections.HasRequest(ctx, requesterID, targetID)
	if err != nil {
		return err
	}
	if reverse {
		return models.NewConflictError("This user has already sent you a request")
	}

	if err := s.connections.CreateRequest(ctx, targetID, requesterID); err != nil {
		return err
	}
	observability.ConnectionEvents.WithLabelValues("requested").Inc()
	return nil
}

// AcceptConnection consumes a pending request and links both users. The
// accepter's side commits first; the reciprocal write is retried a few
// times, and if it still fails the accepter's side is left in place and a
// partial-accept error is surfaced so the caller knows the graph is
// asymmetric.
func (s *ConnectionService) AcceptConnection(ctx context.Context, accepterID, requesterID uint) error {
	if err := s.connections.AcceptLocal(ctx, accepterID, requesterID); err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= reciprocalAttempts; attempt++ {
		lastErr = s.connections.CreateEdge(ctx, requesterID, accepterID)
		if lastErr == nil {
			break
		}
		middleware.Logger.Warn("reciprocal connection write failed",
			slog.Uint64("accepter_id", uint64(accepterID)),
			slog.Uint64("requester_id", uint64(requesterID)),
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()))
		time.Sleep(reciprocalBackoff * time.Duration(attempt))
	}
	if lastErr != nil {
		observability.ConnectionEvents.WithLabelValues("partial_accept").Inc()
		return models.NewPartialAcceptError(accepterID, requesterID, lastErr)
	}

	cache.InvalidateUser(ctx, accepterID)
	cache.InvalidateUser(ctx, requesterID)
	observability.ConnectionEvents.WithLabelValues("accepted").Inc()
	return nil
}

// RejectConnection drops a pending request without creating any edge.
func (s *ConnectionService) RejectConnection(ctx context.Context, targetID, requesterID uint) error {
	removed, err := s.connections.DeleteRequest(ctx, targetID, requesterID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewConflictError("No pending request from this user")
	}
	observability.ConnectionEvents.WithLabelValues("rejected").Inc()
	return nil
}

// RemoveConnection unlinks both users. Removing a user who is not a
// connection is a no-op.
func (s *ConnectionService) RemoveConnection(ctx context.Context, userID, otherID uint) error {
	if err := s.connections.RemoveEdges(ctx, userID, otherID); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, userID)
	cache.InvalidateUser(ctx, otherID)
	observability.ConnectionEvents.WithLabelValues("removed").Inc()
	return nil
}

// ListRequests returns the pending requests awaiting userID's decision.
func (s *ConnectionService) ListRequests(ctx context.Context, userID uint) ([]models.ConnectionRequest, error) {
	return s.connections.ListRequests(ctx, userID)
}

// ListConnections resolves userID's connections to profile summaries,
// served through the cache when warm.
func (s *ConnectionService) ListConnections(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	var summaries []models.UserSummary
	err := cache.Aside(ctx, cache.ConnectionsKey(userID), &summaries, cache.ConnectionsTTL, func() error {
		users, err := s.connections.ListConnections(ctx, userID)
		if err != nil {
			return err
		}
		summaries = make([]models.UserSummary, 0, len(users))
		for i := range users {
			summaries = append(summaries, users[i].Summary())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Status reports the relationship between userID and otherID as seen from
// userID's side.
func (s *ConnectionService) Status(ctx context.Context, userID, otherID uint) (string, error) {
	if userID == otherID {
		return models.ConnectionStatusSelf, nil
	}
	connected, err := s.connections.AreConnected(ctx, userID, otherID)
	if err != nil {
		return "", err
	}
	if connected {
		return models.ConnectionStatusConnected, nil
	}
	sent, err := s.connections.HasRequest(ctx, otherID, userID)
	if err != nil {
		return "", err
	}
	if sent {
		return models.ConnectionStatusPendingSent, nil
	}
	received, err := s.connections.HasRequest(ctx, userID, otherID)
	if err != nil {
		return "", err
	}
	if received {
		return models.ConnectionStatusPendingReceived, nil
	}
	return models.ConnectionStatusNone, nil
}
