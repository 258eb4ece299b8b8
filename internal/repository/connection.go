package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"concord/internal/models"
	"concord/internal/observability"
)

// ConnectionRepository defines the interface for social-graph data operations.
// Connections are stored one row per direction; pending requests live on the
// target only.
type ConnectionRepository interface {
	CreateRequest(ctx context.Context, targetID, requesterID uint) error
	HasRequest(ctx context.Context, targetID, requesterID uint) (bool, error)
	DeleteRequest(ctx context.Context, targetID, requesterID uint) (bool, error)
	ListRequests(ctx context.Context, targetID uint) ([]models.ConnectionRequest, error)
	AreConnected(ctx context.Context, userID, otherID uint) (bool, error)
	AcceptLocal(ctx context.Context, accepterID, requesterID uint) error
	CreateEdge(ctx context.Context, userID, connectionID uint) error
	RemoveEdges(ctx context.Context, userID, otherID uint) error
	ListConnections(ctx context.Context, userID uint) ([]models.User, error)
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) CreateRequest(ctx context.Context, targetID, requesterID uint) error {
	defer observability.TrackQuery("insert", "connection_requests")()
	req := models.ConnectionRequest{TargetID: targetID, RequesterID: requesterID}
	if err := r.db.WithContext(ctx).Create(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Connection request already sent")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) HasRequest(ctx context.Context, targetID, requesterID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ConnectionRequest{}).
		Where("target_id = ? AND requester_id = ?", targetID, requesterID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// DeleteRequest removes a pending request and reports whether one existed.
func (r *connectionRepository) DeleteRequest(ctx context.Context, targetID, requesterID uint) (bool, error) {
	defer observability.TrackQuery("delete", "connection_requests")()
	res := r.db.WithContext(ctx).
		Where("target_id = ? AND requester_id = ?", targetID, requesterID).
		Delete(&models.ConnectionRequest{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *connectionRepository) ListRequests(ctx context.Context, targetID uint) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	if err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Preload("Requester").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

// AreConnected reports whether userID's connection set contains otherID.
// The lifecycle service keeps the graph symmetric, so one direction suffices.
func (r *connectionRepository) AreConnected(ctx context.Context, userID, otherID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("user_id = ? AND connection_id = ?", userID, otherID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// AcceptLocal performs the accepter-side half of an accept: the pending
// request is consumed and the accepter's edge is written in one transaction.
// The reciprocal edge is the caller's responsibility.
func (r *connectionRepository) AcceptLocal(ctx context.Context, accepterID, requesterID uint) error {
	defer observability.TrackQuery("update", "connections")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("target_id = ? AND requester_id = ?", accepterID, requesterID).
			Delete(&models.ConnectionRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		edge := models.Connection{UserID: accepterID, ConnectionID: requesterID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewConflictError("No pending request from this user")
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// CreateEdge inserts one direction of a connection. Idempotent, so a repair
// of an asymmetric pair can re-run it safely.
func (r *connectionRepository) CreateEdge(ctx context.Context, userID, connectionID uint) error {
	defer observability.TrackQuery("insert", "connections")()
	edge := models.Connection{UserID: userID, ConnectionID: connectionID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RemoveEdges deletes both directions of a connection in one statement.
func (r *connectionRepository) RemoveEdges(ctx context.Context, userID, otherID uint) error {
	defer observability.TrackQuery("delete", "connections")()
	if err := r.db.WithContext(ctx).
		Where("(user_id = ? AND connection_id = ?) OR (user_id = ? AND connection_id = ?)",
			userID, otherID, otherID, userID).
		Delete(&models.Connection{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) ListConnections(ctx context.Context, userID uint) ([]models.User, error) {
	defer observability.TrackQuery("select", "connections")()
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN connections c ON users.id = c.connection_id").
		Where("c.user_id = ?", userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
