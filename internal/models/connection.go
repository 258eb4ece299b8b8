// Package models contains data structures for the application's domain models.
package models

import "time"

// Connection is one direction of a mutual link between two users.
// A pair is connected only when both directions exist; the lifecycle
// service is responsible for keeping the graph symmetric.
type Connection struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_connection" json:"user_id"`
	ConnectionID uint      `gorm:"not null;uniqueIndex:idx_user_connection" json:"connection_id"`
	CreatedAt    time.Time `json:"created_at"`

	User  User `gorm:"foreignKey:UserID" json:"-"`
	Other User `gorm:"foreignKey:ConnectionID" json:"user,omitempty"`
}

// ConnectionRequest is a pending, one-directional connection request.
// It lives on the target only; the requester holds no mirror record.
type ConnectionRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TargetID    uint      `gorm:"not null;uniqueIndex:idx_target_requester" json:"target_id"`
	RequesterID uint      `gorm:"not null;uniqueIndex:idx_target_requester" json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`

	Requester User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
}

// ConnectionStatus values reported by the status probe.
const (
	ConnectionStatusNone            = "none"
	ConnectionStatusPendingSent     = "pending_sent"
	ConnectionStatusPendingReceived = "pending_received"
	ConnectionStatusConnected       = "connected"
	ConnectionStatusSelf            = "self"
)
