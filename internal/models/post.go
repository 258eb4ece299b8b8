package models

import (
	"time"
)

// Visibility tiers for a post.
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// NormalizeVisibility returns v if it is a recognized tier, otherwise public.
func NormalizeVisibility(v string) string {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return v
	}
	return VisibilityPublic
}

// Post is an authored piece of content with embedded engagement state.
// Posts are hard-deleted; there is no tombstone.
type Post struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"not null;index" json:"user_id"`
	Content       string `json:"content"`
	ImageURL      string `json:"image_url"`
	ImagePublicID string `json:"image_public_id,omitempty"`
	Visibility    string `gorm:"type:varchar(10);default:'public'" json:"visibility"`

	User     User      `gorm:"foreignKey:UserID" json:"user"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`

	// LikesCount is not persisted; derived from the likes set at query time.
	LikesCount int64 `gorm:"-" json:"likes_count"`
	// CommentsCount is not persisted; derived from the comments set at query time.
	CommentsCount int64 `gorm:"-" json:"comments_count"`
	// SharesCount is not persisted; derived from the shares set at query time.
	SharesCount int64 `gorm:"-" json:"shares_count"`
	// Liked indicates whether the requesting user liked this post (computed).
	Liked bool `gorm:"-" json:"liked"`
	// Shared indicates whether the requesting user shared this post (computed).
	Shared bool `gorm:"-" json:"shared"`
	// Saved indicates whether the requesting user bookmarked this post (computed).
	Saved bool `gorm:"-" json:"saved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment represents a comment on a post. Comments are immutable once
// posted; there is no update or delete path.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Share represents a user's share of a post. Shares are add-only; a
// repeat share by the same user is a no-op.
type Share struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_share_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_share_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedPost is a user's bookmark of a post.
type SavedPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_saved_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
