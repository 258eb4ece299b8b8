package service

import (
	"context"
	"strings"

	"concord/internal/models"
	"concord/internal/observability"
	"concord/internal/repository"
)

// PostService manages posts and their engagement state: likes, comments,
// shares, saves, and visibility enforcement.
type PostService struct {
	posts       repository.PostRepository
	connections repository.ConnectionRepository
}

// NewPostService creates a new post service
func NewPostService(posts repository.PostRepository, connections repository.ConnectionRepository) *PostService {
	return &PostService{posts: posts, connections: connections}
}

// PostPatch carries the editable fields of a post. Nil fields are left
// unchanged.
type PostPatch struct {
	Content    *string `json:"content"`
	Visibility *string `json:"visibility"`
	ImageURL   *string `json:"image_url"`
}

// CreatePost creates a post for userID. A post needs content or an image;
// an unrecognized visibility falls back to public.
func (s *PostService) CreatePost(ctx context.Context, userID uint, content, imageURL, imagePublicID, visibility string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && imageURL == "" {
		return nil, models.NewValidationError("Post must have content or an image")
	}
	post := &models.Post{
		UserID:        userID,
		Content:       content,
		ImageURL:      imageURL,
		ImagePublicID: imagePublicID,
		Visibility:    models.NormalizeVisibility(visibility),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a post if viewerID may see it.
func (s *PostService) GetPost(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, post, viewerID); err != nil {
		return nil, err
	}
	return post, nil
}

// ListFeed returns the posts visible to viewerID, newest first.
func (s *PostService) ListFeed(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	return s.posts.ListVisible(ctx, viewerID, limit, offset)
}

// GetUserPosts returns authorID's posts that viewerID may see.
func (s *PostService) GetUserPosts(ctx context.Context, authorID, viewerID uint, limit, offset int) ([]models.Post, error) {
	return s.posts.ListByUser(ctx, authorID, viewerID, limit, offset)
}

// UpdatePost applies a partial edit to a post. Only the author may edit,
// and only the patchable fields are touched.
func (s *PostService) UpdatePost(ctx context.Context, id, userID uint, patch PostPatch) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}

	fields := map[string]any{}
	if patch.Content != nil {
		fields["content"] = strings.TrimSpace(*patch.Content)
	}
	if patch.Visibility != nil {
		fields["visibility"] = models.NormalizeVisibility(*patch.Visibility)
	}
	if patch.ImageURL != nil {
		fields["image_url"] = *patch.ImageURL
	}
	if err := s.posts.Patch(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id, userID)
}

// DeletePost hard-deletes a post and its engagement rows. Author only.
func (s *PostService) DeletePost(ctx context.Context, id, userID uint) error {
	post, err := s.posts.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.posts.Delete(ctx, id)
}

// ToggleLike flips userID's like on a post and returns the post's new
// engagement state.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (*models.Post, error) {
	if err := s.authorizeEngagement(ctx, postID, userID); err != nil {
		return nil, err
	}
	liked, err := s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if liked {
		observability.EngagementEvents.WithLabelValues("like").Inc()
	} else {
		observability.EngagementEvents.WithLabelValues("unlike").Inc()
	}
	return s.posts.GetByID(ctx, postID, userID)
}

// AddComment appends a comment to a post. Comments are immutable.
func (s *PostService) AddComment(ctx context.Context, postID, userID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment cannot be empty")
	}
	if err := s.authorizeEngagement(ctx, postID, userID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.posts.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	observability.EngagementEvents.WithLabelValues("comment").Inc()
	return comment, nil
}

// ListComments returns a post's comments, newest first.
func (s *PostService) ListComments(ctx context.Context, postID, viewerID uint, limit, offset int) ([]models.Comment, error) {
	if err := s.authorizeEngagement(ctx, postID, viewerID); err != nil {
		return nil, err
	}
	return s.posts.ListComments(ctx, postID, limit, offset)
}

// SharePost records a share. Repeat shares by the same user are no-ops.
func (s *PostService) SharePost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	if err := s.authorizeEngagement(ctx, postID, userID); err != nil {
		return nil, err
	}
	if err := s.posts.Share(ctx, postID, userID); err != nil {
		return nil, err
	}
	observability.EngagementEvents.WithLabelValues("share").Inc()
	return s.posts.GetByID(ctx, postID, userID)
}

// SavePost bookmarks a post for userID.
func (s *PostService) SavePost(ctx context.Context, postID, userID uint) error {
	if err := s.authorizeEngagement(ctx, postID, userID); err != nil {
		return err
	}
	if err := s.posts.Save(ctx, postID, userID); err != nil {
		return err
	}
	observability.EngagementEvents.WithLabelValues("save").Inc()
	return nil
}

// UnsavePost removes a bookmark. Unsaving a post that was never saved is
// a no-op.
func (s *PostService) UnsavePost(ctx context.Context, postID, userID uint) error {
	removed, err := s.posts.Unsave(ctx, postID, userID)
	if err != nil {
		return err
	}
	if removed {
		observability.EngagementEvents.WithLabelValues("unsave").Inc()
	}
	return nil
}

// ListSavedPosts returns userID's bookmarks, most recently saved first.
func (s *PostService) ListSavedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.posts.ListSaved(ctx, userID, limit, offset)
}

// authorizeEngagement loads the post and checks the viewer may see it.
// Engagement on an invisible post reads the same as engagement on a
// missing one would to the author, but the error distinguishes them.
func (s *PostService) authorizeEngagement(ctx context.Context, postID, viewerID uint) error {
	post, err := s.posts.GetByID(ctx, postID, viewerID)
	if err != nil {
		return err
	}
	return s.authorizeView(ctx, post, viewerID)
}

func (s *PostService) authorizeView(ctx context.Context, post *models.Post, viewerID uint) error {
	if post.Visibility == models.VisibilityPublic || post.UserID == viewerID {
		return nil
	}
	if post.Visibility == models.VisibilityFriends && viewerID != 0 {
		connected, err := s.connections.AreConnected(ctx, post.UserID, viewerID)
		if err != nil {
			return err
		}
		if connected {
			return nil
		}
	}
	return models.NewUnauthorizedError("You do not have permission to view this post")
}
