package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"concord/internal/models"
	"concord/internal/observability"
)

// visibleExpr restricts a posts query to rows the viewer may read: public
// posts, the viewer's own posts, and friends-tier posts by the viewer's
// connections.
const visibleExpr = `posts.visibility = 'public' OR posts.user_id = ? OR ` +
	`(posts.visibility = 'friends' AND posts.user_id IN ` +
	`(SELECT user_id FROM connections WHERE connection_id = ?))`

// PostRepository defines the interface for post and engagement data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error)
	Patch(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
	ListVisible(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error)
	ListByUser(ctx context.Context, authorID, viewerID uint, limit, offset int) ([]models.Post, error)
	ToggleLike(ctx context.Context, postID, userID uint) (bool, error)
	Share(ctx context.Context, postID, userID uint) error
	AddComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error)
	Save(ctx context.Context, postID, userID uint) error
	Unsave(ctx context.Context, postID, userID uint) (bool, error)
	ListSaved(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return r.db.WithContext(ctx).Preload("User").First(post, post.ID).Error
}

// GetByID fetches a post with its author and engagement state for viewerID.
// Visibility is not enforced here; the service decides who may see what.
func (r *postRepository) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.enrich(ctx, []*models.Post{&post}, viewerID); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Patch(ctx context.Context, id uint, fields map[string]any) error {
	defer observability.TrackQuery("update", "posts")()
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).Updates(fields).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete hard-deletes a post and all engagement rows referencing it.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Like{}, &models.Comment{}, &models.Share{}, &models.SavedPost{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) ListVisible(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()
	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where(visibleExpr, viewerID, viewerID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.enrichSlice(ctx, posts, viewerID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, authorID, viewerID uint, limit, offset int) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()
	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("posts.user_id = ?", authorID).
		Where(visibleExpr, viewerID, viewerID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.enrichSlice(ctx, posts, viewerID); err != nil {
		return nil, err
	}
	return posts, nil
}

// ToggleLike flips the like state for (userID, postID) and returns the new
// state. Each arm is a single conditional statement, so concurrent toggles
// cannot double-count.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	defer observability.TrackQuery("update", "likes")()
	like := models.Like{UserID: userID, PostID: postID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// Already liked; the toggle removes it.
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return false, nil
}

// Share records a share. A repeat share by the same user is a no-op.
func (r *postRepository) Share(ctx context.Context, postID, userID uint) error {
	defer observability.TrackQuery("insert", "shares")()
	share := models.Share{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&share).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", "comments")()
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return r.db.WithContext(ctx).Preload("User").First(comment, comment.ID).Error
}

// ListComments returns comments newest first.
func (r *postRepository) ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	defer observability.TrackQuery("select", "comments")()
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *postRepository) Save(ctx context.Context, postID, userID uint) error {
	defer observability.TrackQuery("insert", "saved_posts")()
	saved := models.SavedPost{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Unsave(ctx context.Context, postID, userID uint) (bool, error) {
	defer observability.TrackQuery("delete", "saved_posts")()
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) ListSaved(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	defer observability.TrackQuery("select", "saved_posts")()
	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN saved_posts sp ON sp.post_id = posts.id").
		Where("sp.user_id = ?", userID).
		Order("sp.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.enrichSlice(ctx, posts, userID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) enrichSlice(ctx context.Context, posts []models.Post, viewerID uint) error {
	ptrs := make([]*models.Post, len(posts))
	for i := range posts {
		ptrs[i] = &posts[i]
	}
	return r.enrich(ctx, ptrs, viewerID)
}

type postCount struct {
	PostID uint
	N      int64
}

// enrich fills the derived engagement fields for a batch of posts with one
// grouped count query per set table plus one membership query per flag.
func (r *postRepository) enrich(ctx context.Context, posts []*models.Post, viewerID uint) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	byID := make(map[uint]*models.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	counts := []struct {
		model any
		apply func(p *models.Post, n int64)
	}{
		{&models.Like{}, func(p *models.Post, n int64) { p.LikesCount = n }},
		{&models.Comment{}, func(p *models.Post, n int64) { p.CommentsCount = n }},
		{&models.Share{}, func(p *models.Post, n int64) { p.SharesCount = n }},
	}
	for _, c := range counts {
		var rows []postCount
		if err := r.db.WithContext(ctx).Model(c.model).
			Select("post_id, COUNT(*) AS n").
			Where("post_id IN ?", ids).
			Group("post_id").
			Scan(&rows).Error; err != nil {
			return models.NewInternalError(err)
		}
		for _, row := range rows {
			if p, ok := byID[row.PostID]; ok {
				c.apply(p, row.N)
			}
		}
	}

	if viewerID == 0 {
		return nil
	}
	flags := []struct {
		model any
		apply func(p *models.Post)
	}{
		{&models.Like{}, func(p *models.Post) { p.Liked = true }},
		{&models.Share{}, func(p *models.Post) { p.Shared = true }},
		{&models.SavedPost{}, func(p *models.Post) { p.Saved = true }},
	}
	for _, f := range flags {
		var postIDs []uint
		if err := r.db.WithContext(ctx).Model(f.model).
			Where("user_id = ? AND post_id IN ?", viewerID, ids).
			Pluck("post_id", &postIDs).Error; err != nil {
			return models.NewInternalError(err)
		}
		for _, id := range postIDs {
			if p, ok := byID[id]; ok {
				f.apply(p)
			}
		}
	}
	return nil
}
