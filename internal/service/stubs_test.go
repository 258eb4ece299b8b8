package service

import (
	"context"

	"concord/internal/models"
)

// stubUserRepo implements repository.UserRepository with function fields so
// each test overrides only what it needs.
type stubUserRepo struct {
	getByID       func(ctx context.Context, id uint) (*models.User, error)
	getByEmail    func(ctx context.Context, email string) (*models.User, error)
	getByUsername func(ctx context.Context, username string) (*models.User, error)
	create        func(ctx context.Context, user *models.User) error
	patch         func(ctx context.Context, id uint, fields map[string]any) error
	list          func(ctx context.Context, limit, offset int) ([]models.User, error)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return &models.User{ID: id, Name: "User", Username: "user"}, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmail != nil {
		return s.getByEmail(ctx, email)
	}
	return nil, nil
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getByUsername != nil {
		return s.getByUsername(ctx, username)
	}
	return nil, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.create != nil {
		return s.create(ctx, user)
	}
	user.ID = 1
	return nil
}

func (s *stubUserRepo) Patch(ctx context.Context, id uint, fields map[string]any) error {
	if s.patch != nil {
		return s.patch(ctx, id, fields)
	}
	return nil
}

func (s *stubUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if s.list != nil {
		return s.list(ctx, limit, offset)
	}
	return nil, nil
}

// stubConnectionRepo implements repository.ConnectionRepository.
type stubConnectionRepo struct {
	createRequest   func(ctx context.Context, targetID, requesterID uint) error
	hasRequest      func(ctx context.Context, targetID, requesterID uint) (bool, error)
	deleteRequest   func(ctx context.Context, targetID, requesterID uint) (bool, error)
	listRequests    func(ctx context.Context, targetID uint) ([]models.ConnectionRequest, error)
	areConnected    func(ctx context.Context, userID, otherID uint) (bool, error)
	acceptLocal     func(ctx context.Context, accepterID, requesterID uint) error
	createEdge      func(ctx context.Context, userID, connectionID uint) error
	removeEdges     func(ctx context.Context, userID, otherID uint) error
	listConnections func(ctx context.Context, userID uint) ([]models.User, error)
}

func (s *stubConnectionRepo) CreateRequest(ctx context.Context, targetID, requesterID uint) error {
	if s.createRequest != nil {
		return s.createRequest(ctx, targetID, requesterID)
	}
	return nil
}

func (s *stubConnectionRepo) HasRequest(ctx context.Context, targetID, requesterID uint) (bool, error) {
	if s.hasRequest != nil {
		return s.hasRequest(ctx, targetID, requesterID)
	}
	return false, nil
}

func (s *stubConnectionRepo) DeleteRequest(ctx context.Context, targetID, requesterID uint) (bool, error) {
	if s.deleteRequest != nil {
		return s.deleteRequest(ctx, targetID, requesterID)
	}
	return true, nil
}

func (s *stubConnectionRepo) ListRequests(ctx context.Context, targetID uint) ([]models.ConnectionRequest, error) {
	if s.listRequests != nil {
		return s.listRequests(ctx, targetID)
	}
	return nil, nil
}

func (s *stubConnectionRepo) AreConnected(ctx context.Context, userID, otherID uint) (bool, error) {
	if s.areConnected != nil {
		return s.areConnected(ctx, userID, otherID)
	}
	return false, nil
}

func (s *stubConnectionRepo) AcceptLocal(ctx context.Context, accepterID, requesterID uint) error {
	if s.acceptLocal != nil {
		return s.acceptLocal(ctx, accepterID, requesterID)
	}
	return nil
}

func (s *stubConnectionRepo) CreateEdge(ctx context.Context, userID, connectionID uint) error {
	if s.createEdge != nil {
		return s.createEdge(ctx, userID, connectionID)
	}
	return nil
}

func (s *stubConnectionRepo) RemoveEdges(ctx context.Context, userID, otherID uint) error {
	if s.removeEdges != nil {
		return s.removeEdges(ctx, userID, otherID)
	}
	return nil
}

func (s *stubConnectionRepo) ListConnections(ctx context.Context, userID uint) ([]models.User, error) {
	if s.listConnections != nil {
		return s.listConnections(ctx, userID)
	}
	return nil, nil
}

// stubPostRepo implements repository.PostRepository.
type stubPostRepo struct {
	create       func(ctx context.Context, post *models.Post) error
	getByID      func(ctx context.Context, id, viewerID uint) (*models.Post, error)
	patch        func(ctx context.Context, id uint, fields map[string]any) error
	deletePost   func(ctx context.Context, id uint) error
	listVisible  func(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error)
	listByUser   func(ctx context.Context, authorID, viewerID uint, limit, offset int) ([]models.Post, error)
	toggleLike   func(ctx context.Context, postID, userID uint) (bool, error)
	share        func(ctx context.Context, postID, userID uint) error
	addComment   func(ctx context.Context, comment *models.Comment) error
	listComments func(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error)
	save         func(ctx context.Context, postID, userID uint) error
	unsave       func(ctx context.Context, postID, userID uint) (bool, error)
	listSaved    func(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.Post) error {
	if s.create != nil {
		return s.create(ctx, post)
	}
	post.ID = 1
	return nil
}

func (s *stubPostRepo) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id, viewerID)
	}
	return &models.Post{ID: id, UserID: viewerID, Visibility: models.VisibilityPublic}, nil
}

func (s *stubPostRepo) Patch(ctx context.Context, id uint, fields map[string]any) error {
	if s.patch != nil {
		return s.patch(ctx, id, fields)
	}
	return nil
}

func (s *stubPostRepo) Delete(ctx context.Context, id uint) error {
	if s.deletePost != nil {
		return s.deletePost(ctx, id)
	}
	return nil
}

func (s *stubPostRepo) ListVisible(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	if s.listVisible != nil {
		return s.listVisible(ctx, viewerID, limit, offset)
	}
	return nil, nil
}

func (s *stubPostRepo) ListByUser(ctx context.Context, authorID, viewerID uint, limit, offset int) ([]models.Post, error) {
	if s.listByUser != nil {
		return s.listByUser(ctx, authorID, viewerID, limit, offset)
	}
	return nil, nil
}

func (s *stubPostRepo) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	if s.toggleLike != nil {
		return s.toggleLike(ctx, postID, userID)
	}
	return true, nil
}

func (s *stubPostRepo) Share(ctx context.Context, postID, userID uint) error {
	if s.share != nil {
		return s.share(ctx, postID, userID)
	}
	return nil
}

func (s *stubPostRepo) AddComment(ctx context.Context, comment *models.Comment) error {
	if s.addComment != nil {
		return s.addComment(ctx, comment)
	}
	comment.ID = 1
	return nil
}

func (s *stubPostRepo) ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	if s.listComments != nil {
		return s.listComments(ctx, postID, limit, offset)
	}
	return nil, nil
}

func (s *stubPostRepo) Save(ctx context.Context, postID, userID uint) error {
	if s.save != nil {
		return s.save(ctx, postID, userID)
	}
	return nil
}

func (s *stubPostRepo) Unsave(ctx context.Context, postID, userID uint) (bool, error) {
	if s.unsave != nil {
		return s.unsave(ctx, postID, userID)
	}
	return true, nil
}

func (s *stubPostRepo) ListSaved(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	if s.listSaved != nil {
		return s.listSaved(ctx, userID, limit, offset)
	}
	return nil, nil
}
