package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"concord/internal/cache"
	"concord/internal/models"
	"concord/internal/repository"
	"concord/internal/validation"
)

// UserService manages registration, authentication, and profiles.
type UserService struct {
	users       repository.UserRepository
	connections repository.ConnectionRepository
	posts       repository.PostRepository
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, connections repository.ConnectionRepository, posts repository.PostRepository) *UserService {
	return &UserService{users: users, connections: connections, posts: posts}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates the input, checks uniqueness, and creates the user
// with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = validation.NormalizeUsername(in.Username)
	in.Email = validation.NormalizeEmail(in.Email)

	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email is already registered")
	}
	if existing, err := s.users.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the user. The same error is
// returned for a missing account and a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthenticatedError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthenticatedError("Invalid email or password")
	}
	return user, nil
}

// Profile bundles a user with their visible posts and connection summaries.
type Profile struct {
	User        models.User          `json:"user"`
	Posts       []models.Post        `json:"posts"`
	Connections []models.UserSummary `json:"connections"`
}

// GetProfile returns a user's profile as seen by viewerID: the user record,
// the posts viewerID may read, and the user's connections.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID uint) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(ctx, userID, viewerID, 50, 0)
	if err != nil {
		return nil, err
	}
	connected, err := s.connections.ListConnections(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.UserSummary, 0, len(connected))
	for i := range connected {
		summaries = append(summaries, connected[i].Summary())
	}
	return &Profile{User: *user, Posts: posts, Connections: summaries}, nil
}

// ProfilePatch carries the editable profile fields. Nil fields are left
// unchanged.
type ProfilePatch struct {
	Name           *string `json:"name"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	Occupation     *string `json:"occupation"`
	ProfilePicture *string `json:"profile_picture"`
	CoverPicture   *string `json:"cover_picture"`
}

// UpdateProfile applies a partial edit to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*models.User, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		fields["name"] = *patch.Name
	}
	if patch.Bio != nil {
		fields["bio"] = *patch.Bio
	}
	if patch.Location != nil {
		fields["location"] = *patch.Location
	}
	if patch.Occupation != nil {
		fields["occupation"] = *patch.Occupation
	}
	if patch.ProfilePicture != nil {
		fields["profile_picture"] = *patch.ProfilePicture
	}
	if patch.CoverPicture != nil {
		fields["cover_picture"] = *patch.CoverPicture
	}
	if err := s.users.Patch(ctx, userID, fields); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, userID)
	return s.users.GetByID(ctx, userID)
}

// GetUser returns a single user by ID, cached briefly under the user key.
// The cached copy never carries the password hash.
func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(userID), &user, cache.UserTTL, func() error {
		fetched, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns a page of users for directory views.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}
