package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"concord/internal/models"
)

func TestRegister_Validation(t *testing.T) {
	svc := NewUserService(&stubUserRepo{}, &stubConnectionRepo{}, &stubPostRepo{})

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Username: "ada", Email: "ada@example.com", Password: "secret1"}},
		{"short username", RegisterInput{Name: "Ada", Username: "ab", Email: "ada@example.com", Password: "secret1"}},
		{"bad username chars", RegisterInput{Name: "Ada", Username: "ada!", Email: "ada@example.com", Password: "secret1"}},
		{"bad email", RegisterInput{Name: "Ada", Username: "ada", Email: "not-an-email", Password: "secret1"}},
		{"short password", RegisterInput{Name: "Ada", Username: "ada", Email: "ada@example.com", Password: "12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.NewValidationError("")))
		})
	}
}

func TestRegister_Duplicates(t *testing.T) {
	t.Run("email taken", func(t *testing.T) {
		users := &stubUserRepo{
			getByEmail: func(ctx context.Context, email string) (*models.User, error) {
				return &models.User{ID: 5, Email: email}, nil
			},
		}
		svc := NewUserService(users, &stubConnectionRepo{}, &stubPostRepo{})

		_, err := svc.Register(context.Background(), RegisterInput{
			Name: "Ada", Username: "ada", Email: "ada@example.com", Password: "secret1",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.NewConflictError("")))
	})

	t.Run("username taken", func(t *testing.T) {
		users := &stubUserRepo{
			getByUsername: func(ctx context.Context, username string) (*models.User, error) {
				return &models.User{ID: 5, Username: username}, nil
			},
		}
		svc := NewUserService(users, &stubConnectionRepo{}, &stubPostRepo{})

		_, err := svc.Register(context.Background(), RegisterInput{
			Name: "Ada", Username: "ada", Email: "ada@example.com", Password: "secret1",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.NewConflictError("")))
	})
}

func TestRegister_HashesAndNormalizes(t *testing.T) {
	var created *models.User
	users := &stubUserRepo{
		create: func(ctx context.Context, user *models.User) error {
			user.ID = 1
			created = user
			return nil
		},
	}
	svc := NewUserService(users, &stubConnectionRepo{}, &stubPostRepo{})

	user, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Username: "  Ada_L ", Email: " Ada@Example.COM ", Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "ada_l", created.Username)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.NotEqual(t, "secret1", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret1")))
	assert.Equal(t, uint(1), user.ID)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &stubUserRepo{
		getByEmail: func(ctx context.Context, email string) (*models.User, error) {
			if email == "ada@example.com" {
				return &models.User{ID: 1, Email: email, Password: string(hash)}, nil
			}
			return nil, nil
		},
	}
	svc := NewUserService(users, &stubConnectionRepo{}, &stubPostRepo{})

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "Ada@Example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ada@example.com", "wrong")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.NewUnauthenticatedError("")))
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.NewUnauthenticatedError("")))
	})
}

func TestUpdateProfile_AllowList(t *testing.T) {
	strptr := func(s string) *string { return &s }

	var gotFields map[string]any
	users := &stubUserRepo{
		patch: func(ctx context.Context, id uint, fields map[string]any) error {
			gotFields = fields
			return nil
		},
	}
	svc := NewUserService(users, &stubConnectionRepo{}, &stubPostRepo{})

	_, err := svc.UpdateProfile(context.Background(), 1, ProfilePatch{
		Bio:      strptr("hello"),
		Location: strptr("Lisbon"),
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"bio": "hello", "location": "Lisbon"}, gotFields)
}

func TestUpdateProfile_EmptyNameRejected(t *testing.T) {
	strptr := func(s string) *string { return &s }
	svc := NewUserService(&stubUserRepo{}, &stubConnectionRepo{}, &stubPostRepo{})

	_, err := svc.UpdateProfile(context.Background(), 1, ProfilePatch{Name: strptr("")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.NewValidationError("")))
}

func TestGetProfile(t *testing.T) {
	users := &stubUserRepo{
		getByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Ada", Username: "ada"}, nil
		},
	}
	posts := &stubPostRepo{
		listByUser: func(ctx context.Context, authorID, viewerID uint, limit, offset int) ([]models.Post, error) {
			return []models.Post{{ID: 1, UserID: authorID}}, nil
		},
	}
	conns := &stubConnectionRepo{
		listConnections: func(ctx context.Context, userID uint) ([]models.User, error) {
			return []models.User{{ID: 2, Username: "grace"}}, nil
		},
	}
	svc := NewUserService(users, conns, posts)

	profile, err := svc.GetProfile(context.Background(), 1, 3)

	require.NoError(t, err)
	assert.Equal(t, "ada", profile.User.Username)
	require.Len(t, profile.Posts, 1)
	require.Len(t, profile.Connections, 1)
	assert.Equal(t, "grace", profile.Connections[0].Username)
}
