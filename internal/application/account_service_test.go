package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/podtrail/podtrail-api/internal/application"
	"github.com/podtrail/podtrail-api/internal/domain/entity"
	"github.com/podtrail/podtrail-api/internal/domain/repository"
	"github.com/podtrail/podtrail-api/pkg/helpers"
)

func newAccountService(repo *MockUserRepository) *application.AccountService {
	jwt := helpers.NewJWTManager("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	return application.NewAccountService(repo, jwt, nil, nil, nil, nil)
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("existing email is a conflict and nothing is created", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "taken@example.com").Return(&entity.User{ID: "u1", Email: "taken@example.com"}, nil)

		svc := newAccountService(repo)
		err := svc.Register(ctx, "taken@example.com", "password123", "Someone", entity.RoleUser)

		require.Error(t, err)
		assert.True(t, errors.Is(err, application.ErrEmailTaken))
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("fresh email creates exactly one user with a hashed password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "new@example.com").Return(nil, repository.ErrNotFound)
		repo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "new@example.com" &&
				u.Role == entity.RoleUser &&
				!u.IsVerified &&
				u.Password != "password123" &&
				helpers.CompareHashAndPassword(u.Password, "password123")
		})).Return(nil).Once()

		svc := newAccountService(repo)
		err := svc.Register(ctx, "new@example.com", "password123", "Someone", entity.RoleUser)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown role falls back to the user role", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "new@example.com").Return(nil, repository.ErrNotFound)
		repo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
			return u.Role == entity.RoleUser
		})).Return(nil).Once()

		svc := newAccountService(repo)
		err := svc.Register(ctx, "new@example.com", "password123", "Someone", "superuser")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("lookup fault is reported generically, not as a conflict", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "new@example.com").Return(nil, errors.New("connection reset"))

		svc := newAccountService(repo)
		err := svc.Register(ctx, "new@example.com", "password123", "Someone", entity.RoleUser)

		require.Error(t, err)
		assert.False(t, errors.Is(err, application.ErrEmailTaken))
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("create fault is reported generically", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "new@example.com").Return(nil, repository.ErrNotFound)
		repo.On("Create", mock.Anything).Return(errors.New("insert failed"))

		svc := newAccountService(repo)
		err := svc.Register(ctx, "new@example.com", "password123", "Someone", entity.RoleUser)

		require.Error(t, err)
		assert.False(t, errors.Is(err, application.ErrEmailTaken))
	})
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := helpers.HashPassword("correct-horse")
	require.NoError(t, err)
	user := &entity.User{ID: "u1", Email: "user@example.com", Password: hash, Name: "User"}

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", "nobody@example.com").Return(nil, repository.ErrNotFound)

		svc := newAccountService(repo)
		_, _, err := svc.Login(ctx, "nobody@example.com", "whatever1")

		assert.True(t, errors.Is(err, application.ErrUserNotFound))
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", user.Email).Return(user, nil)

		svc := newAccountService(repo)
		_, _, err := svc.Login(ctx, user.Email, "not-the-password")

		assert.True(t, errors.Is(err, application.ErrInvalidCredentials))
	})

	t.Run("success issues a token for the user's id", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", user.Email).Return(user, nil)

		jwt := helpers.NewJWTManager("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
		svc := application.NewAccountService(repo, jwt, nil, nil, nil, nil)
		res, pair, err := svc.Login(ctx, user.Email, "correct-horse")

		require.NoError(t, err)
		assert.Equal(t, user.ID, res.UserID)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		claims, err := jwt.ParseAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("lookup fault is not a credential failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", user.Email).Return(nil, errors.New("connection reset"))

		svc := newAccountService(repo)
		_, _, err := svc.Login(ctx, user.Email, "correct-horse")

		require.Error(t, err)
		assert.False(t, errors.Is(err, application.ErrUserNotFound))
		assert.False(t, errors.Is(err, application.ErrInvalidCredentials))
	})
}

func TestAccountService_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", "u1").Return(&entity.User{ID: "u1", Email: "user@example.com"}, nil)

		svc := newAccountService(repo)
		u, err := svc.FindByID("u1")

		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})

	t.Run("missing maps to user not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", "u2").Return(nil, repository.ErrNotFound)

		svc := newAccountService(repo)
		_, err := svc.FindByID("u2")

		assert.True(t, errors.Is(err, application.ErrUserNotFound))
	})
}

func TestAccountService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	existing := func() *entity.User {
		return &entity.User{
			ID:         "u1",
			Email:      "old@example.com",
			Password:   "$2a$10$existinghash",
			Name:       "Old Name",
			Role:       entity.RoleUser,
			IsVerified: true,
			CreatedAt:  time.Now().Add(-24 * time.Hour),
		}
	}

	t.Run("changed email resets the verified flag", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", "u1").Return(existing(), nil)
		repo.On("Update", mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "new@example.com" && !u.IsVerified
		})).Return(nil).Once()

		svc := newAccountService(repo)
		u, err := svc.UpdateProfile(ctx, "u1", application.UpdateProfileInput{Email: "new@example.com"})

		require.NoError(t, err)
		assert.False(t, u.IsVerified)
		repo.AssertExpectations(t)
	})

	t.Run("same email keeps the verified flag", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", "u1").Return(existing(), nil)
		repo.On("Update", mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "old@example.com" && u.IsVerified
		})).Return(nil).Once()

		svc := newAccountService(repo)
		u, err := svc.UpdateProfile(ctx, "u1", application.UpdateProfileInput{Email: "old@example.com", Name: "New Name"})

		require.NoError(t, err)
		assert.True(t, u.IsVerified)
		assert.Equal(t, "New Name", u.Name)
	})

	t.Run("password is rehashed before the write", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", "u1").Return(existing(), nil)
		repo.On("Update", mock.MatchedBy(func(u *entity.User) bool {
			return u.Password != "next-password" &&
				helpers.CompareHashAndPassword(u.Password, "next-password")
		})).Return(nil).Once()

		svc := newAccountService(repo)
		_, err := svc.UpdateProfile(ctx, "u1", application.UpdateProfileInput{Password: "next-password"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing user is reported generically", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", "u9").Return(nil, repository.ErrNotFound)

		svc := newAccountService(repo)
		_, err := svc.UpdateProfile(ctx, "u9", application.UpdateProfileInput{Name: "X"})

		require.Error(t, err)
		// No dedicated not-found outcome on this path.
		assert.False(t, errors.Is(err, application.ErrUserNotFound))
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("write fault is surfaced", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", "u1").Return(existing(), nil)
		repo.On("Update", mock.Anything).Return(errors.New("write failed"))

		svc := newAccountService(repo)
		_, err := svc.UpdateProfile(ctx, "u1", application.UpdateProfileInput{Name: "X"})

		require.Error(t, err)
	})
}
