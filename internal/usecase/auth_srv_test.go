package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"movie-social/internal/data/entity"
	"movie-social/internal/data/repository"
	"movie-social/internal/dto/request"
	"movie-social/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService() (AuthService, *MockUserRepository, *MockTokenIssuer) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	cfg := &utils.Config{Security: utils.SecurityConfig{BcryptCost: bcrypt.MinCost}}
	return NewAuthService(users, tokens, cfg, testLogger()), users, tokens
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	t.Run("creates user with hashed password and default description", func(t *testing.T) {
		svc, users, tokens := newTestAuthService()
		req := &request.RegisterRequest{Username: "  alice ", Email: "alice@example.com", Password: "secret1"}

		users.On("FindByEmail", ctx, "alice@example.com").Return(nil, nil)
		users.On("FindByUsername", ctx, "alice").Return(nil, nil)
		var created *entity.User
		users.On("Create", ctx, mock.AnythingOfType("*entity.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*entity.User) }).
			Return(nil)
		tokens.On("Issue", mock.AnythingOfType("uuid.UUID")).Return("tok", expires, nil)

		resp, err := svc.Register(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, "tok", resp.Token)
		assert.Equal(t, created.ID.String(), resp.UserID)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, entity.DefaultDescription, created.Description)
		assert.NotEqual(t, "secret1", created.PasswordHash)
		assert.True(t, utils.CheckPasswordHash("secret1", created.PasswordHash))
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		users.On("FindByEmail", ctx, "alice@example.com").Return(newTestUser("alice"), nil)

		_, err := svc.Register(ctx, &request.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrConflict)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		users.On("FindByEmail", ctx, "new@example.com").Return(nil, nil)
		users.On("FindByUsername", ctx, "alice").Return(newTestUser("alice"), nil)

		_, err := svc.Register(ctx, &request.RegisterRequest{Username: "alice", Email: "new@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("lost insert race is a conflict", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		users.On("FindByEmail", ctx, "bob@example.com").Return(nil, nil)
		users.On("FindByUsername", ctx, "bob").Return(nil, nil)
		users.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

		_, err := svc.Register(ctx, &request.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("password longer than 72 bytes is a bad request", func(t *testing.T) {
		svc, users, _ := newTestAuthService()

		_, err := svc.Register(ctx, &request.RegisterRequest{
			Username: "carol", Email: "carol@example.com", Password: strings.Repeat("p", 80),
		})
		assert.ErrorIs(t, err, ErrBadRequest)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("multibyte password over 72 bytes is a bad request", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		users.On("FindByEmail", ctx, "dave@example.com").Return(nil, nil)
		users.On("FindByUsername", ctx, "dave").Return(nil, nil)

		// 40 runes pass the length tag but encode to 80 bytes
		_, err := svc.Register(ctx, &request.RegisterRequest{
			Username: "dave", Email: "dave@example.com", Password: strings.Repeat("é", 40),
		})
		assert.ErrorIs(t, err, ErrBadRequest)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		svc, users, _ := newTestAuthService()

		_, err := svc.Register(ctx, &request.RegisterRequest{Email: "not-an-email"})
		assert.ErrorIs(t, err, ErrBadRequest)
		users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := utils.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	user := newTestUser("alice")
	user.PasswordHash = hash

	t.Run("valid credentials issue a token", func(t *testing.T) {
		svc, users, tokens := newTestAuthService()
		users.On("FindByEmail", ctx, user.Email).Return(user, nil)
		tokens.On("Issue", user.ID).Return("tok", time.Now().Add(time.Hour), nil)

		resp, err := svc.Login(ctx, &request.LoginRequest{Email: user.Email, Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "tok", resp.Token)
		assert.Equal(t, user.ID.String(), resp.UserID)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, nil)
		users.On("FindByEmail", ctx, user.Email).Return(user, nil)

		_, errUnknown := svc.Login(ctx, &request.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
		_, errWrong := svc.Login(ctx, &request.LoginRequest{Email: user.Email, Password: "wrong"})

		assert.ErrorIs(t, errUnknown, ErrUnauthorized)
		assert.ErrorIs(t, errWrong, ErrUnauthorized)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("token failure is an internal error", func(t *testing.T) {
		svc, users, tokens := newTestAuthService()
		users.On("FindByEmail", ctx, user.Email).Return(user, nil)
		tokens.On("Issue", user.ID).Return("", time.Time{}, assert.AnError)

		_, err := svc.Login(ctx, &request.LoginRequest{Email: user.Email, Password: "secret1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})
}
