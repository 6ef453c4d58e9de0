package usecase

import (
	"context"
	"io"
	"time"

	"movie-social/internal/data/entity"
	"movie-social/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateDetails(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfileImage(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockUserRepository) ToggleConnection(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByAuthorAndTitle(ctx context.Context, authorID uuid.UUID, movieTitle string) (*entity.Review, error) {
	args := m.Called(ctx, authorID, movieTitle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context, filter repository.ReviewFilter, limit, offset int) ([]*entity.Review, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) Count(ctx context.Context, filter repository.ReviewFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	args := m.Called(ctx, id, authorID)
	return args.Error(0)
}

func (m *MockReviewRepository) ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (bool, int, error) {
	args := m.Called(ctx, reviewID, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

// MockVideoRepository is a mock implementation of repository.VideoRepository
type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, video *entity.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Video), args.Error(1)
}

func (m *MockVideoRepository) Random(ctx context.Context, n int) ([]*entity.Video, error) {
	args := m.Called(ctx, n)
	return args.Get(0).([]*entity.Video), args.Error(1)
}

// MockMediaStore records Put calls and drains the body so tests can inspect it.
type MockMediaStore struct {
	mock.Mock
	bodies map[string][]byte
}

func (m *MockMediaStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if m.bodies == nil {
		m.bodies = make(map[string][]byte)
	}
	m.bodies[key] = data
	args := m.Called(ctx, key, size, contentType)
	return args.String(0), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID uuid.UUID) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type testRepos struct {
	users   *MockUserRepository
	reviews *MockReviewRepository
	videos  *MockVideoRepository
}

func newTestRepos() (*repository.Repository, *testRepos) {
	m := &testRepos{
		users:   new(MockUserRepository),
		reviews: new(MockReviewRepository),
		videos:  new(MockVideoRepository),
	}
	return &repository.Repository{User: m.users, Review: m.reviews, Video: m.videos}, m
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func newTestUser(username string) *entity.User {
	now := time.Now()
	return &entity.User{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:    username,
		Email:       username + "@example.com",
		Description: entity.DefaultDescription,
	}
}
