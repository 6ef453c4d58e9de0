package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-social/internal/data/repository"
	"movie-social/internal/dto/request"
	"movie-social/internal/dto/response"
	"movie-social/pkg/storage"
	"movie-social/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultFeedLimit = 20

type UserService interface {
	ListUsers(ctx context.Context) ([]response.UserSummary, error)
	GetUser(ctx context.Context, userID string) (*response.UserResponse, error)
	UpdateDetails(ctx context.Context, callerID uuid.UUID, req *request.UpdateUserRequest) (*response.UserResponse, error)
	UpdateProfileImage(ctx context.Context, callerID uuid.UUID, upload *request.FileUpload) (*response.ProfileImageResponse, error)
	ToggleConnection(ctx context.Context, callerID uuid.UUID, req *request.ToggleConnectionRequest) (*response.ConnectionResponse, error)
	GetFeed(ctx context.Context, userID string, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	DeleteAccount(ctx context.Context, callerID uuid.UUID) error
}

type userService struct {
	repo    *repository.Repository
	media   storage.MediaStore
	baseURL string
	log     *zap.Logger
}

func NewUserService(repo *repository.Repository, media storage.MediaStore, baseURL string, log *zap.Logger) UserService {
	return &userService{
		repo:    repo,
		media:   media,
		baseURL: baseURL,
		log:     log.With(zap.String("service", "user")),
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]response.UserSummary, error) {
	users, err := s.repo.User.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	summaries := make([]response.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = response.UserSummary{
			ID:              user.ID.String(),
			Username:        user.Username,
			ProfileImageURL: utils.AbsoluteURL(s.baseURL, user.ProfileImageURL),
		}
	}

	return summaries, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*response.UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, badRequest("invalid user ID format %q", userID)
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, notFound("user %s not found", userID)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateDetails(ctx context.Context, callerID uuid.UUID, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, badRequest("username cannot be blank")
		}
		req.Username = &username
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			return nil, badRequest("email cannot be blank")
		}
		req.Email = &email
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update user validation failed", zap.Any("errors", errs))
		return nil, badRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, notFound("user not found")
	}

	if req.Username != nil {
		username := *req.Username
		if username != user.Username {
			other, err := s.repo.User.FindByUsername(ctx, username)
			if err != nil {
				return nil, fmt.Errorf("check username: %w", err)
			}
			if other != nil && other.ID != user.ID {
				return nil, conflict("username already taken")
			}
			user.Username = username
		}
	}

	if req.Email != nil {
		email := *req.Email
		if email != user.Email {
			other, err := s.repo.User.FindByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if other != nil && other.ID != user.ID {
				return nil, conflict("email already registered")
			}
			user.Email = email
		}
	}

	if req.Description != nil {
		user.Description = *req.Description
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.User.UpdateDetails(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, conflict("username or email already taken")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("user not found")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info("User details updated", zap.String("user_id", user.ID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfileImage(ctx context.Context, callerID uuid.UUID, upload *request.FileUpload) (*response.ProfileImageResponse, error) {
	if upload == nil || upload.File == nil {
		return nil, badRequest("no file uploaded")
	}

	user, err := s.repo.User.FindByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, notFound("user not found")
	}

	mime, body, err := sniffUpload(upload)
	if err != nil {
		return nil, err
	}
	if !isMediaKind(mime, "image") {
		s.log.Warn("Rejected profile image",
			zap.String("user_id", callerID.String()),
			zap.String("mime", mime.String()))
		return nil, badRequest("profile image must be an image, got %s", mime.String())
	}

	key := fmt.Sprintf("user_profiles/profile_%s%s", callerID, mime.Extension())
	url, err := s.media.Put(ctx, key, body, upload.Size, mime.String())
	if err != nil {
		return nil, fmt.Errorf("store profile image: %w", err)
	}

	if err := s.repo.User.UpdateProfileImage(ctx, callerID, url); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("user not found")
		}
		return nil, fmt.Errorf("save profile image: %w", err)
	}

	s.log.Info("Profile image updated", zap.String("user_id", callerID.String()), zap.String("url", url))

	return &response.ProfileImageResponse{ProfileImageURL: url}, nil
}

func (s *userService) ToggleConnection(ctx context.Context, callerID uuid.UUID, req *request.ToggleConnectionRequest) (*response.ConnectionResponse, error) {
	targetID, err := uuid.Parse(strings.TrimSpace(req.ConnectingID))
	if err != nil {
		return nil, badRequest("invalid connectingId %q", req.ConnectingID)
	}
	if targetID == callerID {
		return nil, badRequest("cannot connect to yourself")
	}

	connected, err := s.repo.User.ToggleConnection(ctx, callerID, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("user not found")
		}
		return nil, fmt.Errorf("toggle connection: %w", err)
	}

	s.log.Info("Connection toggled",
		zap.String("user_id", callerID.String()),
		zap.String("target_id", targetID.String()),
		zap.Bool("connected", connected))

	return &response.ConnectionResponse{
		Connected:    connected,
		ConnectingID: targetID.String(),
	}, nil
}

func (s *userService) GetFeed(ctx context.Context, userID string, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, badRequest("invalid user ID format %q", userID)
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, notFound("user %s not found", userID)
	}

	req = req.Normalize(DefaultFeedLimit)
	authors := user.FeedAuthors()
	if len(authors) == 0 {
		return response.NewPaginatedResponse([]response.ReviewResponse{}, req.Page, req.PerPage, 0), nil
	}

	filter := repository.ReviewFilter{AuthorIDs: authors}
	reviews, err := s.repo.Review.List(ctx, filter, req.PerPage, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}

	total, err := s.repo.Review.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count feed: %w", err)
	}

	s.log.Debug("Feed assembled",
		zap.String("user_id", userID),
		zap.Int("authors", len(authors)),
		zap.Int("count", len(reviews)),
		zap.Int64("total", total))

	return response.NewPaginatedResponse(response.ReviewsToResponse(reviews), req.Page, req.PerPage, total), nil
}

func (s *userService) DeleteAccount(ctx context.Context, callerID uuid.UUID) error {
	if err := s.repo.User.Delete(ctx, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("user not found")
		}
		return fmt.Errorf("delete account: %w", err)
	}

	s.log.Info("Account deleted", zap.String("user_id", callerID.String()))
	return nil
}
