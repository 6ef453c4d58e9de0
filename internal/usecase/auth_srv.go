package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-social/internal/data/entity"
	"movie-social/internal/data/repository"
	"movie-social/internal/dto/request"
	"movie-social/internal/dto/response"
	"movie-social/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens TokenIssuer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, badRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	existingUser, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, conflict("email already registered")
	}

	existingUser, err = s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existingUser != nil {
		return nil, conflict("username already taken")
	}

	hashedPassword, err := utils.HashPassword(req.Password, s.config.Security.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, badRequest("password must be at most 72 bytes")
	}
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Description:  entity.DefaultDescription,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration with the same email or username
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("email or username already registered")
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, badRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// both failure cases return the same message so callers cannot probe for accounts
	if user == nil {
		s.log.Warn("Login failed: unknown email", zap.String("email", req.Email))
		return nil, newError(ErrUnauthorized, "invalid credentials")
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login failed: wrong password", zap.String("user_id", user.ID.String()))
		return nil, newError(ErrUnauthorized, "invalid credentials")
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return s.issue(user)
}

func (s *authService) issue(user *entity.User) (*response.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &response.AuthResponse{
		Token:     token,
		UserID:    user.ID.String(),
		Username:  user.Username,
		ExpiresAt: expiresAt,
	}, nil
}
