package usecase

import (
	"movie-social/internal/data/repository"
	"movie-social/pkg/storage"
	"movie-social/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	User   UserService
	Review ReviewService
	Video  VideoService
}

func NewService(
	repo *repository.Repository,
	media storage.MediaStore,
	tokens TokenIssuer,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:   NewAuthService(repo.User, tokens, config, log),
		User:   NewUserService(repo, media, config.App.BaseURL, log),
		Review: NewReviewService(repo, config.Security.LikeRequiresAuth, log),
		Video:  NewVideoService(repo, media, log),
	}
}
