package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-social/internal/data/entity"
	"movie-social/internal/data/repository"
	"movie-social/internal/dto/request"
	"movie-social/internal/dto/response"
	"movie-social/pkg/storage"
	"movie-social/pkg/utils"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

const randomVideoCount = 10

type VideoService interface {
	Upload(ctx context.Context, uploaderID uuid.UUID, req *request.UploadVideoRequest, video, thumbnail *request.FileUpload) (*response.VideoResponse, error)
	Random(ctx context.Context) ([]response.VideoResponse, error)
	GetByID(ctx context.Context, videoID string) (*response.VideoResponse, error)
}

type videoService struct {
	repo  *repository.Repository
	media storage.MediaStore
	log   *zap.Logger
}

func NewVideoService(repo *repository.Repository, media storage.MediaStore, log *zap.Logger) VideoService {
	return &videoService{
		repo:  repo,
		media: media,
		log:   log.With(zap.String("service", "video")),
	}
}

func (s *videoService) Upload(ctx context.Context, uploaderID uuid.UUID, req *request.UploadVideoRequest, video, thumbnail *request.FileUpload) (*response.VideoResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, badRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	if video == nil || video.File == nil || thumbnail == nil || thumbnail.File == nil {
		return nil, badRequest("both video and thumbnail files are required")
	}

	uploader, err := s.repo.User.FindByID(ctx, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("get uploader: %w", err)
	}
	if uploader == nil {
		return nil, notFound("user not found")
	}

	videoURL, err := s.store(ctx, "videos", "video", video)
	if err != nil {
		return nil, err
	}
	thumbnailURL, err := s.store(ctx, "thumbnails", "image", thumbnail)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	v := &entity.Video{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UploaderID:       uploaderID,
		UploaderUsername: uploader.Username,
		Title:            req.Title,
		VideoURL:         videoURL,
		ThumbnailURL:     thumbnailURL,
		Tags:             req.Tags,
		Comments:         []entity.VideoComment{},
	}

	if err := s.repo.Video.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	s.log.Info("Video uploaded",
		zap.String("video_id", v.ID.String()),
		zap.String("uploader_id", uploaderID.String()),
	)

	resp := response.VideoToResponse(v)
	return &resp, nil
}

// store sniffs upload, requires the given media kind and writes it under a fresh key in folder.
func (s *videoService) store(ctx context.Context, folder, kind string, upload *request.FileUpload) (string, error) {
	mime, body, err := sniffUpload(upload)
	if err != nil {
		return "", err
	}
	if !isMediaKind(mime, kind) {
		return "", badRequest("%s must be a %s file, got %s", upload.Filename, kind, mime.String())
	}

	key := fmt.Sprintf("%s/%s%s", folder, ksuid.New().String(), mime.Extension())
	url, err := s.media.Put(ctx, key, body, upload.Size, mime.String())
	if err != nil {
		return "", fmt.Errorf("store %s: %w", kind, err)
	}
	return url, nil
}

func (s *videoService) Random(ctx context.Context) ([]response.VideoResponse, error) {
	videos, err := s.repo.Video.Random(ctx, randomVideoCount)
	if err != nil {
		return nil, fmt.Errorf("sample videos: %w", err)
	}
	if len(videos) == 0 {
		return nil, notFound("no videos found")
	}

	out := make([]response.VideoResponse, len(videos))
	for i, v := range videos {
		out[i] = response.VideoToResponse(v)
	}
	return out, nil
}

func (s *videoService) GetByID(ctx context.Context, videoID string) (*response.VideoResponse, error) {
	id, err := uuid.Parse(videoID)
	if err != nil {
		return nil, badRequest("invalid video ID format %q", videoID)
	}

	v, err := s.repo.Video.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	if v == nil {
		return nil, notFound("video %s not found", videoID)
	}

	resp := response.VideoToResponse(v)
	return &resp, nil
}
