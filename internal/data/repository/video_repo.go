package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-social/internal/data/entity"
	"movie-social/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VideoRepository interface {
	// Create inserts the video and appends its id to the uploader's video list atomically.
	Create(ctx context.Context, video *entity.Video) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Video, error)
	Random(ctx context.Context, n int) ([]*entity.Video, error)
}

type videoRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVideoRepository(db database.PgxIface, log *zap.Logger) VideoRepository {
	return &videoRepository{
		db:  db,
		log: log.With(zap.String("repository", "video")),
	}
}

const videoColumns = `id, uploader_id, uploader_username, title, video_url, thumbnail_url,
	tags, likes, views, comments, created_at, updated_at`

func scanVideo(row pgx.Row) (*entity.Video, error) {
	var video entity.Video
	err := row.Scan(
		&video.ID,
		&video.UploaderID,
		&video.UploaderUsername,
		&video.Title,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Tags,
		&video.Likes,
		&video.Views,
		&video.Comments,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) Create(ctx context.Context, video *entity.Video) error {
	comments := video.Comments
	if comments == nil {
		comments = []entity.VideoComment{}
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO videos (id, uploader_id, uploader_username, title, video_url, thumbnail_url,
			                    tags, likes, views, comments, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			video.ID,
			video.UploaderID,
			video.UploaderUsername,
			video.Title,
			video.VideoURL,
			video.ThumbnailURL,
			nonNilTags(video.Tags),
			video.Likes,
			video.Views,
			comments,
			video.CreatedAt,
			video.UpdatedAt,
		)
		if err != nil {
			return err
		}

		result, err := tx.Exec(ctx,
			`UPDATE users SET videos = array_append(videos, $2), updated_at = NOW() WHERE id = $1`,
			video.UploaderID, video.ID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("create video: uploader %s: %w", video.UploaderID, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to create video",
			zap.Error(err),
			zap.String("uploader_id", video.UploaderID.String()),
		)
		return fmt.Errorf("create video %s: %w", video.ID, err)
	}

	return nil
}

func (r *videoRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find video by ID", zap.Error(err), zap.String("video_id", id.String()))
		return nil, fmt.Errorf("find video by ID %s: %w", id, err)
	}

	return video, nil
}

func (r *videoRepository) Random(ctx context.Context, n int) ([]*entity.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY random() LIMIT $1`

	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		r.log.Error("Failed to sample videos", zap.Error(err))
		return nil, fmt.Errorf("sample videos: %w", err)
	}
	defer rows.Close()

	videos := []*entity.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video rows: %w", err)
	}

	return videos, nil
}
