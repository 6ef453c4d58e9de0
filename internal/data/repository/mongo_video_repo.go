package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-social/internal/data/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type mongoVideoRepository struct {
	store *mongoStore
	log   *zap.Logger
}

func newMongoVideoRepository(store *mongoStore, log *zap.Logger) VideoRepository {
	return &mongoVideoRepository{
		store: store,
		log:   log.With(zap.String("repository", "video"), zap.String("driver", "mongo")),
	}
}

func (r *mongoVideoRepository) Create(ctx context.Context, video *entity.Video) error {
	err := r.store.withTx(ctx, func(ctx context.Context) error {
		if _, err := r.store.videos().InsertOne(ctx, newVideoDoc(video)); err != nil {
			return err
		}
		result, err := r.store.users().UpdateByID(ctx, video.UploaderID.String(), bson.M{
			"$push": bson.M{"videos": video.ID.String()},
			"$set":  bson.M{"updatedAt": video.UpdatedAt},
		})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("create video: uploader %s: %w", video.UploaderID, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to create video", zap.Error(err), zap.String("uploader_id", video.UploaderID.String()))
		return fmt.Errorf("create video %s: %w", video.ID, err)
	}
	return nil
}

func (r *mongoVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Video, error) {
	var doc videoDoc
	err := r.store.videos().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find video by ID", zap.Error(err), zap.String("video_id", id.String()))
		return nil, fmt.Errorf("find video by ID %s: %w", id, err)
	}
	return doc.entity()
}

func (r *mongoVideoRepository) Random(ctx context.Context, n int) ([]*entity.Video, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
	}

	cursor, err := r.store.videos().Aggregate(ctx, pipeline)
	if err != nil {
		r.log.Error("Failed to sample videos", zap.Error(err))
		return nil, fmt.Errorf("sample videos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []videoDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}

	videos := make([]*entity.Video, 0, len(docs))
	for _, doc := range docs {
		video, err := doc.entity()
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, nil
}
