package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"movie-social/internal/data/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoReviewRepository struct {
	store *mongoStore
	log   *zap.Logger
}

func newMongoReviewRepository(store *mongoStore, log *zap.Logger) ReviewRepository {
	return &mongoReviewRepository{
		store: store,
		log:   log.With(zap.String("repository", "review"), zap.String("driver", "mongo")),
	}
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	err := r.store.withTx(ctx, func(ctx context.Context) error {
		if _, err := r.store.reviews().InsertOne(ctx, newReviewDoc(review)); err != nil {
			return err
		}
		result, err := r.store.users().UpdateByID(ctx, review.AuthorID.String(), bson.M{
			"$push": bson.M{"reviews": review.ID.String()},
			"$set":  bson.M{"updatedAt": review.UpdatedAt},
		})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("create review %q by %s: %w", review.MovieTitle, review.AuthorID, ErrDuplicate)
	}
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("create review: author %s: %w", review.AuthorID, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("author_id", review.AuthorID.String()),
			zap.String("movie_title", review.MovieTitle),
		)
		return fmt.Errorf("create review %q by %s: %w", review.MovieTitle, review.AuthorID, err)
	}
	return nil
}

func (r *mongoReviewRepository) findOne(ctx context.Context, filter bson.M) (*entity.Review, error) {
	var doc reviewDoc
	err := r.store.reviews().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review", zap.Error(err), zap.Any("filter", filter))
		return nil, fmt.Errorf("find review: %w", err)
	}
	return doc.entity()
}

func (r *mongoReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoReviewRepository) FindByAuthorAndTitle(ctx context.Context, authorID uuid.UUID, movieTitle string) (*entity.Review, error) {
	return r.findOne(ctx, bson.M{"authorId": authorID.String(), "movieTitle": movieTitle})
}

func (f ReviewFilter) mongoFilter() bson.M {
	if f.AuthorIDs == nil {
		return bson.M{}
	}
	return bson.M{"authorId": bson.M{"$in": idStrings(f.AuthorIDs)}}
}

func (r *mongoReviewRepository) List(ctx context.Context, filter ReviewFilter, limit, offset int) ([]*entity.Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.store.reviews().Find(ctx, filter.mongoFilter(), opts)
	if err != nil {
		r.log.Error("Failed to list reviews", zap.Error(err))
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []reviewDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	reviews := make([]*entity.Review, 0, len(docs))
	for _, doc := range docs {
		review, err := doc.entity()
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (r *mongoReviewRepository) Count(ctx context.Context, filter ReviewFilter) (int64, error) {
	count, err := r.store.reviews().CountDocuments(ctx, filter.mongoFilter())
	if err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err))
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

func (r *mongoReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	result, err := r.store.reviews().UpdateByID(ctx, review.ID.String(), bson.M{"$set": bson.M{
		"movieTitle":   review.MovieTitle,
		"reviewText":   review.ReviewText,
		"rating":       review.Rating,
		"tags":         nonNilTags(review.Tags),
		"authorName":   review.AuthorName,
		"profileImage": review.ProfileImage,
		"updatedAt":    review.UpdatedAt,
	}})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("update review %s: %w", review.ID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", review.ID.String()))
		return fmt.Errorf("update review %s: %w", review.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update review %s: %w", review.ID, ErrNotFound)
	}
	return nil
}

func (r *mongoReviewRepository) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	err := r.store.withTx(ctx, func(ctx context.Context) error {
		result, err := r.store.reviews().DeleteOne(ctx, bson.M{"_id": id.String(), "authorId": authorID.String()})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return ErrNotFound
		}
		_, err = r.store.users().UpdateByID(ctx, authorID.String(), bson.M{
			"$pull": bson.M{"reviews": id.String()},
		})
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete review %s: %w", id, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", id.String()))
		return fmt.Errorf("delete review %s: %w", id, err)
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}

func (r *mongoReviewRepository) ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (bool, int, error) {
	uid := userID.String()
	// single pipeline update: drop uid when present, append it otherwise
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"likes": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{uid, bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}}},
				bson.M{"$filter": bson.M{
					"input": "$likes",
					"cond":  bson.M{"$ne": bson.A{"$$this", uid}},
				}},
				bson.M{"$concatArrays": bson.A{bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}, bson.A{uid}}},
			}},
		}}},
	}

	var doc reviewDoc
	err := r.store.reviews().FindOneAndUpdate(ctx,
		bson.M{"_id": reviewID.String()},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, 0, fmt.Errorf("toggle like on review %s: %w", reviewID, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to toggle like",
			zap.Error(err),
			zap.String("review_id", reviewID.String()),
			zap.String("user_id", uid),
		)
		return false, 0, fmt.Errorf("toggle like on review %s: %w", reviewID, err)
	}

	return slices.Contains(doc.Likes, uid), len(doc.Likes), nil
}
