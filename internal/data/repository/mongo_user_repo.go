package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-social/internal/data/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoUserRepository struct {
	store *mongoStore
	log   *zap.Logger
}

func newMongoUserRepository(store *mongoStore, log *zap.Logger) UserRepository {
	return &mongoUserRepository{
		store: store,
		log:   log.With(zap.String("repository", "user"), zap.String("driver", "mongo")),
	}
}

func (ur *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := ur.store.users().InsertOne(ctx, newUserDoc(user))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return nil
}

func (ur *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDoc
	err := ur.store.users().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user", zap.Error(err), zap.Any("filter", filter))
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.entity()
}

func (ur *mongoUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return ur.findOne(ctx, bson.M{"_id": id.String()})
}

func (ur *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return ur.findOne(ctx, bson.M{"email": email})
}

func (ur *mongoUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return ur.findOne(ctx, bson.M{"username": username})
}

func (ur *mongoUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	cursor, err := ur.store.users().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		ur.log.Error("Failed to get all users", zap.Error(err))
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*entity.User, 0, len(docs))
	for _, doc := range docs {
		user, err := doc.entity()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (ur *mongoUserRepository) UpdateDetails(ctx context.Context, user *entity.User) error {
	result, err := ur.store.users().UpdateByID(ctx, user.ID.String(), bson.M{"$set": bson.M{
		"username":    user.Username,
		"email":       user.Email,
		"description": user.Description,
		"updatedAt":   user.UpdatedAt,
	}})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("update user %s: %w", user.ID, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update user %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

func (ur *mongoUserRepository) UpdateProfileImage(ctx context.Context, id uuid.UUID, url string) error {
	result, err := ur.store.users().UpdateByID(ctx, id.String(), bson.M{"$set": bson.M{
		"profileImageUrl": url,
		"updatedAt":       time.Now(),
	}})
	if err != nil {
		ur.log.Error("Failed to update profile image", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("update profile image %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update profile image %s: %w", id, ErrNotFound)
	}
	return nil
}

func (ur *mongoUserRepository) ToggleConnection(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	var connected bool

	err := ur.store.withTx(ctx, func(ctx context.Context) error {
		caller, err := ur.findOne(ctx, bson.M{"_id": userID.String()})
		if err != nil {
			return err
		}
		target, err := ur.findOne(ctx, bson.M{"_id": targetID.String()})
		if err != nil {
			return err
		}
		if caller == nil || target == nil {
			return ErrNotFound
		}

		op := "$addToSet"
		connected = true
		if caller.IsConnectedTo(targetID) {
			op = "$pull"
			connected = false
		}

		now := time.Now()
		if _, err := ur.store.users().UpdateByID(ctx, userID.String(), bson.M{
			op:     bson.M{"connectedTo": targetID.String()},
			"$set": bson.M{"updatedAt": now},
		}); err != nil {
			return err
		}
		_, err = ur.store.users().UpdateByID(ctx, targetID.String(), bson.M{
			op:     bson.M{"myConnections": userID.String()},
			"$set": bson.M{"updatedAt": now},
		})
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("toggle connection %s -> %s: %w", userID, targetID, ErrNotFound)
	}
	if err != nil {
		ur.log.Error("Failed to toggle connection",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("target_id", targetID.String()),
		)
		return false, fmt.Errorf("toggle connection %s -> %s: %w", userID, targetID, err)
	}

	return connected, nil
}

func (ur *mongoUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	key := id.String()

	err := ur.store.withTx(ctx, func(ctx context.Context) error {
		result, err := ur.store.users().DeleteOne(ctx, bson.M{"_id": key})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return ErrNotFound
		}

		if _, err := ur.store.reviews().DeleteMany(ctx, bson.M{"authorId": key}); err != nil {
			return err
		}
		if _, err := ur.store.videos().DeleteMany(ctx, bson.M{"uploaderId": key}); err != nil {
			return err
		}
		if _, err := ur.store.users().UpdateMany(ctx,
			bson.M{"$or": bson.A{bson.M{"connectedTo": key}, bson.M{"myConnections": key}}},
			bson.M{"$pull": bson.M{"connectedTo": key, "myConnections": key}},
		); err != nil {
			return err
		}
		_, err = ur.store.reviews().UpdateMany(ctx, bson.M{"likes": key}, bson.M{"$pull": bson.M{"likes": key}})
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", key))
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	ur.log.Info("User deleted", zap.String("user_id", key))
	return nil
}
