package repository

import (
	"context"
	"fmt"
	"time"

	"movie-social/internal/data/entity"
	"movie-social/pkg/database"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection   = "users"
	reviewsCollection = "reviews"
	videosCollection  = "videos"
)

type mongoStore struct {
	db           *database.MongoDB
	transactions bool
}

func newMongoStore(db *database.MongoDB, transactions bool) *mongoStore {
	return &mongoStore{db: db, transactions: transactions}
}

func (m *mongoStore) users() *mongo.Collection   { return m.db.Collection(usersCollection) }
func (m *mongoStore) reviews() *mongo.Collection { return m.db.Collection(reviewsCollection) }
func (m *mongoStore) videos() *mongo.Collection  { return m.db.Collection(videosCollection) }

// withTx runs fn inside a multi-document transaction. Standalone servers do not
// support transactions; with transactions disabled fn runs as sequential writes.
func (m *mongoStore) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.transactions {
		return fn(ctx)
	}

	session, err := m.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

// EnsureMongoIndexes creates the unique and ordering indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *database.MongoDB) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "movieTitle", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		},
		videosCollection: {
			{Keys: bson.D{{Key: "uploaderId", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

type userDoc struct {
	ID              string    `bson:"_id"`
	Username        string    `bson:"username"`
	Email           string    `bson:"email"`
	Password        string    `bson:"password"`
	ProfileImageURL string    `bson:"profileImageUrl"`
	Description     string    `bson:"description"`
	Reviews         []string  `bson:"reviews"`
	ConnectedTo     []string  `bson:"connectedTo"`
	MyConnections   []string  `bson:"myConnections"`
	Videos          []string  `bson:"videos"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

type reviewDoc struct {
	ID           string    `bson:"_id"`
	AuthorID     string    `bson:"authorId"`
	AuthorName   string    `bson:"authorName"`
	ProfileImage string    `bson:"profileImage"`
	MovieTitle   string    `bson:"movieTitle"`
	ReviewText   string    `bson:"reviewText"`
	Rating       int       `bson:"rating"`
	Tags         []string  `bson:"tags"`
	Likes        []string  `bson:"likes"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type videoDoc struct {
	ID               string                `bson:"_id"`
	UploaderID       string                `bson:"uploaderId"`
	UploaderUsername string                `bson:"uploaderUsername"`
	Title            string                `bson:"title"`
	VideoURL         string                `bson:"videoUrl"`
	ThumbnailURL     string                `bson:"thumbnailUrl"`
	Tags             []string              `bson:"tags"`
	Likes            int64                 `bson:"likes"`
	Views            int64                 `bson:"views"`
	Comments         []entity.VideoComment `bson:"comments"`
	CreatedAt        time.Time             `bson:"createdAt"`
	UpdatedAt        time.Time             `bson:"updatedAt"`
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse stored id %q: %w", raw, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func newUserDoc(u *entity.User) userDoc {
	return userDoc{
		ID:              u.ID.String(),
		Username:        u.Username,
		Email:           u.Email,
		Password:        u.PasswordHash,
		ProfileImageURL: u.ProfileImageURL,
		Description:     u.Description,
		Reviews:         idStrings(u.Reviews),
		ConnectedTo:     idStrings(u.ConnectedTo),
		MyConnections:   idStrings(u.MyConnections),
		Videos:          idStrings(u.Videos),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (d userDoc) entity() (*entity.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse user id %q: %w", d.ID, err)
	}
	user := &entity.User{
		Base:            entity.Base{ID: id, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		Username:        d.Username,
		Email:           d.Email,
		PasswordHash:    d.Password,
		ProfileImageURL: d.ProfileImageURL,
		Description:     d.Description,
	}
	if user.Reviews, err = parseIDs(d.Reviews); err != nil {
		return nil, err
	}
	if user.ConnectedTo, err = parseIDs(d.ConnectedTo); err != nil {
		return nil, err
	}
	if user.MyConnections, err = parseIDs(d.MyConnections); err != nil {
		return nil, err
	}
	if user.Videos, err = parseIDs(d.Videos); err != nil {
		return nil, err
	}
	return user, nil
}

func newReviewDoc(r *entity.Review) reviewDoc {
	return reviewDoc{
		ID:           r.ID.String(),
		AuthorID:     r.AuthorID.String(),
		AuthorName:   r.AuthorName,
		ProfileImage: r.ProfileImage,
		MovieTitle:   r.MovieTitle,
		ReviewText:   r.ReviewText,
		Rating:       r.Rating,
		Tags:         nonNilTags(r.Tags),
		Likes:        idStrings(r.Likes),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (d reviewDoc) entity() (*entity.Review, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse review id %q: %w", d.ID, err)
	}
	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("parse author id %q: %w", d.AuthorID, err)
	}
	likes, err := parseIDs(d.Likes)
	if err != nil {
		return nil, err
	}
	return &entity.Review{
		Base:         entity.Base{ID: id, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		AuthorID:     authorID,
		AuthorName:   d.AuthorName,
		ProfileImage: d.ProfileImage,
		MovieTitle:   d.MovieTitle,
		ReviewText:   d.ReviewText,
		Rating:       d.Rating,
		Tags:         nonNilTags(d.Tags),
		Likes:        likes,
	}, nil
}

func newVideoDoc(v *entity.Video) videoDoc {
	comments := v.Comments
	if comments == nil {
		comments = []entity.VideoComment{}
	}
	return videoDoc{
		ID:               v.ID.String(),
		UploaderID:       v.UploaderID.String(),
		UploaderUsername: v.UploaderUsername,
		Title:            v.Title,
		VideoURL:         v.VideoURL,
		ThumbnailURL:     v.ThumbnailURL,
		Tags:             nonNilTags(v.Tags),
		Likes:            v.Likes,
		Views:            v.Views,
		Comments:         comments,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func (d videoDoc) entity() (*entity.Video, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse video id %q: %w", d.ID, err)
	}
	uploaderID, err := uuid.Parse(d.UploaderID)
	if err != nil {
		return nil, fmt.Errorf("parse uploader id %q: %w", d.UploaderID, err)
	}
	comments := d.Comments
	if comments == nil {
		comments = []entity.VideoComment{}
	}
	return &entity.Video{
		Base:             entity.Base{ID: id, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		UploaderID:       uploaderID,
		UploaderUsername: d.UploaderUsername,
		Title:            d.Title,
		VideoURL:         d.VideoURL,
		ThumbnailURL:     d.ThumbnailURL,
		Tags:             nonNilTags(d.Tags),
		Likes:            d.Likes,
		Views:            d.Views,
		Comments:         comments,
	}, nil
}
