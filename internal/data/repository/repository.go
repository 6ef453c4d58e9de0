package repository

import (
	"errors"

	"movie-social/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by mutations whose target row/document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

type Repository struct {
	User   UserRepository
	Review ReviewRepository
	Video  VideoRepository
}

// ReviewFilter narrows review listings. A nil AuthorIDs matches every author.
type ReviewFilter struct {
	AuthorIDs []uuid.UUID
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:   NewUserRepository(db, log),
		Review: NewReviewRepository(db, log),
		Video:  NewVideoRepository(db, log),
	}
}

func NewMongoRepository(db *database.MongoDB, transactions bool, log *zap.Logger) *Repository {
	store := newMongoStore(db, transactions)
	return &Repository{
		User:   newMongoUserRepository(store, log),
		Review: newMongoReviewRepository(store, log),
		Video:  newMongoVideoRepository(store, log),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
