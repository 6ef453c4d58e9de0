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

type ReviewRepository interface {
	// Create inserts the review and appends its id to the author's review list atomically.
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByAuthorAndTitle(ctx context.Context, authorID uuid.UUID, movieTitle string) (*entity.Review, error)
	// List returns reviews newest first.
	List(ctx context.Context, filter ReviewFilter, limit, offset int) ([]*entity.Review, error)
	Count(ctx context.Context, filter ReviewFilter) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	// Delete removes a review owned by authorID and unlinks it from the author.
	Delete(ctx context.Context, id, authorID uuid.UUID) error
	// ToggleLike adds or removes userID from the like set in a single write.
	ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (liked bool, total int, err error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, author_id, author_name, profile_image, movie_title, review_text,
	rating, tags, likes, created_at, updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.AuthorID,
		&review.AuthorName,
		&review.ProfileImage,
		&review.MovieTitle,
		&review.ReviewText,
		&review.Rating,
		&review.Tags,
		&review.Likes,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO reviews (id, author_id, author_name, profile_image, movie_title,
			                     review_text, rating, tags, likes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '{}', $9, $10)`,
			review.ID,
			review.AuthorID,
			review.AuthorName,
			review.ProfileImage,
			review.MovieTitle,
			review.ReviewText,
			review.Rating,
			nonNilTags(review.Tags),
			review.CreatedAt,
			review.UpdatedAt,
		)
		if err != nil {
			return err
		}

		result, err := tx.Exec(ctx,
			`UPDATE users SET reviews = array_append(reviews, $2), updated_at = NOW() WHERE id = $1`,
			review.AuthorID, review.ID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if isUniqueViolation(err) {
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

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID", zap.Error(err), zap.String("review_id", id.String()))
		return nil, fmt.Errorf("find review by ID %s: %w", id, err)
	}

	return review, nil
}

func (r *reviewRepository) FindByAuthorAndTitle(ctx context.Context, authorID uuid.UUID, movieTitle string) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE author_id = $1 AND movie_title = $2`

	review, err := scanReview(r.db.QueryRow(ctx, query, authorID, movieTitle))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by author and title",
			zap.Error(err),
			zap.String("author_id", authorID.String()),
			zap.String("movie_title", movieTitle),
		)
		return nil, fmt.Errorf("find review by author %s and title %q: %w", authorID, movieTitle, err)
	}

	return review, nil
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter, limit, offset int) ([]*entity.Review, error) {
	where, args := filter.sql()
	query := `SELECT ` + reviewColumns + ` FROM reviews` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list reviews",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*entity.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) Count(ctx context.Context, filter ReviewFilter) (int64, error) {
	where, args := filter.sql()

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`+where, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err))
		return 0, fmt.Errorf("count reviews: %w", err)
	}

	return count, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET movie_title = $2, review_text = $3, rating = $4, tags = $5,
		    author_name = $6, profile_image = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.MovieTitle,
		review.ReviewText,
		review.Rating,
		nonNilTags(review.Tags),
		review.AuthorName,
		review.ProfileImage,
		review.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("update review %s: %w", review.ID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", review.ID.String()))
		return fmt.Errorf("update review %s: %w", review.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update review %s: %w", review.ID, ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND author_id = $2`, id, authorID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET reviews = array_remove(reviews, $2), updated_at = NOW() WHERE id = $1`,
			authorID, id)
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

func (r *reviewRepository) ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (bool, int, error) {
	query := `
		UPDATE reviews
		SET likes = CASE WHEN $2 = ANY(likes) THEN array_remove(likes, $2)
		                 ELSE array_append(likes, $2) END
		WHERE id = $1
		RETURNING $2 = ANY(likes), cardinality(likes)
	`

	var liked bool
	var total int
	err := r.db.QueryRow(ctx, query, reviewID, userID).Scan(&liked, &total)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, 0, fmt.Errorf("toggle like on review %s: %w", reviewID, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to toggle like",
			zap.Error(err),
			zap.String("review_id", reviewID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, 0, fmt.Errorf("toggle like on review %s: %w", reviewID, err)
	}

	return liked, total, nil
}

func (f ReviewFilter) sql() (string, []any) {
	if f.AuthorIDs == nil {
		return "", nil
	}
	return ` WHERE author_id = ANY($1)`, []any{f.AuthorIDs}
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
