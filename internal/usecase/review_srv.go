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
)

type ReviewService interface {
	// CreateOrUpdate upserts the caller's review for a movie title. created is
	// false when an existing review was overwritten.
	CreateOrUpdate(ctx context.Context, authorID uuid.UUID, req *request.CreateReviewRequest) (review *response.ReviewResponse, created bool, err error)
	List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	ListUserPosts(ctx context.Context, req *request.UserPostsRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	// GetByID reports isLiked for viewerID; an empty viewerID is never liked.
	GetByID(ctx context.Context, reviewID, viewerID string) (*response.ReviewResponse, error)
	// ToggleLike flips a like. callerID is uuid.Nil for anonymous requests.
	ToggleLike(ctx context.Context, req *request.ToggleLikeRequest, callerID uuid.UUID) (*response.ToggleLikeResponse, error)
	Update(ctx context.Context, reviewID string, callerID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	Delete(ctx context.Context, reviewID string, callerID uuid.UUID) error
}

type reviewService struct {
	repo             *repository.Repository
	likeRequiresAuth bool
	log              *zap.Logger
}

func NewReviewService(repo *repository.Repository, likeRequiresAuth bool, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:             repo,
		likeRequiresAuth: likeRequiresAuth,
		log:              log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateOrUpdate(ctx context.Context, authorID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, bool, error) {
	req.MovieTitle = strings.TrimSpace(req.MovieTitle)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, false, badRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	author, err := s.repo.User.FindByID(ctx, authorID)
	if err != nil {
		return nil, false, fmt.Errorf("get author: %w", err)
	}
	if author == nil {
		return nil, false, notFound("user not found")
	}

	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, authorID, req.MovieTitle)
	if err != nil {
		return nil, false, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		resp, err := s.overwrite(ctx, existing, author.Username, author.ProfileImageURL, req)
		return resp, false, err
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		AuthorID:     authorID,
		AuthorName:   author.Username,
		ProfileImage: author.ProfileImageURL,
		MovieTitle:   req.MovieTitle,
		ReviewText:   req.ReviewText,
		Rating:       req.Rating,
		Tags:         req.Tags,
		Likes:        []uuid.UUID{},
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, false, fmt.Errorf("create review: %w", err)
		}

		// a concurrent submission for the same title won the insert; fold into it
		existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, authorID, req.MovieTitle)
		if err != nil {
			return nil, false, fmt.Errorf("reload review: %w", err)
		}
		if existing == nil {
			return nil, false, fmt.Errorf("reload review: %w", repository.ErrNotFound)
		}
		resp, err := s.overwrite(ctx, existing, author.Username, author.ProfileImageURL, req)
		return resp, false, err
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("author_id", authorID.String()),
		zap.String("movie_title", review.MovieTitle),
		zap.Int("rating", review.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, true, nil
}

func (s *reviewService) overwrite(ctx context.Context, review *entity.Review, authorName, profileImage string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	review.ReviewText = req.ReviewText
	review.Rating = req.Rating
	review.Tags = req.Tags
	review.AuthorName = authorName
	review.ProfileImage = profileImage
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review overwritten",
		zap.String("review_id", review.ID.String()),
		zap.String("author_id", review.AuthorID.String()),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	return s.list(ctx, repository.ReviewFilter{}, req)
}

func (s *reviewService) ListUserPosts(ctx context.Context, req *request.UserPostsRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	authorID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, badRequest("invalid userId %q", req.UserID)
	}

	return s.list(ctx, repository.ReviewFilter{AuthorIDs: []uuid.UUID{authorID}}, req.PaginatedRequest)
}

func (s *reviewService) list(ctx context.Context, filter repository.ReviewFilter, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	req = req.Normalize(request.DefaultPerPage)

	reviews, err := s.repo.Review.List(ctx, filter, req.PerPage, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	total, err := s.repo.Review.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	return response.NewPaginatedResponse(response.ReviewsToResponse(reviews), req.Page, req.PerPage, total), nil
}

func (s *reviewService) GetByID(ctx context.Context, reviewID, viewerID string) (*response.ReviewResponse, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, badRequest("invalid review ID format %q", reviewID)
	}

	viewer := uuid.Nil
	if viewerID != "" {
		if viewer, err = uuid.Parse(viewerID); err != nil {
			return nil, badRequest("invalid userId %q", viewerID)
		}
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review == nil {
		return nil, notFound("review %s not found", reviewID)
	}

	resp := response.ReviewToResponse(review)
	liked := viewer != uuid.Nil && review.LikedBy(viewer)
	resp.IsLiked = &liked
	return &resp, nil
}

func (s *reviewService) ToggleLike(ctx context.Context, req *request.ToggleLikeRequest, callerID uuid.UUID) (*response.ToggleLikeResponse, error) {
	reviewID, err := uuid.Parse(strings.TrimSpace(req.ReviewID))
	if err != nil {
		return nil, badRequest("invalid reviewId %q", req.ReviewID)
	}

	userID, err := s.likeActor(req.UserID, callerID)
	if err != nil {
		return nil, err
	}

	liked, total, err := s.repo.Review.ToggleLike(ctx, reviewID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("review %s not found", req.ReviewID)
		}
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	s.log.Info("Like toggled",
		zap.String("review_id", reviewID.String()),
		zap.String("user_id", userID.String()),
		zap.Bool("liked", liked),
		zap.Bool("authenticated", callerID != uuid.Nil),
	)

	return &response.ToggleLikeResponse{
		ReviewID:   reviewID.String(),
		TotalLikes: total,
		Liked:      liked,
	}, nil
}

// likeActor resolves whose like is toggled. With likeRequiresAuth only the token
// identity counts; otherwise the body userId is trusted, falling back to the token.
func (s *reviewService) likeActor(bodyUserID string, callerID uuid.UUID) (uuid.UUID, error) {
	bodyUserID = strings.TrimSpace(bodyUserID)

	if s.likeRequiresAuth {
		if callerID == uuid.Nil {
			return uuid.Nil, newError(ErrUnauthorized, "authentication required")
		}
		if bodyUserID != "" && bodyUserID != callerID.String() {
			return uuid.Nil, newError(ErrForbidden, "cannot like on behalf of another user")
		}
		return callerID, nil
	}

	if bodyUserID == "" {
		if callerID != uuid.Nil {
			return callerID, nil
		}
		return uuid.Nil, badRequest("userId is required")
	}

	userID, err := uuid.Parse(bodyUserID)
	if err != nil {
		return uuid.Nil, badRequest("invalid userId %q", bodyUserID)
	}
	return userID, nil
}

// ownedReview loads a review for mutation. A review owned by someone else is
// reported exactly like a missing one.
func (s *reviewService) ownedReview(ctx context.Context, reviewID string, callerID uuid.UUID) (*entity.Review, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, badRequest("invalid review ID format %q", reviewID)
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review == nil || review.AuthorID != callerID {
		if review != nil {
			s.log.Warn("Review mutation by non-author",
				zap.String("review_id", reviewID),
				zap.String("caller_id", callerID.String()))
		}
		return nil, notFound("review %s not found", reviewID)
	}

	return review, nil
}

func (s *reviewService) Update(ctx context.Context, reviewID string, callerID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, badRequest("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	review, err := s.ownedReview(ctx, reviewID, callerID)
	if err != nil {
		return nil, err
	}

	if req.MovieTitle != nil {
		title := strings.TrimSpace(*req.MovieTitle)
		if title == "" {
			return nil, badRequest("movieTitle cannot be empty")
		}
		review.MovieTitle = title
	}
	if req.ReviewText != nil {
		review.ReviewText = *req.ReviewText
	}
	if req.Rating != nil {
		if !entity.ValidRating(*req.Rating) {
			return nil, badRequest("rating must be between %d and %d", entity.MinRating, entity.MaxRating)
		}
		review.Rating = *req.Rating
	}
	if req.Tags != nil {
		review.Tags = *req.Tags
	}

	// refresh the author snapshot on every write
	author, err := s.repo.User.FindByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	if author != nil {
		review.AuthorName = author.Username
		review.ProfileImage = author.ProfileImageURL
	}
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, conflict("you already reviewed %q", review.MovieTitle)
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("review %s not found", reviewID)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.String("author_id", callerID.String()),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, reviewID string, callerID uuid.UUID) error {
	review, err := s.ownedReview(ctx, reviewID, callerID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("review %s not found", reviewID)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("author_id", callerID.String()),
	)

	return nil
}
