package response

import (
	"time"

	"movie-social/internal/data/entity"
)

type ReviewResponse struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	ProfileImage string    `json:"profileImage"`
	MovieTitle   string    `json:"movieTitle"`
	ReviewText   string    `json:"reviewText"`
	Rating       int       `json:"rating"`
	Tags         []string  `json:"tags"`
	Likes        []string  `json:"likes"`
	TotalLikes   int       `json:"totalLikes"`
	IsLiked      *bool     `json:"isLiked,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ToggleLikeResponse struct {
	ReviewID   string `json:"reviewId"`
	TotalLikes int    `json:"totalLikes"`
	Liked      bool   `json:"liked"`
}

func ReviewToResponse(review *entity.Review) ReviewResponse {
	tags := review.Tags
	if tags == nil {
		tags = []string{}
	}
	return ReviewResponse{
		ID:           review.ID.String(),
		AuthorID:     review.AuthorID.String(),
		AuthorName:   review.AuthorName,
		ProfileImage: review.ProfileImage,
		MovieTitle:   review.MovieTitle,
		ReviewText:   review.ReviewText,
		Rating:       review.Rating,
		Tags:         tags,
		Likes:        IDStrings(review.Likes),
		TotalLikes:   len(review.Likes),
		CreatedAt:    review.CreatedAt,
		UpdatedAt:    review.UpdatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i, review := range reviews {
		out[i] = ReviewToResponse(review)
	}
	return out
}
