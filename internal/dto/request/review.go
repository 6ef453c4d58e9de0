package request

type CreateReviewRequest struct {
	MovieTitle string   `json:"movieTitle" validate:"required,max=200"`
	ReviewText string   `json:"reviewText" validate:"required,max=5000"`
	Rating     int      `json:"rating" validate:"required,min=1,max=10"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
}

// UpdateReviewRequest is a partial update; nil fields are left unchanged.
type UpdateReviewRequest struct {
	MovieTitle *string   `json:"movieTitle,omitempty" validate:"omitempty,min=1,max=200"`
	ReviewText *string   `json:"reviewText,omitempty" validate:"omitempty,min=1,max=5000"`
	Rating     *int      `json:"rating,omitempty" validate:"omitempty,min=1,max=10"`
	Tags       *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
}

type UserPostsRequest struct {
	PaginatedRequest
	UserID string `json:"userId" validate:"required"`
}

type ToggleLikeRequest struct {
	ReviewID string `json:"reviewId" validate:"required"`
	UserID   string `json:"userId"`
}
