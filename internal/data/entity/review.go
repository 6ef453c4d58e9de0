package entity

import (
	"slices"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 10
)

type Review struct {
	Base
	AuthorID uuid.UUID `db:"author_id"`
	// AuthorName and ProfileImage are a snapshot of the author taken on every write.
	AuthorName   string      `db:"author_name"`
	ProfileImage string      `db:"profile_image"`
	MovieTitle   string      `db:"movie_title"`
	ReviewText   string      `db:"review_text"`
	Rating       int         `db:"rating"` // 1-10
	Tags         []string    `db:"tags"`
	Likes        []uuid.UUID `db:"likes"`
}

func (r *Review) LikedBy(userID uuid.UUID) bool {
	return slices.Contains(r.Likes, userID)
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
