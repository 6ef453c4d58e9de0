package entity

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	Base
	UploaderID       uuid.UUID      `db:"uploader_id"`
	UploaderUsername string         `db:"uploader_username"`
	Title            string         `db:"title"`
	VideoURL         string         `db:"video_url"`
	ThumbnailURL     string         `db:"thumbnail_url"`
	Tags             []string       `db:"tags"`
	Likes            int64          `db:"likes"`
	Views            int64          `db:"views"`
	Comments         []VideoComment `db:"comments"`
}

type VideoComment struct {
	UserID      uuid.UUID `json:"userId" bson:"userId"`
	Username    string    `json:"username" bson:"username"`
	Comment     string    `json:"comment" bson:"comment"`
	CommentDate time.Time `json:"commentDate" bson:"commentDate"`
}
