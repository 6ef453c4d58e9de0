package response

import (
	"time"

	"movie-social/internal/data/entity"
)

type VideoResponse struct {
	ID               string                `json:"id"`
	Title            string                `json:"title"`
	UploaderID       string                `json:"uploaderId"`
	UploaderUsername string                `json:"uploaderUsername"`
	VideoURL         string                `json:"videoUrl"`
	ThumbnailURL     string                `json:"thumbnailUrl"`
	Tags             []string              `json:"tags"`
	Likes            int64                 `json:"likes"`
	Views            int64                 `json:"views"`
	Comments         []entity.VideoComment `json:"comments"`
	UploadDate       time.Time             `json:"uploadDate"`
}

func VideoToResponse(video *entity.Video) VideoResponse {
	tags := video.Tags
	if tags == nil {
		tags = []string{}
	}
	comments := video.Comments
	if comments == nil {
		comments = []entity.VideoComment{}
	}
	return VideoResponse{
		ID:               video.ID.String(),
		Title:            video.Title,
		UploaderID:       video.UploaderID.String(),
		UploaderUsername: video.UploaderUsername,
		VideoURL:         video.VideoURL,
		ThumbnailURL:     video.ThumbnailURL,
		Tags:             tags,
		Likes:            video.Likes,
		Views:            video.Views,
		Comments:         comments,
		UploadDate:       video.CreatedAt,
	}
}
