package adaptor

import (
	"net/http"

	"movie-social/internal/dto/request"
	"movie-social/internal/usecase"
	"movie-social/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VideoHandler struct {
	service        usecase.VideoService
	maxUploadBytes int64
	log            *zap.Logger
}

func NewVideoHandler(service usecase.VideoService, maxUploadBytes int64, log *zap.Logger) *VideoHandler {
	return &VideoHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		log:            log.With(zap.String("handler", "video")),
	}
}

// Upload handles POST /api/video/upload (multipart fields video, thumbnail, title, tags)
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if !parseMultipart(w, r, h.maxUploadBytes) {
		return
	}

	video, closeVideo, err := formFile(r, "video")
	if err != nil {
		utils.ResponseBadRequest(w, "Both video and thumbnail files are required", nil)
		return
	}
	defer closeVideo()

	thumbnail, closeThumbnail, err := formFile(r, "thumbnail")
	if err != nil {
		utils.ResponseBadRequest(w, "Both video and thumbnail files are required", nil)
		return
	}
	defer closeThumbnail()

	req := request.UploadVideoRequest{
		Title: r.FormValue("title"),
		Tags:  utils.SplitTags(r.FormValue("tags")),
	}

	result, err := h.service.Upload(r.Context(), userID, &req, video, thumbnail)
	if err != nil {
		handleServiceError(w, h.log, err, "upload video")
		return
	}

	utils.ResponseCreated(w, "Video uploaded successfully", result)
}

// Random handles GET /api/video/random
func (h *VideoHandler) Random(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.Random(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "random videos")
		return
	}

	utils.ResponseSuccess(w, "success", videos)
}

// GetVideo handles GET /api/video/{videoId}
func (h *VideoHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.service.GetByID(r.Context(), chi.URLParam(r, "videoId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get video")
		return
	}

	utils.ResponseSuccess(w, "success", video)
}
