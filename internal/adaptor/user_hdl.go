package adaptor

import (
	"errors"
	"net/http"

	"movie-social/internal/dto/request"
	"movie-social/internal/usecase"
	"movie-social/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartMemory is how much of a multipart body is buffered in memory before spilling to disk.
const multipartMemory = 8 << 20

type UserHandler struct {
	service        usecase.UserService
	maxUploadBytes int64
	log            *zap.Logger
}

func NewUserHandler(service usecase.UserService, maxUploadBytes int64, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		log:            log.With(zap.String("handler", "user")),
	}
}

// ListUsers handles GET /api/users/user_list
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", user)
}

// GetFeed handles GET /api/users/{id}/feed
func (h *UserHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("limit"), usecase.DefaultFeedLimit),
	}

	feed, err := h.service.GetFeed(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get feed")
		return
	}

	utils.ResponseSuccess(w, "Feed retrieved successfully", feed)
}

// ToggleConnection handles POST /api/users/toggleconnection
func (h *UserHandler) ToggleConnection(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ToggleConnectionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.ToggleConnection(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "toggle connection")
		return
	}

	message := "Disconnected"
	if result.Connected {
		message = "Connected"
	}
	utils.ResponseSuccess(w, message, result)
}

// UpdateUserData handles PUT /api/users/updateuserdata
func (h *UserHandler) UpdateUserData(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateUserRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateDetails(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "User updated successfully", user)
}

// UpdateProfileImage handles PUT /api/users/updateprofileimage (multipart field "profileImage")
func (h *UserHandler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if !parseMultipart(w, r, h.maxUploadBytes) {
		return
	}

	upload, closeFile, err := formFile(r, "profileImage")
	if err != nil {
		utils.ResponseBadRequest(w, "No file uploaded", nil)
		return
	}
	defer closeFile()

	result, err := h.service.UpdateProfileImage(r.Context(), userID, upload)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile image")
		return
	}

	utils.ResponseSuccess(w, "Profile image updated", result)
}

// DeleteAccount handles DELETE /api/users/deleteUserAndReviews
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		handleServiceError(w, h.log, err, "delete account")
		return
	}

	utils.ResponseSuccess(w, "User and reviews deleted", nil)
}

// parseMultipart caps the body at maxBytes and parses the form. It writes the
// error response itself and reports whether the handler should continue.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) bool {
	if maxBytes > 0 {
		if r.ContentLength > maxBytes {
			utils.ResponseTooLarge(w, "Upload exceeds size limit")
			return false
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseTooLarge(w, "Upload exceeds size limit")
			return false
		}
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return false
	}
	return true
}

// formFile opens the named part. The returned func closes it.
func formFile(r *http.Request, field string) (*request.FileUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, func() {}, err
	}

	upload := &request.FileUpload{
		File:     file,
		Size:     header.Size,
		Filename: header.Filename,
	}
	return upload, func() { file.Close() }, nil
}
