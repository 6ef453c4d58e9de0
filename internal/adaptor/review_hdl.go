package adaptor

import (
	"net/http"

	"movie-social/internal/dto/request"
	"movie-social/internal/usecase"
	"movie-social/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// AddReview handles POST /api/review/add_review (protected)
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReviewRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, created, err := h.service.CreateOrUpdate(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add review")
		return
	}

	if created {
		utils.ResponseCreated(w, "Review created", review)
		return
	}
	utils.ResponseSuccess(w, "Review updated", review)
}

// GetReviews handles POST /api/review/get_reviews (public)
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	var req request.PaginatedRequest
	if err := decodeJSON(r, &req, true); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	reviews, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetUserPosts handles POST /api/review/get_user_posts (public)
func (h *ReviewHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	var req request.UserPostsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reviews, err := h.service.ListUserPosts(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user posts")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetReview handles GET /api/review/reviews/{id}?userId= (public, optional token)
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	viewerID := r.URL.Query().Get("userId")
	if viewerID == "" {
		if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
			viewerID = userID.String()
		}
	}

	review, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"), viewerID)
	if err != nil {
		handleServiceError(w, h.log, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// ToggleLike handles POST /api/review/like
func (h *ReviewHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	var req request.ToggleLikeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	// uuid.Nil when the request carries no valid token
	callerID, _ := utils.GetUserIDFromContext(r.Context())

	result, err := h.service.ToggleLike(r.Context(), &req, callerID)
	if err != nil {
		handleServiceError(w, h.log, err, "toggle like")
		return
	}

	message := "Review unliked"
	if result.Liked {
		message = "Review liked"
	}
	utils.ResponseSuccess(w, message, result)
}

// UpdateReview handles PUT /api/review/update/{id} (protected)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateReviewRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated", review)
}

// DeleteReview handles DELETE /api/review/delete/{id} (protected)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted", nil)
}
