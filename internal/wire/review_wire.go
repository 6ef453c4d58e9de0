package wire

import (
	"movie-social/internal/adaptor"
	"movie-social/pkg/middleware"
	"movie-social/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	tokens middleware.TokenVerifier,
	config *utils.Config,
	log *zap.Logger,
) {
	optionalAuth := middleware.OptionalAuthJWT(tokens, log)

	likeAuth := optionalAuth
	if config.Security.LikeRequiresAuth {
		likeAuth = middleware.AuthJWT(tokens, log)
	}

	r.Route("/api/review", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/get_reviews", reviewHandler.GetReviews)
		r.Post("/get_user_posts", reviewHandler.GetUserPosts)
		r.With(optionalAuth).Get("/reviews/{id}", reviewHandler.GetReview)
		r.With(likeAuth).Post("/like", reviewHandler.ToggleLike)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(tokens, log))

			r.Post("/add_review", reviewHandler.AddReview)
			r.Put("/update/{id}", reviewHandler.UpdateReview)
			r.Delete("/delete/{id}", reviewHandler.DeleteReview)
		})
	})
}
