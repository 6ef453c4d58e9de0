package wire

import (
	"movie-social/internal/adaptor"
	"movie-social/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	tokens middleware.TokenVerifier,
	log *zap.Logger,
) {
	r.Route("/api/users", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/user_list", userHandler.ListUsers)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(tokens, log))

			r.Post("/toggleconnection", userHandler.ToggleConnection)
			r.Put("/updateprofileimage", userHandler.UpdateProfileImage)
			r.Put("/updateuserdata", userHandler.UpdateUserData)
			r.Delete("/deleteUserAndReviews", userHandler.DeleteAccount)
			r.Get("/{id}", userHandler.GetUser)
			r.Get("/{id}/feed", userHandler.GetFeed)
		})
	})
}
