package wire

import (
	"movie-social/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	r.Post("/api/users/register", authHandler.Register)
	r.Post("/api/users/login", authHandler.Login)
}
