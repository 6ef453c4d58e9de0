package wire

import (
	"movie-social/internal/adaptor"
	"movie-social/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireVideo(
	r chi.Router,
	videoHandler *adaptor.VideoHandler,
	tokens middleware.TokenVerifier,
	log *zap.Logger,
) {
	r.Route("/api/video", func(r chi.Router) {
		r.Use(middleware.AuthJWT(tokens, log))

		r.Post("/upload", videoHandler.Upload)
		r.Get("/random", videoHandler.Random)
		r.Get("/{videoId}", videoHandler.GetVideo)
	})
}
