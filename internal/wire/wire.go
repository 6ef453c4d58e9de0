package wire

import (
	"net/http"

	"movie-social/internal/adaptor"
	"movie-social/internal/data/repository"
	"movie-social/internal/usecase"
	"movie-social/pkg/middleware"
	"movie-social/pkg/storage"
	"movie-social/pkg/token"
	"movie-social/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled HTTP stack
type App struct {
	Router  *chi.Mux
	Metrics *middleware.Metrics
}

// Wiring builds services, handlers and the router from the shared dependencies
func Wiring(
	repo *repository.Repository,
	media storage.MediaStore,
	tokens *token.Service,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, media, tokens, config, logger)
	handler := adaptor.NewHandler(service, config.App.MaxUploadMB<<20, logger)
	metrics := middleware.NewMetrics("movie_social")

	router := setupRouter(handler, media, tokens, metrics, config, logger)

	return &App{
		Router:  router,
		Metrics: metrics,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	media storage.MediaStore,
	tokens middleware.TokenVerifier,
	metrics *middleware.Metrics,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(metrics.Middleware)

	wireAuth(r, handler.Auth)
	wireUser(r, handler.User, tokens, logger)
	wireReview(r, handler.Review, tokens, config, logger)
	wireVideo(r, handler.Video, tokens, logger)

	// local media is served by the API itself; s3 objects are fetched from the bucket
	if local, ok := media.(*storage.LocalStorage); ok {
		r.Handle(storage.LocalURLPrefix+"*", local.Handler())
	}

	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
