package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/http/handler"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/http/middleware"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/logger"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/metrics"
)

// New builds the application router. Read routes are public; routes that
// attach or mutate listings run behind JWT authentication because they need
// a current actor.
func New(h *handler.ListingHandler, jwtSecret string, log *logger.Logger, m *metrics.MetricsManager) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.Logging(log))
	mux.Use(middleware.Metrics(m))

	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/listings", http.StatusFound)
	})
	mux.Get("/listings", h.Index)
	mux.Get("/listings/search", h.Search)
	mux.Get("/listings/{id}", h.Show)

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, log))

		r.Get("/listings/new", h.New)
		r.Post("/listings", h.Create)
		r.Get("/listings/{id}/edit", h.Edit)
		r.Post("/listings/{id}", h.Update)
		r.Post("/listings/{id}/delete", h.Delete)
	})

	return mux
}
