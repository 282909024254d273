package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/service"
)

// NewRouter builds the HTTP handler. Trailing slashes are optional on
// every route.
func NewRouter(svc *service.Service, cfg config.ServerConfig) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(echoRequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(corsHandler(cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, r.Method+" is not allowed here")
	})

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(cfg))
		r.Use(prometheusMetrics)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", h.ListHabits)
			r.Post("/", h.CreateHabit)
			r.Get("/{id}", h.GetHabit)
			r.Put("/{id}", h.UpdateHabit)
			r.Patch("/{id}", h.PatchHabit)
			r.Delete("/{id}", h.DeleteHabit)
		})

		r.Route("/checkins", func(r chi.Router) {
			r.Get("/", h.ListCheckIns)
			r.Post("/", h.CreateCheckIn)
			r.Get("/{id}", h.GetCheckIn)
			r.Delete("/{id}", h.DeleteCheckIn)
		})

		r.Get("/heatmap", h.Heatmap)
		r.Get("/stats", h.Stats)
	})

	return r
}
