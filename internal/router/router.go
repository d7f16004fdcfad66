package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/roamerhq/roamer/internal/api/planner"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	PlannerHandler planner.Handler
}

// SetupRouter wires the chat API routes. Server-wide middleware (logger,
// request ID, recoverer) is applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	// The chat front-end runs on a different origin in development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", cfg.PlannerHandler.StartChatSessionHandler)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", cfg.PlannerHandler.GetChatSessionHandler)
				r.Delete("/", cfg.PlannerHandler.EndChatSessionHandler)
				r.Post("/messages", cfg.PlannerHandler.ContinueChatSessionHandler)
			})
		})
	})

	return r
}
