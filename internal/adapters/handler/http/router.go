package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, profileHandler *ProfileHandler, authHandler *AuthHandler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(allowedOrigins))

	r.Handle("/metrics", promhttp.Handler())

	if authHandler != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/google/callback", authHandler.GoogleCallback)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.ListPolls)
			r.With(optionalAuth).Post("/", pollHandler.CreatePoll)
			r.Get("/{id}", pollHandler.GetPoll)
			r.With(requireAuth).Delete("/{id}", pollHandler.DeactivatePoll)
			r.With(optionalAuth).Post("/{id}/vote", voteHandler.SubmitVote)
		})

		if profileHandler != nil {
			r.Route("/users/me", func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", profileHandler.GetMe)
				r.Put("/profile", profileHandler.UpdateProfile)
			})
		}
	})

	return r
}
