package auth

import (
	"net/http"

	"github.com/EmpoweredVote/blog-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts under /api/auth. Login and register share one per-IP limiter.
func SetupRoutes(h *Handler, loginPerMinute, loginBurst int) http.Handler {
	r := chi.NewRouter()
	limiter := middleware.RateLimit(loginPerMinute, loginBurst)

	r.With(limiter).Post("/login", h.LoginHandler)
	r.With(limiter).Post("/register", h.RegisterHandler)
	r.Get("/me", h.MeHandler)
	r.Post("/logout", h.LogoutHandler)

	return r
}
