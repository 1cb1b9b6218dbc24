package posts

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts under /api/posts. Reads are public; writes rely on the
// identity attached by the global auth gate.
func SetupRoutes(store Store) http.Handler {
	r := chi.NewRouter()
	h := NewHandler(store)

	r.Get("/", h.ListPosts)
	r.Get("/published", h.ListPublished)
	r.Get("/{id}", h.GetPost)

	r.Post("/", h.CreatePost)
	r.Put("/{id}", h.UpdatePost)
	r.Delete("/{id}", h.DeletePost)

	return r
}
