package users

import (
	"net/http"

	"github.com/EmpoweredVote/blog-backend/internal/middleware"
	"github.com/EmpoweredVote/blog-backend/internal/storage"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts under /api/users. The global auth gate has already
// attached the caller; admin-only routes add the role check on top.
func SetupRoutes(store Store, files storage.FileStore, maxUploadBytes int64) http.Handler {
	r := chi.NewRouter()
	h := NewHandler(store)
	av := &AvatarHandler{Store: store, Files: files, MaxBytes: maxUploadBytes}

	r.Post("/avatar", av.UploadAvatar)
	r.Get("/avatar/{userId}", av.GetAvatar)
	r.Delete("/avatar/{userId}", av.DeleteAvatar)

	r.Get("/{id}", h.GetUser)
	r.Put("/{id}", h.UpdateUser)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminMiddleware)
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	return r
}
