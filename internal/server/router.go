package server

import (
	"context"
	"net/http"

	"github.com/EmpoweredVote/blog-backend/internal/access"
	"github.com/EmpoweredVote/blog-backend/internal/auth"
	"github.com/EmpoweredVote/blog-backend/internal/middleware"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/posts"
	"github.com/EmpoweredVote/blog-backend/internal/storage"
	"github.com/EmpoweredVote/blog-backend/internal/token"
	"github.com/EmpoweredVote/blog-backend/internal/users"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// UserStore is what both the users endpoints and the auth core need.
type UserStore interface {
	users.Store
	FindByCredentials(ctx context.Context, email, password string) (*models.User, error)
	UpsertByEmail(ctx context.Context, in models.NewUser) (*models.User, error)
}

type Deps struct {
	Users      UserStore
	Posts      posts.Store
	Files      storage.FileStore
	Codec      *token.Codec
	Classifier *access.Classifier

	AllowedOrigins []string
	// UploadDir is served at /uploads when set.
	UploadDir      string
	MaxUploadBytes int64

	LoginRatePerMinute int
	LoginBurst         int
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For/X-Real-IP. Only
	// enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

func RootHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "Server is up!"})
}

// NewRouter assembles the full HTTP surface. The auth gate runs globally;
// public routes pass straight through it.
func NewRouter(d Deps) http.Handler {
	if d.Classifier == nil {
		d.Classifier = access.Default()
	}
	authn := &middleware.Authenticator{
		Classifier: d.Classifier,
		Decoder:    d.Codec,
		Fetcher:    d.Users,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if d.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(d.AllowedOrigins))
	r.Use(authn.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", RootHandler)

	authHandler := &auth.Handler{
		Credentials:   d.Users,
		Registrar:     d.Users,
		Tokens:        d.Codec,
		Authenticator: authn,
	}
	r.Mount("/api/auth", auth.SetupRoutes(authHandler, d.LoginRatePerMinute, d.LoginBurst))
	r.Mount("/api/users", users.SetupRoutes(d.Users, d.Files, d.MaxUploadBytes))
	r.Mount("/api/posts", posts.SetupRoutes(d.Posts))

	if d.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir))))
	}

	return r
}
