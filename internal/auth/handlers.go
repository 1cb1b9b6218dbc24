package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/EmpoweredVote/blog-backend/internal/middleware"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
)

type Handler struct {
	Credentials   CredentialStore
	Registrar     Registrar
	Tokens        TokenIssuer
	Authenticator *middleware.Authenticator
}

// LoginHandler exchanges email and password for a bearer token.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, r, err, "Login failed")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, r, err, "Login failed")
		return
	}

	user, err := h.Credentials.FindByCredentials(r.Context(), req.Email, req.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		log.Printf("login rejected: path=%s kind=invalid_credentials", r.URL.Path)
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Login failed")
		return
	}

	h.writeSession(w, r, http.StatusOK, user)
}

// RegisterHandler creates a USER account and logs it in.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, r, err, "Failed to register user")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, r, err, "Failed to register user")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(w, r, err, "Failed to register user")
		return
	}

	user, err := h.Registrar.Create(r.Context(), models.NewUser{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	})
	if err != nil {
		utils.RespondError(w, r, err, "Failed to register user")
		return
	}

	h.writeSession(w, r, http.StatusCreated, user)
}

// MeHandler is public in the route table so anonymous callers get a plain 401
// here rather than from the global gate. It resolves the caller itself.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Authenticator.Resolve(r)
	if err != nil {
		middleware.RejectAuth(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, MeResponse{User: *user})
}

// LogoutHandler has nothing to revoke; tokens are never stored server side.
// The client drops its copy.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	tok, err := h.Tokens.Issue(user.ID)
	if err != nil {
		utils.RespondError(w, r, err, "Failed to issue token")
		return
	}
	utils.WriteJSON(w, status, AuthResponse{User: user.Sanitized(), Token: tok})
}
