package users

import (
	"errors"
	"net/http"

	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

type CreateUserRequest struct {
	Username string      `json:"username" validate:"required,min=3,max=50,username"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Password string      `json:"password" validate:"required,min=6,max=32"`
	Role     models.Role `json:"role" validate:"required,oneof=ADMIN USER"`
}

type UpdateUserRequest struct {
	Username string      `json:"username" validate:"required,min=3,max=50,username"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Password string      `json:"password" validate:"omitempty,min=6,max=32"`
	Role     models.Role `json:"role" validate:"required,oneof=ADMIN USER"`
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// ListUsers returns every user, newest first.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		utils.RespondError(w, r, err, "Failed to get users")
		return
	}
	out := make([]models.User, len(list))
	for i, u := range list {
		out[i] = u.Sanitized()
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, r, err, "Failed to create user")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, r, err, "Failed to create user")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(w, r, err, "Failed to create user")
		return
	}

	u, err := h.Store.Create(r.Context(), models.NewUser{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         req.Role,
	})
	if err != nil {
		utils.RespondError(w, r, err, "Failed to create user")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, u.Sanitized())
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !canActOn(r, id) {
		utils.WriteError(w, http.StatusForbidden, "Forbidden")
		return
	}

	u, err := h.Store.FindByID(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to get user")
		return
	}
	utils.WriteJSON(w, http.StatusOK, u.Sanitized())
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller, _ := utils.GetUserFromContext(r.Context())
	if !canActOn(r, id) {
		utils.WriteError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req UpdateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, r, err, "Failed to update user")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, r, err, "Failed to update user")
		return
	}
	if !caller.IsAdmin() && req.Role != caller.Role {
		utils.WriteError(w, http.StatusForbidden, "Only admins can change roles")
		return
	}

	ch := models.UserChanges{Email: req.Email, Username: req.Username, Role: req.Role}
	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			utils.RespondError(w, r, err, "Failed to update user")
			return
		}
		ch.PasswordHash = &hashed
	}

	u, err := h.Store.Update(r.Context(), id, ch)
	if errors.Is(err, models.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to update user")
		return
	}
	utils.WriteJSON(w, http.StatusOK, u.Sanitized())
}

// DeleteUser removes the user together with all of their posts.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.Store.Delete(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to delete user")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// canActOn allows admins on any user and everyone else on themselves.
func canActOn(r *http.Request, id string) bool {
	caller, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return caller.IsAdmin() || caller.ID == id
}
