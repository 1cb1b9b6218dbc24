package posts

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

type CreatePostRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=255"`
	Content   string `json:"content" validate:"required,min=10"`
	Published bool   `json:"published"`
	// AuthorID defaults to the caller.
	AuthorID string `json:"authorId" validate:"omitempty,uuid"`
}

type UpdatePostRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=255"`
	Content   string `json:"content" validate:"required,min=10"`
	Published bool   `json:"published"`
}

type PublishedResponse struct {
	Posts      []models.Post     `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		utils.RespondError(w, r, err, "Failed to fetch posts")
		return
	}
	if list == nil {
		list = []models.Post{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// ListPublished serves ?page=&limit= with defaults 1 and 8. Non-numeric or
// non-positive values fall back to the defaults; limit is capped at MaxLimit.
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page := positiveInt(r.URL.Query().Get("page"), DefaultPage)
	limit := min(positiveInt(r.URL.Query().Get("limit"), DefaultLimit), MaxLimit)
	if page > MaxPage {
		utils.WriteError(w, http.StatusBadRequest, "Invalid page")
		return
	}

	list, total, err := h.Store.ListPublished(r.Context(), page, limit)
	if err != nil {
		utils.RespondError(w, r, err, "Failed to fetch published posts")
		return
	}
	if list == nil {
		list = []models.Post{}
	}
	utils.WriteJSON(w, http.StatusOK, PublishedResponse{
		Posts:      list,
		Pagination: models.NewPagination(page, limit, total),
	})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	p, err := h.Store.FindByID(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to fetch post")
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreatePostRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, r, err, "Failed to create post")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, r, err, "Failed to create post")
		return
	}

	if req.AuthorID == "" {
		req.AuthorID = caller.ID
	}
	if req.AuthorID != caller.ID && !caller.IsAdmin() {
		utils.WriteError(w, http.StatusForbidden, "Only admins can post on behalf of another user")
		return
	}

	p, err := h.Store.Create(r.Context(), models.NewPost{
		Title:     req.Title,
		Content:   &req.Content,
		Published: req.Published,
		AuthorID:  req.AuthorID,
	})
	if err != nil {
		utils.RespondError(w, r, err, "Failed to create post")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, r, err, "Failed to update post")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, r, err, "Failed to update post")
		return
	}

	if !h.authorize(w, r, id) {
		return
	}

	p, err := h.Store.Update(r.Context(), id, models.PostChanges{
		Title:     req.Title,
		Content:   &req.Content,
		Published: req.Published,
	})
	if errors.Is(err, models.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to update post")
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, id) {
		return
	}

	err := h.Store.Delete(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to delete post")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

// authorize lets the post's author or an admin modify it. It writes the
// error response itself and reports whether the handler may continue.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, id int) bool {
	caller, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}

	p, err := h.Store.FindByID(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Post not found")
		return false
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to fetch post")
		return false
	}

	if p.AuthorID != caller.ID && !caller.IsAdmin() {
		utils.WriteError(w, http.StatusForbidden, "Forbidden")
		return false
	}
	return true
}

func postID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid post ID")
		return 0, false
	}
	return id, true
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
