package users

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/storage"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

const avatarField = "file"

type AvatarHandler struct {
	Store    Store
	Files    storage.FileStore
	MaxBytes int64
}

type UploadResponse struct {
	Success bool                 `json:"success"`
	Files   []storage.StoredFile `json:"files"`
}

// UploadAvatar stores the multipart "file" field and points the target user's
// avatar at it. Admins may pass userId to set someone else's avatar.
func (h *AvatarHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	caller, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes+(1<<20))
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "No files uploaded")
		return
	}

	targetID := caller.ID
	if v := r.FormValue("userId"); v != "" && v != caller.ID {
		if !caller.IsAdmin() {
			utils.WriteError(w, http.StatusForbidden, "Forbidden")
			return
		}
		targetID = v
	}

	file, header, err := r.FormFile(avatarField)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.MaxBytes+1))
	if err != nil {
		utils.RespondError(w, r, err, "Failed to upload files")
		return
	}
	if int64(len(data)) > h.MaxBytes {
		utils.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	if len(data) == 0 || !storage.IsImage(data) {
		utils.WriteError(w, http.StatusBadRequest, "Avatar must be an image")
		return
	}

	target, err := h.Store.FindByID(r.Context(), targetID)
	if errors.Is(err, models.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to upload files")
		return
	}

	saved, err := h.Files.Save(r.Context(), storage.ImageFilename(header.Filename, data), data)
	if errors.Is(err, storage.ErrInvalidFilename) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file upload")
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to upload files")
		return
	}

	if err := h.Store.SetAvatar(r.Context(), target.ID, &saved.Path); err != nil {
		_ = h.Files.Delete(r.Context(), saved.Path)
		utils.RespondError(w, r, err, "Failed to upload files")
		return
	}
	if target.Avatar != nil && *target.Avatar != saved.Path {
		if err := h.Files.Delete(r.Context(), *target.Avatar); err != nil {
			log.Printf("remove previous avatar of %s: %v", target.ID, err)
		}
	}

	utils.WriteJSON(w, http.StatusOK, UploadResponse{Success: true, Files: []storage.StoredFile{saved}})
}

// GetAvatar returns the stored avatar path, or null when the user has none.
func (h *AvatarHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	u, err := h.Store.FindByID(r.Context(), chi.URLParam(r, "userId"))
	if errors.Is(err, models.ErrNotFound) {
		utils.WriteJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		utils.RespondError(w, r, err, "Failed to get avatar")
		return
	}
	utils.WriteJSON(w, http.StatusOK, u.Avatar)
}

func (h *AvatarHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
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
		utils.RespondError(w, r, err, "Failed to delete avatar")
		return
	}

	if u.Avatar != nil {
		if err := h.Files.Delete(r.Context(), *u.Avatar); err != nil {
			utils.RespondError(w, r, err, "Failed to delete avatar")
			return
		}
	}
	if err := h.Store.SetAvatar(r.Context(), id, nil); err != nil {
		utils.RespondError(w, r, err, "Failed to delete avatar")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
