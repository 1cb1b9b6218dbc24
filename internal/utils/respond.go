package utils

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/EmpoweredVote/blog-backend/internal/models"
)

// ErrorResponse is the envelope every failed request is answered with.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{StatusCode: status, Message: message})
}

// DecodeJSON reads a JSON request body into dst. An empty body is reported as such.
func DecodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MiB
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return &ValidationError{Message: "Request body is required"}
	}
	if err != nil {
		return &ValidationError{Message: "Invalid request body"}
	}
	return nil
}

// RespondError maps a handler error onto the envelope. Unknown errors are
// logged and answered with 500 and fallback.
func RespondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrConflict):
		WriteError(w, http.StatusBadRequest, "Email or username already in use")
	case errors.Is(err, models.ErrAuthorNotFound):
		WriteError(w, http.StatusBadRequest, "Author not found")
	case errors.Is(err, models.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		WriteError(w, http.StatusInternalServerError, fallback)
	}
}
