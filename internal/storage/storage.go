// Package storage persists uploaded avatar files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var ErrInvalidFilename = errors.New("invalid file upload")

// StoredFile describes one saved upload. Path is what gets stored on the user record.
type StoredFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	MimeType string `json:"mimetype"`
	Size     int    `json:"size"`
}

type FileStore interface {
	Save(ctx context.Context, filename string, data []byte) (StoredFile, error)
	// Delete removes a file previously returned by Save. Unknown paths are ignored.
	Delete(ctx context.Context, path string) error
}

// DetectMIME sniffs the content type from the file bytes rather than trusting the client.
func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}

// avatarTypes are the raster formats accepted as avatars. SVG is left out
// because uploads are served from the API origin.
var avatarTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// IsImage reports whether data sniffs as one of the accepted raster formats.
func IsImage(data []byte) bool {
	m := mimetype.Detect(data)
	for _, t := range avatarTypes {
		if m.Is(t) {
			return true
		}
	}
	return false
}

// ImageFilename replaces the extension of name with the one matching the
// sniffed content, so the stored file is served with its real type.
func ImageFilename(name string, data []byte) string {
	ext := mimetype.Detect(data).Extension()
	if ext == "" {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// storedName builds "<unix millis>-<sanitized original name>".
func storedName(original string, now time.Time) (string, error) {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.TrimLeft(base, ".")
	if base == "" || base == "_" {
		return "", ErrInvalidFilename
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base), nil
}
