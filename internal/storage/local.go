package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore writes files under Dir and exposes them at URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
	now       func() time.Time
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: "/uploads", now: time.Now}
}

func (s *LocalStore) Save(ctx context.Context, filename string, data []byte) (StoredFile, error) {
	name, err := storedName(filename, s.now())
	if err != nil {
		return StoredFile{}, err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return StoredFile{}, fmt.Errorf("write upload: %w", err)
	}

	return StoredFile{
		Filename: filename,
		Path:     path.Join(s.URLPrefix, name),
		MimeType: DetectMIME(data),
		Size:     len(data),
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, p string) error {
	prefix := strings.TrimSuffix(s.URLPrefix, "/") + "/"
	if !strings.HasPrefix(p, prefix) {
		return nil
	}
	name := strings.TrimPrefix(p, prefix)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil
	}

	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
