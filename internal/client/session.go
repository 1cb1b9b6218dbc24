package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/EmpoweredVote/blog-backend/internal/models"
)

// Session is the client's credential state. Set and Clear are the only
// transitions; when the session was loaded from a file both persist to it.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
	path  string
}

type sessionFile struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewSession() *Session {
	return &Session{}
}

// LoadSession reads a session saved at path. A missing file yields an empty
// session that will be written there on the next Set.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	s.token, s.user = f.Token, f.User
	return s, nil
}

func (s *Session) Set(token string, user *models.User) {
	s.mu.Lock()
	s.token = token
	if user != nil {
		u := user.Sanitized()
		s.user = &u
	} else {
		s.user = nil
	}
	s.mu.Unlock()
	s.persist()
}

func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.persist()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated is true once the server has confirmed who the token belongs to.
// A token on its own does not count.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin()
}

// Save writes the session to its file. It is a no-op for in-memory sessions.
func (s *Session) Save() error {
	s.mu.RLock()
	path := s.path
	f := sessionFile{Token: s.token, User: s.user}
	s.mu.RUnlock()
	if path == "" {
		return nil
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Session) persist() {
	if err := s.Save(); err != nil {
		log.Printf("session not saved: %v", err)
	}
}
