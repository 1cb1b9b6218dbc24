// Package memstore keeps users and posts in process memory. It backs
// STORE_BACKEND=memory and the handler tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/google/uuid"
)

type userRow struct {
	models.User
	seq int
}

type postRow struct {
	models.Post
	seq int
}

// DB holds both tables behind one lock, so a user delete and its post
// cascade happen together.
type DB struct {
	mu     sync.RWMutex
	users  map[string]*userRow
	posts  map[int]*postRow
	nextID int
	seq    int
	now    func() time.Time
}

func New() *DB {
	return &DB{
		users:  make(map[string]*userRow),
		posts:  make(map[int]*postRow),
		nextID: 1,
		now:    time.Now,
	}
}

func (d *DB) Users() *UserStore { return &UserStore{db: d} }
func (d *DB) Posts() *PostStore { return &PostStore{db: d} }

func (d *DB) nextSeq() int {
	d.seq++
	return d.seq
}

// UserStore satisfies users.Store and the auth credential contract.
type UserStore struct {
	db *DB
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rows := make([]*userRow, 0, len(s.db.users))
	for _, u := range s.db.users {
		rows = append(rows, u)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]models.User, len(rows))
	for i, r := range rows {
		out[i] = r.User
	}
	return out, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	row, ok := s.db.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u := row.User
	return &u, nil
}

func (s *UserStore) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	s.db.mu.RLock()
	row := s.db.byEmail(utils.Normalize(email))
	var u models.User
	if row != nil {
		u = row.User
	}
	s.db.mu.RUnlock()

	if row == nil {
		utils.CheckPassword("", password)
		return nil, models.ErrInvalidCredentials
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, models.ErrInvalidCredentials
	}
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.createUser(in)
}

func (s *UserStore) UpsertByEmail(ctx context.Context, in models.NewUser) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if row := s.db.byEmail(utils.Normalize(in.Email)); row != nil {
		u := row.User
		return &u, nil
	}
	return s.db.createUser(in)
}

func (s *UserStore) Update(ctx context.Context, id string, ch models.UserChanges) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	email, username := utils.Normalize(ch.Email), utils.Normalize(ch.Username)
	if s.db.taken(id, email, username) {
		return nil, models.ErrConflict
	}

	row.Email = email
	row.Username = username
	if ch.Role != "" {
		row.Role = ch.Role
	}
	if ch.PasswordHash != nil {
		row.Password = *ch.PasswordHash
	}
	row.UpdatedAt = s.db.now()

	u := row.User
	return &u, nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[id]; !ok {
		return models.ErrNotFound
	}
	for pid, p := range s.db.posts {
		if p.AuthorID == id {
			delete(s.db.posts, pid)
		}
	}
	delete(s.db.users, id)
	return nil
}

func (s *UserStore) SetAvatar(ctx context.Context, id string, path *string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.users[id]
	if !ok {
		return models.ErrNotFound
	}
	if path == nil {
		row.Avatar = nil
	} else {
		p := *path
		row.Avatar = &p
	}
	row.UpdatedAt = s.db.now()
	return nil
}

// createUser expects d.mu to be held for writing.
func (d *DB) createUser(in models.NewUser) (*models.User, error) {
	email, username := utils.Normalize(in.Email), utils.Normalize(in.Username)
	if d.taken("", email, username) {
		return nil, models.ErrConflict
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	now := d.now()
	row := &userRow{
		User: models.User{
			ID:        uuid.NewString(),
			Email:     email,
			Username:  username,
			Password:  in.PasswordHash,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: d.nextSeq(),
	}
	d.users[row.ID] = row
	u := row.User
	return &u, nil
}

func (d *DB) byEmail(email string) *userRow {
	for _, u := range d.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (d *DB) taken(exceptID, email, username string) bool {
	for id, u := range d.users {
		if id == exceptID {
			continue
		}
		if u.Email == email || u.Username == username {
			return true
		}
	}
	return false
}
